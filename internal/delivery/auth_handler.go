package delivery

import (
	"net/http"

	"electromart/internal/domain"
	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users    usecase.UserUseCase
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewAuthHandler(users usecase.UserUseCase, sessions *SessionManager, render *Renderer, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, render: render, log: log}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if UserFromContext(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(email, password)
	if err != nil {
		h.sessions.Flash(c, "error", "Invalid email or password.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if err := h.sessions.SignIn(c, user.ID); err != nil {
		h.log.Errorf("Handler: failed to save session for user %s: %v", user.ID, err)
		h.sessions.Flash(c, "error", "Could not sign you in. Please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	h.sessions.Flash(c, "success", "Welcome back, "+user.Username+"!")
	switch user.Role {
	case domain.RoleAdmin:
		c.Redirect(http.StatusSeeOther, "/admin")
	case domain.RoleSeller:
		c.Redirect(http.StatusSeeOther, "/seller")
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	if UserFromContext(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "register.html", gin.H{"Title": "Create account"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	role := domain.Role(c.DefaultPostForm("role", string(domain.RoleBuyer)))

	user, err := h.users.Register(
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
		role,
	)
	if err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	if err := h.sessions.SignIn(c, user.ID); err != nil {
		h.log.Errorf("Handler: failed to save session for new user %s: %v", user.ID, err)
	}
	if user.Role == domain.RoleSeller {
		h.sessions.Flash(c, "info", "Account created. An admin has to approve you before you can list products.")
		c.Redirect(http.StatusSeeOther, "/seller")
		return
	}
	h.sessions.Flash(c, "success", "Account created. Happy shopping!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c); err != nil {
		h.log.Warnf("Handler: failed to clear session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
