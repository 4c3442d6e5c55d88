package delivery

import (
	"net/http"

	"electromart/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CurrentUser resolves the session's user once per request and stashes it in
// the gin context. A stale session (deleted user) is silently signed out.
func CurrentUser(sessions *SessionManager, users domain.UserRepository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessions.UserID(c); ok {
			user, err := users.GetUserByID(id)
			if err != nil {
				log.Warnf("Middleware: session refers to unknown user %s, signing out", id)
				_ = sessions.SignOut(c)
			} else {
				c.Set(contextUserKey, user)
			}
		}
		c.Next()
	}
}

// UserFromContext returns the signed-in user, or nil for guests.
func UserFromContext(c *gin.Context) *domain.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// RequireAuth redirects guests to the login page.
func RequireAuth(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFromContext(c) == nil {
			sessions.Flash(c, "error", "Please sign in first.")
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates a route to one role. It implies RequireAuth.
func RequireRole(sessions *SessionManager, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFromContext(c)
		if user == nil {
			sessions.Flash(c, "error", "Please sign in first.")
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if user.Role != role {
			sessions.Flash(c, "error", "You do not have access to that page.")
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request the same way the rest of the app logs,
// through logrus rather than gin's default writer.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Infof("HTTP: %s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
