package delivery

import (
	"net/http"
	"strconv"

	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	cart     usecase.CartUseCase
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewCartHandler(cart usecase.CartUseCase, sessions *SessionManager, render *Renderer, log *logrus.Logger) *CartHandler {
	return &CartHandler{cart: cart, sessions: sessions, render: render, log: log}
}

func (h *CartHandler) ViewCart(c *gin.Context) {
	view, err := h.cart.ViewCart(UserFromContext(c))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	h.render.HTML(c, http.StatusOK, "cart.html", gin.H{
		"Title": "Your cart",
		"Cart":  view,
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	productID := c.PostForm("product_id")
	qty, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil {
		h.sessions.Flash(c, "error", "Quantity must be a number.")
		c.Redirect(http.StatusSeeOther, "/products/"+productID)
		return
	}

	if _, err := h.cart.AddItem(UserFromContext(c), productID, qty); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/products/"+productID)
		return
	}

	h.sessions.Flash(c, "success", "Added to cart.")
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID := c.PostForm("product_id")
	qty, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		h.sessions.Flash(c, "error", "Quantity must be a number.")
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	if err := h.cart.UpdateQuantity(UserFromContext(c), productID, qty); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.cart.RemoveItem(UserFromContext(c), c.PostForm("product_id")); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(UserFromContext(c)); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}
