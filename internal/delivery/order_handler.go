package delivery

import (
	"net/http"

	"electromart/internal/domain"
	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	orders   usecase.OrderUseCase
	comments usecase.CommentUseCase
	cart     usecase.CartUseCase
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewOrderHandler(orders usecase.OrderUseCase, comments usecase.CommentUseCase, cart usecase.CartUseCase, sessions *SessionManager, render *Renderer, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, comments: comments, cart: cart, sessions: sessions, render: render, log: log}
}

func (h *OrderHandler) CheckoutForm(c *gin.Context) {
	view, err := h.cart.ViewCart(UserFromContext(c))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	if len(view.Lines) == 0 {
		h.sessions.Flash(c, "info", "Your cart is empty.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "checkout.html", gin.H{
		"Title": "Checkout",
		"Cart":  view,
	})
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	input := usecase.CheckoutInput{
		BillingName:    c.PostForm("billing_name"),
		BillingAddress: c.PostForm("billing_address"),
		PaymentMethod:  c.PostForm("payment_method"),
		PaymentNumber:  c.PostForm("payment_number"),
	}

	order, err := h.orders.Checkout(UserFromContext(c), input)
	if err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/checkout")
		return
	}

	h.sessions.Flash(c, "success", "Order placed. You can pay for it below.")
	c.Redirect(http.StatusSeeOther, "/orders/"+order.ID)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListOrdersForBuyer(UserFromContext(c))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	h.render.HTML(c, http.StatusOK, "orders.html", gin.H{
		"Title":  "Your orders",
		"Orders": orders,
	})
}

// OrderDetail shows one order with its message thread and the actions the
// current viewer may take on it.
func (h *OrderHandler) OrderDetail(c *gin.Context) {
	user := UserFromContext(c)
	order, err := h.orders.GetOrder(user, c.Param("id"))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	comments, err := h.comments.ListComments(user, order.ID)
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	h.render.HTML(c, http.StatusOK, "order_detail.html", gin.H{
		"Title":      "Order " + order.ID,
		"Order":      order,
		"Comments":   comments,
		"CanPay":     domain.CanTransitionOrder(user, order, domain.StatusPaid),
		"CanApprove": domain.CanTransitionOrder(user, order, domain.StatusSellerApproved),
		"CanConfirm": domain.CanTransitionOrder(user, order, domain.StatusCompleted),
		"CanCancel":  domain.CanTransitionOrder(user, order, domain.StatusCancelled),
	})
}

func (h *OrderHandler) Pay(c *gin.Context) {
	h.transition(c, domain.StatusPaid, "Payment received. The seller will review your order.")
}

func (h *OrderHandler) Approve(c *gin.Context) {
	h.transition(c, domain.StatusSellerApproved, "Order approved for fulfilment.")
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, domain.StatusCompleted, "Delivery confirmed. Thank you!")
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, domain.StatusCancelled, "Order cancelled.")
}

func (h *OrderHandler) transition(c *gin.Context, target domain.OrderStatus, successMsg string) {
	orderID := c.Param("id")
	if _, err := h.orders.Transition(UserFromContext(c), orderID, target); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	} else {
		h.sessions.Flash(c, "success", successMsg)
	}
	c.Redirect(http.StatusSeeOther, "/orders/"+orderID)
}

func (h *OrderHandler) PostComment(c *gin.Context) {
	orderID := c.Param("id")
	if _, err := h.comments.PostComment(UserFromContext(c), orderID, c.PostForm("message")); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	}
	c.Redirect(http.StatusSeeOther, "/orders/"+orderID)
}
