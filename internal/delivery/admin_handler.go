package delivery

import (
	"net/http"

	"electromart/internal/domain"
	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	users    usecase.UserUseCase
	orders   usecase.OrderUseCase
	reports  usecase.ReportUseCase
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewAdminHandler(users usecase.UserUseCase, orders usecase.OrderUseCase, reports usecase.ReportUseCase, sessions *SessionManager, render *Renderer, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{users: users, orders: orders, reports: reports, sessions: sessions, render: render, log: log}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	user := UserFromContext(c)

	stats, err := h.reports.AdminStats(user)
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	pending, err := h.users.ListPendingSellers(user)
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	h.render.HTML(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title":          "Admin dashboard",
		"Stats":          stats,
		"PendingSellers": pending,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(UserFromContext(c))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	h.render.HTML(c, http.StatusOK, "admin_users.html", gin.H{
		"Title": "Users",
		"Users": users,
	})
}

func (h *AdminHandler) ApproveSeller(c *gin.Context) {
	seller, err := h.users.ApproveSeller(UserFromContext(c), c.Param("id"))
	if err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	} else {
		h.sessions.Flash(c, "success", "Seller "+seller.Username+" approved.")
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(UserFromContext(c))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	h.render.HTML(c, http.StatusOK, "admin_orders.html", gin.H{
		"Title":    "All orders",
		"Orders":   orders,
		"Statuses": []domain.OrderStatus{domain.StatusPaid, domain.StatusSellerApproved, domain.StatusCompleted, domain.StatusCancelled},
	})
}

// SetOrderStatus lets an admin drive any edge of the status graph on a stuck
// order. The graph itself still applies; an admin cannot invent transitions.
func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	target := domain.OrderStatus(c.PostForm("status"))
	if _, err := h.orders.Transition(UserFromContext(c), c.Param("id"), target); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	} else {
		h.sessions.Flash(c, "success", "Order status updated.")
	}
	c.Redirect(http.StatusSeeOther, "/admin/orders")
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteCancelledOrder(UserFromContext(c), c.Param("id")); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	} else {
		h.sessions.Flash(c, "success", "Order deleted.")
	}
	c.Redirect(http.StatusSeeOther, "/admin/orders")
}
