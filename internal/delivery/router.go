package delivery

import (
	"electromart/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Cart      *CartHandler
	Orders    *OrderHandler
	Seller    *SellerHandler
	Admin     *AdminHandler
	Sessions  *SessionManager
	Users     domain.UserRepository
	UploadDir string
	Log       *logrus.Logger
}

// NewRouter assembles the gin engine. CSRF protection wraps the returned
// engine in main, because gorilla/csrf is a net/http middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Log))
	r.Use(CurrentUser(deps.Sessions, deps.Users, deps.Log))

	r.Static("/static", "./static")
	r.Static("/uploads", deps.UploadDir)

	// Public
	r.GET("/", deps.Catalog.Storefront)
	r.GET("/products/:id", deps.Catalog.ProductDetail)
	r.GET("/login", deps.Auth.LoginForm)
	r.POST("/login", deps.Auth.Login)
	r.GET("/register", deps.Auth.RegisterForm)
	r.POST("/register", deps.Auth.Register)
	r.POST("/logout", deps.Auth.Logout)

	// Buyer
	buyer := r.Group("/", RequireRole(deps.Sessions, domain.RoleBuyer))
	buyer.GET("/cart", deps.Cart.ViewCart)
	buyer.POST("/cart/add", deps.Cart.AddItem)
	buyer.POST("/cart/update", deps.Cart.UpdateQuantity)
	buyer.POST("/cart/remove", deps.Cart.RemoveItem)
	buyer.POST("/cart/clear", deps.Cart.Clear)
	buyer.GET("/checkout", deps.Orders.CheckoutForm)
	buyer.POST("/checkout", deps.Orders.Checkout)
	buyer.GET("/orders", deps.Orders.ListMyOrders)

	// Any signed-in party to an order; the use case decides who may act.
	authed := r.Group("/", RequireAuth(deps.Sessions))
	authed.GET("/orders/:id", deps.Orders.OrderDetail)
	authed.POST("/orders/:id/pay", deps.Orders.Pay)
	authed.POST("/orders/:id/approve", deps.Orders.Approve)
	authed.POST("/orders/:id/confirm", deps.Orders.Confirm)
	authed.POST("/orders/:id/cancel", deps.Orders.Cancel)
	authed.POST("/orders/:id/comments", deps.Orders.PostComment)

	// Seller
	seller := r.Group("/seller", RequireRole(deps.Sessions, domain.RoleSeller))
	seller.GET("", deps.Seller.Dashboard)
	seller.GET("/products/new", deps.Seller.NewProductForm)
	seller.POST("/products", deps.Seller.CreateProduct)
	seller.GET("/products/:id/edit", deps.Seller.EditProductForm)
	seller.POST("/products/:id", deps.Seller.UpdateProduct)
	seller.POST("/products/:id/active", deps.Seller.SetProductActive)

	// Admin
	admin := r.Group("/admin", RequireRole(deps.Sessions, domain.RoleAdmin))
	admin.GET("", deps.Admin.Dashboard)
	admin.GET("/users", deps.Admin.ListUsers)
	admin.POST("/sellers/:id/approve", deps.Admin.ApproveSeller)
	admin.GET("/orders", deps.Admin.ListOrders)
	admin.POST("/orders/:id/status", deps.Admin.SetOrderStatus)
	admin.POST("/orders/:id/delete", deps.Admin.DeleteOrder)

	return r
}
