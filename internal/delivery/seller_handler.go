package delivery

import (
	"net/http"
	"strconv"

	"electromart/internal/domain"
	"electromart/internal/upload"
	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SellerHandler struct {
	catalog  usecase.CatalogUseCase
	orders   usecase.OrderUseCase
	reports  usecase.ReportUseCase
	uploads  *upload.Store
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewSellerHandler(catalog usecase.CatalogUseCase, orders usecase.OrderUseCase, reports usecase.ReportUseCase, uploads *upload.Store, sessions *SessionManager, render *Renderer, log *logrus.Logger) *SellerHandler {
	return &SellerHandler{
		catalog:  catalog,
		orders:   orders,
		reports:  reports,
		uploads:  uploads,
		sessions: sessions,
		render:   render,
		log:      log,
	}
}

func (h *SellerHandler) Dashboard(c *gin.Context) {
	user := UserFromContext(c)

	stats, err := h.reports.SellerStats(user)
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	products, err := h.catalog.ListProducts(domain.ProductFilter{SellerID: user.ID})
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	orders, err := h.orders.ListOrdersForSeller(user)
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	h.render.HTML(c, http.StatusOK, "seller_dashboard.html", gin.H{
		"Title":    "Seller dashboard",
		"Stats":    stats,
		"Products": products,
		"Orders":   orders,
		"Approved": user.Approved,
	})
}

func (h *SellerHandler) NewProductForm(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "product_form.html", gin.H{
		"Title":      "New product",
		"Categories": domain.Categories,
	})
}

func (h *SellerHandler) CreateProduct(c *gin.Context) {
	input, ok := h.productInputFromForm(c, "/seller/products/new")
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(UserFromContext(c), input)
	if err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/seller/products/new")
		return
	}

	h.sessions.Flash(c, "success", "Product "+product.Name+" listed.")
	c.Redirect(http.StatusSeeOther, "/seller")
}

func (h *SellerHandler) EditProductForm(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("id"))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}
	if !domain.CanManageProduct(UserFromContext(c), product) {
		h.render.HTML(c, http.StatusForbidden, "error.html", gin.H{"Message": "You may only edit your own products."})
		return
	}

	h.render.HTML(c, http.StatusOK, "product_form.html", gin.H{
		"Title":      "Edit product",
		"Product":    product,
		"Categories": domain.Categories,
	})
}

func (h *SellerHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	input, ok := h.productInputFromForm(c, "/seller/products/"+id+"/edit")
	if !ok {
		return
	}

	if _, err := h.catalog.UpdateProduct(UserFromContext(c), id, input); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/seller/products/"+id+"/edit")
		return
	}

	h.sessions.Flash(c, "success", "Product updated.")
	c.Redirect(http.StatusSeeOther, "/seller")
}

func (h *SellerHandler) SetProductActive(c *gin.Context) {
	active := c.PostForm("active") == "true"
	if _, err := h.catalog.SetProductActive(UserFromContext(c), c.Param("id"), active); err != nil {
		h.sessions.Flash(c, "error", userMessage(err))
	} else if active {
		h.sessions.Flash(c, "success", "Product relisted.")
	} else {
		h.sessions.Flash(c, "success", "Product delisted.")
	}
	c.Redirect(http.StatusSeeOther, "/seller")
}

// productInputFromForm parses the shared product form, storing an uploaded
// image when one was attached. On failure it has already redirected.
func (h *SellerHandler) productInputFromForm(c *gin.Context, backTo string) (usecase.ProductInput, bool) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		h.sessions.Flash(c, "error", "Price must be a number.")
		c.Redirect(http.StatusSeeOther, backTo)
		return usecase.ProductInput{}, false
	}
	stock, err := strconv.Atoi(c.DefaultPostForm("stock", "0"))
	if err != nil {
		h.sessions.Flash(c, "error", "Stock must be a whole number.")
		c.Redirect(http.StatusSeeOther, backTo)
		return usecase.ProductInput{}, false
	}

	input := usecase.ProductInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Price:       price,
		Stock:       stock,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		name, err := h.uploads.SaveImage(file)
		if err != nil {
			h.sessions.Flash(c, "error", userMessage(err))
			c.Redirect(http.StatusSeeOther, backTo)
			return usecase.ProductInput{}, false
		}
		input.ImageRef = name
	}

	return input, true
}
