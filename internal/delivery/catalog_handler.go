package delivery

import (
	"net/http"

	"electromart/internal/domain"
	"electromart/internal/upload"
	"electromart/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	catalog  usecase.CatalogUseCase
	uploads  *upload.Store
	sessions *SessionManager
	render   *Renderer
	log      *logrus.Logger
}

func NewCatalogHandler(catalog usecase.CatalogUseCase, uploads *upload.Store, sessions *SessionManager, render *Renderer, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, uploads: uploads, sessions: sessions, render: render, log: log}
}

// Storefront is the public landing page: active products, filterable by
// category and free-text search.
func (h *CatalogHandler) Storefront(c *gin.Context) {
	filter := domain.ProductFilter{
		ActiveOnly: true,
		Category:   c.Query("category"),
		SearchText: c.Query("q"),
	}

	products, err := h.catalog.ListProducts(filter)
	if err != nil {
		h.log.Errorf("Handler: failed to list products: %v", err)
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	h.render.HTML(c, http.StatusOK, "storefront.html", gin.H{
		"Title":      "ElectroMart",
		"Products":   products,
		"Categories": domain.Categories,
		"Category":   filter.Category,
		"Search":     filter.SearchText,
	})
}

func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("id"))
	if err != nil {
		h.render.HTML(c, mapErrorToStatus(err), "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	user := UserFromContext(c)
	if !product.Active && !domain.CanManageProduct(user, product) {
		h.render.HTML(c, http.StatusNotFound, "error.html", gin.H{"Message": "not found: product"})
		return
	}

	h.render.HTML(c, http.StatusOK, "product_detail.html", gin.H{
		"Title":    product.Name,
		"Product":  product,
		"ImageURL": h.uploads.URL(product.ImageRef),
	})
}
