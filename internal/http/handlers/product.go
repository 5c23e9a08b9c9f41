package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/catalog"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/http/response"
	"github.com/yungbote/storefront/internal/notify"
)

type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
}

type ProductHandler struct {
	catalog  ProductCatalog
	notifier *notify.Notifier
}

func NewProductHandler(cat ProductCatalog, n *notify.Notifier) *ProductHandler {
	if n == nil {
		n = notify.New(nil)
	}
	return &ProductHandler{catalog: cat, notifier: n}
}

// GET /api/products?category=&limit=&skip=&sort=&q=
func (h *ProductHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", catalog.DefaultLimit)
	if err != nil {
		h.fail(c, err)
		return
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), domain.ProductFilter{
		Category: c.Query("category"),
		Limit:    limit,
		Skip:     skip,
		Sort:     c.Query("sort"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		products = catalog.Filter(products, q)
	}
	response.RespondOK(c, gin.H{"products": products})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	n := h.notifier.Error(c.Request.Context(), err)
	response.RespondError(c, err, &n)
}
