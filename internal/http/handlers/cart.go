package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/http/response"
	"github.com/yungbote/storefront/internal/notify"
)

type CartEngine interface {
	Snapshot() cart.Snapshot
	AddItem(ctx context.Context, productID int64) (cart.Snapshot, error)
	UpdateQuantity(ctx context.Context, productID int64, delta int) (cart.Snapshot, error)
	RemoveItem(ctx context.Context, productID int64) (cart.Snapshot, error)
	Clear(ctx context.Context) (cart.Snapshot, error)
	Revalidate(ctx context.Context) ([]domain.StockIssue, error)
}

type CartHandler struct {
	engine   CartEngine
	notifier *notify.Notifier
}

func NewCartHandler(engine CartEngine, n *notify.Notifier) *CartHandler {
	if n == nil {
		n = notify.New(nil)
	}
	return &CartHandler{engine: engine, notifier: n}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

// GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	response.RespondOK(c, gin.H{"cart": h.engine.Snapshot()})
}

// POST /api/cart/items
// body: { "product_id": 3 }
func (h *CartHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, &domain.ValidationError{Field: "product_id", Reason: "is required"})
		return
	}
	snap, err := h.engine.AddItem(c.Request.Context(), req.ProductID)
	h.respond(c, snap, err, "Added to cart")
}

// PATCH /api/cart/items/:id
// body: { "delta": -1 }
func (h *CartHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		h.fail(c, &domain.ValidationError{Field: "delta", Reason: "must be a non-zero integer"})
		return
	}
	snap, err := h.engine.UpdateQuantity(c.Request.Context(), id, req.Delta)
	h.respond(c, snap, err, "Cart updated")
}

// DELETE /api/cart/items/:id
func (h *CartHandler) Remove(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	snap, err := h.engine.RemoveItem(c.Request.Context(), id)
	h.respond(c, snap, err, "Removed from cart")
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	snap, err := h.engine.Clear(c.Request.Context())
	h.respond(c, snap, err, "Cart cleared")
}

// POST /api/cart/revalidate
func (h *CartHandler) Revalidate(c *gin.Context) {
	issues, err := h.engine.Revalidate(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{"issues": issues}
	if len(issues) > 0 {
		body["notification"] = h.notifier.Notify(c.Request.Context(), notify.Notification{
			Level:   notify.LevelError,
			Code:    "OUT_OF_STOCK",
			Message: "Some items in your cart are no longer available in that quantity",
		})
	}
	response.RespondOK(c, body)
}

// respond reports a mutation. A storage failure still returns the new cart:
// the change happened, it just was not saved on this device.
func (h *CartHandler) respond(c *gin.Context, snap cart.Snapshot, err error, ok string) {
	ctx := c.Request.Context()
	switch {
	case err == nil:
		response.RespondOK(c, gin.H{"cart": snap, "notification": h.notifier.Success(ctx, ok)})
	case errors.Is(err, domain.ErrStorageFailure):
		_ = c.Error(err)
		response.RespondOK(c, gin.H{"cart": snap, "notification": h.notifier.Error(ctx, err)})
	default:
		h.fail(c, err)
	}
}

func (h *CartHandler) fail(c *gin.Context, err error) {
	n := h.notifier.Error(c.Request.Context(), err)
	response.RespondError(c, err, &n)
}
