package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/http/response"
	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/orders"
)

type OrderService interface {
	Submit(ctx context.Context) (domain.Order, error)
	List(ctx context.Context, f orders.ListFilter) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
}

type OrderHandler struct {
	orders   OrderService
	notifier *notify.Notifier
}

func NewOrderHandler(svc OrderService, n *notify.Notifier) *OrderHandler {
	if n == nil {
		n = notify.New(nil)
	}
	return &OrderHandler{orders: svc, notifier: n}
}

// POST /api/orders
func (h *OrderHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.orders.Submit(ctx)
	switch {
	case err == nil:
		response.RespondCreated(c, gin.H{
			"order":        order,
			"notification": h.notifier.Success(ctx, fmt.Sprintf("Order #%d placed", order.ID)),
		})
	case orders.IsPlacedButNotCleared(order, err):
		_ = c.Error(err)
		response.RespondCreated(c, gin.H{"order": order, "notification": h.notifier.Error(ctx, err)})
	default:
		n := h.notifier.Error(ctx, err)
		response.RespondError(c, err, &n)
	}
}

// GET /api/orders?skip=&limit=
func (h *OrderHandler) List(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	list, err := h.orders.List(c.Request.Context(), orders.ListFilter{Skip: skip, Limit: limit})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": list})
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

func (h *OrderHandler) fail(c *gin.Context, err error) {
	n := h.notifier.Error(c.Request.Context(), err)
	response.RespondError(c, err, &n)
}
