package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/logger"
)

// Cart is the slice of the cart engine order submission needs.
type Cart interface {
	Items() []domain.LineItem
	Clear(ctx context.Context) (cart.Snapshot, error)
}

type ListFilter struct {
	Skip  int
	Limit int
}

type Service struct {
	api    *api.Client
	cart   Cart
	userID int64
	log    *logger.Logger
}

func New(apiClient *api.Client, c Cart, userID int64, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if userID <= 0 {
		userID = 1
	}
	return &Service{api: apiClient, cart: c, userID: userID, log: log.With("component", "orders")}
}

// Submit places an order for the current cart and empties the cart once the
// API has accepted it. If emptying fails to persist, the order is returned
// along with the storage error.
func (s *Service) Submit(ctx context.Context) (domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	req := domain.NewOrderRequest(items)

	q := url.Values{"user_id": {strconv.FormatInt(s.userID, 10)}}
	var order domain.Order
	if err := s.api.Post(ctx, "/orders/", q, req, &order); err != nil {
		if status := api.StatusOf(err); status != 0 {
			s.log.Warn("order rejected", "status", status, "detail", api.DetailOf(err), "lines", len(req.Items))
			return domain.Order{}, &domain.RejectedError{Status: status, Reason: api.DetailOf(err)}
		}
		return domain.Order{}, fmt.Errorf("submit order: %w", err)
	}

	s.log.Info("order placed", "order_id", order.ID, "user_id", s.userID, "lines", len(req.Items), "total_amount", order.TotalAmount.String())

	if _, err := s.cart.Clear(ctx); err != nil {
		return order, fmt.Errorf("order %d placed but cart not cleared: %w", order.ID, err)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	q := url.Values{}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var out []domain.Order
	if err := s.api.Get(ctx, "/orders/", q, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Order, error) {
	if id <= 0 {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrOrderNotFound)
	}
	var out domain.Order
	err := s.api.Get(ctx, "/orders/"+strconv.FormatInt(id, 10), nil, &out)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return out, nil
}

// IsPlacedButNotCleared reports whether err came from Submit after the order
// was accepted.
func IsPlacedButNotCleared(order domain.Order, err error) bool {
	return err != nil && order.ID != 0 && errors.Is(err, domain.ErrStorageFailure)
}
