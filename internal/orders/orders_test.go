package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/store"
)

type stubCatalog map[int64]domain.Product

func (s stubCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

type failingClear struct {
	*cart.Engine
}

func (f failingClear) Clear(ctx context.Context) (cart.Snapshot, error) {
	return f.Engine.Snapshot(), fmt.Errorf("clear: %w", domain.ErrStorageFailure)
}

func setup(t *testing.T, h http.HandlerFunc) (*cart.Engine, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	ac, err := api.New(api.Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, MaxRetries: 3, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	cat := stubCatalog{
		1: {ID: 1, Name: "Shirt", Price: decimal.NewFromInt(100), StockQuantity: 5},
		2: {ID: 2, Name: "Cap", Price: decimal.NewFromInt(50), StockQuantity: 5},
	}
	e := cart.New(cat, store.NewAdapter(store.NewMemory(), "shop.test", nil), nil)
	e.Initialize(context.Background())
	return e, ac
}

func fill(t *testing.T, e *cart.Engine, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		if _, err := e.AddItem(context.Background(), id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}
}

func TestSubmitEmptyCartMakesNoCall(t *testing.T) {
	var calls int32
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&calls, 1) })
	_, err := New(ac, e, 1, nil).Submit(context.Background())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("err=%v", err)
	}
	if calls != 0 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders/" || r.URL.Query().Get("user_id") != "7" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.String())
		}
		var req domain.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Items) != 2 || req.Items[0].ProductID != 1 || req.Items[0].Quantity != 2 || req.Items[1].ProductID != 2 {
			t.Errorf("items=%+v", req.Items)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":11,"user_id":7,"total_amount":250.0,"status":"pending","created_at":"2024-05-01T09:00:00","products":[{"product_id":1,"quantity":2},{"product_id":2,"quantity":1}]}`))
	})
	fill(t, e, 1, 1, 2)

	order, err := New(ac, e, 7, nil).Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.ID != 11 || order.Status != "pending" || !order.TotalAmount.Equal(decimal.NewFromInt(250)) || len(order.Lines()) != 2 {
		t.Fatalf("order=%+v", order)
	}
	if e.Summary().TotalQuantity != 0 {
		t.Fatalf("cart not cleared")
	}
}

func TestSubmitRejectedKeepsCartAndIsNotRetried(t *testing.T) {
	var calls int32
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Not enough stock for Shirt"}`))
	})
	fill(t, e, 1)

	_, err := New(ac, e, 1, nil).Submit(context.Background())
	var rej *domain.RejectedError
	if !errors.As(err, &rej) || rej.Status != http.StatusBadRequest || rej.Reason != "Not enough stock for Shirt" {
		t.Fatalf("err=%v", err)
	}
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("not ErrRejected")
	}
	if e.Summary().TotalQuantity != 1 {
		t.Fatalf("cart should be unchanged")
	}
	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestSubmitServerErrorIsRejectedOnce(t *testing.T) {
	var calls int32
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	fill(t, e, 2)
	_, err := New(ac, e, 1, nil).Submit(context.Background())
	var rej *domain.RejectedError
	if !errors.As(err, &rej) || rej.Reason != "Internal Server Error" {
		t.Fatalf("err=%v", err)
	}
	if calls != 1 {
		t.Fatalf("POST retried: calls=%d", calls)
	}
}

func TestSubmitUnreachable(t *testing.T) {
	e, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()
	ac, err := api.New(api.Options{BaseURL: base, Timeout: time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	fill(t, e, 1)
	if _, err := New(ac, e, 1, nil).Submit(context.Background()); !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("err=%v", err)
	}
	if e.Summary().TotalQuantity != 1 {
		t.Fatalf("cart should be unchanged")
	}
}

func TestSubmitClearFailureStillReturnsOrder(t *testing.T) {
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":3,"user_id":1,"total_amount":100,"status":"pending","created_at":"2024-05-01T09:00:00Z"}`))
	})
	fill(t, e, 1)
	order, err := New(ac, failingClear{e}, 1, nil).Submit(context.Background())
	if order.ID != 3 || !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("order=%+v err=%v", order, err)
	}
	if !IsPlacedButNotCleared(order, err) {
		t.Fatalf("expected placed-but-not-cleared")
	}
}

func TestListAndGet(t *testing.T) {
	e, ac := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders/":
			if r.URL.Query().Get("limit") != "5" {
				t.Errorf("query=%s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`[{"id":1,"status":"pending","total_amount":10,"created_at":"2024-05-01T09:00:00"}]`))
		case "/api/orders/1":
			_, _ = w.Write([]byte(`{"id":1,"status":"shipped","total_amount":10,"created_at":"2024-05-01T09:00:00"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Order not found"}`))
		}
	})
	svc := New(ac, e, 1, nil)
	ctx := context.Background()
	list, err := svc.List(ctx, ListFilter{Limit: 5})
	if err != nil || len(list) != 1 {
		t.Fatalf("list=%+v err=%v", list, err)
	}
	o, err := svc.Get(ctx, 1)
	if err != nil || o.Status != "shipped" {
		t.Fatalf("order=%+v err=%v", o, err)
	}
	if _, err := svc.Get(ctx, 2); !errors.Is(err, domain.ErrNotFound) || !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.Get(ctx, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}
