package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSummarizeExample(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}
	s := Summarize(items)
	if s.TotalQuantity != 3 {
		t.Fatalf("total quantity=%d", s.TotalQuantity)
	}
	if !s.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("total amount=%s", s.TotalAmount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalQuantity != 0 || !s.TotalAmount.IsZero() {
		t.Fatalf("unexpected: %+v", s)
	}
}

func TestSummarizeFractionalPrices(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.1")},
	}
	if got := Summarize(items).TotalAmount.String(); got != "0.3" {
		t.Fatalf("total=%s", got)
	}
}

func TestLineItemDecodesPersistedShape(t *testing.T) {
	raw := `[{"id":3,"name":"Shirt","price":1999.5,"quantity":2,"image":"/static/images/placeholder.jpg"}]`
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != 3 || items[0].Quantity != 2 {
		t.Fatalf("unexpected: %+v", items)
	}
	if !items[0].UnitPrice.Equal(decimal.RequireFromString("1999.5")) {
		t.Fatalf("price=%s", items[0].UnitPrice)
	}
}

func TestNewOrderRequestPreservesOrder(t *testing.T) {
	req := NewOrderRequest([]LineItem{{ProductID: 9, Quantity: 1}, {ProductID: 4, Quantity: 5}})
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"items":[{"product_id":9,"quantity":1},{"product_id":4,"quantity":5}]}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	var err error = fmt.Errorf("submit: %w", &RejectedError{Status: 400, Reason: "stock changed"})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("rejected not matched")
	}
	var rej *RejectedError
	if !errors.As(err, &rej) || rej.Reason != "stock changed" {
		t.Fatalf("as failed: %v", err)
	}
	stock := &StockError{ProductID: 1, Requested: 3, Available: 2}
	if !errors.Is(stock, ErrOutOfStock) {
		t.Fatalf("stock error not OutOfStock")
	}
}

func TestTimestampAcceptsNaiveAndZoned(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":1,"created_at":"2024-03-01T10:20:30.123456"}`), &p); err != nil {
		t.Fatalf("naive: %v", err)
	}
	if p.CreatedAt.Year() != 2024 || p.CreatedAt.Location() != time.UTC {
		t.Fatalf("naive parsed as %v", p.CreatedAt)
	}
	if err := json.Unmarshal([]byte(`{"id":1,"created_at":"2024-03-01T10:20:30+03:00"}`), &p); err != nil {
		t.Fatalf("zoned: %v", err)
	}
	if p.CreatedAt.UTC().Hour() != 7 {
		t.Fatalf("zoned parsed as %v", p.CreatedAt)
	}
	var o Order
	if err := json.Unmarshal([]byte(`{"id":2,"created_at":"2024-03-01 10:20:30","updated_at":null,"products":[{"product_id":1,"quantity":2}]}`), &o); err != nil {
		t.Fatalf("order: %v", err)
	}
	if len(o.Lines()) != 1 || o.Lines()[0].Quantity != 2 {
		t.Fatalf("lines=%+v", o.Lines())
	}
	if err := json.Unmarshal([]byte(`{"created_at":"yesterday"}`), &p); err == nil {
		t.Fatalf("expected error")
	}
}
