package domain

import "github.com/shopspring/decimal"

// DefaultImage is the placeholder image every line item points at; the catalog API
// does not expose product imagery.
const DefaultImage = "/static/images/placeholder.jpg"

// Prices travel as JSON numbers both on the wire and in the persisted cart.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is one product entry in the cart, with the name and price captured at add time.
// The JSON shape matches what the storefront page has always kept under the "cart" key.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Summary is the derived view shown next to the cart.
type Summary struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Summarize totals a sequence of line items.
func Summarize(items []LineItem) Summary {
	s := Summary{TotalAmount: decimal.Zero}
	for _, it := range items {
		s.TotalQuantity += it.Quantity
		s.TotalAmount = s.TotalAmount.Add(it.Subtotal())
	}
	return s
}

// StockIssue reports a line whose quantity no longer fits the live inventory.
type StockIssue struct {
	ProductID     int64 `json:"product_id"`
	Quantity      int   `json:"quantity"`
	StockQuantity int   `json:"stock_quantity"`
	Missing       bool  `json:"missing"`
}
