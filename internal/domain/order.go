package domain

import "github.com/shopspring/decimal"

type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is built from a cart snapshot for exactly one submission.
type OrderRequest struct {
	Items []OrderLine `json:"items"`
}

func NewOrderRequest(items []LineItem) OrderRequest {
	req := OrderRequest{Items: make([]OrderLine, 0, len(items))}
	for _, it := range items {
		req.Items = append(req.Items, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return req
}

// Order is the record the API returns for a created order.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Items       []OrderLine     `json:"items,omitempty"`
	Products    []OrderLine     `json:"products,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   Timestamp       `json:"created_at"`
	UpdatedAt   *Timestamp      `json:"updated_at,omitempty"`
}

// Lines returns the ordered lines whichever field name the server used.
func (o Order) Lines() []OrderLine {
	if len(o.Items) > 0 {
		return o.Items
	}
	return o.Products
}
