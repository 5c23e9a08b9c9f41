package domain

import "github.com/shopspring/decimal"

// Product is the catalog's view of an item. It is owned by the remote API.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Size          string          `json:"size,omitempty"`
	Color         string          `json:"color,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     Timestamp       `json:"created_at"`
}

func (p Product) InStock() bool { return p.StockQuantity > 0 }

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Category string
	Limit    int
	Skip     int
	Sort     string
}

const (
	SortPrice     = "price"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)
