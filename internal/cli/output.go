package cli

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/domain"
)

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	return table
}

func writeProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	table := newTable()
	table.RightAlign(3)
	table.RightAlign(4)
	table.AddRow("ID", "Name", "Category", "Price", "Stock")
	for _, p := range products {
		stock := fmt.Sprint(p.StockQuantity)
		if !p.InStock() {
			stock = "out of stock"
		}
		table.AddRow(p.ID, p.Name, p.Category, p.Price.StringFixed(2), stock)
	}
	fmt.Fprintln(w, table)
}

func writeProduct(w io.Writer, p domain.Product) {
	table := newTable()
	table.AddRow("ID:", p.ID)
	table.AddRow("Name:", p.Name)
	table.AddRow("Description:", p.Description)
	table.AddRow("Category:", p.Category)
	if p.Size != "" {
		table.AddRow("Size:", p.Size)
	}
	if p.Color != "" {
		table.AddRow("Color:", p.Color)
	}
	table.AddRow("Price:", p.Price.StringFixed(2))
	table.AddRow("Stock:", p.StockQuantity)
	fmt.Fprintln(w, table)
}

func writeCart(w io.Writer, snap cart.Snapshot) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	table := newTable()
	for _, col := range []int{2, 3, 4} {
		table.RightAlign(col)
	}
	table.AddRow("ID", "Name", "Price", "Qty", "Subtotal")
	for _, it := range snap.Items {
		table.AddRow(it.ProductID, it.Name, it.UnitPrice.StringFixed(2), it.Quantity, it.Subtotal().StringFixed(2))
	}
	table.AddRow("", "", "", "", "")
	table.AddRow("Total", "", "", snap.Summary.TotalQuantity, snap.Summary.TotalAmount.StringFixed(2))
	fmt.Fprintln(w, table)
}

func writeIssues(w io.Writer, issues []domain.StockIssue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "Every item in your cart is available.")
		return
	}
	table := newTable()
	table.AddRow("ID", "In cart", "In stock", "Note")
	for _, is := range issues {
		note := "not enough stock"
		if is.Missing {
			note = "no longer sold"
		}
		table.AddRow(is.ProductID, is.Quantity, is.StockQuantity, note)
	}
	fmt.Fprintln(w, table)
}

func writeOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	table := newTable()
	table.RightAlign(2)
	table.AddRow("ID", "Status", "Total", "Lines", "Placed")
	for _, o := range orders {
		placed := ""
		if !o.CreatedAt.IsZero() {
			placed = o.CreatedAt.Format("2006-01-02 15:04")
		}
		table.AddRow(o.ID, o.Status, o.TotalAmount.StringFixed(2), len(o.Lines()), placed)
	}
	fmt.Fprintln(w, table)
}

func writeOrder(w io.Writer, o domain.Order) {
	writeOrders(w, []domain.Order{o})
	lines := o.Lines()
	if len(lines) == 0 {
		return
	}
	table := newTable()
	table.AddRow("Product", "Qty")
	for _, l := range lines {
		table.AddRow(l.ProductID, l.Quantity)
	}
	fmt.Fprintln(w, table)
}
