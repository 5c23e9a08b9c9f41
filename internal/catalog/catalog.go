package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/logger"
)

const (
	// DefaultLimit is the page size the storefront has always requested.
	DefaultLimit = 100
	MaxLimit     = 100
)

// Getter is what the cart needs from the catalog.
type Getter interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type Client struct {
	api *api.Client
	log *logger.Logger
}

func New(apiClient *api.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{api: apiClient, log: log.With("component", "catalog")}
}

// GetProduct fetches one product. Stock is always read live, never cached.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	var p domain.Product
	err := c.api.Get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &p)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, c.wrap("get product", err)
	}
	return p, nil
}

// ListProducts returns products matching f, possibly none.
func (c *Client) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		q.Set("category", cat)
	}
	sortKey := strings.TrimSpace(f.Sort)
	switch sortKey {
	case "", domain.SortPrice, domain.SortPriceDesc, domain.SortName:
	default:
		return nil, &domain.ValidationError{Field: "sort", Reason: fmt.Sprintf("must be one of price, price_desc, name, got %q", sortKey)}
	}
	if sortKey != "" {
		q.Set("sort", sortKey)
	}

	var out []domain.Product
	if err := c.api.Get(ctx, "/products", q, &out); err != nil {
		return nil, c.wrap("list products", err)
	}
	if out == nil {
		out = []domain.Product{}
	}
	// older API builds ignore sort
	sortProducts(out, sortKey)
	return out, nil
}

// SearchProducts filters the first page of the catalog by a case-insensitive
// substring of name, description or category. A blank query returns the page.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	all, err := c.ListProducts(ctx, domain.ProductFilter{Limit: DefaultLimit})
	if err != nil {
		return nil, err
	}
	return Filter(all, query), nil
}

func Filter(products []domain.Product, query string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(ps []domain.Product, key string) {
	switch key {
	case domain.SortPrice:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price.LessThan(ps[j].Price) })
	case domain.SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price.GreaterThan(ps[j].Price) })
	case domain.SortName:
		sort.SliceStable(ps, func(i, j int) bool { return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name) })
	}
}

func (c *Client) wrap(op string, err error) error {
	if errors.Is(err, domain.ErrUnreachable) {
		c.log.Warn("catalog unreachable", "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
