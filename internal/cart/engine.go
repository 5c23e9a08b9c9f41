package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/storefront/internal/catalog"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/logger"
	"github.com/yungbote/storefront/internal/store"
)

// Store is the persistence the engine mirrors the cart into.
type Store interface {
	Load(ctx context.Context, key string, out any) bool
	Save(ctx context.Context, key string, value any) error
}

// Snapshot is an immutable copy of the cart. Callers may keep it.
type Snapshot struct {
	Items   []domain.LineItem `json:"items"`
	Summary domain.Summary    `json:"summary"`
}

type Listener func(Snapshot)

// Engine owns the cart. Mutations are serialised; catalog lookups run outside
// the lock and each mutation re-reads the line it changes before committing.
type Engine struct {
	catalog catalog.Getter
	store   Store
	log     *logger.Logger

	mu          sync.Mutex
	items       []domain.LineItem
	initialized bool

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int

	revalidateLimit int
}

func New(cat catalog.Getter, st Store, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		catalog:         cat,
		store:           st,
		log:             log.With("component", "cart"),
		listeners:       map[int]Listener{},
		revalidateLimit: 4,
	}
}

// Initialize hydrates the cart from the store, replacing whatever is in memory.
// Missing or unreadable data gives an empty cart.
func (e *Engine) Initialize(ctx context.Context) Snapshot {
	var loaded []domain.LineItem
	ok := e.store.Load(ctx, store.KeyCart, &loaded)

	e.mu.Lock()
	e.items = sanitize(loaded)
	e.initialized = true
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log.Debug("cart hydrated", "found", ok, "lines", len(snap.Items))
	e.publish(snap)
	return snap
}

// sanitize drops lines that could not have been written by the engine and
// folds duplicate product ids into the first occurrence.
func sanitize(in []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(in))
	pos := map[int64]int{}
	for _, it := range in {
		if it.ProductID <= 0 || it.Quantity < 1 {
			continue
		}
		if i, seen := pos[it.ProductID]; seen {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

// AddItem adds one unit of the product, checking live stock first.
func (e *Engine) AddItem(ctx context.Context, productID int64) (Snapshot, error) {
	if err := e.ready(); err != nil {
		return Snapshot{}, err
	}
	p, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	next := e.cloneLocked()
	if i := indexOf(next, productID); i >= 0 {
		want := next[i].Quantity + 1
		if want > p.StockQuantity {
			e.mu.Unlock()
			return e.Snapshot(), &domain.StockError{ProductID: productID, Requested: want, Available: p.StockQuantity}
		}
		next[i].Quantity = want
	} else {
		if p.StockQuantity < 1 {
			e.mu.Unlock()
			return e.Snapshot(), &domain.StockError{ProductID: productID, Requested: 1, Available: p.StockQuantity}
		}
		next = append(next, domain.LineItem{
			ProductID: productID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
			ImageRef:  domain.DefaultImage,
		})
	}
	return e.commitLocked(ctx, next, "add", productID)
}

// UpdateQuantity changes a line by delta. Absent lines are left alone; a
// result below one removes the line.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, delta int) (Snapshot, error) {
	if err := e.ready(); err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	i := indexOf(e.items, productID)
	if i < 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, nil
	}
	want := addQuantity(e.items[i].Quantity, delta)
	e.mu.Unlock()

	if want < 1 {
		return e.RemoveItem(ctx, productID)
	}

	p, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	next := e.cloneLocked()
	i = indexOf(next, productID)
	if i < 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, nil
	}
	want = addQuantity(next[i].Quantity, delta)
	if want < 1 {
		next = append(next[:i], next[i+1:]...)
		return e.commitLocked(ctx, next, "remove", productID)
	}
	if want > p.StockQuantity {
		e.mu.Unlock()
		return e.Snapshot(), &domain.StockError{ProductID: productID, Requested: want, Available: p.StockQuantity}
	}
	next[i].Quantity = want
	return e.commitLocked(ctx, next, "update", productID)
}

// addQuantity saturates at math.MaxInt so a huge delta reads as over stock
// rather than wrapping into a removal.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

// RemoveItem drops the line if present. The cart is persisted either way.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) (Snapshot, error) {
	if err := e.ready(); err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	next := e.cloneLocked()
	if i := indexOf(next, productID); i >= 0 {
		next = append(next[:i], next[i+1:]...)
	}
	return e.commitLocked(ctx, next, "remove", productID)
}

// Clear empties the cart. Order submission calls it after a successful order.
func (e *Engine) Clear(ctx context.Context) (Snapshot, error) {
	if err := e.ready(); err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	return e.commitLocked(ctx, []domain.LineItem{}, "clear", 0)
}

// commitLocked installs next, persists it and releases the lock. A failed
// write keeps the new contents in memory and returns them with the error.
func (e *Engine) commitLocked(ctx context.Context, next []domain.LineItem, op string, productID int64) (Snapshot, error) {
	e.items = next
	snap := e.snapshotLocked()
	err := e.store.Save(ctx, store.KeyCart, next)
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("cart persisted in memory only", "op", op, "product_id", productID, "error", err)
		err = fmt.Errorf("%s: %w", op, err)
	} else {
		e.log.Debug("cart updated", "op", op, "product_id", productID, "lines", len(snap.Items), "total_quantity", snap.Summary.TotalQuantity)
	}
	e.publish(snap)
	return snap, err
}

func (e *Engine) Summary() domain.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Summarize(e.items)
}

func (e *Engine) Items() []domain.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cloneLocked()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) Contains(productID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return indexOf(e.items, productID) >= 0
}

func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Revalidate re-reads stock for every line and reports the ones that no
// longer fit. It never changes the cart.
func (e *Engine) Revalidate(ctx context.Context) ([]domain.StockIssue, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	items := e.Items()
	found := make([]*domain.StockIssue, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.revalidateLimit)
	for i, it := range items {
		g.Go(func() error {
			p, err := e.catalog.GetProduct(gctx, it.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				found[i] = &domain.StockIssue{ProductID: it.ProductID, Quantity: it.Quantity, Missing: true}
				return nil
			}
			if err != nil {
				return err
			}
			if it.Quantity > p.StockQuantity {
				found[i] = &domain.StockIssue{ProductID: it.ProductID, Quantity: it.Quantity, StockQuantity: p.StockQuantity}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("revalidate cart: %w", err)
	}

	issues := []domain.StockIssue{}
	for _, f := range found {
		if f != nil {
			issues = append(issues, *f)
		}
	}
	if len(issues) > 0 {
		e.log.Info("cart has stock issues", "count", len(issues))
	}
	return issues, nil
}

// Subscribe registers fn to run after every mutation. The returned func removes it.
func (e *Engine) Subscribe(fn Listener) func() {
	e.lmu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.lmu.Unlock()
	return func() {
		e.lmu.Lock()
		delete(e.listeners, id)
		e.lmu.Unlock()
	}
}

func (e *Engine) publish(snap Snapshot) {
	e.lmu.Lock()
	fns := make([]Listener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.lmu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (e *Engine) ready() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return domain.ErrNotInitialized
	}
	return nil
}

func (e *Engine) cloneLocked() []domain.LineItem {
	out := make([]domain.LineItem, len(e.items))
	copy(out, e.items)
	return out
}

func (e *Engine) snapshotLocked() Snapshot {
	items := e.cloneLocked()
	return Snapshot{Items: items, Summary: domain.Summarize(items)}
}

func indexOf(items []domain.LineItem, productID int64) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
