package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/logger"
)

// Well-known keys.
const (
	KeyCart        = "cart"
	KeyCurrentUser = "currentUser"
)

// Backend is raw byte storage scoped by namespace.
type Backend interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// Adapter stores JSON values under string keys, the way a page keeps state in
// localStorage. Reads never fail: anything unreadable is reported as absent.
type Adapter struct {
	backend   Backend
	namespace string
	log       *logger.Logger
}

func NewAdapter(backend Backend, namespace string, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		backend:   backend,
		namespace: strings.TrimSpace(namespace),
		log:       log.With("component", "store", "namespace", namespace),
	}
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*Adapter, error) {
	var (
		b   Backend
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		b, err = OpenSQLite(ctx, cfg.DSN, log)
	case "postgres":
		b, err = OpenPostgres(ctx, cfg.DSN, log)
	case "redis":
		b, err = OpenRedis(ctx, cfg.RedisAddr, log)
	case "memory":
		b = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewAdapter(b, cfg.Namespace, log), nil
}

func (a *Adapter) Namespace() string { return a.namespace }

// Load decodes the value under key into out and reports whether it was there.
func (a *Adapter) Load(ctx context.Context, key string, out any) bool {
	raw, ok, err := a.backend.Get(ctx, a.namespace, key)
	if err != nil {
		a.log.Warn("store read failed; treating as absent", "key", key, "error", err)
		return false
	}
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.log.Warn("stored value is not valid JSON; treating as absent", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", domain.ErrStorageFailure, key, err)
	}
	if err := a.backend.Put(ctx, a.namespace, key, raw); err != nil {
		a.log.Error("store write failed", "key", key, "error", err)
		return fmt.Errorf("%w: write %q: %v", domain.ErrStorageFailure, key, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, a.namespace, key); err != nil {
		a.log.Error("store delete failed", "key", key, "error", err)
		return fmt.Errorf("%w: delete %q: %v", domain.ErrStorageFailure, key, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	if a == nil || a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
