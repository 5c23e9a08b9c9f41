package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/store"
)

func memoryConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:    "test",
		API:    config.APIConfig{BaseURL: baseURL, UserID: 1},
		Store:  config.StoreConfig{Driver: "memory", Namespace: "shop.test"},
		HTTP:   config.HTTPConfig{Addr: "127.0.0.1:0"},
		Notify: config.NotifyConfig{Sinks: []string{"log"}},
	}
}

func TestNewWiresAndHydrates(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	a, err := New(context.Background(), memoryConfig(api.URL+"/api"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if !a.Services.Cart.Initialized() {
		t.Fatalf("cart should be initialized")
	}
	if a.Clients.Store.Namespace() != "shop.test" {
		t.Fatalf("namespace=%q", a.Clients.Store.Namespace())
	}
	var items []domain.LineItem
	if a.Clients.Store.Load(context.Background(), store.KeyCart, &items) {
		t.Fatalf("fresh memory store should hold no cart")
	}
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg := memoryConfig("http://localhost:8000/api")
	cfg.Notify.Sinks = []string{"carrier-pigeon"}
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), memoryConfig("http://localhost:8000/api"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}
