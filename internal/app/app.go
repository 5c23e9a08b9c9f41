package app

import (
	"context"
	"fmt"

	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/observability"
	"github.com/yungbote/storefront/internal/platform/logger"
	"github.com/yungbote/storefront/internal/realtime"
)

// Version is stamped at build time.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Clients  Clients
	Services Services

	otelShutdown func(context.Context) error
}

// New wires the storefront and hydrates the cart from the persistent store.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if log == nil {
		log = logger.Nop()
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "storefront",
		Environment: cfg.Env,
		Version:     Version,
	})

	if shutdown == nil {
		shutdown = func(context.Context) error { return nil }
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	services := wireServices(log, cfg, clients)
	services.Cart.Subscribe(func(snap cart.Snapshot) {
		clients.Hub.Broadcast(realtime.Message{Event: realtime.EventCartChanged, Data: snap})
	})
	snap := services.Cart.Initialize(ctx)
	log.Info("cart hydrated", "lines", len(snap.Items), "total_quantity", snap.Summary.TotalQuantity)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Services:     services,
		otelShutdown: shutdown,
	}, nil
}

// Serve runs the local HTTP surface until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := wireServer(a.Log, a.Cfg, wireHandlers(a.Log, a.Services, a.Clients))
	return srv.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Notifier != nil {
		if err := a.Clients.Notifier.Close(); err != nil {
			a.Log.Warn("close notifier", "error", err)
		}
	}
	if a.Clients.Store != nil {
		if err := a.Clients.Store.Close(); err != nil {
			a.Log.Warn("close store", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Log.Sync()
}
