package app

import (
	"context"
	"fmt"

	"github.com/yungbote/storefront/internal/api"
	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/platform/logger"
	"github.com/yungbote/storefront/internal/realtime"
	"github.com/yungbote/storefront/internal/store"
)

type Clients struct {
	API      *api.Client
	Store    *store.Adapter
	Notifier *notify.Notifier
	Hub      *realtime.Hub
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	apiClient, err := api.NewFromConfig(cfg.API, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init api client: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init store: %w", err)
	}

	hub := realtime.NewHub(log)
	n, err := notify.Open(ctx, cfg.Notify, log, hub)
	if err != nil {
		_ = st.Close()
		return Clients{}, fmt.Errorf("init notifier: %w", err)
	}

	return Clients{API: apiClient, Store: st, Notifier: n, Hub: hub}, nil
}
