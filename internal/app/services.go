package app

import (
	"github.com/yungbote/storefront/internal/account"
	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/catalog"
	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/orders"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type Services struct {
	Catalog *catalog.Client
	Cart    *cart.Engine
	Orders  *orders.Service
	Account *account.Service
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients) Services {
	log.Info("Wiring services...")
	cat := catalog.New(clients.API, log)
	engine := cart.New(cat, clients.Store, log)
	return Services{
		Catalog: cat,
		Cart:    engine,
		Orders:  orders.New(clients.API, engine, cfg.API.UserID, log),
		Account: account.New(clients.API, clients.Store, log),
	}
}
