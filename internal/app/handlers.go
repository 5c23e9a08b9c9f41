package app

import (
	"github.com/yungbote/storefront/internal/config"
	httpx "github.com/yungbote/storefront/internal/http"
	httpH "github.com/yungbote/storefront/internal/http/handlers"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Product *httpH.ProductHandler
	Cart    *httpH.CartHandler
	Order   *httpH.OrderHandler
	Account *httpH.AccountHandler
	Events  *httpH.EventsHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	n := clients.Notifier
	return Handlers{
		Health:  httpH.NewHealthHandler(services.Cart),
		Product: httpH.NewProductHandler(services.Catalog, n),
		Cart:    httpH.NewCartHandler(services.Cart, n),
		Order:   httpH.NewOrderHandler(services.Orders, n),
		Account: httpH.NewAccountHandler(services.Account, n),
		Events:  httpH.NewEventsHandler(clients.Hub, services.Cart.Snapshot),
	}
}

func wireServer(log *logger.Logger, cfg *config.Config, handlers Handlers) *httpx.Server {
	return httpx.NewServer(httpx.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, httpx.RouterConfig{
		Log:            log,
		ServiceName:    "storefront",
		AllowOrigins:   cfg.HTTP.AllowOrigins,
		HealthHandler:  handlers.Health,
		ProductHandler: handlers.Product,
		CartHandler:    handlers.Cart,
		OrderHandler:   handlers.Order,
		AccountHandler: handlers.Account,
		EventsHandler:  handlers.Events,
	})
}
