package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/storefront/internal/http/handlers"
	httpMW "github.com/yungbote/storefront/internal/http/middleware"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	ServiceName  string
	AllowOrigins []string

	HealthHandler  *httpH.HealthHandler
	ProductHandler *httpH.ProductHandler
	CartHandler    *httpH.CartHandler
	OrderHandler   *httpH.OrderHandler
	AccountHandler *httpH.AccountHandler
	EventsHandler  *httpH.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	name := cfg.ServiceName
	if name == "" {
		name = "storefront"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(name))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Catalog
		if cfg.ProductHandler != nil {
			api.GET("/products", cfg.ProductHandler.List)
			api.GET("/products/:id", cfg.ProductHandler.Get)
		}

		// Cart
		if cfg.CartHandler != nil {
			api.GET("/cart", cfg.CartHandler.Get)
			api.DELETE("/cart", cfg.CartHandler.Clear)
			api.POST("/cart/items", cfg.CartHandler.Add)
			api.PATCH("/cart/items/:id", cfg.CartHandler.Update)
			api.DELETE("/cart/items/:id", cfg.CartHandler.Remove)
			api.POST("/cart/revalidate", cfg.CartHandler.Revalidate)
		}

		// Orders
		if cfg.OrderHandler != nil {
			api.POST("/orders", cfg.OrderHandler.Submit)
			api.GET("/orders", cfg.OrderHandler.List)
			api.GET("/orders/:id", cfg.OrderHandler.Get)
		}

		// Account
		if cfg.AccountHandler != nil {
			api.POST("/users", cfg.AccountHandler.Register)
			api.GET("/session", cfg.AccountHandler.Current)
			api.DELETE("/session", cfg.AccountHandler.SignOut)
		}

		// Realtime (SSE)
		if cfg.EventsHandler != nil {
			api.GET("/events", cfg.EventsHandler.Stream)
		}
	}

	return r
}
