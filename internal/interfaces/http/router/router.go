package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/infrastructure/auth"
	"github.com/wcorders/backend/internal/infrastructure/logger"
	"github.com/wcorders/backend/internal/interfaces/http/handler"
	"github.com/wcorders/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds router assembly dependencies
type Config struct {
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	CORS        *middleware.CORSConfig
	Environment string

	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	Store     *handler.StoreHandler
	Sync      *handler.SyncHandler
	Orders    *handler.OrderHandler
	Customers *handler.CustomerHandler
	Catalog   *handler.CatalogHandler
}

// New builds the gin engine with all middleware and routes wired
func New(cfg Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	if cfg.CORS != nil {
		engine.Use(middleware.CORSWithConfig(*cfg.CORS))
	} else {
		engine.Use(middleware.CORS())
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTService))

	for _, registrar := range registrars(cfg) {
		if registrar != nil {
			registrar.RegisterRoutes(api)
		}
	}

	return engine
}

func registrars(cfg Config) []RouteRegistrar {
	out := make([]RouteRegistrar, 0, 7)
	if cfg.System != nil {
		out = append(out, cfg.System)
	}
	if cfg.Auth != nil {
		out = append(out, cfg.Auth)
	}
	if cfg.Store != nil {
		out = append(out, cfg.Store)
	}
	if cfg.Sync != nil {
		out = append(out, cfg.Sync)
	}
	if cfg.Orders != nil {
		out = append(out, cfg.Orders)
	}
	if cfg.Customers != nil {
		out = append(out, cfg.Customers)
	}
	if cfg.Catalog != nil {
		out = append(out, cfg.Catalog)
	}
	return out
}
