package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/simpledough/storefront/docs"
	"github.com/simpledough/storefront/internal/api/handler"
	"github.com/simpledough/storefront/internal/api/middleware"
	"github.com/simpledough/storefront/internal/core/domain"
	"github.com/simpledough/storefront/internal/core/ports"
)

// Dependencies are the core components the HTTP surface exposes.
type Dependencies struct {
	Session ports.SessionService
	Profile ports.ProfileEditor
	Catalog ports.Catalog
	Cart    ports.CartService
	Orders  ports.OrderHistoryReader
	// Health maps a dependency name to its readiness check.
	Health map[string]handler.Pinger
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title        Storefront API
// @version      1.0
// @description  Session, profile, catalog, cart and order history of a single storefront client.
// @BasePath     /
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.Metrics())

	// --- Health checks and tooling (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Health, deps.Session.State)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Session ---
	sessionHandler := handler.NewSessionHandler(deps.Session)
	v1.GET("/session", sessionHandler.Current)
	v1.POST("/session/register", sessionHandler.Register)
	v1.POST("/session/provision", sessionHandler.Provision)
	v1.POST("/session/login", sessionHandler.Login)
	v1.POST("/session/logout", sessionHandler.Logout)
	v1.POST("/session/refresh", sessionHandler.Refresh)

	// --- Profile ---
	profileHandler := handler.NewProfileHandler(deps.Session, deps.Profile)
	profile := v1.Group("/profile", middleware.RequireSession(deps.Session, domain.CapEditProfile))
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.POST("/sensitive", profileHandler.BeginSensitiveEdit)
	profile.DELETE("/sensitive", profileHandler.Cancel)
	profile.POST("/verify", profileHandler.Verify)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(deps.Orders)
	v1.GET("/orders", orderHandler.List, middleware.RequireSession(deps.Session, domain.CapViewOwnOrders))

	// --- Catalog ---
	productHandler := handler.NewProductHandler(deps.Catalog)
	v1.GET("/products", productHandler.List)

	// --- Cart (guests included) ---
	cartHandler := handler.NewCartHandler(deps.Cart, deps.Catalog)
	v1.GET("/cart", cartHandler.Get)
	v1.DELETE("/cart", cartHandler.Clear)
	v1.GET("/cart/checkout", cartHandler.Checkout)
	v1.POST("/cart/items", cartHandler.Add)
	v1.PATCH("/cart/items/:id", cartHandler.UpdateQuantity)
	v1.DELETE("/cart/items/:id", cartHandler.Remove)

	return e
}
