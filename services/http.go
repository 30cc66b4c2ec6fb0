package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/middleware"
	"github.com/avvalues/trade-hub/services/handlers"
	"github.com/avvalues/trade-hub/shared"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

const HTTP_SVC = "http_svc"

type HttpService struct {
	context.DefaultService

	port   int
	config AppConfig
	app    *fiber.App
}

// AppConfig carries the HTTP-level settings that are not owned by a service.
type AppConfig struct {
	AdminKey           string
	AdminRatePerMinute int
	RequestTimeout     time.Duration

	// TrustedProxies lists the peers whose ProxyHeader is believed. Empty means
	// every request is identified by its socket address.
	TrustedProxies []string
	ProxyHeader    string
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	svc.port = shared.GetEnvInt("HTTP_PORT", 8000)
	svc.config = AppConfig{
		AdminKey:           shared.GetEnvString("ADMIN_KEY", ""),
		AdminRatePerMinute: shared.GetEnvInt("ADMIN_RATE_PER_MINUTE", 10),
		RequestTimeout:     shared.GetEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		TrustedProxies:     shared.GetEnvStringSlice("TRUSTED_PROXIES", nil),
		ProxyHeader:        shared.GetEnvString("PROXY_HEADER", fiber.HeaderXForwardedFor),
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	tradeSvc := svc.Service(TRADE_SVC).(*TradeService)
	moderationSvc := svc.Service(MODERATION_SVC).(*ModerationService)

	svc.app = NewApp(svc.config, tradeSvc, moderationSvc)

	log.WithField("port", svc.port).Info("HTTP server starting")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// NewApp builds the public fiber application with every route wired.
func NewApp(cfg AppConfig, tradeSvc handlers.TradeServiceInterface, moderationSvc handlers.ModerationServiceInterface) *fiber.App {
	app := fiber.New(shared.ProxyConfig(fiber.Config{
		AppName:               SERVICE_NAME,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          shared.ErrorHandler,
		UnescapePath:          true,
		BodyLimit:             256 * 1024,
	}, cfg.ProxyHeader, cfg.TrustedProxies))

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + shared.HeaderAdminKey,
	}))
	app.Use(MonitoringMiddleware())
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	tradeHandler := handlers.NewTradeHandler(tradeSvc)
	adminHandler := handlers.NewAdminHandler(tradeSvc, moderationSvc)

	adminAuth := middleware.NewAdminAuth(cfg.AdminKey)
	adminLimiter := middleware.NewIPRateLimiter(cfg.AdminRatePerMinute)

	//Validation endpoints
	app.Get("/ping", ping)
	app.Get("/health", health)

	api := app.Group("/api")

	api.Get("/trades", tradeHandler.ListTrades)
	api.Post("/trades", tradeHandler.SubmitTrade)
	api.Post("/trades/evaluate", tradeHandler.EvaluateTrade)
	api.Delete("/trades", adminLimiter.Handler(), adminAuth.RequireAdmin(), tradeHandler.ClearTrades)

	admin := api.Group("/admin", adminLimiter.Handler(), adminAuth.RequireAdmin())
	admin.Get("/banned-words", adminHandler.ListBannedWords)
	admin.Post("/banned-words", adminHandler.AddBannedWord)
	admin.Delete("/banned-words/:word", adminHandler.RemoveBannedWord)
	admin.Get("/stats", adminHandler.GetStats)

	return app
}

func ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponsePong(c)
}

func health(c *fiber.Ctx) error {
	return shared.ResponseOK(c, fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}
