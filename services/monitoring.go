package services

import (
	"fmt"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "trade_hub"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_active",
			Help: "Number of in-flight HTTP requests",
		},
		[]string{"method"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Trade Metrics
var (
	tradeSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_submissions_total",
			Help: "Trade submissions by outcome",
		},
		[]string{"outcome"},
	)

	expiredRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expired_records_total",
			Help: "Records removed by the expiry sweep",
		},
		[]string{"kind"},
	)
)

var submissionOutcomes = []string{
	outcomeAccepted,
	outcomeInvalid,
	outcomeRateLimited,
	outcomeWindowExceeded,
	outcomeDuplicate,
	outcomeError,
}

func recordTradeSubmission(outcome string) {
	tradeSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func recordExpiredRecords(kind string, n int64) {
	if n > 0 {
		expiredRecordsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// MonitoringService serves Prometheus metrics on its own port.
type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry
	server   *fiber.App
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	svc.port = shared.GetEnvInt("PROMETHEUS_PORT", DEFAULT_PROMETHEUS_PORT)
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	svc.register = newMetricsRegistry()

	svc.server = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())
	svc.server.Get("/metrics", svc.metricsHandler)

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Msg("Prometheus metrics server stopped")
		}
	}()

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestsActive,
		httpRequestDurationSeconds,
		tradeSubmissionsTotal,
		expiredRecordsTotal,
	)

	// Expose every outcome from the first scrape.
	for _, outcome := range submissionOutcomes {
		tradeSubmissionsTotal.WithLabelValues(outcome).Add(0)
	}
	return reg
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

// MonitoringMiddleware records request count, latency and concurrency per route.
func MonitoringMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		httpRequestsActive.WithLabelValues(method).Inc()
		defer httpRequestsActive.WithLabelValues(method).Dec()

		err := c.Next()

		// Matched route pattern, not the raw path, keeps label cardinality bounded.
		endpoint := c.Route().Path

		status := c.Response().StatusCode()
		if err != nil {
			if appErr, ok := shared.GetAppError(err); ok {
				status = appErr.StatusCode
			} else if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}
		statusLabel := strconv.Itoa(status)

		httpRequestsTotal.WithLabelValues(endpoint, method, statusLabel).Inc()
		httpRequestDurationSeconds.WithLabelValues(endpoint, method, statusLabel).Observe(time.Since(start).Seconds())
		return err
	}
}
