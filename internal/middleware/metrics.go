package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// SwapTransitions counts applied swap state transitions by action and outcome.
	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_swap_transitions_total",
		Help: "Total number of swap state transitions by action and outcome",
	}, []string{"action", "outcome"})

	// WebhookEvents counts received auth provider webhook events by type and outcome.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_webhook_events_total",
		Help: "Total number of auth webhook events by type and outcome",
	}, []string{"event_type", "outcome"})

	// ItemsCreated counts created listings by listing type.
	ItemsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewear_items_created_total",
		Help: "Total number of created listings by listing type",
	}, []string{"listing_type"})
)

var (
	promOnce sync.Once
	promHTTP *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The underlying collectors register globally, so the middleware is
// built once per process regardless of how many servers are constructed.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promHTTP = fiberprometheus.New(serviceName)
	})
	return promHTTP
}

// MetricsMiddleware returns the Fiber handler recording HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
