package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// GatewayOperations counts storage calls made on behalf of dashboard
// screens, by entity, action and outcome.
var GatewayOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_operations_total",
		Help: "Total record and blob operations by outcome",
	},
	[]string{"entity", "action", "outcome"},
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(GatewayOperations)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
