package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 推进引擎相关指标，kind 取值 step / daily / completion
	GpAwardedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedforge_gp_awarded_total",
			Help: "Total Growth Points awarded",
		},
		[]string{"kind"},
	)

	LevelUpCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seedforge_level_ups_total",
			Help: "Total learner level-ups",
		},
	)

	ProjectCompletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seedforge_projects_completed_total",
			Help: "Total completed projects",
		},
	)

	PlantBloomedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seedforge_plants_bloomed_total",
			Help: "Total garden plants that reached the blooming stage",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(GpAwardedCounter)
	prometheus.MustRegister(LevelUpCounter)
	prometheus.MustRegister(ProjectCompletedCounter)
	prometheus.MustRegister(PlantBloomedCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
