package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики приложения. Регистрируются в дефолтном реестре
// и отдаются на /metrics.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talenvo_http_requests_total",
		Help: "Количество HTTP запросов по пути, методу и статусу.",
	}, []string{"path", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "talenvo_http_request_duration_seconds",
		Help:    "Длительность обработки HTTP запроса.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talenvo_toggles_total",
		Help: "Переключения лайков и подписок по типу и результату.",
	}, []string{"kind", "state"})

	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talenvo_reports_total",
		Help: "Поданные жалобы по типу цели.",
	}, []string{"target_type"})

	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talenvo_moderation_decisions_total",
		Help: "Решения модерации по статусу.",
	}, []string{"status"})
)

// Middleware собирает метрики HTTP запросов.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveToggle учитывает переключение лайка или подписки.
func ObserveToggle(kind string, active bool) {
	state := "off"
	if active {
		state = "on"
	}
	togglesTotal.WithLabelValues(kind, state).Inc()
}

// ObserveReport учитывает поданную жалобу.
func ObserveReport(targetType string) {
	reportsTotal.WithLabelValues(targetType).Inc()
}

// ObserveDecision учитывает решение модерации.
func ObserveDecision(status string) {
	decisionsTotal.WithLabelValues(status).Inc()
}
