package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpRequestsTotal は処理したHTTPリクエストの総数。
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavehub_http_requests_total",
			Help: "Total number of HTTP requests, partitioned by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// authDecisionsTotal は認証ゲートの判定結果の総数。
	// 理由コードはrejectの場合のみ設定される。
	authDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavehub_auth_decisions_total",
			Help: "Total number of authentication gate decisions, partitioned by outcome and internal reason.",
		},
		[]string{"outcome", "reason"},
	)
)

// Metrics はリクエスト数をPrometheusカウンターに記録するGinミドルウェアを返す。
// ラベルにはルートテンプレートを使用し、パスパラメータによるカーディナリティの
// 増加を防ぐ。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unrouted"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// MetricsHandler はPrometheus形式のメトリクスを公開するGinハンドラを返す。
// 公開エンドポイントは認証ゲートの内側に配置すること。
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
