// Package metrics 服務的 Prometheus 指標
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal 對話輪次數，依狀態與結果分類
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dish_turns_total",
			Help: "Total number of dialogue turns by state and outcome",
		},
		[]string{"state", "outcome"},
	)

	// TurnDuration 每輪處理時間
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dish_turn_duration_seconds",
			Help:    "Duration of dialogue turns in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"state"},
	)

	// SessionErrorsTotal session 儲存錯誤（對話仍會繼續）
	SessionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dish_session_errors_total",
			Help: "Total number of session store errors by operation",
		},
		[]string{"op"},
	)

	// PlacesRequestsTotal 附近餐廳查詢次數
	PlacesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dish_places_requests_total",
			Help: "Total number of places lookups by result",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal HTTP 請求數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dish_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// CatalogRecipes 目前目錄筆數
	CatalogRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dish_catalog_recipes",
			Help: "Number of recipes in the loaded catalog",
		},
	)
)

// RecordTurn 記錄一輪對話
func RecordTurn(state, outcome string, d time.Duration) {
	TurnsTotal.WithLabelValues(state, outcome).Inc()
	TurnDuration.WithLabelValues(state).Observe(d.Seconds())
}

// RecordSessionError 記錄 session 儲存錯誤
func RecordSessionError(op string) {
	SessionErrorsTotal.WithLabelValues(op).Inc()
}

// RecordPlaces 記錄附近餐廳查詢結果：ok、empty、error、open（斷路器開啟）
func RecordPlaces(result string) {
	PlacesRequestsTotal.WithLabelValues(result).Inc()
}

// RecordHTTPRequest 記錄 HTTP 請求
func RecordHTTPRequest(method, route string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
