package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 転送結果を表すoutcomeラベルの値。
const (
	outcomeSuccess        = "success"
	outcomeUpstreamError  = "upstream_error"
	outcomeTransportError = "transport_error"
)

var (
	// upstreamRequests は上流への転送回数をルートと結果ごとに数える。
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_upstream_requests_total",
		Help: "Total number of forwarded upstream requests, by route and outcome.",
	}, []string{"route", "outcome"})

	// upstreamDuration は上流呼び出しの所要時間をルートごとに記録する。
	// バケットはルートのタイムアウト予算（8秒/30秒/90秒）を覆う。
	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_upstream_request_duration_seconds",
		Help:    "Duration of upstream requests in seconds, by route.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 90},
	}, []string{"route"})

	// rejectedRequests は上流へ転送せずに拒否したリクエスト数をルートと理由ごとに数える。
	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_rejected_requests_total",
		Help: "Total number of requests rejected before dispatch, by route and reason.",
	}, []string{"route", "reason"})
)
