package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiRequests,
		aiRequestLatencyMs,
		aiTokensPrompt,
		aiTokensReply,
	)
}

var (
	aiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Completion requests per provider/model and outcome.",
		},
		[]string{"provider", "model", "outcome"},
	)

	aiRequestLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"provider", "model"},
	)

	aiTokensPrompt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_prompt",
			Help: "Estimated prompt tokens per model.",
		},
		[]string{"model"},
	)

	aiTokensReply = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_reply",
			Help: "Estimated reply tokens per model.",
		},
		[]string{"model"},
	)
)

// AIRequest records one completion round trip.
func AIRequest(provider, model, outcome string, elapsed time.Duration) {
	aiRequests.WithLabelValues(provider, model, outcome).Inc()
	aiRequestLatencyMs.WithLabelValues(provider, model).Observe(float64(elapsed.Milliseconds()))
}

// AITokens records estimated token usage for one exchange.
func AITokens(model string, prompt, reply int) {
	aiTokensPrompt.WithLabelValues(model).Add(float64(prompt))
	aiTokensReply.WithLabelValues(model).Add(float64(reply))
}
