package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(storeWrites)
}

var storeWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_writes_total",
		Help: "Store writes per key and outcome.",
	},
	[]string{"key", "outcome"},
)

// StoreWrite records one persistence attempt for a key.
func StoreWrite(key string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeWrites.WithLabelValues(key, outcome).Inc()
}
