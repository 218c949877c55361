package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register queues collectors at init time; each file in this package
// declares its collectors next to the helpers that drive them.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every queued collector into the default
// registry. Callable from any constructor; only the first call does
// anything.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) == 0 {
			return
		}
		prometheus.MustRegister(pending...)
	})
}
