package session

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exported for engine activity,
// scaled down from the pack's promauto-based metrics registration to this
// module's domain (documents, records, failures): promauto constructors
// registered once behind a sync.Once.
type Metrics struct {
	DocumentsActive   prometheus.Gauge
	RecordsExchanged  prometheus.CounterVec
	PreconditionFails prometheus.Counter
	ProtocolFails     prometheus.Counter
	OutstandingDepth  prometheus.GaugeVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers the engine's Prometheus metrics.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			DocumentsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "jupiter_documents_active",
				Help: "Number of documents with at least one connected peer",
			}),
			RecordsExchanged: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jupiter_records_exchanged_total",
					Help: "Total number of records processed, by direction",
				},
				[]string{"direction"}, // "local" or "remote"
			),
			PreconditionFails: promauto.NewCounter(prometheus.CounterOpts{
				Name: "jupiter_precondition_violations_total",
				Help: "Total number of PreconditionViolated errors raised by Apply",
			}),
			ProtocolFails: promauto.NewCounter(prometheus.CounterOpts{
				Name: "jupiter_protocol_violations_total",
				Help: "Total number of ProtocolViolation errors raised by remote_op",
			}),
			OutstandingDepth: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "jupiter_outstanding_queue_depth",
					Help: "Current length of a site's outstanding operation queue",
				},
				[]string{"document_id"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance, initializing it on first use.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
