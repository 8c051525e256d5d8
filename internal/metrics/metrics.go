package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks verification outcomes and latency.
type Metrics struct {
	Verifications  *prometheus.CounterVec
	MissingImage   prometheus.Counter
	VerifyDuration prometheus.Histogram
}

// New creates a new Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geoverify_verifications_total",
			Help: "Total number of image verifications by verdict",
		}, []string{"verified"}),
		MissingImage: factory.NewCounter(prometheus.CounterOpts{
			Name: "geoverify_missing_image_total",
			Help: "Total number of verification requests without an image",
		}),
		VerifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "geoverify_verify_duration_seconds",
			Help:    "Duration of image verification including metadata decoding",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

// IncrementVerification records a verdict.
func (m *Metrics) IncrementVerification(verified bool) {
	m.Verifications.WithLabelValues(strconv.FormatBool(verified)).Inc()
}

// IncrementMissingImage records a request rejected for lacking an image.
func (m *Metrics) IncrementMissingImage() {
	m.MissingImage.Inc()
}

// ObserveVerify records the duration of a verification.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveVerify(start time.Time) {
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}
