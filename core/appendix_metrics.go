package core

// Prometheus instrumentation for appendix validation and fee outcomes. The
// wider teacher codebase logs through logrus but never exports Prometheus
// metrics for anything; this is new ground grounded on the
// prometheus/client_golang dependency carried (unused) in the reference
// pack's wallet-SDK repo, wired here for the one subsystem in scope.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters/histogram an appendix pipeline reports
// through. Callers construct one with NewMetrics and pass it alongside a
// Context, rather than appendices reaching for a package-level global, so
// tests can use an unregistered instance freely.
type Metrics struct {
	ValidationTotal *prometheus.CounterVec
	FeeCollected    *prometheus.CounterVec
	PrunableLoads   *prometheus.CounterVec
	AppendixSize    *prometheus.HistogramVec
}

// NewMetrics builds a fresh Metrics and registers it against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ValidationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appendix",
			Name:      "validation_total",
			Help:      "Appendix validation attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		FeeCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appendix",
			Name:      "fee_collected_total",
			Help:      "Cumulative appendix fees collected, in SPA base units, by kind.",
		}, []string{"kind"}),
		PrunableLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appendix",
			Name:      "prunable_loads_total",
			Help:      "Prunable payload cache lookups by hit/loaded/miss/expired.",
		}, []string{"result"}),
		AppendixSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "appendix",
			Name:      "size_bytes",
			Help:      "Wire size of appendices actually applied, by kind.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		}, []string{"kind"}),
	}
	reg.MustRegister(m.ValidationTotal, m.FeeCollected, m.PrunableLoads, m.AppendixSize)
	return m
}

func (m *Metrics) observeValidate(a Appendix, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case IsNotValid(err):
		outcome = "not_valid"
	case IsNotCurrentlyValid(err):
		outcome = "not_currently_valid"
	default:
		outcome = "error"
	}
	m.ValidationTotal.WithLabelValues(a.Kind().String(), outcome).Inc()
}

func (m *Metrics) observeApply(a Appendix, fee int64) {
	if m == nil {
		return
	}
	m.FeeCollected.WithLabelValues(a.Kind().String()).Add(float64(fee))
	m.AppendixSize.WithLabelValues(a.Kind().String()).Observe(float64(a.Size()))
}

func (m *Metrics) observePrunableLoad(result string) {
	if m == nil {
		return
	}
	m.PrunableLoads.WithLabelValues(result).Inc()
}

// ValidateAndApply runs the standard two-step lifecycle (spec §5: validate,
// then apply) and reports the outcome to m, which may be nil to disable
// metrics entirely.
func ValidateAndApply(a Appendix, tx TxSenderContext, ctx Context, m *Metrics) (int64, error) {
	err := a.Validate(tx, ctx)
	m.observeValidate(a, err)
	if err != nil {
		return 0, err
	}
	if err := a.Apply(tx, ctx); err != nil {
		return 0, err
	}
	fee, err := ComputeFee(a, tx, ctx.Chain, tx.Height())
	if err != nil {
		return 0, err
	}
	m.observeApply(a, fee)
	return fee, nil
}
