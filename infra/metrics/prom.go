// Package metrics provides Prometheus and InfluxDB backed implementations
// of the pipeline metrics sink.
package metrics

import (
	coremetrics "github.com/gridpool/scr/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records pipeline events in Prometheus metrics.
type PromSink struct {
	clearedCapacity    *prometheus.CounterVec
	distributedSlots   *prometheus.CounterVec
	deliveredEnergy    *prometheus.CounterVec
	settlementTotal    *prometheus.GaugeVec
	settlementPayments *prometheus.CounterVec
}

// NewPromSink registers pipeline metrics on the default Prometheus
// registerer. The scrape endpoint is started separately using the
// configured port.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cleared := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scr_cleared_capacity_total",
		Help: "Capacity allocated by tender clearing",
	}, []string{"demand_id", "product", "slice"})
	slots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scr_distributed_capacity_total",
		Help: "Capacity distributed to technical units, buffer included",
	}, []string{"offer_id", "product", "slice"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scr_delivered_energy_total",
		Help: "Delivered control energy per evaluated interval",
	}, []string{"subject_id", "product", "slice"})
	// A gauge: negative-product totals can be negative.
	totals := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scr_settlement_amount_total",
		Help: "Signed settlement totals",
	}, []string{"subject_id", "product", "direction"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scr_settlements_total",
		Help: "Number of computed settlements",
	}, []string{"product", "direction"})

	var err error
	if cleared, err = register(reg, cleared); err != nil {
		return nil, err
	}
	if slots, err = register(reg, slots); err != nil {
		return nil, err
	}
	if delivered, err = register(reg, delivered); err != nil {
		return nil, err
	}
	if totals, err = registerGauge(reg, totals); err != nil {
		return nil, err
	}
	if payments, err = register(reg, payments); err != nil {
		return nil, err
	}

	return &PromSink{
		clearedCapacity:    cleared,
		distributedSlots:   slots,
		deliveredEnergy:    delivered,
		settlementTotal:    totals,
		settlementPayments: payments,
	}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.GaugeVec), nil
		}
		return nil, err
	}
	return g, nil
}

// RecordClearing adds the allocated capacity of a cleared slice.
func (s *PromSink) RecordClearing(ev coremetrics.ClearingEvent) error {
	s.clearedCapacity.WithLabelValues(ev.DemandID, ev.Product.String(), ev.Slice.String()).Add(ev.Allocated)
	return nil
}

// RecordDistribution adds the distributed capacity of a slice.
func (s *PromSink) RecordDistribution(ev coremetrics.DistributionEvent) error {
	s.distributedSlots.WithLabelValues(ev.OfferID, ev.Product.String(), ev.Slice.String()).Add(ev.Allocated)
	return nil
}

// RecordDelivery adds the delivered energy of an evaluated interval.
func (s *PromSink) RecordDelivery(ev coremetrics.DeliveryEvent) error {
	s.deliveredEnergy.WithLabelValues(ev.SubjectID, ev.Product.String(), ev.Slice.String()).Add(ev.Deployed)
	return nil
}

// RecordSettlement counts the settlement and adds its signed total.
func (s *PromSink) RecordSettlement(ev coremetrics.SettlementEvent) error {
	s.settlementTotal.WithLabelValues(ev.SubjectID, ev.Product.String(), ev.Direction.String()).Add(ev.Total)
	s.settlementPayments.WithLabelValues(ev.Product.String(), ev.Direction.String()).Inc()
	return nil
}
