// Package metrics defines the sink interface pipeline observability events
// flow through. Sinks like PromSink and InfluxSink record clearing and
// settlement outcomes and can be combined with NewMultiSink; the factory
// helpers return a MultiSink automatically when multiple sinks are
// configured.
package metrics

import (
	"time"

	"github.com/gridpool/scr/core/model"
)

// ClearingEvent captures one cleared slice of a tender.
type ClearingEvent struct {
	DemandID  string
	Product   model.ProductType
	Slice     model.TimeSlice
	Demanded  float64
	Allocated float64
	Winners   int
	Time      time.Time
}

// DistributionEvent captures one committed aggregator distribution slice.
type DistributionEvent struct {
	DistributionID string
	OfferID        string
	Product        model.ProductType
	Slice          model.TimeSlice
	Allocated      float64
	Slots          int
	Time           time.Time
}

// DeliveryEvent captures one evaluated activation or deployment.
type DeliveryEvent struct {
	SubjectID string // offer or technical unit id
	Product   model.ProductType
	Slice     model.TimeSlice
	Interval  string
	Deployed  float64
	Time      time.Time
}

// SettlementEvent captures one computed remuneration or accounting.
type SettlementEvent struct {
	SubjectID string
	Product   model.ProductType
	Slice     model.TimeSlice
	Capacity  float64
	Energy    float64
	Total     float64
	Direction model.PaymentDirection
	Time      time.Time
}

// MetricsSink records pipeline events for observability purposes.
type MetricsSink interface {
	RecordClearing(ev ClearingEvent) error
	RecordDistribution(ev DistributionEvent) error
	RecordDelivery(ev DeliveryEvent) error
	RecordSettlement(ev SettlementEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordClearing(ClearingEvent) error         { return nil }
func (NopSink) RecordDistribution(DistributionEvent) error { return nil }
func (NopSink) RecordDelivery(DeliveryEvent) error         { return nil }
func (NopSink) RecordSettlement(SettlementEvent) error     { return nil }

// MultiSink fans events out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordClearing(ev ClearingEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordClearing(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordDistribution(ev DistributionEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordDistribution(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordDelivery(ev DeliveryEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordDelivery(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordSettlement(ev SettlementEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordSettlement(ev); err != nil {
			return err
		}
	}
	return nil
}
