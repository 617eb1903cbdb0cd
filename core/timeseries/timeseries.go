// Package timeseries defines the port to the external set-point/actual-value
// data provider and the validated series shapes it must deliver. Delivery
// evaluation fails on partial or malformed data instead of defaulting to
// zero.
package timeseries

import (
	"context"
	"fmt"

	"github.com/gridpool/scr/core/model"
)

// Series holds the raw samples of one named channel, one sample sequence per
// sub-slice in canonical order.
type Series [model.SubSliceCount][]float64

// FromMap converts a provider payload keyed by canonical sub-slice names
// into a Series. Every one of the sixteen keys must be present.
func FromMap(values map[string][]float64) (Series, error) {
	var s Series
	for i, name := range model.SubSliceNames() {
		samples, ok := values[name]
		if !ok {
			return Series{}, fmt.Errorf("sub-slice %s missing", name)
		}
		s[i] = samples
	}
	return s, nil
}

// OfferSeries is the channel set served for an offer.
type OfferSeries struct {
	SetValue         Series
	ActualValue      Series
	UpperLimit       Series
	LowerLimit       Series
	UnderFulfillment Series
}

// Validate checks that set and actual values pair up sample by sample.
func (s *OfferSeries) Validate() error {
	for i := range s.SetValue {
		if len(s.SetValue[i]) != len(s.ActualValue[i]) {
			return fmt.Errorf("sub-slice %s: %d set samples vs %d actual samples",
				model.SubSlice(i), len(s.SetValue[i]), len(s.ActualValue[i]))
		}
	}
	return nil
}

// UnitSeries is the channel set served for a technical unit. It extends the
// offer channels with the acceptance series used by unit accounting.
type UnitSeries struct {
	OfferSeries
	AcceptanceValue          Series
	AllocableAcceptanceValue Series
	AcceptanceValueTU        Series
	UnderFulfillmentTU       Series
	Proportion               float64
}

// Provider serves historical series for a subject and settlement interval.
type Provider interface {
	// OfferSeries returns the channels recorded for the offer during the
	// interval's macro slice, for the given product.
	OfferSeries(ctx context.Context, offerID, interval string, slice model.TimeSlice, product model.ProductType) (*OfferSeries, error)
	// UnitSeries returns the channels recorded for the technical unit.
	UnitSeries(ctx context.Context, unitID, interval string, slice model.TimeSlice) (*UnitSeries, error)
}
