package timeseries

import (
	"fmt"

	core "github.com/gridpool/scr/core/timeseries"
)

// offerPayload mirrors the provider's JSON body for offer queries: five
// named channels, each a map keyed by canonical sub-slice names.
type offerPayload struct {
	SetValue         map[string][]float64 `json:"setValue"`
	ActualValue      map[string][]float64 `json:"actualValue"`
	UpperLimit       map[string][]float64 `json:"upperLimit"`
	LowerLimit       map[string][]float64 `json:"lowerLimit"`
	UnderFulfillment map[string][]float64 `json:"underFulfillment"`
}

// unitPayload extends offerPayload with the acceptance channels served for
// technical-unit queries.
type unitPayload struct {
	offerPayload
	AcceptanceValue          map[string][]float64 `json:"acceptanceValue"`
	AllocableAcceptanceValue map[string][]float64 `json:"allocableAcceptanceValue"`
	AcceptanceValueTU        map[string][]float64 `json:"acceptanceValueTU"`
	UnderFulfillmentTU       map[string][]float64 `json:"underFulfillmentTU"`
	Proportion               float64              `json:"proportion"`
}

func (p *offerPayload) toSeries() (*core.OfferSeries, error) {
	var (
		s   core.OfferSeries
		err error
	)
	if s.SetValue, err = core.FromMap(p.SetValue); err != nil {
		return nil, fmt.Errorf("setValue: %w", err)
	}
	if s.ActualValue, err = core.FromMap(p.ActualValue); err != nil {
		return nil, fmt.Errorf("actualValue: %w", err)
	}
	if s.UpperLimit, err = core.FromMap(p.UpperLimit); err != nil {
		return nil, fmt.Errorf("upperLimit: %w", err)
	}
	if s.LowerLimit, err = core.FromMap(p.LowerLimit); err != nil {
		return nil, fmt.Errorf("lowerLimit: %w", err)
	}
	if s.UnderFulfillment, err = core.FromMap(p.UnderFulfillment); err != nil {
		return nil, fmt.Errorf("underFulfillment: %w", err)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *unitPayload) toSeries() (*core.UnitSeries, error) {
	offer, err := p.offerPayload.toSeries()
	if err != nil {
		return nil, err
	}
	s := core.UnitSeries{OfferSeries: *offer, Proportion: p.Proportion}
	if s.AcceptanceValue, err = core.FromMap(p.AcceptanceValue); err != nil {
		return nil, fmt.Errorf("acceptanceValue: %w", err)
	}
	if s.AllocableAcceptanceValue, err = core.FromMap(p.AllocableAcceptanceValue); err != nil {
		return nil, fmt.Errorf("allocableAcceptanceValue: %w", err)
	}
	if s.AcceptanceValueTU, err = core.FromMap(p.AcceptanceValueTU); err != nil {
		return nil, fmt.Errorf("acceptanceValueTU: %w", err)
	}
	if s.UnderFulfillmentTU, err = core.FromMap(p.UnderFulfillmentTU); err != nil {
		return nil, fmt.Errorf("underFulfillmentTU: %w", err)
	}
	return &s, nil
}
