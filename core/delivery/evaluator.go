// Package delivery evaluates realized delivery against the external
// set-point/actual-value series and merges power-flow verification results
// into the pooled allocation.
package delivery

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/timeseries"
)

// deployedEnergy computes the delivered control energy per sub-slice. For
// the positive product the smaller of set point and actual value counts
// (only the promised amount that was really delivered); for the negative
// product the larger one counts (the amount really drawn).
func deployedEnergy(set, actual timeseries.Series, product model.ProductType) model.Amount16 {
	var amounts model.Amount16
	for i := range set {
		var sum float64
		for j := range set[i] {
			if product == model.Positive {
				sum += min(set[i][j], actual[i][j])
			} else {
				sum += max(set[i][j], actual[i][j])
			}
		}
		amounts[i] = sum
	}
	return amounts
}

func summarize(set, actual, under timeseries.Series) model.SeriesSummary {
	var s model.SeriesSummary
	for i := 0; i < model.SubSliceCount; i++ {
		s.SetValue += floats.Sum(set[i])
		s.ActualValue += floats.Sum(actual[i])
		s.UnderFulfillment += floats.Sum(under[i])
	}
	return s
}

// EvaluateActivation computes the offer-level delivered energy for one
// macro slice of a settlement interval and keeps the raw series for audit.
func EvaluateActivation(id, recordID, offerID string, product model.ProductType, interval string, slice model.TimeSlice, series *timeseries.OfferSeries) (*model.Activation, *model.OfferSeriesRecord, error) {
	if series == nil {
		return nil, nil, model.ValidationError{Reason: "offer series is required"}
	}
	if err := series.Validate(); err != nil {
		return nil, nil, fmt.Errorf("activation %s: %w", offerID, err)
	}

	deployed := deployedEnergy(series.SetValue, series.ActualValue, product)
	activation := &model.Activation{
		ID:            id,
		OfferID:       offerID,
		Product:       product,
		Interval:      interval,
		Slice:         slice,
		Deployed:      deployed,
		DeployedTotal: deployed.Sum(),
	}
	record := &model.OfferSeriesRecord{
		ID:               recordID,
		OfferID:          offerID,
		Interval:         interval,
		Slice:            slice,
		SetValue:         series.SetValue,
		ActualValue:      series.ActualValue,
		UpperLimit:       series.UpperLimit,
		LowerLimit:       series.LowerLimit,
		UnderFulfillment: series.UnderFulfillment,
		Summary:          summarize(series.SetValue, series.ActualValue, series.UnderFulfillment),
	}
	return activation, record, nil
}

// EvaluateDeployment is the technical-unit counterpart of
// EvaluateActivation. The extra acceptance channels are carried through for
// unit accounting.
func EvaluateDeployment(id, recordID, unitID, demandID string, product model.ProductType, interval string, slice model.TimeSlice, series *timeseries.UnitSeries) (*model.Deployment, *model.UnitSeriesRecord, error) {
	if series == nil {
		return nil, nil, model.ValidationError{Reason: "unit series is required"}
	}
	if err := series.Validate(); err != nil {
		return nil, nil, fmt.Errorf("deployment %s: %w", unitID, err)
	}

	deployed := deployedEnergy(series.SetValue, series.ActualValue, product)
	deployment := &model.Deployment{
		ID:            id,
		UnitID:        unitID,
		DemandID:      demandID,
		Product:       product,
		Interval:      interval,
		Slice:         slice,
		Deployed:      deployed,
		DeployedTotal: deployed.Sum(),
	}
	record := &model.UnitSeriesRecord{
		ID:                       recordID,
		UnitID:                   unitID,
		Interval:                 interval,
		Slice:                    slice,
		SetValue:                 series.SetValue,
		ActualValue:              series.ActualValue,
		UpperLimit:               series.UpperLimit,
		LowerLimit:               series.LowerLimit,
		UnderFulfillment:         series.UnderFulfillment,
		AcceptanceValue:          series.AcceptanceValue,
		AllocableAcceptanceValue: series.AllocableAcceptanceValue,
		AcceptanceValueTU:        series.AcceptanceValueTU,
		UnderFulfillmentTU:       series.UnderFulfillmentTU,
		Proportion:               series.Proportion,
		Summary:                  summarize(series.SetValue, series.ActualValue, series.UnderFulfillment),
	}
	return deployment, record, nil
}
