// Package settlement computes the capacity and energy remuneration for
// offers and technical units from the cleared allocations and the realized
// delivery series.
package settlement

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/store"
	"github.com/gridpool/scr/core/timeseries"
)

const (
	// CapacityFactor converts a 4-hour-slice capacity price into the
	// macro-slice settlement amount.
	CapacityFactor = 4
	// EnergyFactor converts 15-minute power samples into energy in the
	// price's time unit (900 s per sub-slice, 3600 s per hour).
	EnergyFactor = float64(model.SubSliceSeconds) / 3600
)

// info assembles the payment breakdown with the product's sign convention:
// for the positive product the grid pays capacity plus energy towards the
// unit, for the negative product the energy component flows back to the
// grid and is subtracted.
func info(capacity, energy float64, product model.ProductType) model.RemunerationInfo {
	if product == model.Positive {
		return model.RemunerationInfo{
			ProcuredCapacity: capacity,
			DeployedEnergy:   energy,
			Total:            capacity + energy,
			Direction:        model.GridToTechnicalUnit,
		}
	}
	return model.RemunerationInfo{
		ProcuredCapacity: capacity,
		DeployedEnergy:   energy,
		Total:            capacity - energy,
		Direction:        model.TechnicalUnitToGrid,
	}
}

// SettleOffer computes the offer-level remuneration for one activation.
// The capacity component pays the allocation recorded in the preparatory
// list; the energy component mirrors the delivery evaluator's min/max rule
// over the raw samples.
func SettleOffer(id string, offer *model.Offer, activation *model.Activation, prep *model.PreparatoryList, series *timeseries.OfferSeries) (*model.Remuneration, error) {
	if offer == nil || activation == nil || prep == nil || series == nil {
		return nil, model.ValidationError{Reason: "offer, activation, preparatory list and series are required"}
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("settle offer %s: %w", offer.ID, err)
	}

	product := activation.Product
	slice := activation.Slice
	winner, ok := prep.Product(product).Find(slice, offer.ID)
	if !ok {
		return nil, fmt.Errorf("settle offer %s %s %s: winner info: %w", offer.ID, product, slice, store.ErrNotFound)
	}

	bid := offer.Bid(product)
	capacity := CapacityFactor * winner.AllocatedCapacity * bid.CapacityPrice[slice]

	var energy float64
	for i := 0; i < model.SubSliceCount; i++ {
		var delivered float64
		for j := range series.SetValue[i] {
			if product == model.Positive {
				delivered += min(series.SetValue[i][j], series.ActualValue[i][j])
			} else {
				delivered += max(series.SetValue[i][j], series.ActualValue[i][j])
			}
		}
		energy += bid.EnergyPrice[slice] * EnergyFactor * delivered
	}

	return &model.Remuneration{ID: id, ActivationID: activation.ID, Info: info(capacity, energy, product)}, nil
}

// SettleUnit computes the technical-unit accounting for one deployment.
// The energy component nets the acceptance profit against the
// under-fulfillment penalty, both priced at the unit's energy price.
func SettleUnit(id string, deployment *model.Deployment, pool *model.PoolPreparatory, series *timeseries.UnitSeries) (*model.Accounting, error) {
	if deployment == nil || pool == nil || series == nil {
		return nil, model.ValidationError{Reason: "deployment, pool preparatory and series are required"}
	}

	product := deployment.Product
	slice := deployment.Slice
	slot, ok := pool.Product(product).Find(slice, deployment.UnitID)
	if !ok {
		return nil, fmt.Errorf("settle unit %s %s %s: pooled slot: %w", deployment.UnitID, product, slice, store.ErrNotFound)
	}

	capacity := CapacityFactor * slot.AllocatedCapacity * slot.Unit.CapacityPrice

	var energy float64
	for i := 0; i < model.SubSliceCount; i++ {
		profit := slot.Unit.EnergyPrice * EnergyFactor * floats.Sum(series.AcceptanceValueTU[i])
		penalty := slot.Unit.EnergyPrice * EnergyFactor * floats.Sum(series.UnderFulfillmentTU[i])
		energy += profit - penalty
	}

	return &model.Accounting{ID: id, DeploymentID: deployment.ID, Info: info(capacity, energy, product)}, nil
}
