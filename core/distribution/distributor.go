// Package distribution implements the capacity distributor an aggregator
// runs over its affiliated technical units and the cross-aggregator pooling
// that merges and trims the distributed slots.
package distribution

import (
	"fmt"
	"sort"

	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/store"
)

// Distribute splits an aggregator offer's cleared allocation across the
// bidder's technical units. Per macro slice and product: units not
// affiliated with the bidder are dropped, the rest are ordered by ascending
// capacity price (stable, proposal order breaks ties) and filled greedily
// against 110% of the cleared allocation. Each product runs its own pass
// against its own cleared total.
func Distribute(id string, offer *model.Offer, bidder *model.Bidder, prep *model.PreparatoryList, proposal *model.Proposal) (*model.Distribution, error) {
	if bidder.Type != model.Aggregator {
		return nil, model.ValidationError{Reason: fmt.Sprintf("bidder %s is not an aggregator", bidder.ID)}
	}
	if offer.BidderID != bidder.ID {
		return nil, model.ValidationError{Reason: fmt.Sprintf("offer %s does not belong to bidder %s", offer.ID, bidder.ID)}
	}

	dist := &model.Distribution{ID: id, OfferID: offer.ID, DemandID: offer.DemandID}
	for _, product := range model.Products() {
		proposed := proposal.Product(product)
		slots := dist.Product(product)
		for _, slice := range model.Slices() {
			winner, ok := prep.Product(product).Find(slice, offer.ID)
			if !ok {
				return nil, fmt.Errorf("distribute %s %s: winner info for offer %s: %w",
					product, slice, offer.ID, store.ErrNotFound)
			}

			affiliated := make([]model.TechnicalUnit, 0, len(proposed[slice]))
			for _, unit := range proposed[slice] {
				if bidder.Affiliated(unit.ID) {
					affiliated = append(affiliated, unit)
				}
			}
			sort.SliceStable(affiliated, func(i, j int) bool {
				return affiliated[i].CapacityPrice < affiliated[j].CapacityPrice
			})

			total := round2(winner.AllocatedCapacity * OverProcurementFactor)
			slots[slice] = allocate(affiliated, total)
		}
	}
	return dist, nil
}

// Pool merges the distributions of every contributing aggregator for one
// demand. PoolDistribution re-sorts the merged slots by unit energy price
// (positive ascending, negative descending) and re-runs the greedy capping
// pass against the buffered cleared total. PoolPreparatory keeps that order
// and re-runs the pass against the unbuffered total, trimming the buffer
// back out.
func Pool(demandID string, distributions []model.Distribution, prep *model.PreparatoryList) (*model.PoolDistribution, *model.PoolPreparatory, error) {
	if len(distributions) == 0 {
		return nil, nil, model.ValidationError{Reason: "no distributions to pool"}
	}

	poolDist := &model.PoolDistribution{DemandID: demandID}
	poolPrep := &model.PoolPreparatory{DemandID: demandID}
	for _, product := range model.Products() {
		distSlices := poolDist.Product(product)
		prepSlices := poolPrep.Product(product)
		for _, slice := range model.Slices() {
			var merged []model.TechnicalUnit
			var cleared float64
			for _, dist := range distributions {
				winner, ok := prep.Product(product).Find(slice, dist.OfferID)
				if !ok {
					return nil, nil, fmt.Errorf("pool %s %s: winner info for offer %s: %w",
						product, slice, dist.OfferID, store.ErrNotFound)
				}
				cleared += winner.AllocatedCapacity
				for _, slot := range dist.Product(product)[slice] {
					merged = append(merged, slot.Unit)
				}
			}

			p := product
			sort.SliceStable(merged, func(i, j int) bool {
				if p == model.Positive {
					return merged[i].EnergyPrice < merged[j].EnergyPrice
				}
				return merged[i].EnergyPrice > merged[j].EnergyPrice
			})

			buffered := round2(cleared * OverProcurementFactor)
			distSlices[slice] = asPoolSlots(allocate(merged, buffered))
			// Order fixed by PoolDistribution, only the total changes.
			prepSlices[slice] = asPoolSlots(allocate(units(distSlices[slice]), round2(cleared)))
		}
	}
	return poolDist, poolPrep, nil
}

func asPoolSlots(slots []model.DistributionSlot) []model.PoolSlot {
	out := make([]model.PoolSlot, len(slots))
	for i, slot := range slots {
		out[i] = model.PoolSlot{Unit: slot.Unit, AllocatedCapacity: slot.AllocatedCapacity}
	}
	return out
}
