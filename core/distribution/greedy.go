package distribution

import (
	"math"

	"github.com/gridpool/scr/core/model"
)

// OverProcurementFactor is the 10% buffer an aggregator distributes beyond
// its cleared allocation to hedge under-delivery. Pooling trims it back out.
const OverProcurementFactor = 1.10

// round2 rounds a capacity to hundredths. All greedy passes work in this
// resolution to avoid float drift across the chained allocations.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// allocate runs the greedy capping pass: each unit is assigned its offered
// capacity until the running sum reaches total; the marginal unit is capped
// so the sum closes the gap exactly. Units that would receive nothing are
// not recorded. The input order is the allocation order.
func allocate(units []model.TechnicalUnit, total float64) []model.DistributionSlot {
	var slots []model.DistributionSlot
	var sum float64
	for _, unit := range units {
		if sum >= total {
			break
		}
		allocated := unit.OfferedCapacity
		if allocated > total-sum {
			allocated = round2(total - sum)
		}
		if allocated <= 0 {
			continue
		}
		sum = round2(sum + allocated)
		slots = append(slots, model.DistributionSlot{Unit: unit, AllocatedCapacity: allocated})
	}
	return slots
}

// units extracts the unit sequence of a slot list, preserving order.
func units(slots []model.PoolSlot) []model.TechnicalUnit {
	out := make([]model.TechnicalUnit, len(slots))
	for i, slot := range slots {
		out[i] = slot.Unit
	}
	return out
}
