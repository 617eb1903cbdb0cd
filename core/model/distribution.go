package model

// DistributionSlot assigns part of an aggregator's cleared capacity to one
// of its technical units for one macro slice.
type DistributionSlot struct {
	Unit              TechnicalUnit
	AllocatedCapacity float64
}

// SliceSlots holds the ordered slot sequence for every macro slice.
type SliceSlots [SliceCount][]DistributionSlot

// Total returns the summed allocated capacity of a slice.
func (s SliceSlots) Total(slice TimeSlice) float64 {
	var sum float64
	for _, slot := range s[slice] {
		sum += slot.AllocatedCapacity
	}
	return sum
}

// Proposal is the per-slice technical-unit table an aggregator submits for
// distribution. Order within a slice is the submission order and is used as
// the stable tie-break during sorting.
type Proposal struct {
	Negative [SliceCount][]TechnicalUnit
	Positive [SliceCount][]TechnicalUnit
}

// Product returns the proposed unit table for a product.
func (p *Proposal) Product(t ProductType) *[SliceCount][]TechnicalUnit {
	if t == Positive {
		return &p.Positive
	}
	return &p.Negative
}

// Distribution is the result of an aggregator splitting its cleared
// allocation across its affiliated units, including the 10% over-procurement
// buffer. Slots are ordered by ascending unit capacity price.
type Distribution struct {
	ID       string
	OfferID  string
	DemandID string
	Negative SliceSlots
	Positive SliceSlots
}

// Product returns the slot table for a product.
func (d *Distribution) Product(p ProductType) *SliceSlots {
	if p == Positive {
		return &d.Positive
	}
	return &d.Negative
}

// PoolSlot is a pooled technical-unit allocation. Once the external
// power-flow verification ran, Test holds its per-slot outcome.
type PoolSlot struct {
	Unit              TechnicalUnit
	AllocatedCapacity float64
	Test              TestResult
}

// PoolSlices holds the ordered pooled slots for every macro slice.
type PoolSlices [SliceCount][]PoolSlot

// Total returns the summed allocated capacity of a slice.
func (p PoolSlices) Total(slice TimeSlice) float64 {
	var sum float64
	for _, slot := range p[slice] {
		sum += slot.AllocatedCapacity
	}
	return sum
}

// Find returns the pooled slot for the unit in the slice.
func (p PoolSlices) Find(slice TimeSlice, unitID string) (PoolSlot, bool) {
	for _, slot := range p[slice] {
		if slot.Unit.ID == unitID {
			return slot, true
		}
	}
	return PoolSlot{}, false
}

// PoolDistribution merges all aggregators' distributions for a demand into
// one merit-order sequence per slice, still carrying the 10% buffer.
type PoolDistribution struct {
	DemandID string
	Negative PoolSlices
	Positive PoolSlices
}

// Product returns the pooled slot table for a product.
func (d *PoolDistribution) Product(p ProductType) *PoolSlices {
	if p == Positive {
		return &d.Positive
	}
	return &d.Negative
}

// PoolPreparatory is the PoolDistribution trimmed back to the unbuffered
// cleared total, order preserved. It is the list real delivery and payment
// run against.
type PoolPreparatory struct {
	DemandID string
	Negative PoolSlices
	Positive PoolSlices
}

// Product returns the pooled slot table for a product.
func (d *PoolPreparatory) Product(p ProductType) *PoolSlices {
	if p == Positive {
		return &d.Positive
	}
	return &d.Negative
}
