package model

// WinnerInfo records how much capacity one offer won in one macro slice.
// The allocated capacity never exceeds the offer's offered capacity for
// that slice.
type WinnerInfo struct {
	OfferID           string
	AllocatedCapacity float64
}

// SliceWinners holds the ordered winner sequence for every macro slice.
type SliceWinners [SliceCount][]WinnerInfo

// Find returns the winner entry for the given offer in the slice.
func (w SliceWinners) Find(s TimeSlice, offerID string) (WinnerInfo, bool) {
	for _, info := range w[s] {
		if info.OfferID == offerID {
			return info, true
		}
	}
	return WinnerInfo{}, false
}

// Total returns the summed allocated capacity of a slice.
func (w SliceWinners) Total(s TimeSlice) float64 {
	var sum float64
	for _, info := range w[s] {
		sum += info.AllocatedCapacity
	}
	return sum
}

// SelectedList is the clearing output for a demand: per product and per
// macro slice, the accepted offers ordered by ascending capacity price.
type SelectedList struct {
	DemandID string
	Negative SliceWinners
	Positive SliceWinners
}

// Product returns the winner table for a product.
func (l *SelectedList) Product(p ProductType) *SliceWinners {
	if p == Positive {
		return &l.Positive
	}
	return &l.Negative
}

// PreparatoryList is the SelectedList re-sequenced into merit order by
// energy price. It fixes the dispatch priority used by every later stage.
type PreparatoryList struct {
	DemandID string
	Negative SliceWinners
	Positive SliceWinners
}

// Product returns the winner table for a product.
func (l *PreparatoryList) Product(p ProductType) *SliceWinners {
	if p == Positive {
		return &l.Positive
	}
	return &l.Negative
}
