// Package clearing implements the tender clearing pass and the merit-order
// sequencer that fixes the dispatch priority of the cleared offers.
package clearing

import (
	"fmt"
	"sort"

	"github.com/gridpool/scr/core/model"
)

// ClearTender selects the winning offers of a closed demand. Per macro
// slice and product, offers are ranked by ascending capacity price (stable,
// so equal prices keep submission order) and accepted greedily until the
// accumulated capacity reaches the demanded amount. The marginal offer is
// capped so the running sum closes the gap exactly; offers beyond it are
// not recorded.
//
// Timing and status validation happen at the pipeline level; ClearTender
// assumes an open, valid demand.
func ClearTender(demand *model.Demand, offers []model.Offer) (*model.SelectedList, error) {
	if demand == nil {
		return nil, model.ValidationError{Reason: "demand is required"}
	}
	selected := &model.SelectedList{DemandID: demand.ID}
	for _, product := range model.Products() {
		winners := selected.Product(product)
		for _, slice := range model.Slices() {
			winners[slice] = clearSlice(demand, offers, product, slice)
		}
	}
	return selected, nil
}

func clearSlice(demand *model.Demand, offers []model.Offer, product model.ProductType, slice model.TimeSlice) []model.WinnerInfo {
	ranked := make([]model.Offer, len(offers))
	copy(ranked, offers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Bid(product).CapacityPrice[slice] < ranked[j].Bid(product).CapacityPrice[slice]
	})

	required := demand.Required(product, slice)
	var winners []model.WinnerInfo
	var sum float64
	for _, offer := range ranked {
		if sum >= required {
			break
		}
		allocated := offer.Bid(product).OfferedCapacity[slice]
		if allocated > required-sum {
			allocated = required - sum
		}
		if allocated <= 0 {
			continue
		}
		winners = append(winners, model.WinnerInfo{OfferID: offer.ID, AllocatedCapacity: allocated})
		sum += allocated
	}
	return winners
}

// Sequence re-sorts a SelectedList into the PreparatoryList: per slice, the
// winners are ordered by the winning offer's energy price, ascending for the
// positive product and descending for the negative one. The sort is stable,
// so sequencing an already-ordered list is a no-op.
func Sequence(selected *model.SelectedList, offers map[string]model.Offer) (*model.PreparatoryList, error) {
	if selected == nil {
		return nil, model.ValidationError{Reason: "selected list is required"}
	}
	prep := &model.PreparatoryList{DemandID: selected.DemandID}
	for _, product := range model.Products() {
		src := selected.Product(product)
		dst := prep.Product(product)
		for _, slice := range model.Slices() {
			ordered := make([]model.WinnerInfo, len(src[slice]))
			copy(ordered, src[slice])
			for _, info := range ordered {
				if _, ok := offers[info.OfferID]; !ok {
					return nil, fmt.Errorf("sequence %s %s: offer %s not found", product, slice, info.OfferID)
				}
			}
			p, s := product, slice
			sort.SliceStable(ordered, func(i, j int) bool {
				pi := offers[ordered[i].OfferID].Bid(p).EnergyPrice[s]
				pj := offers[ordered[j].OfferID].Bid(p).EnergyPrice[s]
				if p == model.Positive {
					return pi < pj
				}
				return pi > pj
			})
			dst[slice] = ordered
		}
	}
	return prep, nil
}
