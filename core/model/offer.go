package model

// ProductBid carries a bidder's per-slice prices and offered capacity for
// one product of an offer.
type ProductBid struct {
	CapacityPrice   SliceAmounts
	EnergyPrice     SliceAmounts
	OfferedCapacity SliceAmounts
}

// Offer is a bid by a bidder against a demand. Offers are immutable once
// cleared; later stages only reference them.
type Offer struct {
	ID       string
	Name     string
	BidderID string
	DemandID string
	Negative ProductBid
	Positive ProductBid
}

// NewOffer creates an offer after checking the capacity tables.
func NewOffer(id, name, bidderID, demandID string, negative, positive ProductBid) (*Offer, error) {
	if id == "" {
		return nil, ValidationError{Reason: "offer id must not be empty"}
	}
	if bidderID == "" || demandID == "" {
		return nil, ValidationError{Reason: "offer must reference a bidder and a demand"}
	}
	for _, s := range Slices() {
		if negative.OfferedCapacity[s] < 0 || positive.OfferedCapacity[s] < 0 {
			return nil, ValidationError{Reason: "offered capacity must be non-negative"}
		}
	}
	return &Offer{ID: id, Name: name, BidderID: bidderID, DemandID: demandID, Negative: negative, Positive: positive}, nil
}

// Bid returns the product bid table for the given product.
func (o Offer) Bid(p ProductType) ProductBid {
	if p == Positive {
		return o.Positive
	}
	return o.Negative
}
