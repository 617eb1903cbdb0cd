package model

// TechnicalUnit is a controllable asset affiliated with an aggregator. It
// carries a single price pair and one offered capacity bound that applies to
// every macro slice.
type TechnicalUnit struct {
	ID              string
	Name            string
	CapacityPrice   float64
	EnergyPrice     float64
	OfferedCapacity float64
}

// NewTechnicalUnit validates and creates a technical unit.
func NewTechnicalUnit(id, name string, capacityPrice, energyPrice, offeredCapacity float64) (*TechnicalUnit, error) {
	if id == "" {
		return nil, ValidationError{Reason: "technical unit id must not be empty"}
	}
	if offeredCapacity < 0 {
		return nil, ValidationError{Reason: "offered capacity must be non-negative"}
	}
	return &TechnicalUnit{ID: id, Name: name, CapacityPrice: capacityPrice, EnergyPrice: energyPrice, OfferedCapacity: offeredCapacity}, nil
}

// Bidder participates in tenders. An aggregator exclusively owns its list of
// affiliated technical units; downstream allocation artifacts reference the
// units without owning them.
type Bidder struct {
	ID             string
	Name           string
	Type           BidderType
	TechnicalUnits []TechnicalUnit
}

// NewBidder creates a bidder without affiliated units.
func NewBidder(id, name string, t BidderType) (*Bidder, error) {
	if id == "" {
		return nil, ValidationError{Reason: "bidder id must not be empty"}
	}
	return &Bidder{ID: id, Name: name, Type: t}, nil
}

// Affiliate appends a technical unit to the bidder's list.
func (b *Bidder) Affiliate(unit TechnicalUnit) {
	b.TechnicalUnits = append(b.TechnicalUnits, unit)
}

// Affiliated reports whether the unit with the given id belongs to the bidder.
func (b *Bidder) Affiliated(unitID string) bool {
	for _, u := range b.TechnicalUnits {
		if u.ID == unitID {
			return true
		}
	}
	return false
}
