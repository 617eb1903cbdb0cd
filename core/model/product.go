package model

// ProductType identifies the direction of the reserve product.
type ProductType int

const (
	// Positive reserve increases supply on request.
	Positive ProductType = iota
	// Negative reserve decreases supply on request.
	Negative
)

// String returns a human-readable representation of the product type.
func (p ProductType) String() string {
	switch p {
	case Positive:
		return "POSITIVE"
	case Negative:
		return "NEGATIVE"
	default:
		return "unknown"
	}
}

// Products lists both product types in canonical order.
func Products() []ProductType { return []ProductType{Positive, Negative} }

// BidderType distinguishes aggregators from single power plants.
type BidderType int

const (
	Aggregator BidderType = iota
	PowerPlant
)

func (t BidderType) String() string {
	switch t {
	case Aggregator:
		return "AGGREGATOR"
	case PowerPlant:
		return "POWER_PLANT"
	default:
		return "unknown"
	}
}

// TenderStatus models the demand lifecycle. The status advances
// monotonically and a finished tender is never reopened.
type TenderStatus int

const (
	TenderCreated TenderStatus = iota
	TenderInProgress
	TenderFinished
)

func (s TenderStatus) String() string {
	switch s {
	case TenderCreated:
		return "CREATED"
	case TenderInProgress:
		return "IN_PROGRESS"
	case TenderFinished:
		return "FINISHED"
	default:
		return "unknown"
	}
}

// TestResult is the outcome of the external power-flow verification for a
// pooled slot. The zero value means the slot has not been verified yet.
type TestResult int

const (
	TestPending TestResult = iota
	TestPass
	TestFail
)

func (r TestResult) String() string {
	switch r {
	case TestPending:
		return "PENDING"
	case TestPass:
		return "PASS"
	case TestFail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// PaymentDirection indicates who pays the energy component of a settlement.
type PaymentDirection int

const (
	GridToTechnicalUnit PaymentDirection = iota
	TechnicalUnitToGrid
)

func (d PaymentDirection) String() string {
	switch d {
	case GridToTechnicalUnit:
		return "GRID_TO_TECHNICAL_UNIT"
	case TechnicalUnitToGrid:
		return "TECHNICAL_UNIT_TO_GRID"
	default:
		return "unknown"
	}
}
