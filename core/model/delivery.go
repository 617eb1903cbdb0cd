package model

// Activation records the control energy an offer actually delivered during
// one macro slice of a settlement interval, one value per sub-slice.
type Activation struct {
	ID            string
	OfferID       string
	Product       ProductType
	Interval      string
	Slice         TimeSlice
	Deployed      Amount16
	DeployedTotal float64
}

// Deployment is the technical-unit level counterpart of Activation.
type Deployment struct {
	ID            string
	UnitID        string
	DemandID      string // references the PoolPreparatory the unit was pooled in
	Product       ProductType
	Interval      string
	Slice         TimeSlice
	Deployed      Amount16
	DeployedTotal float64
}

// SeriesSummary keeps audit sums over the raw provider series.
type SeriesSummary struct {
	SetValue         float64
	ActualValue      float64
	UnderFulfillment float64
}

// OfferSeriesRecord persists the raw provider series fetched for an offer
// activation, for auditing.
type OfferSeriesRecord struct {
	ID               string
	OfferID          string
	Interval         string
	Slice            TimeSlice
	SetValue         [SubSliceCount][]float64
	ActualValue      [SubSliceCount][]float64
	UpperLimit       [SubSliceCount][]float64
	LowerLimit       [SubSliceCount][]float64
	UnderFulfillment [SubSliceCount][]float64
	Summary          SeriesSummary
}

// UnitSeriesRecord persists the raw provider series fetched for a technical
// unit deployment, including the acceptance series used by accounting.
type UnitSeriesRecord struct {
	ID                       string
	UnitID                   string
	Interval                 string
	Slice                    TimeSlice
	SetValue                 [SubSliceCount][]float64
	ActualValue              [SubSliceCount][]float64
	UpperLimit               [SubSliceCount][]float64
	LowerLimit               [SubSliceCount][]float64
	UnderFulfillment         [SubSliceCount][]float64
	AcceptanceValue          [SubSliceCount][]float64
	AllocableAcceptanceValue [SubSliceCount][]float64
	AcceptanceValueTU        [SubSliceCount][]float64
	UnderFulfillmentTU       [SubSliceCount][]float64
	Proportion               float64
	Summary                  SeriesSummary
}

// Verification is the persisted outcome of one external power-flow check
// against a PoolPreparatory.
type Verification struct {
	ID       string
	DemandID string
	Result   TestResult
}
