package model

import (
	"fmt"
	"time"
)

// Demand is a tender for reserve capacity: per macro slice, the grid
// operator requests a positive and a negative amount.
type Demand struct {
	ID             string
	ReserveType    string // e.g. "aFRR"
	TenderType     string // e.g. "Daily"
	DeliveryPeriod time.Time
	TenderDeadline time.Time
	Status         TenderStatus
	Negative       SliceAmounts
	Positive       SliceAmounts
}

// NewDemand creates a demand in CREATED state.
func NewDemand(id string, deliveryPeriod, deadline time.Time, negative, positive SliceAmounts) (*Demand, error) {
	if id == "" {
		return nil, ValidationError{Reason: "demand id must not be empty"}
	}
	for _, s := range Slices() {
		if negative[s] < 0 || positive[s] < 0 {
			return nil, ValidationError{Reason: fmt.Sprintf("negative capacity demand in slice %s", s)}
		}
	}
	return &Demand{
		ID:             id,
		ReserveType:    "aFRR",
		TenderType:     "Daily",
		DeliveryPeriod: deliveryPeriod,
		TenderDeadline: deadline,
		Status:         TenderCreated,
		Negative:       negative,
		Positive:       positive,
	}, nil
}

// Required returns the demanded capacity for the product in the slice.
func (d *Demand) Required(p ProductType, s TimeSlice) float64 {
	if p == Positive {
		return d.Positive[s]
	}
	return d.Negative[s]
}

// Open reports whether offers may still be submitted at the given time.
func (d *Demand) Open(now time.Time) bool {
	return d.Status != TenderFinished && !now.After(d.TenderDeadline)
}
