// Package store defines the repository ports the pipeline stages are given.
// The persistence engine behind them is out of scope; implementations only
// have to honor the keyed add/get/update contract and the error sentinels.
package store

import (
	"errors"

	"github.com/gridpool/scr/core/model"
)

var (
	// ErrNotFound is returned when no entity exists under the requested id,
	// and when an allocation lookup (winner info, pooled slot) has no match.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when adding an entity under a taken id.
	ErrAlreadyExists = errors.New("already exists")
)

// Repository is a keyed ledger of one entity type. Add fails with
// ErrAlreadyExists on a duplicate id, Get and Update fail with ErrNotFound
// for unknown ids.
type Repository[T any] interface {
	Add(id string, entity T) error
	Get(id string) (T, error)
	Update(id string, entity T) error
}

// OfferRepository additionally resolves all offers bid against a demand,
// in submission order.
type OfferRepository interface {
	Repository[*model.Offer]
	ByDemand(demandID string) ([]model.Offer, error)
}

// DistributionRepository additionally resolves all distributions committed
// for a demand, in commit order.
type DistributionRepository interface {
	Repository[*model.Distribution]
	ByDemand(demandID string) ([]model.Distribution, error)
}
