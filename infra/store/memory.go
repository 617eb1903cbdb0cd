// Package store provides in-memory repository implementations. They back
// the pipeline in tests and single-node deployments; a ledger or database
// can replace them behind the same interfaces.
package store

import (
	"fmt"
	"sync"

	"github.com/gridpool/scr/core/model"
	corestore "github.com/gridpool/scr/core/store"
)

// Memory is a map-backed repository keeping insertion order.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewMemory creates an empty repository.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{items: make(map[string]T)}
}

// Add stores the entity under id, failing on duplicates.
func (m *Memory[T]) Add(id string, entity T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; ok {
		return fmt.Errorf("add %s: %w", id, corestore.ErrAlreadyExists)
	}
	m.items[id] = entity
	m.order = append(m.order, id)
	return nil
}

// Get returns the entity stored under id.
func (m *Memory[T]) Get(id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entity, ok := m.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, corestore.ErrNotFound)
	}
	return entity, nil
}

// Update replaces an existing entity.
func (m *Memory[T]) Update(id string, entity T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("update %s: %w", id, corestore.ErrNotFound)
	}
	m.items[id] = entity
	return nil
}

// Has reports whether an entity exists under id.
func (m *Memory[T]) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[id]
	return ok
}

// all returns the entities in insertion order.
func (m *Memory[T]) all() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

// OfferMemory extends Memory with the by-demand query used by clearing.
type OfferMemory struct {
	*Memory[*model.Offer]
}

// NewOfferMemory creates an empty offer repository.
func NewOfferMemory() *OfferMemory { return &OfferMemory{Memory: NewMemory[*model.Offer]()} }

// ByDemand returns all offers bid against the demand, in submission order.
func (m *OfferMemory) ByDemand(demandID string) ([]model.Offer, error) {
	var out []model.Offer
	for _, offer := range m.all() {
		if offer.DemandID == demandID {
			out = append(out, *offer)
		}
	}
	return out, nil
}

// DistributionMemory extends Memory with the by-demand query used by
// pooling.
type DistributionMemory struct {
	*Memory[*model.Distribution]
}

// NewDistributionMemory creates an empty distribution repository.
func NewDistributionMemory() *DistributionMemory {
	return &DistributionMemory{Memory: NewMemory[*model.Distribution]()}
}

// ByDemand returns all distributions committed for the demand, in commit
// order.
func (m *DistributionMemory) ByDemand(demandID string) ([]model.Distribution, error) {
	var out []model.Distribution
	for _, dist := range m.all() {
		if dist.DemandID == demandID {
			out = append(out, *dist)
		}
	}
	return out, nil
}
