package store

import (
	"errors"
	"testing"

	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/store"
)

func TestMemoryAddGetUpdate(t *testing.T) {
	m := NewMemory[*model.Bidder]()
	b := &model.Bidder{ID: "b1", Name: "first", Type: model.Aggregator}
	if err := m.Add("b1", b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Add("b1", b); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("duplicate add: got %v, want ErrAlreadyExists", err)
	}
	got, err := m.Get("b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("name %s", got.Name)
	}
	got.Name = "renamed"
	if err := m.Update("b1", got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := m.Get("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get missing: got %v, want ErrNotFound", err)
	}
	if err := m.Update("missing", b); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
}

func TestOfferMemoryByDemandKeepsSubmissionOrder(t *testing.T) {
	m := NewOfferMemory()
	add := func(id, demandID string) {
		t.Helper()
		if err := m.Add(id, &model.Offer{ID: id, DemandID: demandID}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	add("o1", "d1")
	add("o2", "d2")
	add("o3", "d1")

	offers, err := m.ByDemand("d1")
	if err != nil {
		t.Fatalf("by demand: %v", err)
	}
	if len(offers) != 2 || offers[0].ID != "o1" || offers[1].ID != "o3" {
		t.Fatalf("got %+v, want o1 then o3", offers)
	}
}

func TestDistributionMemoryByDemand(t *testing.T) {
	m := NewDistributionMemory()
	if err := m.Add("dist-1", &model.Distribution{ID: "dist-1", DemandID: "d1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	dists, err := m.ByDemand("d2")
	if err != nil {
		t.Fatalf("by demand: %v", err)
	}
	if len(dists) != 0 {
		t.Errorf("got %d distributions for foreign demand", len(dists))
	}
}
