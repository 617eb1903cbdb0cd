// Package audit records one entry per committed pipeline stage so a cleared
// tender can be traced from demand to settlement.
package audit

import (
	"context"
	"time"
)

// StageRecord captures one committed pipeline stage.
type StageRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Stage     string         `json:"stage"`
	EntityID  string         `json:"entity_id"`
	DemandID  string         `json:"demand_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start    time.Time
	End      time.Time
	Stage    string
	DemandID string
}

// Store persists StageRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec StageRecord) error
	Query(ctx context.Context, q Query) ([]StageRecord, error)
	Close() error
}
