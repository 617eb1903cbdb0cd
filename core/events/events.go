// Package events defines the typed notifications the pipeline emits after a
// stage commits. Delivery is fire-and-forget; the caller decides transport.
package events

import "github.com/gridpool/scr/core/model"

// Event is a typed pipeline notification referencing an entity id.
type Event interface {
	// Name returns the stable event name used on the wire.
	Name() string
}

// TenderStarted signals that a demand was created and bidding opened.
type TenderStarted struct {
	DemandID string
}

func (TenderStarted) Name() string { return "TenderStartedEvent" }

// TenderStopped signals that bidding closed for a demand.
type TenderStopped struct {
	DemandID string
}

func (TenderStopped) Name() string { return "TenderStoppedEvent" }

// TenderResultsAnnounced signals that clearing results were committed.
type TenderResultsAnnounced struct {
	DemandID string
}

func (TenderResultsAnnounced) Name() string { return "AnnounceTenderResultsEvent" }

// DistributionCompleted signals that an aggregator's distribution was
// committed.
type DistributionCompleted struct {
	DistributionID string
}

func (DistributionCompleted) Name() string { return "DistributionCompletedEvent" }

// TestCompleted signals that every pooled slot of a demand was verified.
// Result is PASS only if every slot passed.
type TestCompleted struct {
	DemandID string
	Result   model.TestResult
}

func (TestCompleted) Name() string { return "TestCompletedEvent" }

// Notifier publishes events to an external transport. Publishing is
// at-most-once from the core's perspective; errors are reported but the
// committed stage is never rolled back because of them.
type Notifier interface {
	Publish(event Event) error
}
