package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/gridpool/scr/core/metrics"
	"github.com/gridpool/scr/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	err = sink.RecordClearing(coremetrics.ClearingEvent{
		DemandID: "d1", Product: model.Negative, Slice: model.From00To04, Allocated: 100,
	})
	if err != nil {
		t.Fatalf("record clearing: %v", err)
	}
	err = sink.RecordSettlement(coremetrics.SettlementEvent{
		SubjectID: "offer-1", Product: model.Negative, Direction: model.TechnicalUnitToGrid, Total: -16,
	})
	if err != nil {
		t.Fatalf("record settlement: %v", err)
	}

	ps := sink.(*PromSink)
	cleared := testutil.ToFloat64(ps.clearedCapacity.WithLabelValues("d1", "NEGATIVE", "from00To04"))
	if cleared != 100 {
		t.Errorf("cleared capacity %.2f, want 100", cleared)
	}
	total := testutil.ToFloat64(ps.settlementTotal.WithLabelValues("offer-1", "NEGATIVE", "TECHNICAL_UNIT_TO_GRID"))
	if total != -16 {
		t.Errorf("settlement total %.2f, want -16", total)
	}
	payments := testutil.ToFloat64(ps.settlementPayments.WithLabelValues("NEGATIVE", "TECHNICAL_UNIT_TO_GRID"))
	if payments != 1 {
		t.Errorf("payments %.0f, want 1", payments)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	// A second sink on the same registry reuses the existing collectors.
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}
