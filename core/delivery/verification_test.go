package delivery

import (
	"errors"
	"testing"

	"github.com/gridpool/scr/core/model"
)

func pooledPrep(unitsPerSlice int) *model.PoolPreparatory {
	pool := &model.PoolPreparatory{DemandID: "demand-1"}
	for _, slice := range model.Slices() {
		for i := 0; i < unitsPerSlice; i++ {
			slot := model.PoolSlot{Unit: model.TechnicalUnit{ID: "u1"}, AllocatedCapacity: 10}
			pool.Negative[slice] = append(pool.Negative[slice], slot)
			pool.Positive[slice] = append(pool.Positive[slice], slot)
		}
	}
	return pool
}

func fullResults(unitsPerSlice int, outcome model.TestResult) *VerificationResults {
	res := &VerificationResults{}
	for _, slice := range model.Slices() {
		for i := 0; i < unitsPerSlice; i++ {
			res.Negative[slice] = append(res.Negative[slice], outcome)
			res.Positive[slice] = append(res.Positive[slice], outcome)
		}
	}
	return res
}

func TestApplyVerificationAllPass(t *testing.T) {
	pool := pooledPrep(2)
	verdict, err := ApplyVerification(pool, fullResults(2, model.TestPass))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if verdict != model.TestPass {
		t.Errorf("verdict %s, want PASS", verdict)
	}
	for _, slice := range model.Slices() {
		for i, slot := range pool.Negative[slice] {
			if slot.Test != model.TestPass {
				t.Errorf("slice %s slot %d not marked", slice, i)
			}
		}
	}
}

func TestApplyVerificationSingleFailure(t *testing.T) {
	pool := pooledPrep(2)
	res := fullResults(2, model.TestPass)
	res.Positive[model.From12To16][1] = model.TestFail

	verdict, err := ApplyVerification(pool, res)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if verdict != model.TestFail {
		t.Errorf("verdict %s, want FAIL", verdict)
	}
	if pool.Positive[model.From12To16][1].Test != model.TestFail {
		t.Error("failing slot not marked")
	}
	if pool.Positive[model.From12To16][0].Test != model.TestPass {
		t.Error("passing slot not marked")
	}
}

func TestApplyVerificationShapeMismatch(t *testing.T) {
	_, err := ApplyVerification(pooledPrep(2), fullResults(1, model.TestPass))
	var verr model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestApplyVerificationRejectedLeavesPoolUntouched(t *testing.T) {
	pool := pooledPrep(2)
	res := fullResults(2, model.TestPass)
	// Positive results are well-formed; negative ones are short one slot.
	for _, slice := range model.Slices() {
		res.Negative[slice] = res.Negative[slice][:1]
	}

	_, err := ApplyVerification(pool, res)
	var verr model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want validation error", err)
	}
	for _, slice := range model.Slices() {
		for i, slot := range pool.Positive[slice] {
			if slot.Test != model.TestPending {
				t.Errorf("positive slice %s slot %d marked %s after rejection", slice, i, slot.Test)
			}
		}
		for i, slot := range pool.Negative[slice] {
			if slot.Test != model.TestPending {
				t.Errorf("negative slice %s slot %d marked %s after rejection", slice, i, slot.Test)
			}
		}
	}
}

func TestApplyVerificationRejectsPending(t *testing.T) {
	res := fullResults(2, model.TestPass)
	res.Negative[model.From00To04][0] = model.TestPending
	_, err := ApplyVerification(pooledPrep(2), res)
	var verr model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want validation error", err)
	}
}
