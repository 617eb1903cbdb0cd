package delivery

import (
	"fmt"

	"github.com/gridpool/scr/core/model"
)

// VerificationResults carries the externally computed pass/fail outcome per
// pooled slot, one sequence per macro slice, aligned with the slot order of
// the PoolPreparatory.
type VerificationResults struct {
	Negative [model.SliceCount][]model.TestResult
	Positive [model.SliceCount][]model.TestResult
}

func (r *VerificationResults) product(p model.ProductType) *[model.SliceCount][]model.TestResult {
	if p == model.Positive {
		return &r.Positive
	}
	return &r.Negative
}

// ApplyVerification attaches the per-slot test results to the pooled
// preparatory list and returns the overall outcome: PASS only if every slot
// passed. The result shape must match the slot shape exactly; a partial
// verification is rejected.
func ApplyVerification(pool *model.PoolPreparatory, results *VerificationResults) (model.TestResult, error) {
	if pool == nil || results == nil {
		return model.TestPending, model.ValidationError{Reason: "pool and verification results are required"}
	}

	// Validate the full shape before touching the pool so a rejected
	// verification leaves it untouched.
	for _, product := range model.Products() {
		slices := pool.Product(product)
		res := results.product(product)
		for _, slice := range model.Slices() {
			if len(res[slice]) != len(slices[slice]) {
				return model.TestPending, model.ValidationError{Reason: fmt.Sprintf(
					"verification %s %s: %d results for %d slots", product, slice, len(res[slice]), len(slices[slice]))}
			}
			for i, result := range res[slice] {
				if result != model.TestPass && result != model.TestFail {
					return model.TestPending, model.ValidationError{Reason: fmt.Sprintf(
						"verification %s %s: slot %d has no outcome", product, slice, i)}
				}
			}
		}
	}

	overall := model.TestPass
	for _, product := range model.Products() {
		slices := pool.Product(product)
		res := results.product(product)
		for _, slice := range model.Slices() {
			for i, result := range res[slice] {
				slices[slice][i].Test = result
				if result == model.TestFail {
					overall = model.TestFail
				}
			}
		}
	}
	return overall, nil
}
