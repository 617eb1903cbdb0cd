package timeseries

import (
	"strings"
	"testing"

	"github.com/gridpool/scr/core/model"
)

func fullPayload(value float64) map[string][]float64 {
	values := make(map[string][]float64, model.SubSliceCount)
	for _, name := range model.SubSliceNames() {
		values[name] = []float64{value, value}
	}
	return values
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(fullPayload(3))
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	for i := range s {
		if len(s[i]) != 2 || s[i][0] != 3 {
			t.Errorf("sub-slice %d: %v", i, s[i])
		}
	}
}

func TestFromMapMissingSubSlice(t *testing.T) {
	values := fullPayload(3)
	delete(values, "from120To135")
	_, err := FromMap(values)
	if err == nil {
		t.Fatal("expected error for missing sub-slice")
	}
	if !strings.Contains(err.Error(), "from120To135") {
		t.Errorf("error does not name the missing sub-slice: %v", err)
	}
}

func TestOfferSeriesValidate(t *testing.T) {
	var set, actual Series
	for i := range set {
		set[i] = []float64{1, 2}
		actual[i] = []float64{1, 2}
	}
	s := &OfferSeries{SetValue: set, ActualValue: actual}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	s.ActualValue[7] = []float64{1}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for mismatched sample counts")
	}
}
