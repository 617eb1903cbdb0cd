package model

import (
	"fmt"
	"strings"
)

// The trading day is partitioned into six 4-hour macro slices, each of which
// is partitioned into sixteen 15-minute sub-slices.
const (
	SliceCount    = 6
	SubSliceCount = 16

	// SubSliceSeconds is the duration of one sub-slice in seconds. It is
	// used to convert power samples into energy amounts during settlement.
	SubSliceSeconds = 900
)

// TimeSlice is one of the six 4-hour windows of a trading day.
type TimeSlice int

const (
	From00To04 TimeSlice = iota
	From04To08
	From08To12
	From12To16
	From16To20
	From20To24
)

var sliceNames = [SliceCount]string{
	"from00To04", "from04To08", "from08To12",
	"from12To16", "from16To20", "from20To24",
}

// Slices returns all macro slices in day order.
func Slices() [SliceCount]TimeSlice {
	return [SliceCount]TimeSlice{From00To04, From04To08, From08To12, From12To16, From16To20, From20To24}
}

// String returns the canonical slice key, e.g. "from08To12".
func (s TimeSlice) String() string {
	if s < 0 || int(s) >= SliceCount {
		return "unknown"
	}
	return sliceNames[s]
}

// Valid reports whether s is one of the six canonical slices.
func (s TimeSlice) Valid() bool { return s >= 0 && int(s) < SliceCount }

// Key returns the digit-only form of the slice name used by the time-series
// provider routes, e.g. "from08To12" -> "0812".
func (s TimeSlice) Key() string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s.String())
}

// ParseTimeSlice resolves a canonical slice key.
func ParseTimeSlice(name string) (TimeSlice, error) {
	for i, n := range sliceNames {
		if n == name {
			return TimeSlice(i), nil
		}
	}
	return 0, fmt.Errorf("unknown time slice %q", name)
}

// SubSlice is one of the sixteen 15-minute windows inside a macro slice.
type SubSlice int

var subSliceNames = [SubSliceCount]string{
	"from000To015", "from015To030", "from030To045", "from045To060",
	"from060To075", "from075To090", "from090To105", "from105To120",
	"from120To135", "from135To150", "from150To165", "from165To180",
	"from180To195", "from195To210", "from210To225", "from225To240",
}

// SubSliceNames returns the sixteen canonical sub-slice keys in order.
func SubSliceNames() [SubSliceCount]string { return subSliceNames }

// String returns the canonical sub-slice key, e.g. "from045To060".
func (s SubSlice) String() string {
	if s < 0 || int(s) >= SubSliceCount {
		return "unknown"
	}
	return subSliceNames[s]
}

// SliceAmounts holds one value per macro slice, indexed by TimeSlice.
type SliceAmounts [SliceCount]float64

// At returns the value for the given slice.
func (a SliceAmounts) At(s TimeSlice) float64 { return a[s] }

// Amount16 is a fixed-length series of one value per sub-slice. The sixteen
// sub-slices tile one macro slice exactly.
type Amount16 [SubSliceCount]float64

// Sum returns the total over all sub-slices.
func (a Amount16) Sum() float64 {
	var total float64
	for _, v := range a {
		total += v
	}
	return total
}
