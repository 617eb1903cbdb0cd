package model

import (
	"testing"
	"time"
)

func TestTimeSliceKeys(t *testing.T) {
	checks := []struct {
		slice TimeSlice
		name  string
		key   string
	}{
		{From00To04, "from00To04", "0004"},
		{From08To12, "from08To12", "0812"},
		{From20To24, "from20To24", "2024"},
	}
	for _, c := range checks {
		if c.slice.String() != c.name {
			t.Errorf("String() = %s, want %s", c.slice.String(), c.name)
		}
		if c.slice.Key() != c.key {
			t.Errorf("Key() = %s, want %s", c.slice.Key(), c.key)
		}
	}
}

func TestParseTimeSlice(t *testing.T) {
	for _, s := range Slices() {
		got, err := ParseTimeSlice(s.String())
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if got != s {
			t.Errorf("parse %s = %v", s, got)
		}
	}
	if _, err := ParseTimeSlice("from24To28"); err == nil {
		t.Error("expected error for unknown slice name")
	}
}

func TestSubSliceNamesCoverTheDay(t *testing.T) {
	names := SubSliceNames()
	if len(names) != SubSliceCount {
		t.Fatalf("got %d names, want %d", len(names), SubSliceCount)
	}
	if names[0] != "from000To015" {
		t.Errorf("first name %s", names[0])
	}
	if names[SubSliceCount-1] != "from225To240" {
		t.Errorf("last name %s", names[SubSliceCount-1])
	}
}

func TestDemandValidation(t *testing.T) {
	now := time.Now()
	var neg, pos SliceAmounts
	neg[2] = -1
	if _, err := NewDemand("d", now, now, neg, pos); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := NewDemand("", now, now, SliceAmounts{}, SliceAmounts{}); err == nil {
		t.Error("expected error for empty id")
	}
}
