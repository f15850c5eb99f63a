package domain

import (
	"testing"
	"time"
)

func TestMachine_Supports(t *testing.T) {
	m := Machine{Name: "Machine A", Operations: []string{"cutting", "drilling"}}
	if !m.Supports("cutting") {
		t.Error("Supports(cutting) = false, want true")
	}
	if m.Supports("painting") {
		t.Error("Supports(painting) = true, want false")
	}
}

func TestProduct_WorkHours(t *testing.T) {
	p := Product{Name: "Product X", Tasks: []RecipeTask{
		{Operation: "cutting", Duration: 2},
		{Operation: "welding", Duration: 3},
	}}
	if got := p.WorkHours(); got != 5 {
		t.Errorf("WorkHours() = %d, want 5", got)
	}
}

func TestSetupTimes_Get(t *testing.T) {
	s := SetupTimes{
		"Product X-Product Y": 3,
		"Product Y-Product X": 1,
	}
	tests := []struct {
		from, to string
		want     int
	}{
		{"Product X", "Product Y", 3},
		{"Product Y", "Product X", 1}, // asymmetric
		{"Product X", "Product Z", 0}, // undefined = zero
		{"Product X", "Product X", 0}, // same product = zero
	}
	for _, tt := range tests {
		if got := s.Get(tt.from, tt.to); got != tt.want {
			t.Errorf("Get(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestScenario_ProductByName(t *testing.T) {
	sc := Scenario{Products: []Product{{Name: "Product X"}}}
	if _, ok := sc.ProductByName("Product X"); !ok {
		t.Error("ProductByName(Product X) not found")
	}
	if _, ok := sc.ProductByName("Product Q"); ok {
		t.Error("ProductByName(Product Q) found, want miss")
	}
}

func TestParseStart(t *testing.T) {
	got := ParseStart("2026-01-05T08:00:00Z")
	want := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseStart(RFC3339) = %v, want %v", got, want)
	}

	got = ParseStart("2026-01-05 08:00")
	if got.Hour() != 8 || got.Day() != 5 {
		t.Errorf("ParseStart(compact) = %v, want 2026-01-05 08:00", got)
	}

	// Unparseable input falls back to roughly now.
	before := time.Now()
	got = ParseStart("not-a-timestamp")
	if got.Before(before.Add(-time.Minute)) || got.After(time.Now().Add(time.Minute)) {
		t.Errorf("ParseStart(garbage) = %v, want ~now", got)
	}
}

func TestWallClock(t *testing.T) {
	epoch := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if got := WallClock(epoch, 26); got != "2026-01-06 10:00" {
		t.Errorf("WallClock(+26h) = %q, want %q", got, "2026-01-06 10:00")
	}
}
