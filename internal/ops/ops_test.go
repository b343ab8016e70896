package ops

import (
	"testing"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/store"
)

// testSetup creates a temporary store and config for testing.
func testSetup(t *testing.T) (*store.Store, *config.Config) {
	t.Helper()

	st, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st, config.DefaultConfig()
}

// mustLog logs a food entry or fails the test.
func mustLog(t *testing.T, st *store.Store, cfg *config.Config, input LogFoodInput) LogFoodOutput {
	t.Helper()
	out, err := LogFood(st, cfg, input)
	if err != nil {
		t.Fatalf("LogFood(%q) failed: %v", input.FoodItem, err)
	}
	return *out
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(i int) *int {
	return &i
}

func TestParseSort(t *testing.T) {
	got, err := ParseSort("")
	if err != nil {
		t.Fatalf("ParseSort failed: %v", err)
	}
	if got != SortTimeDesc {
		t.Errorf("default sort = %q, want %q", got, SortTimeDesc)
	}

	for _, valid := range []string{"time-asc", "time-desc", "calories-asc", "calories-desc"} {
		if _, err := ParseSort(valid); err != nil {
			t.Errorf("ParseSort(%q) failed: %v", valid, err)
		}
	}

	if _, err := ParseSort("alphabetical"); err == nil {
		t.Error("ParseSort should reject unknown criteria")
	}
}
