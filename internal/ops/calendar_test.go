package ops

import (
	"testing"
	"time"

	"github.com/jet23058/caloriesnap/internal/errors"
)

func TestCalendarMarks_DerivesBothDaySets(t *testing.T) {
	st, cfg := testSetup(t)

	mustLog(t, st, cfg, LogFoodInput{FoodItem: "Oatmeal", CalorieEstimate: 300, Timestamp: at(2026, time.August, 3, 8, 0)})
	mustLog(t, st, cfg, LogFoodInput{FoodItem: "Salad", CalorieEstimate: 250, Timestamp: at(2026, time.August, 3, 13, 0)})
	mustLog(t, st, cfg, LogFoodInput{FoodItem: "Soup", CalorieEstimate: 400, Timestamp: at(2026, time.August, 10, 19, 0)})
	if _, err := AddWater(st, cfg, AddWaterInput{Amount: 250, Timestamp: at(2026, time.August, 5, 9, 0)}); err != nil {
		t.Fatalf("AddWater failed: %v", err)
	}

	out, err := CalendarMarks(st, CalendarMarksInput{})
	if err != nil {
		t.Fatalf("CalendarMarks failed: %v", err)
	}

	wantFood := []string{"2026-08-03", "2026-08-10"}
	if len(out.DaysWithFood) != len(wantFood) {
		t.Fatalf("DaysWithFood = %v, want %v", out.DaysWithFood, wantFood)
	}
	for i, day := range wantFood {
		if out.DaysWithFood[i] != day {
			t.Errorf("DaysWithFood[%d] = %q, want %q", i, out.DaysWithFood[i], day)
		}
	}
	if len(out.DaysWithWater) != 1 || out.DaysWithWater[0] != "2026-08-05" {
		t.Errorf("DaysWithWater = %v, want [2026-08-05]", out.DaysWithWater)
	}
}

func TestCalendarMarks_MonthFilter(t *testing.T) {
	st, cfg := testSetup(t)

	mustLog(t, st, cfg, LogFoodInput{FoodItem: "August", CalorieEstimate: 300, Timestamp: at(2026, time.August, 3, 8, 0)})
	mustLog(t, st, cfg, LogFoodInput{FoodItem: "September", CalorieEstimate: 300, Timestamp: at(2026, time.September, 1, 8, 0)})

	out, err := CalendarMarks(st, CalendarMarksInput{Month: "2026-09"})
	if err != nil {
		t.Fatalf("CalendarMarks failed: %v", err)
	}
	if len(out.DaysWithFood) != 1 || out.DaysWithFood[0] != "2026-09-01" {
		t.Errorf("DaysWithFood = %v, want [2026-09-01]", out.DaysWithFood)
	}
}

func TestCalendarMarks_ResetDayDisappears(t *testing.T) {
	st, cfg := testSetup(t)
	ts := at(2026, time.August, 20, 9, 0)

	if _, err := AddWater(st, cfg, AddWaterInput{Amount: 250, Timestamp: ts}); err != nil {
		t.Fatalf("AddWater failed: %v", err)
	}
	if _, err := ResetWaterDay(st, ResetWaterDayInput{Day: "2026-08-20"}); err != nil {
		t.Fatalf("ResetWaterDay failed: %v", err)
	}

	out, err := CalendarMarks(st, CalendarMarksInput{})
	if err != nil {
		t.Fatalf("CalendarMarks failed: %v", err)
	}
	if len(out.DaysWithWater) != 0 {
		t.Errorf("DaysWithWater = %v, want empty after reset", out.DaysWithWater)
	}
}

func TestCalendarMarks_RejectsMalformedMonth(t *testing.T) {
	st, _ := testSetup(t)

	for _, month := range []string{"2026", "aug-2026", "2026/08", "2026-8"} {
		if _, err := CalendarMarks(st, CalendarMarksInput{Month: month}); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("month %q error = %v, want INVALID_REQUEST", month, err)
		}
	}
}
