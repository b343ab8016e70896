package ops

import (
	"sort"
	"strings"

	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// CalendarMarksInput contains parameters for the CalendarMarks operation.
type CalendarMarksInput struct {
	Month string // optional YYYY-MM filter; "" means all days
}

// CalendarMarksOutput contains the two derived day sets used for calendar
// display. They carry no other invariant.
type CalendarMarksOutput struct {
	DaysWithFood  []string `json:"daysWithFood"`
	DaysWithWater []string `json:"daysWithWater"`
}

// CalendarMarks derives the set of days with at least one calorie entry and
// the set of days with a non-empty water bucket, sorted ascending.
func CalendarMarks(st *store.Store, input CalendarMarksInput) (*CalendarMarksOutput, error) {
	month := strings.TrimSpace(input.Month)
	if month != "" && !validMonthKey(month) {
		return nil, errors.NewInvalidRequest("month must be in YYYY-MM form")
	}

	foodDays := make(map[string]bool)
	for _, e := range loadLog(st) {
		foodDays[logbook.DayKey(e.Timestamp)] = true
	}

	waterDays := make(map[string]bool)
	for day, bucket := range loadWaterLog(st) {
		if len(bucket) > 0 {
			waterDays[day] = true
		}
	}

	return &CalendarMarksOutput{
		DaysWithFood:  collectDays(foodDays, month),
		DaysWithWater: collectDays(waterDays, month),
	}, nil
}

func collectDays(set map[string]bool, month string) []string {
	days := make([]string, 0, len(set))
	for day := range set {
		if month != "" && !strings.HasPrefix(day, month+"-") {
			continue
		}
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func validMonthKey(month string) bool {
	if len(month) != 7 || month[4] != '-' {
		return false
	}
	for i, r := range month {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
