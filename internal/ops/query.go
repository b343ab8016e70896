package ops

import (
	"sort"
	"time"

	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// DailyInput contains parameters for the Daily view.
type DailyInput struct {
	Anchor time.Time // zero value means today
}

// DailyOutput contains the entries for the anchor's local calendar day,
// newest first.
type DailyOutput struct {
	Day           string                    `json:"day"`
	Entries       []logbook.CalorieLogEntry `json:"entries"`
	TotalCalories float64                   `json:"totalCalories"`
}

// Daily selects entries whose timestamp falls on the anchor's local calendar
// day, sorted by timestamp descending. The ordering is fixed, not
// configurable.
func Daily(st *store.Store, input DailyInput) (*DailyOutput, error) {
	anchor := input.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}

	entries := make([]logbook.CalorieLogEntry, 0)
	total := 0.0
	for _, e := range loadLog(st) {
		if logbook.SameLocalDay(e.Timestamp, anchor) {
			entries = append(entries, e)
			total += e.CalorieEstimate
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return &DailyOutput{
		Day:           logbook.DayKey(anchor),
		Entries:       entries,
		TotalCalories: total,
	}, nil
}

// MonthlyInput contains parameters for the Monthly view.
type MonthlyInput struct {
	Anchor time.Time    // zero value means the current month
	Sort   SortCriteria // "" means time-desc
}

// MonthlyOutput contains the entries for the anchor's local calendar month.
type MonthlyOutput struct {
	Month         string                    `json:"month"`
	Sort          SortCriteria              `json:"sort"`
	Entries       []logbook.CalorieLogEntry `json:"entries"`
	TotalCalories float64                   `json:"totalCalories"`
}

// Monthly selects entries whose timestamp falls within the anchor's month,
// inclusive of both the first and last instant, sorted by the given
// criteria.
func Monthly(st *store.Store, input MonthlyInput) (*MonthlyOutput, error) {
	criteria, err := ParseSort(string(input.Sort))
	if err != nil {
		return nil, err
	}

	anchor := input.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}

	entries := make([]logbook.CalorieLogEntry, 0)
	total := 0.0
	for _, e := range loadLog(st) {
		if logbook.SameLocalMonth(e.Timestamp, anchor) {
			entries = append(entries, e)
			total += e.CalorieEstimate
		}
	}

	sortEntries(entries, criteria)

	return &MonthlyOutput{
		Month:         anchor.Local().Format("2006-01"),
		Sort:          criteria,
		Entries:       entries,
		TotalCalories: total,
	}, nil
}

// sortEntries orders entries in place by the given criteria. Sorting is
// stable so equal keys keep their insertion order.
func sortEntries(entries []logbook.CalorieLogEntry, criteria SortCriteria) {
	switch criteria {
	case SortTimeAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		})
	case SortCaloriesAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CalorieEstimate < entries[j].CalorieEstimate
		})
	case SortCaloriesDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CalorieEstimate > entries[j].CalorieEstimate
		})
	default: // SortTimeDesc
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
	}
}
