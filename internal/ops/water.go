package ops

import (
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/metrics"
	"github.com/jet23058/caloriesnap/internal/store"
)

// AddWaterInput contains parameters for the AddWater operation.
type AddWaterInput struct {
	Amount    float64   // milliliters, must be positive
	Timestamp time.Time // zero value means now
}

// AddWaterOutput contains the created event and the day's running total.
type AddWaterOutput struct {
	Entry      logbook.WaterLogEntry `json:"entry"`
	Day        string                `json:"day"`
	DailyTotal float64               `json:"dailyTotal"`
}

// AddWater appends a water event to its local day bucket. A full bucket
// rejects the addition with a capacity error.
func AddWater(st *store.Store, cfg *config.Config, input AddWaterInput) (*AddWaterOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.NewValidation("amount", "must be a positive number of milliliters")
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	day := logbook.DayKey(timestamp)

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	entry := logbook.WaterLogEntry{ID: id, Timestamp: timestamp, Amount: input.Amount}

	limit := maxWaterPerDay(cfg)
	var total float64
	err = store.Set(st, store.KeyWaterLog, emptyWaterLog(), func(wl logbook.WaterLog) (logbook.WaterLog, error) {
		bucket := wl[day]
		if len(bucket) >= limit {
			return nil, errors.NewCapacityExceeded("water log for "+day, limit)
		}

		next := cloneWaterLog(wl)
		next[day] = append(next[day], entry)
		total = sumBucket(next[day])
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &AddWaterOutput{Entry: entry, Day: day, DailyTotal: total}, nil
}

// DeleteWaterInput contains parameters for the DeleteWater operation.
type DeleteWaterInput struct {
	Day string // YYYY-MM-DD
	ID  string
}

// DeleteWaterOutput contains the result of the DeleteWater operation.
type DeleteWaterOutput struct {
	Deleted    bool    `json:"deleted"`
	ID         string  `json:"id"`
	DailyTotal float64 `json:"dailyTotal"`
}

// DeleteWater removes a single water event from its day bucket.
func DeleteWater(st *store.Store, input DeleteWaterInput) (*DeleteWaterOutput, error) {
	if err := validateDayKey(input.Day); err != nil {
		return nil, err
	}
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	var total float64
	err := store.Set(st, store.KeyWaterLog, emptyWaterLog(), func(wl logbook.WaterLog) (logbook.WaterLog, error) {
		bucket, ok := wl[input.Day]
		if !ok {
			return nil, errors.NewNotFound(input.ID)
		}

		next := cloneWaterLog(wl)
		kept := make([]logbook.WaterLogEntry, 0, len(bucket))
		found := false
		for _, e := range bucket {
			if e.ID == input.ID {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			return nil, errors.NewNotFound(input.ID)
		}

		if len(kept) == 0 {
			delete(next, input.Day)
		} else {
			next[input.Day] = kept
		}
		total = sumBucket(kept)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteWaterOutput{Deleted: true, ID: input.ID, DailyTotal: total}, nil
}

// ResetWaterDayInput contains parameters for the ResetWaterDay operation.
type ResetWaterDayInput struct {
	Day string // YYYY-MM-DD
}

// ResetWaterDayOutput contains the result of the ResetWaterDay operation.
type ResetWaterDayOutput struct {
	Day     string `json:"day"`
	Removed int    `json:"removed"`
}

// ResetWaterDay wholesale-deletes a day's bucket. Resetting an empty day is
// not an error.
func ResetWaterDay(st *store.Store, input ResetWaterDayInput) (*ResetWaterDayOutput, error) {
	if err := validateDayKey(input.Day); err != nil {
		return nil, err
	}

	removed := 0
	err := store.Set(st, store.KeyWaterLog, emptyWaterLog(), func(wl logbook.WaterLog) (logbook.WaterLog, error) {
		removed = len(wl[input.Day])
		next := cloneWaterLog(wl)
		delete(next, input.Day)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &ResetWaterDayOutput{Day: input.Day, Removed: removed}, nil
}

// WaterProgressInput contains parameters for the WaterProgress operation.
type WaterProgressInput struct {
	Anchor time.Time // zero value means today
}

// WaterProgressOutput contains a day's total against the profile-derived
// target.
type WaterProgressOutput struct {
	Day      string                  `json:"day"`
	Entries  []logbook.WaterLogEntry `json:"entries"`
	Total    float64                 `json:"total"`
	Target   float64                 `json:"target"`
	Progress float64                 `json:"progress"` // fraction, capped at 1.0
}

// WaterProgress aggregates a day's bucket and reports the progress fraction
// against the recommended target, or the 2000 ml default when the profile
// has no weight.
func WaterProgress(st *store.Store, input WaterProgressInput) (*WaterProgressOutput, error) {
	anchor := input.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	day := logbook.DayKey(anchor)

	bucket := loadWaterLog(st)[day]
	if bucket == nil {
		bucket = []logbook.WaterLogEntry{}
	}
	total := sumBucket(bucket)
	target := metrics.WaterTarget(loadProfile(st))

	return &WaterProgressOutput{
		Day:      day,
		Entries:  bucket,
		Total:    total,
		Target:   target,
		Progress: min(total/target, 1.0),
	}, nil
}

func sumBucket(bucket []logbook.WaterLogEntry) float64 {
	total := 0.0
	for _, e := range bucket {
		total += e.Amount
	}
	return total
}

func cloneWaterLog(wl logbook.WaterLog) logbook.WaterLog {
	next := make(logbook.WaterLog, len(wl))
	for day, bucket := range wl {
		next[day] = bucket
	}
	return next
}

// validateDayKey checks a YYYY-MM-DD day key.
func validateDayKey(day string) error {
	if _, err := time.ParseInLocation("2006-01-02", day, time.Local); err != nil {
		return errors.NewInvalidRequest("day must be in YYYY-MM-DD form")
	}
	return nil
}
