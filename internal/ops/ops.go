// Package ops implements the operations exposed by every front door (CLI,
// MCP, web). Each operation validates its input, runs a read-compute-write
// cycle against the keyed store, and returns a typed output.
package ops

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// SortCriteria orders monthly view results.
type SortCriteria string

const (
	SortTimeAsc      SortCriteria = "time-asc"
	SortTimeDesc     SortCriteria = "time-desc" // default
	SortCaloriesAsc  SortCriteria = "calories-asc"
	SortCaloriesDesc SortCriteria = "calories-desc"
)

// ParseSort validates a sort criteria string, defaulting to time-descending.
func ParseSort(raw string) (SortCriteria, error) {
	switch SortCriteria(raw) {
	case "":
		return SortTimeDesc, nil
	case SortTimeAsc, SortTimeDesc, SortCaloriesAsc, SortCaloriesDesc:
		return SortCriteria(raw), nil
	default:
		return "", errors.NewInvalidRequest("sort must be one of: time-asc, time-desc, calories-asc, calories-desc")
	}
}

// maxLogEntries resolves the calorie log cap from config.
func maxLogEntries(cfg *config.Config) int {
	if cfg != nil && cfg.MaxLogEntries > 0 {
		return cfg.MaxLogEntries
	}
	return config.DefaultConfig().MaxLogEntries
}

// maxWaterPerDay resolves the per-day water bucket cap from config.
func maxWaterPerDay(cfg *config.Config) int {
	if cfg != nil && cfg.MaxWaterPerDay > 0 {
		return cfg.MaxWaterPerDay
	}
	return config.DefaultConfig().MaxWaterPerDay
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// emptyLog is the default value for the calorie log record.
func emptyLog() []logbook.CalorieLogEntry {
	return []logbook.CalorieLogEntry{}
}

// emptyWaterLog is the default value for the water log record.
func emptyWaterLog() logbook.WaterLog {
	return logbook.WaterLog{}
}

// loadLog reads the current calorie log.
func loadLog(st *store.Store) []logbook.CalorieLogEntry {
	return store.Get(st, store.KeyCalorieLog, emptyLog())
}

// loadWaterLog reads the current water log.
func loadWaterLog(st *store.Store) logbook.WaterLog {
	return store.Get(st, store.KeyWaterLog, emptyWaterLog())
}

// loadProfile reads the current user profile.
func loadProfile(st *store.Store) logbook.UserProfile {
	return store.Get(st, store.KeyUserProfile, logbook.UserProfile{})
}
