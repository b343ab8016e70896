package logbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/jet23058/caloriesnap/internal/errors"
)

// noneSentinel is the input value that maps an enum field to null.
const noneSentinel = "none"

// timestampLayouts are the accepted edit formats, tried in order. Parsed
// values are stored as absolute instants; date-only input is taken as local
// midnight.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseCalories parses a calorie input. Empty maps to 0 (calorieEstimate has
// no null state); negative or non-numeric input is rejected.
func ParseCalories(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, errors.NewValidation("calorieEstimate", "must be a non-negative number")
	}
	return v, nil
}

// ParsePositiveFloat parses an optional numeric field that must be positive
// when present. Empty maps to null; non-numeric or non-positive input is
// rejected.
func ParsePositiveFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil, errors.NewValidation(field, "must be a positive number")
	}
	return &v, nil
}

// ParseNonNegativeFloat parses an optional numeric field that must be
// non-negative when present (cost may be zero).
func ParseNonNegativeFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, errors.NewValidation(field, "must be a non-negative number")
	}
	return &v, nil
}

// ParsePositiveInt parses an optional integer field that must be positive
// when present.
func ParsePositiveInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, errors.NewValidation(field, "must be a positive integer")
	}
	return &v, nil
}

// ParseTimestamp parses a timestamp edit. Invalid input is rejected so the
// caller keeps the previous value.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidation("timestamp", "not a recognizable date")
}

// ParseMealType maps input to a meal type. Empty or the "none" sentinel maps
// to null; any other value outside the enumerated set is rejected to null.
func ParseMealType(raw string) *MealType {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, noneSentinel) {
		return nil
	}
	for _, m := range MealTypes {
		if strings.EqualFold(raw, string(m)) {
			v := m
			return &v
		}
	}
	return nil
}

// ParseGender maps input to a gender value, null for the sentinel or any
// value outside the enumerated set.
func ParseGender(raw string) *Gender {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, noneSentinel) {
		return nil
	}
	for _, g := range Genders {
		if strings.EqualFold(raw, string(g)) {
			v := g
			return &v
		}
	}
	return nil
}

// ParseActivityLevel maps input to an activity level, null for the sentinel
// or any value outside the enumerated set.
func ParseActivityLevel(raw string) *ActivityLevel {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, noneSentinel) {
		return nil
	}
	for _, a := range ActivityLevels {
		if strings.EqualFold(raw, string(a)) {
			v := a
			return &v
		}
	}
	return nil
}

// ValidateSettings checks a notification settings record field by field.
func ValidateSettings(s NotificationSettings) error {
	if s.Frequency < 1 {
		return errors.NewValidation("frequency", "must be at least 1 minute")
	}
	if err := validateClock("startTime", s.StartTime); err != nil {
		return err
	}
	return validateClock("endTime", s.EndTime)
}

// validateClock checks an HH:mm string with hour 0-23 and minute 0-59.
func validateClock(field, raw string) error {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return errors.NewValidation(field, "must be in HH:mm form")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return errors.NewValidation(field, "hour must be between 0 and 23")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return errors.NewValidation(field, "minute must be between 0 and 59")
	}
	return nil
}
