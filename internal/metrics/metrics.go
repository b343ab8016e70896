// Package metrics derives health metrics from a user profile. All functions
// are pure and total: they return nil when a required input is missing and
// are never persisted, only computed at read time.
package metrics

import (
	"math"

	"github.com/jet23058/caloriesnap/internal/logbook"
)

// DefaultWaterTarget is the fallback daily water target in milliliters when
// the profile has no weight.
const DefaultWaterTarget = 2000.0

// waterPerKg is the recommended daily water volume per kilogram of body
// weight, in milliliters.
const waterPerKg = 35.0

// activityMultipliers scales BMR into a daily calorie need.
var activityMultipliers = map[logbook.ActivityLevel]float64{
	logbook.ActivitySedentary:  1.2,
	logbook.ActivityLight:      1.375,
	logbook.ActivityModerate:   1.55,
	logbook.ActivityActive:     1.725,
	logbook.ActivityVeryActive: 1.9,
}

// BMR computes the basal metabolic rate with the revised Harris-Benedict
// formula. It requires weight, height, age, and a binary gender value; it
// returns nil for gender "other" or any missing field. The "other" case is
// deliberately unsupported rather than approximated.
func BMR(p logbook.UserProfile) *float64 {
	if p.Weight == nil || p.Height == nil || p.Age == nil || p.Gender == nil {
		return nil
	}

	w, h, a := *p.Weight, *p.Height, float64(*p.Age)

	var bmr float64
	switch *p.Gender {
	case logbook.GenderMale:
		bmr = 88.362 + 13.397*w + 4.799*h - 5.677*a
	case logbook.GenderFemale:
		bmr = 447.593 + 9.247*w + 3.098*h - 4.330*a
	default:
		return nil
	}
	return &bmr
}

// DailyCalories computes the daily calorie need as BMR scaled by the
// activity multiplier; nil if either input is missing.
func DailyCalories(p logbook.UserProfile) *float64 {
	bmr := BMR(p)
	if bmr == nil || p.ActivityLevel == nil {
		return nil
	}
	mult, ok := activityMultipliers[*p.ActivityLevel]
	if !ok {
		return nil
	}
	v := *bmr * mult
	return &v
}

// BMI computes the body mass index; nil if weight or height is missing.
func BMI(p logbook.UserProfile) *float64 {
	if p.Weight == nil || p.Height == nil {
		return nil
	}
	meters := *p.Height / 100
	v := *p.Weight / (meters * meters)
	return &v
}

// RecommendedWater computes the daily water target in milliliters, rounded
// to the nearest whole milliliter; nil if weight is missing. Callers fall
// back to DefaultWaterTarget when nil.
func RecommendedWater(p logbook.UserProfile) *float64 {
	if p.Weight == nil {
		return nil
	}
	v := math.Round(*p.Weight * waterPerKg)
	return &v
}

// WaterTarget resolves the daily target, falling back to the fixed default.
func WaterTarget(p logbook.UserProfile) float64 {
	if v := RecommendedWater(p); v != nil {
		return *v
	}
	return DefaultWaterTarget
}
