package ops

import (
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/metrics"
	"github.com/jet23058/caloriesnap/internal/store"
)

// GetProfileOutput contains the current profile.
type GetProfileOutput struct {
	Profile logbook.UserProfile `json:"profile"`
}

// GetProfile reads the singleton profile record.
func GetProfile(st *store.Store) (*GetProfileOutput, error) {
	return &GetProfileOutput{Profile: loadProfile(st)}, nil
}

// UpdateProfileInput carries raw field edits. nil means leave the field
// unchanged; an empty string clears it to null.
type UpdateProfileInput struct {
	Age           *string
	Gender        *string
	Height        *string
	Weight        *string
	ActivityLevel *string
}

// UpdateProfileOutput contains the updated profile.
type UpdateProfileOutput struct {
	Profile logbook.UserProfile `json:"profile"`
}

// UpdateProfile applies field-by-field edits. Numeric fields must be
// positive or empty; a failing field rejects the whole update. Enum fields
// outside their set are coerced to null.
func UpdateProfile(st *store.Store, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	var updated logbook.UserProfile
	err := store.Set(st, store.KeyUserProfile, logbook.UserProfile{}, func(p logbook.UserProfile) (logbook.UserProfile, error) {
		if input.Age != nil {
			age, err := logbook.ParsePositiveInt("age", *input.Age)
			if err != nil {
				return p, err
			}
			p.Age = age
		}
		if input.Height != nil {
			height, err := logbook.ParsePositiveFloat("height", *input.Height)
			if err != nil {
				return p, err
			}
			p.Height = height
		}
		if input.Weight != nil {
			weight, err := logbook.ParsePositiveFloat("weight", *input.Weight)
			if err != nil {
				return p, err
			}
			p.Weight = weight
		}
		if input.Gender != nil {
			p.Gender = logbook.ParseGender(*input.Gender)
		}
		if input.ActivityLevel != nil {
			p.ActivityLevel = logbook.ParseActivityLevel(*input.ActivityLevel)
		}
		updated = p
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateProfileOutput{Profile: updated}, nil
}

// ResetProfile restores the all-null defaults. The profile is never
// deleted, only reset.
func ResetProfile(st *store.Store) (*UpdateProfileOutput, error) {
	blank := logbook.UserProfile{}
	err := store.Set(st, store.KeyUserProfile, blank, func(logbook.UserProfile) (logbook.UserProfile, error) {
		return blank, nil
	})
	if err != nil {
		return nil, err
	}
	return &UpdateProfileOutput{Profile: blank}, nil
}

// ProfileMetricsOutput contains the derived metrics; nil fields mean the
// profile is missing a required input.
type ProfileMetricsOutput struct {
	BMR              *float64 `json:"bmr"`
	DailyCalories    *float64 `json:"dailyCalories"`
	BMI              *float64 `json:"bmi"`
	RecommendedWater *float64 `json:"recommendedWater"`
	WaterTarget      float64  `json:"waterTarget"`
}

// ProfileMetrics recomputes the derived metrics from the current profile.
// They are never persisted.
func ProfileMetrics(st *store.Store) (*ProfileMetricsOutput, error) {
	p := loadProfile(st)
	return &ProfileMetricsOutput{
		BMR:              metrics.BMR(p),
		DailyCalories:    metrics.DailyCalories(p),
		BMI:              metrics.BMI(p),
		RecommendedWater: metrics.RecommendedWater(p),
		WaterTarget:      metrics.WaterTarget(p),
	}, nil
}
