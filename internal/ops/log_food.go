package ops

import (
	"strings"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// LogFoodInput contains parameters for the LogFood operation. It covers both
// manual logging and logging a completed estimation result.
type LogFoodInput struct {
	FoodItem        string
	CalorieEstimate float64
	MealType        string // raw; "" or "none" maps to null

	// IsFoodItem mirrors the estimation collaborator's edibility flag.
	// nil means true (manual logging). False keeps the detected label but
	// forces the calorie value to 0.
	IsFoodItem *bool

	Confidence *float64 // estimation confidence, clamped into [0,1]
	ImageURL   *string
	Location   *string
	Cost       *float64
	Notes      string
	Timestamp  time.Time // zero value means now
}

// LogFoodOutput contains the created entry.
type LogFoodOutput struct {
	Entry logbook.CalorieLogEntry `json:"entry"`
}

// LogFood validates the input, derives the advisory comment, and appends a
// new entry to the calorie log. The log rejects additions once it reaches
// the configured cap.
func LogFood(st *store.Store, cfg *config.Config, input LogFoodInput) (*LogFoodOutput, error) {
	foodItem := strings.TrimSpace(input.FoodItem)
	if foodItem == "" {
		return nil, errors.NewInvalidRequest("foodItem is required")
	}
	if input.CalorieEstimate < 0 {
		return nil, errors.NewValidation("calorieEstimate", "must be a non-negative number")
	}
	if input.Cost != nil && *input.Cost < 0 {
		return nil, errors.NewValidation("cost", "must be a non-negative number")
	}

	calories := input.CalorieEstimate
	if input.IsFoodItem != nil && !*input.IsFoodItem {
		// Not recognized as food: keep the label, log it at zero calories.
		calories = 0
	}

	confidence := input.Confidence
	if confidence != nil {
		c := min(max(*confidence, 0), 1)
		confidence = &c
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	entry := logbook.CalorieLogEntry{
		ID:              id,
		FoodItem:        foodItem,
		CalorieEstimate: calories,
		ImageURL:        input.ImageURL,
		Timestamp:       timestamp,
		MealType:        logbook.ParseMealType(input.MealType),
		Location:        input.Location,
		Cost:            input.Cost,
		Notes:           strings.TrimSpace(input.Notes),
		Confidence:      confidence,
	}
	entry.NutritionistComment = logbook.Advise(entry)

	limit := maxLogEntries(cfg)
	err = store.Set(st, store.KeyCalorieLog, emptyLog(), func(log []logbook.CalorieLogEntry) ([]logbook.CalorieLogEntry, error) {
		if len(log) >= limit {
			return nil, errors.NewCapacityExceeded("calorie log", limit)
		}
		return append(log, entry), nil
	})
	if err != nil {
		return nil, err
	}

	return &LogFoodOutput{Entry: entry}, nil
}
