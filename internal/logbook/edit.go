package logbook

import (
	"strings"

	"github.com/jet23058/caloriesnap/internal/errors"
)

// EntryEdit is a single-field edit command for a calorie log entry. Each
// variant carries its own typed payload and validation; a failing command
// rejects the edit and leaves the prior record untouched.
type EntryEdit interface {
	Apply(e *CalorieLogEntry) error
}

// SetFoodItem replaces the food label.
type SetFoodItem struct {
	Value string
}

func (c SetFoodItem) Apply(e *CalorieLogEntry) error {
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return errors.NewValidation("foodItem", "must not be empty")
	}
	e.FoodItem = v
	return nil
}

// SetCalories replaces the calorie estimate from raw input.
type SetCalories struct {
	Raw string
}

func (c SetCalories) Apply(e *CalorieLogEntry) error {
	v, err := ParseCalories(c.Raw)
	if err != nil {
		return err
	}
	e.CalorieEstimate = v
	return nil
}

// SetTimestamp replaces the event instant from raw input. Invalid input
// keeps the previous timestamp.
type SetTimestamp struct {
	Raw string
}

func (c SetTimestamp) Apply(e *CalorieLogEntry) error {
	t, err := ParseTimestamp(c.Raw)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}

// SetMealType replaces the meal type; the "none" sentinel and unknown values
// map to null.
type SetMealType struct {
	Raw string
}

func (c SetMealType) Apply(e *CalorieLogEntry) error {
	e.MealType = ParseMealType(c.Raw)
	return nil
}

// SetLocation replaces the location label; empty maps to null.
type SetLocation struct {
	Raw string
}

func (c SetLocation) Apply(e *CalorieLogEntry) error {
	v := strings.TrimSpace(c.Raw)
	if v == "" {
		e.Location = nil
		return nil
	}
	e.Location = &v
	return nil
}

// SetCost replaces the cost from raw input; empty maps to null, negative is
// rejected.
type SetCost struct {
	Raw string
}

func (c SetCost) Apply(e *CalorieLogEntry) error {
	v, err := ParseNonNegativeFloat("cost", c.Raw)
	if err != nil {
		return err
	}
	e.Cost = v
	return nil
}

// SetNotes replaces the free-text notes.
type SetNotes struct {
	Raw string
}

func (c SetNotes) Apply(e *CalorieLogEntry) error {
	e.Notes = strings.TrimSpace(c.Raw)
	return nil
}
