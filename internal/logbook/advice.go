package logbook

import (
	"fmt"
	"math"
	"strings"
)

// Advisory thresholds (kcal).
const (
	highCalorieThreshold = 600
	lowCalorieThreshold  = 200
)

// snackKeywords flags snack/dessert foods by name, matched case-insensitively.
var snackKeywords = []string{
	"cake", "candy", "chips", "chocolate", "cookie", "dessert",
	"donut", "ice cream", "pastry", "soda",
}

// Advise maps an entry's attributes to an advisory comment. Rules are
// evaluated in a fixed priority order and the first match wins. The result
// is stored denormalized on the record at write time, so old entries keep
// the comment produced by the rules in effect when they were written.
func Advise(e CalorieLogEntry) string {
	switch {
	case e.CalorieEstimate > highCalorieThreshold:
		return fmt.Sprintf(
			"That's a high-calorie item at roughly %d kcal. Consider a smaller portion or a lighter choice later today.",
			int(math.Round(e.CalorieEstimate)))
	case e.CalorieEstimate < lowCalorieThreshold && !isSnack(e.MealType):
		return "That's quite light for a main meal. Make sure you get enough energy over the rest of the day."
	case isSnack(e.MealType) || containsSnackKeyword(e.FoodItem):
		return "Snacks and sweets are fine in moderation. Pair them with water and watch the added sugar."
	default:
		return "Nice balanced choice. Keep mixing protein, vegetables and whole grains across your meals."
	}
}

func isSnack(m *MealType) bool {
	return m != nil && *m == MealSnack
}

func containsSnackKeyword(foodItem string) bool {
	lower := strings.ToLower(foodItem)
	for _, kw := range snackKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
