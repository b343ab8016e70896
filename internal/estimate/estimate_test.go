package estimate

import (
	"testing"

	"github.com/jet23058/caloriesnap/internal/errors"
)

func TestParseResult_CleanObject(t *testing.T) {
	reply := `{"foodItem": "Margherita pizza", "isFoodItem": true, "calorieEstimate": 850, "confidence": 0.85}`

	got, err := ParseResult(reply)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.FoodItem != "Margherita pizza" || !got.IsFoodItem {
		t.Errorf("got %+v", got)
	}
	if got.CalorieEstimate != 850 || got.Confidence != 0.85 {
		t.Errorf("estimate=%v confidence=%v, want 850 and 0.85", got.CalorieEstimate, got.Confidence)
	}
}

func TestParseResult_MarkdownFenceAndProse(t *testing.T) {
	reply := "Sure! Here is the analysis:\n```json\n" +
		`{"foodItem": "Ramen", "isFoodItem": true, "calorieEstimate": 550, "confidence": 0.7}` +
		"\n```\nLet me know if you need more."

	got, err := ParseResult(reply)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.FoodItem != "Ramen" || got.CalorieEstimate != 550 {
		t.Errorf("got %+v", got)
	}
}

func TestParseResult_NonFoodZeroesCalories(t *testing.T) {
	reply := `{"foodItem": "A laptop", "isFoodItem": false, "calorieEstimate": 300, "confidence": 0.9}`

	got, err := ParseResult(reply)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.IsFoodItem {
		t.Error("IsFoodItem should be false")
	}
	if got.CalorieEstimate != 0 {
		t.Errorf("CalorieEstimate = %v, want forced to 0 for non-food", got.CalorieEstimate)
	}
	if got.FoodItem != "A laptop" {
		t.Errorf("FoodItem = %q, want the label preserved", got.FoodItem)
	}
}

func TestParseResult_ClampsConfidence(t *testing.T) {
	got, err := ParseResult(`{"foodItem": "Toast", "isFoodItem": true, "calorieEstimate": 120, "confidence": 1.4}`)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.Confidence != 1 {
		t.Errorf("Confidence = %v, want clamped to 1", got.Confidence)
	}

	got, err = ParseResult(`{"foodItem": "Toast", "isFoodItem": true, "calorieEstimate": 120, "confidence": -0.2}`)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want clamped to 0", got.Confidence)
	}
}

func TestParseResult_BlankNameFallsBack(t *testing.T) {
	got, err := ParseResult(`{"foodItem": "  ", "isFoodItem": true, "calorieEstimate": 100, "confidence": 0.5}`)
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if got.FoodItem != "Unknown item" {
		t.Errorf("FoodItem = %q, want Unknown item", got.FoodItem)
	}
}

func TestParseResult_NoJSON(t *testing.T) {
	for _, reply := range []string{"", "I cannot tell what this is.", "{broken"} {
		if _, err := ParseResult(reply); !errors.Is(err, errors.ErrExternalService) {
			t.Errorf("ParseResult(%q) error = %v, want EXTERNAL_SERVICE", reply, err)
		}
	}
}
