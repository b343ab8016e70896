package ops

import (
	"testing"

	"github.com/jet23058/caloriesnap/internal/errors"
)

func TestDeleteEntry_RemovesExactlyOne(t *testing.T) {
	st, cfg := testSetup(t)

	first := mustLog(t, st, cfg, LogFoodInput{FoodItem: "Eggs", CalorieEstimate: 200})
	second := mustLog(t, st, cfg, LogFoodInput{FoodItem: "Toast", CalorieEstimate: 150})
	third := mustLog(t, st, cfg, LogFoodInput{FoodItem: "Juice", CalorieEstimate: 110})

	out, err := DeleteEntry(st, DeleteEntryInput{ID: second.Entry.ID})
	if err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if !out.Deleted || out.ID != second.Entry.ID {
		t.Errorf("output = %+v, want deleted id %s", out, second.Entry.ID)
	}

	// The others remain in their original relative order.
	log := loadLog(st)
	if len(log) != 2 {
		t.Fatalf("log length = %d, want 2", len(log))
	}
	if log[0].ID != first.Entry.ID || log[1].ID != third.Entry.ID {
		t.Errorf("remaining order = [%s %s], want [%s %s]",
			log[0].ID, log[1].ID, first.Entry.ID, third.Entry.ID)
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	st, _ := testSetup(t)

	_, err := DeleteEntry(st, DeleteEntryInput{ID: "01MISSING"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGetEntry(t *testing.T) {
	st, cfg := testSetup(t)
	created := mustLog(t, st, cfg, LogFoodInput{FoodItem: "Banana", CalorieEstimate: 90})

	out, err := GetEntry(st, GetEntryInput{ID: created.Entry.ID})
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if out.Entry.FoodItem != "Banana" {
		t.Errorf("FoodItem = %q, want Banana", out.Entry.FoodItem)
	}

	if _, err := GetEntry(st, GetEntryInput{ID: "nope"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
