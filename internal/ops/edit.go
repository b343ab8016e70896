package ops

import (
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// EditEntryInput contains parameters for the EditEntry operation.
type EditEntryInput struct {
	ID    string
	Edits []logbook.EntryEdit
}

// EditEntryOutput contains the replaced entry.
type EditEntryOutput struct {
	Entry logbook.CalorieLogEntry `json:"entry"`
}

// EditEntry applies a list of edit commands to an entry. The first failing
// command rejects the whole edit and the prior record is retained. On
// success the advisory comment is re-derived and the whole record replaced.
func EditEntry(st *store.Store, input EditEntryInput) (*EditEntryOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if len(input.Edits) == 0 {
		return nil, errors.NewInvalidRequest("at least one edit must be provided")
	}

	var updated logbook.CalorieLogEntry
	err := store.Set(st, store.KeyCalorieLog, emptyLog(), func(log []logbook.CalorieLogEntry) ([]logbook.CalorieLogEntry, error) {
		idx := -1
		for i := range log {
			if log[i].ID == input.ID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, errors.NewNotFound(input.ID)
		}

		entry := log[idx]
		for _, edit := range input.Edits {
			if err := edit.Apply(&entry); err != nil {
				return nil, err
			}
		}
		entry.NutritionistComment = logbook.Advise(entry)

		next := make([]logbook.CalorieLogEntry, len(log))
		copy(next, log)
		next[idx] = entry
		updated = entry
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &EditEntryOutput{Entry: updated}, nil
}
