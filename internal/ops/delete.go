package ops

import (
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// DeleteEntryInput contains parameters for the DeleteEntry operation.
type DeleteEntryInput struct {
	ID string
}

// DeleteEntryOutput contains the result of the DeleteEntry operation.
type DeleteEntryOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// DeleteEntry removes exactly the entry with the given id, leaving all
// others in their original relative order.
func DeleteEntry(st *store.Store, input DeleteEntryInput) (*DeleteEntryOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	err := store.Set(st, store.KeyCalorieLog, emptyLog(), func(log []logbook.CalorieLogEntry) ([]logbook.CalorieLogEntry, error) {
		next := make([]logbook.CalorieLogEntry, 0, len(log))
		found := false
		for _, e := range log {
			if e.ID == input.ID {
				found = true
				continue
			}
			next = append(next, e)
		}
		if !found {
			return nil, errors.NewNotFound(input.ID)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteEntryOutput{Deleted: true, ID: input.ID}, nil
}

// GetEntryInput contains parameters for the GetEntry operation.
type GetEntryInput struct {
	ID string
}

// GetEntryOutput contains the fetched entry.
type GetEntryOutput struct {
	Entry logbook.CalorieLogEntry `json:"entry"`
}

// GetEntry fetches a single entry by id.
func GetEntry(st *store.Store, input GetEntryInput) (*GetEntryOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	for _, e := range loadLog(st) {
		if e.ID == input.ID {
			return &GetEntryOutput{Entry: e}, nil
		}
	}
	return nil, errors.NewNotFound(input.ID)
}
