package ops

import (
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/store"
)

// StorageStatusOutput reports the retained storage error, if any. The
// browser client renders it as a persistent, dismissable banner.
type StorageStatusOutput struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// StorageStatus reads the store's retained error state.
func StorageStatus(st *store.Store) (*StorageStatusOutput, error) {
	err := st.LastError()
	if err == nil {
		return &StorageStatusOutput{OK: true}, nil
	}

	out := &StorageStatusOutput{OK: false, Message: err.Error()}
	if sErr, ok := err.(*errors.SnapError); ok {
		out.Code = string(sErr.Code)
		out.Message = sErr.Message
	}
	return out, nil
}

// DismissStorageError clears the retained storage error.
func DismissStorageError(st *store.Store) (*StorageStatusOutput, error) {
	st.ClearError()
	return &StorageStatusOutput{OK: true}, nil
}
