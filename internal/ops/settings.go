package ops

import (
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// GetSettingsOutput contains the current notification settings.
type GetSettingsOutput struct {
	Settings logbook.NotificationSettings `json:"settings"`
}

// GetSettings reads the singleton settings record, defaulted when unset.
func GetSettings(st *store.Store) (*GetSettingsOutput, error) {
	s := store.Get(st, store.KeyNotificationSettings, logbook.DefaultNotificationSettings())
	return &GetSettingsOutput{Settings: s}, nil
}

// UpdateSettingsInput carries settings edits. nil means leave unchanged.
type UpdateSettingsInput struct {
	Enabled   *bool
	Frequency *int
	StartTime *string
	EndTime   *string
}

// UpdateSettingsOutput contains the updated settings.
type UpdateSettingsOutput struct {
	Settings logbook.NotificationSettings `json:"settings"`
}

// UpdateSettings applies edits and validates the resulting record as a
// whole; an invalid result rejects the update and keeps the prior settings.
// The caller re-applies the scheduler after a successful update.
func UpdateSettings(st *store.Store, input UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	var updated logbook.NotificationSettings
	def := logbook.DefaultNotificationSettings()
	err := store.Set(st, store.KeyNotificationSettings, def, func(s logbook.NotificationSettings) (logbook.NotificationSettings, error) {
		if input.Enabled != nil {
			s.Enabled = *input.Enabled
		}
		if input.Frequency != nil {
			s.Frequency = *input.Frequency
		}
		if input.StartTime != nil {
			s.StartTime = *input.StartTime
		}
		if input.EndTime != nil {
			s.EndTime = *input.EndTime
		}
		if err := logbook.ValidateSettings(s); err != nil {
			return s, err
		}
		updated = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateSettingsOutput{Settings: updated}, nil
}
