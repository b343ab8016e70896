package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/ops"
	"github.com/jet23058/caloriesnap/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: st, cfg: cfg}
}

// Request types for each tool

// FoodLogRequest represents the arguments for food_log.
type FoodLogRequest struct {
	FoodItem        string   `json:"foodItem"`
	CalorieEstimate float64  `json:"calorieEstimate,omitempty"`
	MealType        string   `json:"mealType,omitempty"`
	IsFoodItem      *bool    `json:"isFoodItem,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
	ImageURL        *string  `json:"imageUrl,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	Timestamp       string   `json:"timestamp,omitempty"`
}

// FoodEditRequest represents the arguments for food_edit.
type FoodEditRequest struct {
	ID        string  `json:"id"`
	FoodItem  *string `json:"foodItem,omitempty"`
	Calories  *string `json:"calories,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
	MealType  *string `json:"mealType,omitempty"`
	Location  *string `json:"location,omitempty"`
	Cost      *string `json:"cost,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// FoodDeleteRequest represents the arguments for food_delete.
type FoodDeleteRequest struct {
	ID string `json:"id"`
}

// FoodDailyRequest represents the arguments for food_daily.
type FoodDailyRequest struct {
	Day string `json:"day,omitempty"`
}

// FoodMonthlyRequest represents the arguments for food_monthly.
type FoodMonthlyRequest struct {
	Month string `json:"month,omitempty"`
	Sort  string `json:"sort,omitempty"`
}

// WaterAddRequest represents the arguments for water_add.
type WaterAddRequest struct {
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// WaterDeleteRequest represents the arguments for water_delete.
type WaterDeleteRequest struct {
	Day string `json:"day"`
	ID  string `json:"id"`
}

// WaterResetRequest represents the arguments for water_reset.
type WaterResetRequest struct {
	Day string `json:"day"`
}

// WaterProgressRequest represents the arguments for water_progress.
type WaterProgressRequest struct {
	Day string `json:"day,omitempty"`
}

// ProfileUpdateRequest represents the arguments for profile_update.
type ProfileUpdateRequest struct {
	Age           *string `json:"age,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	Height        *string `json:"height,omitempty"`
	Weight        *string `json:"weight,omitempty"`
	ActivityLevel *string `json:"activityLevel,omitempty"`
}

// SettingsUpdateRequest represents the arguments for settings_update.
type SettingsUpdateRequest struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	Frequency *int    `json:"frequency,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// CalendarMarksRequest represents the arguments for calendar_marks.
type CalendarMarksRequest struct {
	Month string `json:"month,omitempty"`
}

// Handler implementations

// HandleFoodLog handles the food_log tool call.
func (h *Handlers) HandleFoodLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FoodLogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	timestamp, err := parseOptionalTimestamp(input.Timestamp)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.LogFood(h.store, h.cfg, ops.LogFoodInput{
		FoodItem:        input.FoodItem,
		CalorieEstimate: input.CalorieEstimate,
		MealType:        input.MealType,
		IsFoodItem:      input.IsFoodItem,
		Confidence:      input.Confidence,
		ImageURL:        input.ImageURL,
		Location:        input.Location,
		Cost:            input.Cost,
		Notes:           input.Notes,
		Timestamp:       timestamp,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFoodEdit handles the food_edit tool call.
func (h *Handlers) HandleFoodEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FoodEditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var edits []logbook.EntryEdit
	if input.FoodItem != nil {
		edits = append(edits, logbook.SetFoodItem{Value: *input.FoodItem})
	}
	if input.Calories != nil {
		edits = append(edits, logbook.SetCalories{Raw: *input.Calories})
	}
	if input.Timestamp != nil {
		edits = append(edits, logbook.SetTimestamp{Raw: *input.Timestamp})
	}
	if input.MealType != nil {
		edits = append(edits, logbook.SetMealType{Raw: *input.MealType})
	}
	if input.Location != nil {
		edits = append(edits, logbook.SetLocation{Raw: *input.Location})
	}
	if input.Cost != nil {
		edits = append(edits, logbook.SetCost{Raw: *input.Cost})
	}
	if input.Notes != nil {
		edits = append(edits, logbook.SetNotes{Raw: *input.Notes})
	}

	result, err := ops.EditEntry(h.store, ops.EditEntryInput{ID: input.ID, Edits: edits})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFoodDelete handles the food_delete tool call.
func (h *Handlers) HandleFoodDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FoodDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteEntry(h.store, ops.DeleteEntryInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFoodDaily handles the food_daily tool call.
func (h *Handlers) HandleFoodDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FoodDailyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	anchor, err := parseOptionalDay(input.Day)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Daily(h.store, ops.DailyInput{Anchor: anchor})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFoodMonthly handles the food_monthly tool call.
func (h *Handlers) HandleFoodMonthly(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FoodMonthlyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var anchor time.Time
	if input.Month != "" {
		parsed, err := time.ParseInLocation("2006-01", input.Month, time.Local)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("month must be in YYYY-MM form")), nil
		}
		anchor = parsed
	}

	result, err := ops.Monthly(h.store, ops.MonthlyInput{
		Anchor: anchor,
		Sort:   ops.SortCriteria(input.Sort),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWaterAdd handles the water_add tool call.
func (h *Handlers) HandleWaterAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WaterAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	timestamp, err := parseOptionalTimestamp(input.Timestamp)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddWater(h.store, h.cfg, ops.AddWaterInput{
		Amount:    input.Amount,
		Timestamp: timestamp,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWaterDelete handles the water_delete tool call.
func (h *Handlers) HandleWaterDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WaterDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteWater(h.store, ops.DeleteWaterInput{Day: input.Day, ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWaterReset handles the water_reset tool call.
func (h *Handlers) HandleWaterReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WaterResetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ResetWaterDay(h.store, ops.ResetWaterDayInput{Day: input.Day})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleWaterProgress handles the water_progress tool call.
func (h *Handlers) HandleWaterProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WaterProgressRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	anchor, err := parseOptionalDay(input.Day)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.WaterProgress(h.store, ops.WaterProgressInput{Anchor: anchor})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProfileGet handles the profile_get tool call.
func (h *Handlers) HandleProfileGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.GetProfile(h.store)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProfileUpdate handles the profile_update tool call.
func (h *Handlers) HandleProfileUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateProfile(h.store, ops.UpdateProfileInput{
		Age:           input.Age,
		Gender:        input.Gender,
		Height:        input.Height,
		Weight:        input.Weight,
		ActivityLevel: input.ActivityLevel,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMetricsGet handles the metrics_get tool call.
func (h *Handlers) HandleMetricsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ProfileMetrics(h.store)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsGet handles the settings_get tool call.
func (h *Handlers) HandleSettingsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.GetSettings(h.store)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsUpdate handles the settings_update tool call.
func (h *Handlers) HandleSettingsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateSettings(h.store, ops.UpdateSettingsInput{
		Enabled:   input.Enabled,
		Frequency: input.Frequency,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCalendarMarks handles the calendar_marks tool call.
func (h *Handlers) HandleCalendarMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CalendarMarksRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CalendarMarks(h.store, ops.CalendarMarksInput{Month: input.Month})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// parseOptionalTimestamp parses a timestamp argument; "" means now
// (the zero time, resolved by the operation).
func parseOptionalTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return logbook.ParseTimestamp(raw)
}

// parseOptionalDay parses a YYYY-MM-DD day argument; "" means today.
func parseOptionalDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest("day must be in YYYY-MM-DD form")
	}
	return parsed, nil
}

// errorResult creates an MCP error result from an error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if snapErr, ok := err.(*errors.SnapError); ok {
		errorObj := map[string]any{
			"code":    snapErr.Code,
			"message": snapErr.Message,
			"status":  snapErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if snapErr.Code != errors.ErrInternal && snapErr.Details != nil {
			errorObj["details"] = snapErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
