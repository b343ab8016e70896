package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
)

// testSetup creates a temporary store and handlers for testing.
func testSetup(t *testing.T) *Handlers {
	t.Helper()

	st, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return NewHandlers(st, config.DefaultConfig())
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, not TextContent", res.Content[0])
	}
	return text.Text
}

func decodeResult(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(resultText(t, res)), v); err != nil {
		t.Fatalf("decode result %q: %v", resultText(t, res), err)
	}
}

// errorCode extracts the error code from an error result.
func errorCode(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeResult(t, res, &payload)
	return payload.Error.Code
}

func seedEntry(t *testing.T, h *Handlers, args map[string]any) string {
	t.Helper()
	res, err := h.HandleFoodLog(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("HandleFoodLog failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("HandleFoodLog error result: %s", resultText(t, res))
	}
	var out struct {
		Entry logbook.CalorieLogEntry `json:"entry"`
	}
	decodeResult(t, res, &out)
	return out.Entry.ID
}

func TestHandleFoodLog(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleFoodLog(context.Background(), makeRequest(map[string]any{
		"foodItem":        "Chicken curry",
		"calorieEstimate": 650.0,
		"mealType":        "dinner",
		"timestamp":       "2026-08-15T19:30",
	}))
	if err != nil {
		t.Fatalf("HandleFoodLog failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var out struct {
		Entry logbook.CalorieLogEntry `json:"entry"`
	}
	decodeResult(t, res, &out)
	if len(out.Entry.ID) != 26 {
		t.Errorf("ID %q is not a ULID", out.Entry.ID)
	}
	if out.Entry.MealType == nil || *out.Entry.MealType != logbook.MealDinner {
		t.Errorf("MealType = %v, want dinner", out.Entry.MealType)
	}
	if out.Entry.NutritionistComment == "" {
		t.Error("entry should carry a derived advisory comment")
	}
}

func TestHandleFoodLog_MissingName(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleFoodLog(context.Background(), makeRequest(map[string]any{
		"calorieEstimate": 100.0,
	}))
	if err != nil {
		t.Fatalf("HandleFoodLog failed: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", code)
	}
}

func TestHandleFoodEdit(t *testing.T) {
	h := testSetup(t)
	id := seedEntry(t, h, map[string]any{"foodItem": "Burrito", "calorieEstimate": 500.0})

	res, err := h.HandleFoodEdit(context.Background(), makeRequest(map[string]any{
		"id":       id,
		"calories": "720",
	}))
	if err != nil {
		t.Fatalf("HandleFoodEdit failed: %v", err)
	}
	var out struct {
		Entry logbook.CalorieLogEntry `json:"entry"`
	}
	decodeResult(t, res, &out)
	if out.Entry.CalorieEstimate != 720 {
		t.Errorf("CalorieEstimate = %v, want 720", out.Entry.CalorieEstimate)
	}

	// A bad field value rejects the edit as VALIDATION_FAILED.
	res, err = h.HandleFoodEdit(context.Background(), makeRequest(map[string]any{
		"id":       id,
		"calories": "minus ten",
	}))
	if err != nil {
		t.Fatalf("HandleFoodEdit failed: %v", err)
	}
	if code := errorCode(t, res); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestHandleFoodDeleteAndDaily(t *testing.T) {
	h := testSetup(t)
	id := seedEntry(t, h, map[string]any{"foodItem": "Sushi", "calorieEstimate": 400.0, "timestamp": "2026-08-15T13:00"})

	res, err := h.HandleFoodDaily(context.Background(), makeRequest(map[string]any{"day": "2026-08-15"}))
	if err != nil {
		t.Fatalf("HandleFoodDaily failed: %v", err)
	}
	var daily struct {
		Entries       []logbook.CalorieLogEntry `json:"entries"`
		TotalCalories float64                   `json:"totalCalories"`
	}
	decodeResult(t, res, &daily)
	if len(daily.Entries) != 1 || daily.TotalCalories != 400 {
		t.Errorf("daily = %+v", daily)
	}

	res, err = h.HandleFoodDelete(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleFoodDelete failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	res, err = h.HandleFoodDelete(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleFoodDelete failed: %v", err)
	}
	if code := errorCode(t, res); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestHandleFoodMonthly_BadSort(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleFoodMonthly(context.Background(), makeRequest(map[string]any{"sort": "by-vibes"}))
	if err != nil {
		t.Fatalf("HandleFoodMonthly failed: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", code)
	}
}

func TestHandleWaterTools(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleWaterAdd(context.Background(), makeRequest(map[string]any{
		"amount":    500.0,
		"timestamp": "2026-08-15T09:00",
	}))
	if err != nil {
		t.Fatalf("HandleWaterAdd failed: %v", err)
	}
	var added struct {
		Entry      logbook.WaterLogEntry `json:"entry"`
		DailyTotal float64               `json:"dailyTotal"`
	}
	decodeResult(t, res, &added)
	if added.DailyTotal != 500 {
		t.Errorf("DailyTotal = %v, want 500", added.DailyTotal)
	}

	res, err = h.HandleWaterProgress(context.Background(), makeRequest(map[string]any{"day": "2026-08-15"}))
	if err != nil {
		t.Fatalf("HandleWaterProgress failed: %v", err)
	}
	var progress struct {
		Total  float64 `json:"total"`
		Target float64 `json:"target"`
	}
	decodeResult(t, res, &progress)
	if progress.Total != 500 || progress.Target != 2000 {
		t.Errorf("progress = %+v, want total 500 target 2000", progress)
	}

	res, err = h.HandleWaterDelete(context.Background(), makeRequest(map[string]any{
		"day": "2026-08-15",
		"id":  added.Entry.ID,
	}))
	if err != nil {
		t.Fatalf("HandleWaterDelete failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	res, err = h.HandleWaterReset(context.Background(), makeRequest(map[string]any{"day": "2026-08-15"}))
	if err != nil {
		t.Fatalf("HandleWaterReset failed: %v", err)
	}
	var reset struct {
		Removed int `json:"removed"`
	}
	decodeResult(t, res, &reset)
	if reset.Removed != 0 {
		t.Errorf("Removed = %d, want 0 after the only event was deleted", reset.Removed)
	}
}

func TestHandleProfileAndMetrics(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleProfileUpdate(context.Background(), makeRequest(map[string]any{
		"age":           "30",
		"gender":        "female",
		"height":        "165",
		"weight":        "60",
		"activityLevel": "moderate",
	}))
	if err != nil {
		t.Fatalf("HandleProfileUpdate failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	res, err = h.HandleMetricsGet(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleMetricsGet failed: %v", err)
	}
	var metrics struct {
		BMR         *float64 `json:"bmr"`
		WaterTarget float64  `json:"waterTarget"`
	}
	decodeResult(t, res, &metrics)
	if metrics.BMR == nil {
		t.Fatal("BMR should be derivable from a complete profile")
	}
	if metrics.WaterTarget != 2100 {
		t.Errorf("WaterTarget = %v, want 2100", metrics.WaterTarget)
	}
}

func TestHandleSettingsUpdate(t *testing.T) {
	h := testSetup(t)

	res, err := h.HandleSettingsUpdate(context.Background(), makeRequest(map[string]any{
		"enabled":   true,
		"frequency": 45,
	}))
	if err != nil {
		t.Fatalf("HandleSettingsUpdate failed: %v", err)
	}
	var out struct {
		Settings logbook.NotificationSettings `json:"settings"`
	}
	decodeResult(t, res, &out)
	if !out.Settings.Enabled || out.Settings.Frequency != 45 {
		t.Errorf("settings = %+v", out.Settings)
	}

	res, err = h.HandleSettingsUpdate(context.Background(), makeRequest(map[string]any{
		"startTime": "late",
	}))
	if err != nil {
		t.Fatalf("HandleSettingsUpdate failed: %v", err)
	}
	if code := errorCode(t, res); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestHandleCalendarMarks(t *testing.T) {
	h := testSetup(t)
	seedEntry(t, h, map[string]any{"foodItem": "Soup", "calorieEstimate": 200.0, "timestamp": "2026-08-03T12:00"})

	res, err := h.HandleCalendarMarks(context.Background(), makeRequest(map[string]any{"month": "2026-08"}))
	if err != nil {
		t.Fatalf("HandleCalendarMarks failed: %v", err)
	}
	var marks struct {
		DaysWithFood []string `json:"daysWithFood"`
	}
	decodeResult(t, res, &marks)
	if len(marks.DaysWithFood) != 1 || marks.DaysWithFood[0] != "2026-08-03" {
		t.Errorf("DaysWithFood = %v", marks.DaysWithFood)
	}
}

func TestErrorResult_ScrubsInternalDetails(t *testing.T) {
	res := errorResult(context.DeadlineExceeded)

	if !res.IsError {
		t.Fatal("expected an error result")
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeResult(t, res, &payload)
	if payload.Error.Code != "INTERNAL" {
		t.Errorf("code = %q, want INTERNAL", payload.Error.Code)
	}
	if payload.Error.Message != "an internal error occurred" {
		t.Errorf("message %q should not leak the underlying error", payload.Error.Message)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"food_log", "capsule_store", "water_add"})
	if len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("unknown = %v, want [capsule_store]", unknown)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	tools := ExpandTypesToTools([]string{"water"})
	sort.Strings(tools)
	want := []string{"water_add", "water_delete", "water_progress", "water_reset"}
	if len(tools) != len(want) {
		t.Fatalf("tools = %v, want %v", tools, want)
	}
	for i, name := range want {
		if tools[i] != name {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i], name)
		}
	}

	if got := ExpandTypesToTools(nil); got != nil {
		t.Errorf("ExpandTypesToTools(nil) = %v, want nil", got)
	}
}

func TestGetTypeForTool(t *testing.T) {
	if got := GetTypeForTool("food_log"); got != "food" {
		t.Errorf("got %q, want food", got)
	}
	if got := GetTypeForTool("plain"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
