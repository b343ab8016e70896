package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/estimate"
	"github.com/jet23058/caloriesnap/internal/identity"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/logger"
	"github.com/jet23058/caloriesnap/internal/store"
)

type fakeEstimator struct {
	result *estimate.Result
	err    error
}

func (f *fakeEstimator) Estimate(ctx context.Context, imageDataURI string) (*estimate.Result, error) {
	return f.result, f.err
}

type fakeAccounts struct {
	signIns []identity.User
	err     error
}

func (f *fakeAccounts) RecordSignIn(ctx context.Context, user identity.User, profile logbook.UserProfile) error {
	f.signIns = append(f.signIns, user)
	return f.err
}

func setupTest(t *testing.T) (http.Handler, *fakeAccounts) {
	t.Helper()
	st, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	estimator := &fakeEstimator{result: &estimate.Result{
		FoodItem:        "Caesar salad",
		IsFoodItem:      true,
		CalorieEstimate: 380,
		Confidence:      0.8,
	}}
	accounts := &fakeAccounts{}

	srv := NewServer(st, config.DefaultConfig(), logger.Nop(), estimator, accounts, "test", "127.0.0.1", 0)
	return srv.Handler, accounts
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func seedEntry(t *testing.T, handler http.Handler, body string) string {
	t.Helper()
	w := doJSON(t, handler, "POST", "/api/entries", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed entry: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Entry logbook.CalorieLogEntry `json:"entry"`
	}
	decodeResponse(t, w, &resp)
	return resp.Entry.ID
}

func TestHealthz(t *testing.T) {
	handler, _ := setupTest(t)

	w := doJSON(t, handler, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestLogAndListEntries(t *testing.T) {
	handler, _ := setupTest(t)

	id := seedEntry(t, handler, `{"foodItem": "Pad thai", "calorieEstimate": 650, "mealType": "dinner", "timestamp": "2026-08-15T19:00"}`)
	if len(id) != 26 {
		t.Errorf("entry id %q is not a ULID", id)
	}

	w := doJSON(t, handler, "GET", "/api/entries?day=2026-08-15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var daily struct {
		Day           string                    `json:"day"`
		Entries       []logbook.CalorieLogEntry `json:"entries"`
		TotalCalories float64                   `json:"totalCalories"`
	}
	decodeResponse(t, w, &daily)
	if len(daily.Entries) != 1 || daily.TotalCalories != 650 {
		t.Errorf("daily = %+v, want one 650 kcal entry", daily)
	}
	if daily.Entries[0].NutritionistComment == "" {
		t.Error("entry should carry a derived advisory comment")
	}

	w = doJSON(t, handler, "GET", "/api/entries?month=2026-08&sort=calories-desc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("monthly status = %d body %s", w.Code, w.Body.String())
	}
}

func TestLogEntry_ValidationStatusCodes(t *testing.T) {
	handler, _ := setupTest(t)

	cases := []struct {
		body string
		want int
	}{
		{`{"foodItem": "", "calorieEstimate": 100}`, http.StatusBadRequest},
		{`{"foodItem": "Toast", "calorieEstimate": -5}`, http.StatusUnprocessableEntity},
		{`not json`, http.StatusBadRequest},
	}
	for _, c := range cases {
		w := doJSON(t, handler, "POST", "/api/entries", c.body)
		if w.Code != c.want {
			t.Errorf("POST %s: status = %d, want %d", c.body, w.Code, c.want)
		}
	}
}

func TestEditEntry(t *testing.T) {
	handler, _ := setupTest(t)
	id := seedEntry(t, handler, `{"foodItem": "Bagel", "calorieEstimate": 280}`)

	w := doJSON(t, handler, "PATCH", "/api/entries/"+id, `{"calories": "700", "mealType": "breakfast"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Entry logbook.CalorieLogEntry `json:"entry"`
	}
	decodeResponse(t, w, &resp)
	if resp.Entry.CalorieEstimate != 700 {
		t.Errorf("CalorieEstimate = %v, want 700", resp.Entry.CalorieEstimate)
	}
	if !strings.Contains(resp.Entry.NutritionistComment, "high-calorie") {
		t.Errorf("comment %q should be re-derived for the new value", resp.Entry.NutritionistComment)
	}

	// An invalid field rejects the whole patch.
	w = doJSON(t, handler, "PATCH", "/api/entries/"+id, `{"foodItem": "Better bagel", "calories": "-1"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestDeleteEntry(t *testing.T) {
	handler, _ := setupTest(t)
	id := seedEntry(t, handler, `{"foodItem": "Taco", "calorieEstimate": 320}`)

	w := doJSON(t, handler, "DELETE", "/api/entries/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, "GET", "/api/entries/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestEstimate(t *testing.T) {
	handler, _ := setupTest(t)

	w := doJSON(t, handler, "POST", "/api/estimate", `{"image": "data:image/jpeg;base64,abcd"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var result estimate.Result
	decodeResponse(t, w, &result)
	if result.FoodItem != "Caesar salad" || result.CalorieEstimate != 380 {
		t.Errorf("result = %+v", result)
	}
}

func TestWaterRoutes(t *testing.T) {
	handler, _ := setupTest(t)

	for i := 0; i < 3; i++ {
		w := doJSON(t, handler, "POST", "/api/water", `{"amount": 250, "timestamp": "2026-08-15T09:00"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d body %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, handler, "GET", "/api/water?day=2026-08-15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var progress struct {
		Total   float64                 `json:"total"`
		Target  float64                 `json:"target"`
		Entries []logbook.WaterLogEntry `json:"entries"`
	}
	decodeResponse(t, w, &progress)
	if progress.Total != 750 || progress.Target != 2000 {
		t.Errorf("progress = %+v, want total 750 target 2000", progress)
	}

	w = doJSON(t, handler, "DELETE", fmt.Sprintf("/api/water/2026-08-15/%s", progress.Entries[0].ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete one: status = %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, "DELETE", "/api/water/2026-08-15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status = %d body %s", w.Code, w.Body.String())
	}
	var reset struct {
		Removed int `json:"removed"`
	}
	decodeResponse(t, w, &reset)
	if reset.Removed != 2 {
		t.Errorf("Removed = %d, want 2", reset.Removed)
	}

	w = doJSON(t, handler, "POST", "/api/water", `{"amount": -1}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative amount: status = %d, want 422", w.Code)
	}
}

func TestProfileAndMetricsRoutes(t *testing.T) {
	handler, _ := setupTest(t)

	w := doJSON(t, handler, "PUT", "/api/profile", `{"age": "30", "gender": "female", "height": "165", "weight": "60", "activityLevel": "moderate"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, "GET", "/api/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var metrics struct {
		BMR         *float64 `json:"bmr"`
		WaterTarget float64  `json:"waterTarget"`
	}
	decodeResponse(t, w, &metrics)
	if metrics.BMR == nil {
		t.Fatal("BMR should be derivable from a complete profile")
	}
	if metrics.WaterTarget != 2100 {
		t.Errorf("WaterTarget = %v, want 2100", metrics.WaterTarget)
	}

	w = doJSON(t, handler, "DELETE", "/api/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status = %d", w.Code)
	}

	w = doJSON(t, handler, "PUT", "/api/profile", `{"weight": "nope"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid weight: status = %d, want 422", w.Code)
	}
}

func TestSettingsRoutes(t *testing.T) {
	handler, _ := setupTest(t)

	w := doJSON(t, handler, "PUT", "/api/settings", `{"enabled": true, "frequency": 30}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, handler, "GET", "/api/settings", "")
	var resp struct {
		Settings logbook.NotificationSettings `json:"settings"`
	}
	decodeResponse(t, w, &resp)
	if !resp.Settings.Enabled || resp.Settings.Frequency != 30 {
		t.Errorf("settings = %+v", resp.Settings)
	}

	w = doJSON(t, handler, "PUT", "/api/settings", `{"frequency": 0}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero frequency: status = %d, want 422", w.Code)
	}
}

func TestCalendarRoute(t *testing.T) {
	handler, _ := setupTest(t)
	seedEntry(t, handler, `{"foodItem": "Soup", "calorieEstimate": 200, "timestamp": "2026-08-03T12:00"}`)

	w := doJSON(t, handler, "GET", "/api/calendar?month=2026-08", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var marks struct {
		DaysWithFood []string `json:"daysWithFood"`
	}
	decodeResponse(t, w, &marks)
	if len(marks.DaysWithFood) != 1 || marks.DaysWithFood[0] != "2026-08-03" {
		t.Errorf("DaysWithFood = %v", marks.DaysWithFood)
	}

	w = doJSON(t, handler, "GET", "/api/calendar?month=bad", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad month: status = %d, want 400", w.Code)
	}
}

func TestStatusRoutes(t *testing.T) {
	handler, _ := setupTest(t)

	w := doJSON(t, handler, "GET", "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status struct {
		OK bool `json:"ok"`
	}
	decodeResponse(t, w, &status)
	if !status.OK {
		t.Error("fresh store should report ok")
	}

	w = doJSON(t, handler, "POST", "/api/status/dismiss", "")
	if w.Code != http.StatusOK {
		t.Errorf("dismiss: status = %d", w.Code)
	}
}

func TestSessionRoute(t *testing.T) {
	handler, accounts := setupTest(t)

	w := doJSON(t, handler, "POST", "/api/session", `{"user": {"id": "acct-1", "displayName": "Sam", "email": "sam@example.com"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	if len(accounts.signIns) != 1 || accounts.signIns[0].ID != "acct-1" {
		t.Errorf("signIns = %+v, want one for acct-1", accounts.signIns)
	}

	w = doJSON(t, handler, "POST", "/api/session", `{"user": {}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("anonymous session: status = %d, want 400", w.Code)
	}
}

func TestSessionRoute_SyncFailureDoesNotBlock(t *testing.T) {
	handler, accounts := setupTest(t)
	accounts.err = fmt.Errorf("connection refused")

	w := doJSON(t, handler, "POST", "/api/session", `{"user": {"id": "acct-2"}}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite sync failure", w.Code)
	}
}
