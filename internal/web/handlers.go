package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/identity"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/logger"
	"github.com/jet23058/caloriesnap/internal/ops"
	"github.com/jet23058/caloriesnap/internal/store"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	store     *store.Store
	cfg       *config.Config
	log       *logger.Logger
	estimator Estimator
	accounts  AccountSync
	version   string
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

// HandleListEntries handles GET /api/entries. A day parameter selects
// the daily view; a month parameter the monthly view with optional
// sort. Without either the daily view for today is returned.
func (h *Handlers) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if month := q.Get("month"); month != "" {
		anchor, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("month must be in YYYY-MM form"))
			return
		}
		out, err := ops.Monthly(h.store, ops.MonthlyInput{
			Anchor: anchor,
			Sort:   ops.SortCriteria(q.Get("sort")),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	var anchor time.Time
	if day := q.Get("day"); day != "" {
		parsed, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("day must be in YYYY-MM-DD form"))
			return
		}
		anchor = parsed
	}

	out, err := ops.Daily(h.store, ops.DailyInput{Anchor: anchor})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type logEntryRequest struct {
	FoodItem        string   `json:"foodItem"`
	CalorieEstimate float64  `json:"calorieEstimate"`
	MealType        string   `json:"mealType"`
	IsFoodItem      *bool    `json:"isFoodItem"`
	Confidence      *float64 `json:"confidence"`
	ImageURL        *string  `json:"imageUrl"`
	Location        *string  `json:"location"`
	Cost            *float64 `json:"cost"`
	Notes           string   `json:"notes"`
	Timestamp       string   `json:"timestamp"`
}

// HandleLogEntry handles POST /api/entries.
func (h *Handlers) HandleLogEntry(w http.ResponseWriter, r *http.Request) {
	var req logEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var timestamp time.Time
	if req.Timestamp != "" {
		parsed, err := logbook.ParseTimestamp(req.Timestamp)
		if err != nil {
			writeError(w, err)
			return
		}
		timestamp = parsed
	}

	out, err := ops.LogFood(h.store, h.cfg, ops.LogFoodInput{
		FoodItem:        req.FoodItem,
		CalorieEstimate: req.CalorieEstimate,
		MealType:        req.MealType,
		IsFoodItem:      req.IsFoodItem,
		Confidence:      req.Confidence,
		ImageURL:        req.ImageURL,
		Location:        req.Location,
		Cost:            req.Cost,
		Notes:           req.Notes,
		Timestamp:       timestamp,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleGetEntry handles GET /api/entries/{id}.
func (h *Handlers) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	out, err := ops.GetEntry(h.store, ops.GetEntryInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type editEntryRequest struct {
	FoodItem  *string `json:"foodItem"`
	Calories  *string `json:"calories"`
	Timestamp *string `json:"timestamp"`
	MealType  *string `json:"mealType"`
	Location  *string `json:"location"`
	Cost      *string `json:"cost"`
	Notes     *string `json:"notes"`
}

func (req editEntryRequest) edits() []logbook.EntryEdit {
	var edits []logbook.EntryEdit
	if req.FoodItem != nil {
		edits = append(edits, logbook.SetFoodItem{Value: *req.FoodItem})
	}
	if req.Calories != nil {
		edits = append(edits, logbook.SetCalories{Raw: *req.Calories})
	}
	if req.Timestamp != nil {
		edits = append(edits, logbook.SetTimestamp{Raw: *req.Timestamp})
	}
	if req.MealType != nil {
		edits = append(edits, logbook.SetMealType{Raw: *req.MealType})
	}
	if req.Location != nil {
		edits = append(edits, logbook.SetLocation{Raw: *req.Location})
	}
	if req.Cost != nil {
		edits = append(edits, logbook.SetCost{Raw: *req.Cost})
	}
	if req.Notes != nil {
		edits = append(edits, logbook.SetNotes{Raw: *req.Notes})
	}
	return edits
}

// HandleEditEntry handles PATCH /api/entries/{id}. Absent fields are
// left untouched; the edit is atomic.
func (h *Handlers) HandleEditEntry(w http.ResponseWriter, r *http.Request) {
	var req editEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.EditEntry(h.store, ops.EditEntryInput{
		ID:    r.PathValue("id"),
		Edits: req.edits(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDeleteEntry handles DELETE /api/entries/{id}.
func (h *Handlers) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	out, err := ops.DeleteEntry(h.store, ops.DeleteEntryInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type estimateRequest struct {
	Image string `json:"image"` // data URI
}

// HandleEstimate handles POST /api/estimate. The result is returned to
// the client for confirmation; nothing is logged until the client
// POSTs /api/entries.
func (h *Handlers) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	if h.estimator == nil {
		writeError(w, errors.NewInvalidRequest("estimation is not configured; set an OpenAI API key"))
		return
	}

	var req estimateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.estimator.Estimate(r.Context(), req.Image)
	if err != nil {
		h.log.Warnw("estimation failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleWaterProgress handles GET /api/water.
func (h *Handlers) HandleWaterProgress(w http.ResponseWriter, r *http.Request) {
	var anchor time.Time
	if day := r.URL.Query().Get("day"); day != "" {
		parsed, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("day must be in YYYY-MM-DD form"))
			return
		}
		anchor = parsed
	}

	out, err := ops.WaterProgress(h.store, ops.WaterProgressInput{Anchor: anchor})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type addWaterRequest struct {
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

// HandleAddWater handles POST /api/water.
func (h *Handlers) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req addWaterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var timestamp time.Time
	if req.Timestamp != "" {
		parsed, err := logbook.ParseTimestamp(req.Timestamp)
		if err != nil {
			writeError(w, err)
			return
		}
		timestamp = parsed
	}

	out, err := ops.AddWater(h.store, h.cfg, ops.AddWaterInput{
		Amount:    req.Amount,
		Timestamp: timestamp,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleResetWater handles DELETE /api/water/{day}.
func (h *Handlers) HandleResetWater(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ResetWaterDay(h.store, ops.ResetWaterDayInput{Day: r.PathValue("day")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDeleteWater handles DELETE /api/water/{day}/{id}.
func (h *Handlers) HandleDeleteWater(w http.ResponseWriter, r *http.Request) {
	out, err := ops.DeleteWater(h.store, ops.DeleteWaterInput{
		Day: r.PathValue("day"),
		ID:  r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetProfile handles GET /api/profile.
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	out, err := ops.GetProfile(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type updateProfileRequest struct {
	Age           *string `json:"age"`
	Gender        *string `json:"gender"`
	Height        *string `json:"height"`
	Weight        *string `json:"weight"`
	ActivityLevel *string `json:"activityLevel"`
}

// HandleUpdateProfile handles PUT /api/profile.
func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.UpdateProfile(h.store, ops.UpdateProfileInput{
		Age:           req.Age,
		Gender:        req.Gender,
		Height:        req.Height,
		Weight:        req.Weight,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleResetProfile handles DELETE /api/profile.
func (h *Handlers) HandleResetProfile(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ResetProfile(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMetrics handles GET /api/metrics.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ProfileMetrics(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSettings handles GET /api/settings.
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	out, err := ops.GetSettings(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type updateSettingsRequest struct {
	Enabled   *bool   `json:"enabled"`
	Frequency *int    `json:"frequency"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// HandleUpdateSettings handles PUT /api/settings. The reminder schedule
// follows via the store's settings-key subscription.
func (h *Handlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.UpdateSettings(h.store, ops.UpdateSettingsInput{
		Enabled:   req.Enabled,
		Frequency: req.Frequency,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// HandleCalendar handles GET /api/calendar.
func (h *Handlers) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	out, err := ops.CalendarMarks(h.store, ops.CalendarMarksInput{
		Month: r.URL.Query().Get("month"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleStatus handles GET /api/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	out, err := ops.StorageStatus(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDismissStatus handles POST /api/status/dismiss.
func (h *Handlers) HandleDismissStatus(w http.ResponseWriter, r *http.Request) {
	out, err := ops.DismissStorageError(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type sessionRequest struct {
	User identity.User `json:"user"`
}

// HandleSession handles POST /api/session. When remote sync is
// configured the sign-in is mirrored to the shared database; a sync
// failure is logged but never blocks the session.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.User.SignedIn() {
		writeError(w, errors.NewInvalidRequest("user.id is required"))
		return
	}

	if h.accounts != nil {
		profile, _ := ops.GetProfile(h.store)
		if err := h.accounts.RecordSignIn(r.Context(), req.User, profile.Profile); err != nil {
			h.log.Warnw("account sync failed", "userId", req.User.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": req.User})
}

// decodeBody parses a JSON request body.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewInvalidRequest("request body must be valid JSON")
	}
	return nil
}
