package ops

import (
	"testing"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/store"
	"github.com/stretchr/testify/require"
)

// TestFullWorkflow exercises a day in the life of the logbook:
// profile setup → log food → edit → daily view → water → progress →
// calendar → delete → reset
func TestFullWorkflow(t *testing.T) {
	st, err := store.Init(t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	cfg := config.DefaultConfig()
	day := at(2026, time.August, 15, 0, 0)

	// 1. Profile
	profileOut, err := UpdateProfile(st, UpdateProfileInput{
		Age:           strPtr("30"),
		Gender:        strPtr("female"),
		Height:        strPtr("165"),
		Weight:        strPtr("60"),
		ActivityLevel: strPtr("moderate"),
	})
	require.NoError(t, err)
	require.NotNil(t, profileOut.Profile.Weight)

	metricsOut, err := ProfileMetrics(st)
	require.NoError(t, err)
	require.NotNil(t, metricsOut.BMR)
	require.Equal(t, 2100.0, metricsOut.WaterTarget)

	// 2. Log food
	logOut, err := LogFood(st, cfg, LogFoodInput{
		FoodItem:        "Grilled chicken salad",
		CalorieEstimate: 420,
		MealType:        "lunch",
		Timestamp:       at(2026, time.August, 15, 12, 30),
	})
	require.NoError(t, err)
	require.Len(t, logOut.Entry.ID, 26)
	require.Contains(t, logOut.Entry.NutritionistComment, "balanced")
	id := logOut.Entry.ID

	// 3. Edit calories; the advisory is re-derived
	editOut, err := EditEntry(st, EditEntryInput{
		ID:    id,
		Edits: []logbook.EntryEdit{logbook.SetCalories{Raw: "780"}},
	})
	require.NoError(t, err)
	require.Equal(t, 780.0, editOut.Entry.CalorieEstimate)
	require.Contains(t, editOut.Entry.NutritionistComment, "high-calorie")

	// 4. Daily view
	dailyOut, err := Daily(st, DailyInput{Anchor: day})
	require.NoError(t, err)
	require.Len(t, dailyOut.Entries, 1)
	require.Equal(t, 780.0, dailyOut.TotalCalories)

	// 5. Water
	for _, ml := range []float64{500, 500, 250} {
		_, err = AddWater(st, cfg, AddWaterInput{Amount: ml, Timestamp: at(2026, time.August, 15, 9, 0)})
		require.NoError(t, err)
	}

	progressOut, err := WaterProgress(st, WaterProgressInput{Anchor: day})
	require.NoError(t, err)
	require.Equal(t, 1250.0, progressOut.Total)
	require.Equal(t, 2100.0, progressOut.Target)
	require.InDelta(t, 1250.0/2100.0, progressOut.Progress, 1e-9)

	// 6. Calendar marks reflect both logs
	marksOut, err := CalendarMarks(st, CalendarMarksInput{Month: "2026-08"})
	require.NoError(t, err)
	require.Equal(t, []string{"2026-08-15"}, marksOut.DaysWithFood)
	require.Equal(t, []string{"2026-08-15"}, marksOut.DaysWithWater)

	// 7. Delete the entry
	_, err = DeleteEntry(st, DeleteEntryInput{ID: id})
	require.NoError(t, err)

	dailyOut, err = Daily(st, DailyInput{Anchor: day})
	require.NoError(t, err)
	require.Empty(t, dailyOut.Entries)

	// 8. Reset the day's water
	resetOut, err := ResetWaterDay(st, ResetWaterDayInput{Day: "2026-08-15"})
	require.NoError(t, err)
	require.Equal(t, 3, resetOut.Removed)

	marksOut, err = CalendarMarks(st, CalendarMarksInput{Month: "2026-08"})
	require.NoError(t, err)
	require.Empty(t, marksOut.DaysWithFood)
	require.Empty(t, marksOut.DaysWithWater)

	// Storage stayed healthy throughout.
	statusOut, err := StorageStatus(st)
	require.NoError(t, err)
	require.True(t, statusOut.OK)
}

// TestWorkflowPersistence verifies records survive a store reopen.
func TestWorkflowPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	st, err := store.Init(dir)
	require.NoError(t, err)

	logOut, err := LogFood(st, cfg, LogFoodInput{FoodItem: "Ramen", CalorieEstimate: 550})
	require.NoError(t, err)
	_, err = AddWater(st, cfg, AddWaterInput{Amount: 330})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = store.Init(dir)
	require.NoError(t, err)
	defer st.Close()

	got, err := GetEntry(st, GetEntryInput{ID: logOut.Entry.ID})
	require.NoError(t, err)
	require.Equal(t, "Ramen", got.Entry.FoodItem)

	progress, err := WaterProgress(st, WaterProgressInput{})
	require.NoError(t, err)
	require.Equal(t, 330.0, progress.Total)
}
