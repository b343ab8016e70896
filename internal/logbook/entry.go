package logbook

import "time"

// MealType classifies a logged food event.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// MealTypes lists the enumerated meal types.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Gender is the profile gender value. BMR is only defined for the binary
// values; GenderOther is an explicitly unsupported case for BMR.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the enumerated gender values.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ActivityLevel scales BMR into a daily calorie need.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

// ActivityLevels lists the enumerated activity levels.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive,
}

// CalorieLogEntry is one logged food event. JSON field names match the
// browser client's persisted layout.
//
// Edits never partially update an entry: the whole record is replaced after
// the advisory comment is re-derived.
type CalorieLogEntry struct {
	// ID is a ULID, opaque and stable for the entry's lifetime
	ID string `json:"id"`

	// FoodItem is the free-text food label
	FoodItem string `json:"foodItem"`

	// CalorieEstimate is non-negative; it has no null state (0 means unknown
	// or inedible)
	CalorieEstimate float64 `json:"calorieEstimate"`

	// ImageURL is a data URI or external reference (nullable)
	ImageURL *string `json:"imageUrl"`

	// Timestamp is the absolute instant of the event
	Timestamp time.Time `json:"timestamp"`

	// MealType is one of the enumerated meal types, or null
	MealType *MealType `json:"mealType"`

	// Location is a free-text place label (nullable)
	Location *string `json:"location"`

	// Cost is a non-negative amount in the user's currency (nullable)
	Cost *float64 `json:"cost"`

	// Notes is optional free text
	Notes string `json:"notes,omitempty"`

	// Confidence is the estimation confidence in [0,1], when known
	Confidence *float64 `json:"confidence,omitempty"`

	// NutritionistComment is derived at write time and stored denormalized,
	// so historical comments stay stable if the rule table changes
	NutritionistComment string `json:"nutritionistComment,omitempty"`
}

// WaterLogEntry is one water-intake event.
type WaterLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Amount is positive, in milliliters
	Amount float64 `json:"amount"`
}

// WaterLog maps a local calendar day key (YYYY-MM-DD) to that day's bucket,
// ordered by insertion.
type WaterLog map[string][]WaterLogEntry

// UserProfile is the singleton profile record. Any numeric field is either a
// positive number or null; zero and negative inputs are coerced to null.
type UserProfile struct {
	Age           *int           `json:"age"`
	Gender        *Gender        `json:"gender"`
	Height        *float64       `json:"height"` // cm
	Weight        *float64       `json:"weight"` // kg, may be fractional
	ActivityLevel *ActivityLevel `json:"activityLevel"`
}

// NotificationSettings is the singleton reminder configuration. Scheduling
// itself is an external collaborator; only validation lives here.
type NotificationSettings struct {
	Enabled   bool   `json:"enabled"`
	Frequency int    `json:"frequency"` // minutes, >= 1
	StartTime string `json:"startTime"` // HH:mm
	EndTime   string `json:"endTime"`   // HH:mm
}

// DefaultNotificationSettings returns the settings used before the user has
// saved any.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:   false,
		Frequency: 60,
		StartTime: "09:00",
		EndTime:   "21:00",
	}
}

// DayKey returns the local calendar day key (YYYY-MM-DD) for an instant.
func DayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// SameLocalDay reports whether two instants fall on the same local calendar day.
func SameLocalDay(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// SameLocalMonth reports whether two instants fall in the same local calendar month.
func SameLocalMonth(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	return al.Year() == bl.Year() && al.Month() == bl.Month()
}
