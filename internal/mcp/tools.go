package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Parameter names mirror the JSON API's request
// bodies so agent callers and the browser client share one vocabulary.

var foodLogToolDef = mcp.NewTool("food_log",
	mcp.WithDescription("Log a food item to the calorie log. Covers manual entry and confirming a completed photo estimation."),
	mcp.WithString("foodItem",
		mcp.Required(),
		mcp.Description("Name of the food"),
	),
	mcp.WithNumber("calorieEstimate",
		mcp.Description("Estimated calories (kcal, non-negative; default 0)"),
	),
	mcp.WithString("mealType",
		mcp.Description("One of breakfast, lunch, dinner, snack; omit for none"),
	),
	mcp.WithBoolean("isFoodItem",
		mcp.Description("False when the photo was not food; keeps the label but logs 0 kcal"),
	),
	mcp.WithNumber("confidence",
		mcp.Description("Estimation confidence in [0,1]"),
	),
	mcp.WithString("imageUrl",
		mcp.Description("Data URI or URL of the analyzed photo"),
	),
	mcp.WithString("location",
		mcp.Description("Where the meal was eaten"),
	),
	mcp.WithNumber("cost",
		mcp.Description("Meal cost (non-negative)"),
	),
	mcp.WithString("notes",
		mcp.Description("Free-form notes"),
	),
	mcp.WithString("timestamp",
		mcp.Description("RFC3339 or YYYY-MM-DDTHH:mm; omit for now"),
	),
)

var foodEditToolDef = mcp.NewTool("food_edit",
	mcp.WithDescription("Edit fields of an existing calorie log entry. Only provided fields change; the advisory comment is re-derived. The whole edit is atomic."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ID"),
	),
	mcp.WithString("foodItem",
		mcp.Description("New food name (must be non-empty)"),
	),
	mcp.WithString("calories",
		mcp.Description("New calorie value (non-negative number)"),
	),
	mcp.WithString("timestamp",
		mcp.Description("New timestamp"),
	),
	mcp.WithString("mealType",
		mcp.Description("New meal type; empty or none clears it"),
	),
	mcp.WithString("location",
		mcp.Description("New location; empty clears it"),
	),
	mcp.WithString("cost",
		mcp.Description("New cost (non-negative number); empty clears it"),
	),
	mcp.WithString("notes",
		mcp.Description("New notes"),
	),
)

var foodDeleteToolDef = mcp.NewTool("food_delete",
	mcp.WithDescription("Delete a calorie log entry by ID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ID"),
	),
)

var foodDailyToolDef = mcp.NewTool("food_daily",
	mcp.WithDescription("List a day's calorie log entries, newest first, with the day's total."),
	mcp.WithString("day",
		mcp.Description("Day in YYYY-MM-DD form; omit for today"),
	),
)

var foodMonthlyToolDef = mcp.NewTool("food_monthly",
	mcp.WithDescription("List a month's calorie log entries with the month's total."),
	mcp.WithString("month",
		mcp.Description("Month in YYYY-MM form; omit for the current month"),
	),
	mcp.WithString("sort",
		mcp.Description("One of time-desc (default), time-asc, calories-desc, calories-asc"),
	),
)

var waterAddToolDef = mcp.NewTool("water_add",
	mcp.WithDescription("Record a water intake event."),
	mcp.WithNumber("amount",
		mcp.Required(),
		mcp.Description("Milliliters, positive"),
	),
	mcp.WithString("timestamp",
		mcp.Description("RFC3339 or YYYY-MM-DDTHH:mm; omit for now"),
	),
)

var waterDeleteToolDef = mcp.NewTool("water_delete",
	mcp.WithDescription("Delete a single water event from a day."),
	mcp.WithString("day",
		mcp.Required(),
		mcp.Description("Day in YYYY-MM-DD form"),
	),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Water event ID"),
	),
)

var waterResetToolDef = mcp.NewTool("water_reset",
	mcp.WithDescription("Remove all water events for a day. Resetting an empty day succeeds."),
	mcp.WithString("day",
		mcp.Required(),
		mcp.Description("Day in YYYY-MM-DD form"),
	),
)

var waterProgressToolDef = mcp.NewTool("water_progress",
	mcp.WithDescription("Report a day's water total against the profile-derived target."),
	mcp.WithString("day",
		mcp.Description("Day in YYYY-MM-DD form; omit for today"),
	),
)

var profileGetToolDef = mcp.NewTool("profile_get",
	mcp.WithDescription("Read the user profile."),
)

var profileUpdateToolDef = mcp.NewTool("profile_update",
	mcp.WithDescription("Update user profile fields. Only provided fields change; an empty string clears a field. Unknown enum values clear the field."),
	mcp.WithString("age",
		mcp.Description("Age in years (positive integer) or empty to clear"),
	),
	mcp.WithString("gender",
		mcp.Description("One of male, female, other; empty clears"),
	),
	mcp.WithString("height",
		mcp.Description("Height in cm (positive) or empty to clear"),
	),
	mcp.WithString("weight",
		mcp.Description("Weight in kg (positive) or empty to clear"),
	),
	mcp.WithString("activityLevel",
		mcp.Description("One of sedentary, light, moderate, active, veryActive; empty clears"),
	),
)

var metricsGetToolDef = mcp.NewTool("metrics_get",
	mcp.WithDescription("Compute BMR, daily calorie needs, BMI, and the recommended water intake from the profile. Fields the profile cannot support are null."),
)

var settingsGetToolDef = mcp.NewTool("settings_get",
	mcp.WithDescription("Read the water reminder settings."),
)

var settingsUpdateToolDef = mcp.NewTool("settings_update",
	mcp.WithDescription("Update the water reminder settings. Only provided fields change; the result is validated as a whole."),
	mcp.WithBoolean("enabled",
		mcp.Description("Whether reminders fire"),
	),
	mcp.WithNumber("frequency",
		mcp.Description("Minutes between reminders (positive integer)"),
	),
	mcp.WithString("startTime",
		mcp.Description("Window start in HH:mm"),
	),
	mcp.WithString("endTime",
		mcp.Description("Window end in HH:mm; before startTime spans midnight"),
	),
)

var calendarMarksToolDef = mcp.NewTool("calendar_marks",
	mcp.WithDescription("List the days that have calorie entries and the days that have water events."),
	mcp.WithString("month",
		mcp.Description("Restrict to a month in YYYY-MM form; omit for all days"),
	),
)
