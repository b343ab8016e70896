package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/errors"
	"github.com/jet23058/caloriesnap/internal/estimate"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/logger"
	"github.com/jet23058/caloriesnap/internal/notify"
	"github.com/jet23058/caloriesnap/internal/ops"
	"github.com/jet23058/caloriesnap/internal/remote"
	"github.com/jet23058/caloriesnap/internal/store"
	"github.com/jet23058/caloriesnap/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "caloriesnap",
		Usage:   "Food and water logging with AI calorie estimation",
		Version: Version,
		Commands: []*cli.Command{
			logCmd(st, cfg),
			estimateCmd(st, cfg),
			editCmd(st),
			deleteCmd(st),
			dailyCmd(st),
			monthlyCmd(st),
			waterCmd(st, cfg),
			profileCmd(st),
			metricsCmd(st),
			settingsCmd(st),
			serveCmd(st, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// logCmd creates the log command.
func logCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Log a food item",
		ArgsUsage: "<food item>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "calories", Aliases: []string{"c"}, Usage: "Estimated calories (kcal)"},
			&cli.StringFlag{Name: "meal", Aliases: []string{"m"}, Usage: "Meal type: breakfast|lunch|dinner|snack"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Where the meal was eaten"},
			&cli.Float64Flag{Name: "cost", Usage: "Meal cost"},
			&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
			&cli.StringFlag{Name: "at", Usage: "Timestamp (RFC3339 or YYYY-MM-DDTHH:mm)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("food item name is required"))
			}

			input := ops.LogFoodInput{
				FoodItem:        strings.Join(c.Args().Slice(), " "),
				CalorieEstimate: c.Float64("calories"),
				MealType:        c.String("meal"),
				Notes:           c.String("notes"),
			}
			if location := c.String("location"); location != "" {
				input.Location = &location
			}
			if c.IsSet("cost") {
				cost := c.Float64("cost")
				input.Cost = &cost
			}
			if at := c.String("at"); at != "" {
				timestamp, err := logbook.ParseTimestamp(at)
				if err != nil {
					return outputError(err)
				}
				input.Timestamp = timestamp
			}

			output, err := ops.LogFood(st, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// estimateCmd creates the estimate command. It analyzes a photo and,
// unless --dry-run is given, logs the result.
func estimateCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "estimate",
		Usage:     "Estimate calories from a food photo and log the result",
		ArgsUsage: "<image file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the estimation without logging it"},
			&cli.StringFlag{Name: "meal", Aliases: []string{"m"}, Usage: "Meal type: breakfast|lunch|dinner|snack"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("image file path is required"))
			}
			if cfg.OpenAIAPIKey == "" {
				return outputError(errors.NewInvalidRequest("estimation is not configured; set OPENAI_API_KEY"))
			}

			dataURI, err := imageDataURI(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			client := estimate.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			result, err := client.Estimate(context.Background(), dataURI)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("dry-run") {
				return outputJSON(result)
			}

			output, err := ops.LogFood(st, cfg, ops.LogFoodInput{
				FoodItem:        result.FoodItem,
				CalorieEstimate: result.CalorieEstimate,
				IsFoodItem:      &result.IsFoodItem,
				Confidence:      &result.Confidence,
				MealType:        c.String("meal"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit fields of a logged entry",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "food", Usage: "New food name"},
			&cli.StringFlag{Name: "calories", Aliases: []string{"c"}, Usage: "New calorie value"},
			&cli.StringFlag{Name: "meal", Aliases: []string{"m"}, Usage: "New meal type (empty clears)"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "New location (empty clears)"},
			&cli.StringFlag{Name: "cost", Usage: "New cost (empty clears)"},
			&cli.StringFlag{Name: "notes", Usage: "New notes"},
			&cli.StringFlag{Name: "at", Usage: "New timestamp"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("entry id is required"))
			}

			var edits []logbook.EntryEdit
			if c.IsSet("food") {
				edits = append(edits, logbook.SetFoodItem{Value: c.String("food")})
			}
			if c.IsSet("calories") {
				edits = append(edits, logbook.SetCalories{Raw: c.String("calories")})
			}
			if c.IsSet("meal") {
				edits = append(edits, logbook.SetMealType{Raw: c.String("meal")})
			}
			if c.IsSet("location") {
				edits = append(edits, logbook.SetLocation{Raw: c.String("location")})
			}
			if c.IsSet("cost") {
				edits = append(edits, logbook.SetCost{Raw: c.String("cost")})
			}
			if c.IsSet("notes") {
				edits = append(edits, logbook.SetNotes{Raw: c.String("notes")})
			}
			if c.IsSet("at") {
				edits = append(edits, logbook.SetTimestamp{Raw: c.String("at")})
			}

			output, err := ops.EditEntry(st, ops.EditEntryInput{
				ID:    c.Args().First(),
				Edits: edits,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a logged entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("entry id is required"))
			}

			output, err := ops.DeleteEntry(st, ops.DeleteEntryInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dailyCmd creates the daily command.
func dailyCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "daily",
		Usage: "Show a day's entries, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day (YYYY-MM-DD), defaults to today"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DailyInput{}
			if day := c.String("day"); day != "" {
				anchor, err := logbook.ParseTimestamp(day)
				if err != nil {
					return outputError(err)
				}
				input.Anchor = anchor
			}

			output, err := ops.Daily(st, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// monthlyCmd creates the monthly command.
func monthlyCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "monthly",
		Usage: "Show a month's entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month (YYYY-MM), defaults to the current month"},
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort: time-desc|time-asc|calories-desc|calories-asc"},
		},
		Action: func(c *cli.Context) error {
			input := ops.MonthlyInput{Sort: ops.SortCriteria(c.String("sort"))}
			if month := c.String("month"); month != "" {
				anchor, err := logbook.ParseTimestamp(month + "-01")
				if err != nil {
					return outputError(errors.NewInvalidRequest("month must be in YYYY-MM form"))
				}
				input.Anchor = anchor
			}

			output, err := ops.Monthly(st, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// waterCmd creates the water command group.
func waterCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "water",
		Usage: "Track water intake",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Record a water intake event",
				ArgsUsage: "<milliliters>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Usage: "Timestamp (RFC3339 or YYYY-MM-DDTHH:mm)"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("amount in milliliters is required"))
					}
					amount, err := logbook.ParsePositiveFloat("amount", c.Args().First())
					if err != nil {
						return outputError(err)
					}
					if amount == nil {
						return outputError(errors.NewValidation("amount", "must be a positive number"))
					}

					input := ops.AddWaterInput{Amount: *amount}
					if at := c.String("at"); at != "" {
						timestamp, err := logbook.ParseTimestamp(at)
						if err != nil {
							return outputError(err)
						}
						input.Timestamp = timestamp
					}

					output, err := ops.AddWater(st, cfg, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "Show a day's water events and progress",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day (YYYY-MM-DD), defaults to today"},
				},
				Action: func(c *cli.Context) error {
					input := ops.WaterProgressInput{}
					if day := c.String("day"); day != "" {
						anchor, err := logbook.ParseTimestamp(day)
						if err != nil {
							return outputError(err)
						}
						input.Anchor = anchor
					}

					output, err := ops.WaterProgress(st, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a single water event",
				ArgsUsage: "<day> <id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("day and event id are required"))
					}

					output, err := ops.DeleteWater(st, ops.DeleteWaterInput{
						Day: c.Args().Get(0),
						ID:  c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "reset",
				Usage:     "Remove all water events for a day",
				ArgsUsage: "<day>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("day is required"))
					}

					output, err := ops.ResetWaterDay(st, ops.ResetWaterDayInput{Day: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// profileCmd creates the profile command group.
func profileCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the user profile",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the profile",
				Action: func(c *cli.Context) error {
					output, err := ops.GetProfile(st)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "set",
				Usage: "Update profile fields (empty value clears a field)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "age", Usage: "Age in years"},
					&cli.StringFlag{Name: "gender", Usage: "male|female|other"},
					&cli.StringFlag{Name: "height", Usage: "Height in cm"},
					&cli.StringFlag{Name: "weight", Usage: "Weight in kg"},
					&cli.StringFlag{Name: "activity", Usage: "sedentary|light|moderate|active|veryActive"},
				},
				Action: func(c *cli.Context) error {
					input := ops.UpdateProfileInput{}
					if c.IsSet("age") {
						v := c.String("age")
						input.Age = &v
					}
					if c.IsSet("gender") {
						v := c.String("gender")
						input.Gender = &v
					}
					if c.IsSet("height") {
						v := c.String("height")
						input.Height = &v
					}
					if c.IsSet("weight") {
						v := c.String("weight")
						input.Weight = &v
					}
					if c.IsSet("activity") {
						v := c.String("activity")
						input.ActivityLevel = &v
					}

					output, err := ops.UpdateProfile(st, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "reset",
				Usage: "Clear all profile fields",
				Action: func(c *cli.Context) error {
					output, err := ops.ResetProfile(st)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// metricsCmd creates the metrics command.
func metricsCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Show BMR, daily calories, BMI, and recommended water intake",
		Action: func(c *cli.Context) error {
			output, err := ops.ProfileMetrics(st)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// settingsCmd creates the settings command group.
func settingsCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Manage water reminder settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the reminder settings",
				Action: func(c *cli.Context) error {
					output, err := ops.GetSettings(st)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "set",
				Usage: "Update reminder settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "enabled", Usage: "Enable or disable reminders"},
					&cli.IntFlag{Name: "frequency", Aliases: []string{"f"}, Usage: "Minutes between reminders"},
					&cli.StringFlag{Name: "start", Usage: "Window start (HH:mm)"},
					&cli.StringFlag{Name: "end", Usage: "Window end (HH:mm)"},
				},
				Action: func(c *cli.Context) error {
					input := ops.UpdateSettingsInput{}
					if c.IsSet("enabled") {
						v := c.Bool("enabled")
						input.Enabled = &v
					}
					if c.IsSet("frequency") {
						v := c.Int("frequency")
						input.Frequency = &v
					}
					if c.IsSet("start") {
						v := c.String("start")
						input.StartTime = &v
					}
					if c.IsSet("end") {
						v := c.String("end")
						input.EndTime = &v
					}

					output, err := ops.UpdateSettings(st, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the JSON API server for the browser client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8385, Usage: "Listen port"},
			&cli.BoolFlag{Name: "verbose", Usage: "Console logging at debug level"},
		},
		Action: func(c *cli.Context) error {
			log := logger.New()
			if c.Bool("verbose") {
				log = logger.NewDevelopment()
			}
			defer log.Sync()

			var estimator web.Estimator
			if cfg.OpenAIAPIKey != "" {
				estimator = estimate.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			} else {
				log.Warnw("no OpenAI API key configured; /api/estimate is disabled")
			}

			var accounts web.AccountSync
			if cfg.RemoteDSN != "" {
				db, err := remote.New(c.Context, cfg.RemoteDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
				if err != nil {
					log.Warnw("remote sync unavailable", "error", err)
				} else {
					defer db.Close()
					if err := db.EnsureSchema(c.Context); err != nil {
						log.Warnw("remote schema setup failed", "error", err)
					} else {
						accounts = db
					}
				}
			}

			scheduler := notify.NewScheduler(log, func() {
				log.Infow("water reminder due")
			})
			defer scheduler.Stop()

			settings, err := ops.GetSettings(st)
			if err == nil {
				scheduler.Apply(settings.Settings)
			}
			// Every successful settings write re-applies the schedule,
			// whichever front door performed it.
			st.Subscribe(store.KeyNotificationSettings, func() {
				if out, err := ops.GetSettings(st); err == nil {
					scheduler.Apply(out.Settings)
				}
			})

			srv := web.NewServer(st, cfg, log, estimator, accounts,
				Version, c.String("bind"), c.Int("port"))
			return web.Run(srv, log)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if snapErr, ok := err.(*errors.SnapError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", snapErr.Code, snapErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// imageDataURI reads an image file into a base64 data URI.
func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("cannot read image file: %v", err))
	}

	mime := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
