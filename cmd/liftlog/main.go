package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	liftlog "github.com/claude/liftlog"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	mcpsrv "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/progression"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, dataDir string

	root := &cobra.Command{
		Use:           "liftlog",
		Short:         "Workout plan, progression and exercise catalog tool",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "database directory (default ~/.liftlog)")

	root.AddCommand(newExercisesCmd(&configPath, &dataDir))
	root.AddCommand(newPlanCmd(&configPath, &dataDir))
	root.AddCommand(newNextCmd(&configPath, &dataDir))
	root.AddCommand(newSuggestCmd(&configPath, &dataDir))
	root.AddCommand(newMissingCmd(&configPath, &dataDir))
	root.AddCommand(newLogCmd(&configPath, &dataDir))
	root.AddCommand(newMCPCmd(&configPath, &dataDir))
	return root
}

// app bundles the wired components behind every subcommand.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	store  *storage.Store
	loader *catalog.Loader
	engine *catalog.Engine
	prog   *progression.Engine
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", "error", err)
	}
}

func loadApp(configPath, dataDir string) (*app, error) {
	// Results go to stdout, so diagnostics go to stderr. The MCP command
	// relies on this: stdout is the protocol stream there.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".liftlog")
	}

	store, err := storage.Open(dir, log)
	if err != nil {
		return nil, err
	}
	if _, err := store.SeedDefaultPlans(); err != nil {
		store.Close()
		return nil, err
	}

	var datasetFS fs.FS
	if cfg.Dataset.Dir != "" {
		datasetFS = os.DirFS(cfg.Dataset.Dir)
	} else {
		datasetFS, err = fs.Sub(liftlog.DataFS, "data")
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("embedded dataset: %w", err)
		}
	}

	loader := catalog.NewLoader(datasetFS, log)
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		loader: loader,
		engine: catalog.NewEngine(loader, cfg.Query, log),
		prog:   progression.New(cfg.Progression),
	}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func newExercisesCmd(configPath, dataDir *string) *cobra.Command {
	var muscles, equipments, bodyParts []string
	var sortSpec string
	var page, pageSize int
	var nameOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "exercises [query]",
		Short: "Search the exercise catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			if nameOnly {
				a.engine = catalog.NewEngine(a.loader, a.cfg.Query, a.log, catalog.WithNameOnlySearch())
			}

			q := catalog.Query{
				TargetMuscles: muscles,
				Equipments:    equipments,
				BodyParts:     bodyParts,
			}
			if len(args) == 1 {
				q.Search = args[0]
			}
			if sortSpec != "" {
				s := catalog.Sort{Field: sortSpec, Direction: catalog.Ascending}
				if strings.HasPrefix(sortSpec, "-") {
					s = catalog.Sort{Field: sortSpec[1:], Direction: catalog.Descending}
				}
				q.Sort = &s
			}
			if pageSize > 0 {
				q.Limit = pageSize
			}
			if page > 1 {
				limit := pageSize
				if limit <= 0 {
					limit = a.cfg.Query.PageSize
				}
				q.Offset = (page - 1) * limit
			}

			result := a.engine.Find(q)
			if asJSON {
				return printJSON(cmd, result)
			}
			for _, ex := range result.Exercises {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-36s %s\n",
					ex.ID, ex.Name, strings.Join(ex.TargetMuscles, ", "))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d exercises)\n",
				result.CurrentPage, result.TotalPages, result.TotalExercises)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&muscles, "muscle", nil, "filter by target muscle")
	cmd.Flags().StringSliceVar(&equipments, "equipment", nil, "filter by equipment")
	cmd.Flags().StringSliceVar(&bodyParts, "body-part", nil, "filter by body part")
	cmd.Flags().StringVar(&sortSpec, "sort", "", "sort by name or id; prefix with - for descending")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "substring match on names instead of fuzzy search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result page as JSON")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one exercise record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			rec, ok := a.engine.Get(args[0])
			if !ok {
				return fmt.Errorf("no exercise with id %q", args[0])
			}
			return printJSON(cmd, rec)
		},
	}
	cmd.AddCommand(showCmd)
	return cmd
}

func newPlanCmd(configPath, dataDir *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Manage workout plans"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			plans, err := a.store.ListPlans()
			if err != nil {
				return err
			}
			state, err := a.store.LoadState()
			if err != nil {
				return err
			}
			for _, p := range plans {
				marker := " "
				if p.ID == state.CurrentPlanID {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-28s %d weeks\n",
					marker, p.ID, p.Name, p.DurationWeeks)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.store.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no plan with id %q", args[0])
			}
			return printJSON(cmd, p)
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Make a plan current and start it today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.store.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no plan with id %q", args[0])
			}
			state, err := a.store.LoadState()
			if err != nil {
				return err
			}
			state.CurrentPlanID = p.ID
			state.PlanStartedAt = time.Now().UTC().Format(time.RFC3339)
			if err := a.store.SaveState(state); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "selected plan %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}

	var planFile string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Store a plan from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := os.ReadFile(planFile)
			if err != nil {
				return err
			}
			var p models.WorkoutPlan
			if err := yaml.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("parsing plan file: %w", err)
			}
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			if err := a.store.SavePlan(&p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored plan %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&planFile, "file", "f", "", "plan YAML file")
	_ = createCmd.MarkFlagRequired("file")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()
			return a.store.DeletePlan(args[0])
		},
	}

	plan.AddCommand(listCmd, showCmd, selectCmd, createCmd, deleteCmd)
	return plan
}

// currentPlan loads the selected plan, or nil when none is selected.
func currentPlan(a *app) (*models.WorkoutPlan, *models.AppState, error) {
	state, err := a.store.LoadState()
	if err != nil {
		return nil, nil, err
	}
	if state.CurrentPlanID == "" {
		return nil, state, nil
	}
	plan, err := a.store.LoadPlan(state.CurrentPlanID)
	if err != nil {
		return nil, nil, err
	}
	return plan, state, nil
}

func newNextCmd(configPath, dataDir *string) *cobra.Command {
	var after int

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next scheduled workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			plan, _, err := currentPlan(a)
			if err != nil {
				return err
			}
			if plan == nil {
				return fmt.Errorf("no current plan; run: liftlog plan select <id>")
			}

			name, ok := schedule.NextWorkoutType(plan, time.Now(), after)
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no workouts scheduled in this plan")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().IntVar(&after, "after", 0, "look this many days past today")
	return cmd
}

func newSuggestCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [workout]",
		Short: "Suggest targets for the next session of a workout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			plan, state, err := currentPlan(a)
			if err != nil {
				return err
			}
			if plan == nil {
				return fmt.Errorf("no current plan; run: liftlog plan select <id>")
			}

			workout := ""
			if len(args) == 1 {
				workout = args[0]
			} else {
				due, ok := schedule.NextWorkoutType(plan, time.Now(), 0)
				if !ok {
					return fmt.Errorf("plan has no scheduled workouts; pass a workout name")
				}
				workout = due
			}
			if _, ok := plan.Workouts[workout]; !ok {
				return fmt.Errorf("plan has no workout named %q", workout)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", workout)
			for _, ex := range a.prog.ResolvePrescription(plan, workout, state.Logs) {
				reps := make([]string, len(ex.TargetReps))
				for i, r := range ex.TargetReps {
					reps[i] = fmt.Sprintf("%d", r)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d x [%s] @ %.1f\n",
					ex.ExerciseID, ex.Sets, strings.Join(reps, ","), ex.StartingWeight)
			}
			return nil
		},
	}
}

func newMissingCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "List scheduled sessions with no log entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			plan, state, err := currentPlan(a)
			if err != nil {
				return err
			}
			if plan == nil {
				return fmt.Errorf("no current plan; run: liftlog plan select <id>")
			}
			startedAt, ok := state.PlanStart()
			if !ok {
				return fmt.Errorf("current plan has no start date")
			}

			missing := schedule.MissingSessions(plan, startedAt, time.Now(), state.Logs)
			if len(missing) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all caught up")
				return nil
			}
			for _, m := range missing {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", m.Date, m.WorkoutType)
			}
			return nil
		},
	}
}

func newLogCmd(configPath, dataDir *string) *cobra.Command {
	var sessionFile, date string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a completed workout session from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := os.ReadFile(sessionFile)
			if err != nil {
				return err
			}
			var entry models.WorkoutSessionLog
			if err := yaml.Unmarshal(data, &entry); err != nil {
				return fmt.Errorf("parsing session file: %w", err)
			}
			if date != "" {
				entry.Date = date
			}
			if entry.Date == "" {
				entry.Date = time.Now().Format(models.DateLayout)
			}
			if err := a.store.AppendSessionLog(entry); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %s on %s\n", entry.WorkoutType, entry.Date)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionFile, "file", "f", "", "session YAML file")
	cmd.Flags().StringVar(&date, "date", "", "session date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newMCPCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the catalog and plan tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer a.close()

			s := mcpsrv.New(a.engine, a.store, a.prog, Version, a.log)
			return server.ServeStdio(s)
		},
	}
}
