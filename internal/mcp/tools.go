package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/schedule"
)

// splitList turns a comma-separated parameter into a trimmed string slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- Tool definitions ---

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog with fuzzy text matching and facet filters. Returns a result page with pagination counts."),
	mcp.WithString("query", mcp.Description("Free-text search over name, muscles, body parts, and equipment")),
	mcp.WithString("muscles", mcp.Description("Comma-separated target muscles to filter by (e.g. 'quads,hamstrings')")),
	mcp.WithString("equipments", mcp.Description("Comma-separated equipment to filter by (e.g. 'barbell,cable')")),
	mcp.WithString("body_parts", mcp.Description("Comma-separated body parts to filter by (e.g. 'chest,back')")),
	mcp.WithString("sort", mcp.Description("Sort field: 'name' or 'id'. Prefix with '-' for descending.")),
	mcp.WithNumber("offset", mcp.Description("Number of results to skip. Defaults to 0.")),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to the configured page size.")),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Look up a single exercise by its catalog ID, including instructions."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Exercise ID (e.g. 'leg-press')")),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List all stored training plans with their weekly schedules."),
)

var toolNextWorkout = mcp.NewTool("next_workout",
	mcp.WithDescription("Resolve which workout of the current plan is due today, or the next scheduled one when today is a rest day."),
	mcp.WithNumber("offset", mcp.Description("Days ahead to start the scan. 0 asks about today, 1 about after today's session. Defaults to 0.")),
)

var toolSuggestWeights = mcp.NewTool("suggest_weights",
	mcp.WithDescription("Prescriptions for a workout with starting weights adjusted by the progression rule from the most recent logged session."),
	mcp.WithString("workout", mcp.Description("Workout name within the current plan. Defaults to the workout due today.")),
)

var toolMissingSessions = mcp.NewTool("missing_sessions",
	mcp.WithDescription("List scheduled workout dates since the plan started that have no logged session, in chronological order."),
)

// --- Tool handlers ---

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := catalog.Query{
		Search:        req.GetString("query", ""),
		TargetMuscles: splitList(req.GetString("muscles", "")),
		Equipments:    splitList(req.GetString("equipments", "")),
		BodyParts:     splitList(req.GetString("body_parts", "")),
		Offset:        req.GetInt("offset", 0),
		Limit:         req.GetInt("limit", 0),
	}
	if sortField := req.GetString("sort", ""); sortField != "" {
		direction := catalog.Ascending
		if strings.HasPrefix(sortField, "-") {
			direction = catalog.Descending
			sortField = sortField[1:]
		}
		q.Sort = &catalog.Sort{Field: sortField, Direction: direction}
	}

	result, err := mcp.NewToolResultJSON(h.engine.Find(q))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	rec, ok := h.engine.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no exercise with id %q", id)), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.store.ListPlans()
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plans)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// currentPlan loads the app state and the plan it points at. A missing
// selection or a dangling plan ID yields a nil plan, not an error.
func (h *handlers) currentPlan() (*models.WorkoutPlan, *models.AppState, error) {
	state, err := h.store.LoadState()
	if err != nil {
		return nil, nil, err
	}
	if state.CurrentPlanID == "" {
		return nil, state, nil
	}
	plan, err := h.store.LoadPlan(state.CurrentPlanID)
	if err != nil {
		return nil, state, err
	}
	return plan, state, nil
}

func (h *handlers) nextWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, _, err := h.currentPlan()
	if err != nil {
		h.log.Error("mcp next_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if plan == nil {
		return mcp.NewToolResultError("no current plan selected"), nil
	}

	offset := req.GetInt("offset", 0)
	name, ok := schedule.NextWorkoutType(plan, h.now(), offset)

	payload := map[string]any{"workoutType": nil, "scheduled": false}
	if ok {
		payload["workoutType"] = name
		payload["scheduled"] = true
	}
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) suggestWeights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, state, err := h.currentPlan()
	if err != nil {
		h.log.Error("mcp suggest_weights", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if plan == nil {
		return mcp.NewToolResultError("no current plan selected"), nil
	}

	workout := req.GetString("workout", "")
	if workout == "" {
		due, ok := schedule.NextWorkoutType(plan, h.now(), 0)
		if !ok {
			return mcp.NewToolResultError("plan has no scheduled workouts; pass a workout name"), nil
		}
		workout = due
	}
	if _, ok := plan.Workouts[workout]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plan has no workout named %q", workout)), nil
	}

	prescriptions := h.prog.ResolvePrescription(plan, workout, state.Logs)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"workoutType": workout,
		"exercises":   prescriptions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) missingSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, state, err := h.currentPlan()
	if err != nil {
		h.log.Error("mcp missing_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if plan == nil {
		return mcp.NewToolResultError("no current plan selected"), nil
	}

	startedAt, ok := state.PlanStart()
	if !ok {
		return mcp.NewToolResultError("current plan has no start date"), nil
	}

	missing := schedule.MissingSessions(plan, startedAt, h.now(), state.Logs)
	if missing == nil {
		missing = []schedule.Missing{}
	}
	result, err := mcp.NewToolResultJSON(missing)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) currentPlanResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, state, err := h.currentPlan()
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"plan":            plan,
		"planStartedAt":   state.PlanStartedAt,
		"lastSessionDate": state.LastSessionDate,
		"sessionsLogged":  len(state.Logs),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
