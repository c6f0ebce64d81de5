package tools

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

const dateLayout = "2006-01-02"

const msgNoMeals = "Aktuell haben wir noch keine passenden Meal-Prep-Ideen für diese Kombination. Passe Ziel oder Ernährungsstil an und versuche es erneut."

// DetectSeasonTool returns a tool definition for season detection.
func (r *Registry) DetectSeasonTool() mcp.Tool {
	return mcp.NewTool("detect_season",
		mcp.WithDescription("Determine the season for a date (March to May spring, June to August summer, September to November autumn, otherwise winter)"),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD; defaults to today"),
		),
	)
}

// HandleDetectSeason reports the season of a date.
func (r *Registry) HandleDetectSeason(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "detect_season")

	date, argErr := r.parseDate(req)
	if argErr != nil {
		return ErrorWithGuidance(argErr), nil
	}
	season := meals.DetectSeason(date)
	return jsonResponse(logger, SeasonOutput{
		Date:   date.Format(dateLayout),
		Season: season,
		Label:  meals.SeasonLabel(season),
	}), nil
}

func (r *Registry) parseDate(req mcp.CallToolRequest) (time.Time, *ArgumentError) {
	raw := strings.TrimSpace(mcp.ParseString(req, "date", ""))
	if raw == "" {
		return r.deps.Now(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &ArgumentError{
			Argument: "date",
			Value:    raw,
			Message:  "invalid date " + raw,
			Guidance: GuidanceDate,
		}
	}
	return t, nil
}

func (r *Registry) mealOptions(opts ...mcp.ToolOption) []mcp.ToolOption {
	goals := stringsOf(r.deps.Selector.Dataset().Goals())
	opts = append(opts,
		mcp.WithString("goal",
			mcp.Description("Training goal"),
			mcp.Enum(goals...),
			mcp.DefaultString(string(meals.GoalBalanced)),
		),
		mcp.WithString("diet",
			mcp.Description("Dietary pattern; relaxed when no meal fits"),
			mcp.Enum(stringsOf(meals.Diets)...),
			mcp.DefaultString(string(meals.Omnivore)),
		),
		mcp.WithString("chain",
			mcp.Description("Store chain for shopping tips and the recommended store"),
			mcp.Enum(stringsOf(stores.Chains)...),
		),
		mcp.WithString("season",
			mcp.Description("Season override (spring, summer, autumn, winter); defaults to the season of date"),
		),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD used to detect the season; defaults to today"),
		),
	)
	return withSession(opts...)
}

func (r *Registry) parseSelection(req mcp.CallToolRequest) (meals.Selection, *ArgumentError) {
	var sel meals.Selection

	if raw := mcp.ParseString(req, "season", ""); strings.TrimSpace(raw) != "" {
		season, err := meals.ParseSeason(raw)
		if err != nil {
			return sel, choiceError("season", raw, stringsOf(meals.Seasons))
		}
		sel.Season = season
	} else {
		date, argErr := r.parseDate(req)
		if argErr != nil {
			return sel, argErr
		}
		sel.Season = meals.DetectSeason(date)
	}

	data := r.deps.Selector.Dataset()
	rawGoal := strings.ToLower(strings.TrimSpace(mcp.ParseString(req, "goal", string(meals.GoalBalanced))))
	goal, err := data.ParseGoal(rawGoal)
	if err != nil {
		return sel, choiceError("goal", rawGoal, stringsOf(data.Goals()))
	}
	sel.Goal = goal

	rawDiet := mcp.ParseString(req, "diet", string(meals.Omnivore))
	diet, err := meals.ParseDiet(rawDiet)
	if err != nil {
		return sel, choiceError("diet", rawDiet, stringsOf(meals.Diets))
	}
	sel.Diet = diet

	if rawChain := mcp.ParseString(req, "chain", ""); strings.TrimSpace(rawChain) != "" {
		chain, err := stores.ParseChain(rawChain)
		if err != nil {
			return sel, choiceError("chain", rawChain, stringsOf(stores.Chains))
		}
		sel.Chain = chain
	}
	return sel, nil
}

func (r *Registry) recommended(req mcp.CallToolRequest) *stores.Ranked {
	if last, ok := r.session(req).LastSuggested(); ok {
		return &last
	}
	return nil
}

// SuggestMealsTool returns a tool definition for meal suggestions.
func (r *Registry) SuggestMealsTool() mcp.Tool {
	return mcp.NewTool("suggest_meals", r.mealOptions(
		mcp.WithDescription("Suggest seasonal meal-prep ideas with eco score, price and shopping list"),
		mcp.WithNumber("count",
			mcp.Description("Number of suggestions"),
			mcp.DefaultNumber(float64(r.deps.SuggestionCount)),
			mcp.Min(1),
		),
	)...)
}

// HandleSuggestMeals returns a random set of meals for the selection.
func (r *Registry) HandleSuggestMeals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "suggest_meals")

	sel, argErr := r.parseSelection(req)
	if argErr != nil {
		return ErrorWithGuidance(argErr), nil
	}
	count := int(mcp.ParseFloat64(req, "count", float64(r.deps.SuggestionCount)))
	if count < 1 {
		return ErrorWithGuidance(&ArgumentError{
			Argument: "count",
			Message:  "count must be at least 1",
			Guidance: GuidanceCount,
		}), nil
	}

	picked, err := r.deps.Selector.Suggest(sel, count)
	if errors.Is(err, meals.ErrNoMatch) {
		logger.Debug("no meals for selection", "season", sel.Season, "goal", sel.Goal, "diet", sel.Diet)
		return ErrorResponse(msgNoMeals), nil
	}
	if err != nil {
		logger.Error("failed to suggest meals", "error", err)
		return ErrorResponse("Internal server error"), nil
	}

	rec := r.recommended(req)
	out := MealsOutput{
		Selection:   sel,
		SeasonLabel: meals.SeasonLabel(sel.Season),
		GoalLabel:   meals.GoalLabel(sel.Goal),
		Meals:       make([]meals.Card, 0, len(picked)),
	}
	for _, m := range picked {
		out.Meals = append(out.Meals, meals.NewCard(m, sel, rec))
	}
	return jsonResponse(logger, out), nil
}

// PickMealTool returns a tool definition for picking a single meal.
func (r *Registry) PickMealTool() mcp.Tool {
	return mcp.NewTool("pick_meal", r.mealOptions(
		mcp.WithDescription("Pick one seasonal meal-prep idea for a goal and diet"),
	)...)
}

// HandlePickMeal returns one random matching meal.
func (r *Registry) HandlePickMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "pick_meal")

	sel, argErr := r.parseSelection(req)
	if argErr != nil {
		return ErrorWithGuidance(argErr), nil
	}

	m, err := r.deps.Selector.PickOne(sel)
	if errors.Is(err, meals.ErrNoMatch) {
		return ErrorResponse(msgNoMeals), nil
	}
	if err != nil {
		logger.Error("failed to pick meal", "error", err)
		return ErrorResponse("Internal server error"), nil
	}
	return jsonResponse(logger, MealOutput{Selection: sel, Meal: meals.NewCard(m, sel, r.recommended(req))}), nil
}
