// ABOUTME: MCP tool implementations for nutrition tracking.
// ABOUTME: Categories, intake logging, validation, targets, and history.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nutrition/internal/models"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log calories eaten for a meal category (breakfast, lunch, dinner, snack, or a custom one)",
	}, s.handleLogFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_water",
		Description: "Log water drunk, in litres",
	}, s.handleLogWater)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "validate_intake",
		Description: "Check a proposed intake against today's totals without logging it",
	}, s.handleValidateIntake)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_today",
		Description: "Get today's totals, targets, progress, and health status",
	}, s.handleGetToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "List the intake records logged on a day",
	}, s.handleGetHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_weekly",
		Description: "Get week-bucketed history (1, 4, or 12 weeks), most recent first",
	}, s.handleGetWeekly)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_targets",
		Description: "Set the daily calorie and/or water target",
	}, s.handleSetTargets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_categories",
		Description: "List meal and drink categories",
	}, s.handleListCategories)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_category",
		Description: "Create a custom category",
	}, s.handleAddCategory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_category",
		Description: "Delete a custom category that has no records",
	}, s.handleDeleteCategory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_daily",
		Description: "Zero today's running totals and notification thresholds (records are kept)",
	}, s.handleResetDaily)
}

// Tool input/output types

type logFoodInput struct {
	Category   string `json:"category" jsonschema:"Category name or ID prefix"`
	Calories   int    `json:"calories" jsonschema:"Calories eaten"`
	ConsumedAt string `json:"consumed_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type logWaterInput struct {
	Liters     float64 `json:"liters" jsonschema:"Water volume in litres"`
	Category   string  `json:"category,omitempty" jsonschema:"Category name or ID prefix, defaults to Drink"`
	ConsumedAt string  `json:"consumed_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type consumptionOutput struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Verdict  string `json:"verdict"`
	Message  string `json:"message"`
}

type validateInput struct {
	Calories *int     `json:"calories,omitempty" jsonschema:"Proposed calories (pass this or water)"`
	Water    *float64 `json:"water,omitempty" jsonschema:"Proposed water in litres (pass this or calories)"`
}

type validateOutput struct {
	Verdict string `json:"verdict"`
	Message string `json:"message"`
}

type emptyInput struct{}

type historyInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type weeklyInput struct {
	Weeks int `json:"weeks,omitempty" jsonschema:"Number of weeks: 1, 4, or 12 (default 1)"`
}

type targetsInput struct {
	CalorieTarget int     `json:"calorie_target,omitempty" jsonschema:"Daily calorie target, must be > 0"`
	WaterTarget   float64 `json:"water_target,omitempty" jsonschema:"Daily water target in litres, must be > 0"`
}

type addCategoryInput struct {
	Name string `json:"name" jsonschema:"Category name, unique ignoring case"`
	Icon string `json:"icon,omitempty" jsonschema:"Icon name"`
}

type deleteCategoryInput struct {
	Category string `json:"category" jsonschema:"Category name, ID, or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// parseTimestamp accepts RFC 3339 or "YYYY-MM-DD HH:MM" in local time.
// An empty string yields the zero time, meaning now.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (use ISO 8601)", s)
	}
	return t, nil
}

// logIntake validates first so the caller sees the verdict for what they logged.
func (s *Server) logIntake(ctx context.Context, category string, intake models.Intake, consumedAt string) (consumptionOutput, error) {
	at, err := parseTimestamp(consumedAt)
	if err != nil {
		return consumptionOutput{}, err
	}
	verdict, err := s.tracker.ValidateIntake(ctx, intake)
	if err != nil {
		return consumptionOutput{}, err
	}
	rec, err := s.tracker.AddConsumption(ctx, category, intake, at)
	if err != nil {
		return consumptionOutput{}, fmt.Errorf("failed to log intake: %w", err)
	}

	shortID := rec.ID.String()[:8]
	msg := fmt.Sprintf("Logged %s to %s (ID: %s)", intake, rec.CategoryName, shortID)
	switch verdict {
	case models.VerdictDangerous:
		msg += ". Warning: this puts today's intake at a dangerous level"
	case models.VerdictExcessive:
		msg += ". Note: this is well over today's target"
	case models.VerdictTargetReached:
		msg += ". Target reached"
	}
	return consumptionOutput{
		ID:       shortID,
		Category: rec.CategoryName,
		Amount:   intake.String(),
		Verdict:  string(verdict),
		Message:  msg,
	}, nil
}

// Tool handlers

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, consumptionOutput, error) {
	if input.Category == "" {
		return nil, consumptionOutput{}, fmt.Errorf("category is required")
	}
	out, err := s.logIntake(ctx, input.Category, models.Food(input.Calories), input.ConsumedAt)
	return nil, out, err
}

func (s *Server) handleLogWater(ctx context.Context, req *mcp.CallToolRequest, input logWaterInput) (*mcp.CallToolResult, consumptionOutput, error) {
	category := input.Category
	if category == "" {
		category = "Drink"
	}
	out, err := s.logIntake(ctx, category, models.Water(input.Liters), input.ConsumedAt)
	return nil, out, err
}

func (s *Server) handleValidateIntake(ctx context.Context, req *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	intake, err := models.IntakeFrom(input.Calories, input.Water)
	if err != nil {
		return nil, validateOutput{}, err
	}
	verdict, err := s.tracker.ValidateIntake(ctx, intake)
	if err != nil {
		return nil, validateOutput{}, err
	}
	return nil, validateOutput{
		Verdict: string(verdict),
		Message: fmt.Sprintf("Adding %s would be: %s", intake, verdict),
	}, nil
}

func (s *Server) handleGetToday(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	state, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read state: %w", err)
	}
	return nil, state, nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, any, error) {
	day := time.Now()
	if input.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", input.Date)
		}
		day = d
	}
	records := s.tracker.History(day)
	if len(records) == 0 {
		return nil, map[string]interface{}{"message": "No records found."}, nil
	}
	return nil, records, nil
}

func (s *Server) handleGetWeekly(ctx context.Context, req *mcp.CallToolRequest, input weeklyInput) (*mcp.CallToolResult, any, error) {
	if input.Weeks <= 0 {
		input.Weeks = 1
	}
	buckets, err := s.tracker.Weekly(input.Weeks)
	if err != nil {
		return nil, nil, err
	}
	return nil, buckets, nil
}

func (s *Server) handleSetTargets(ctx context.Context, req *mcp.CallToolRequest, input targetsInput) (*mcp.CallToolResult, simpleOutput, error) {
	if input.CalorieTarget == 0 && input.WaterTarget == 0 {
		return nil, simpleOutput{}, fmt.Errorf("calorie_target or water_target is required")
	}
	if input.CalorieTarget != 0 {
		if err := s.tracker.UpdateCalorieTarget(ctx, input.CalorieTarget); err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to set calorie target: %w", err)
		}
	}
	if input.WaterTarget != 0 {
		if err := s.tracker.UpdateWaterTarget(ctx, input.WaterTarget); err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to set water target: %w", err)
		}
	}
	state, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Targets: %d kcal, %.2f L", state.Targets.Calories, state.Targets.Water),
	}, nil
}

func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	return nil, s.tracker.Categories(ctx), nil
}

func (s *Server) handleAddCategory(ctx context.Context, req *mcp.CallToolRequest, input addCategoryInput) (*mcp.CallToolResult, simpleOutput, error) {
	c, err := s.tracker.AddCategory(ctx, input.Name, input.Icon)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to add category: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Added category %s (ID: %s)", c.Name, c.ID.String()[:8]),
	}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, req *mcp.CallToolRequest, input deleteCategoryInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.DeleteCategory(ctx, input.Category); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete category: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted category: %s", input.Category)}, nil
}

func (s *Server) handleResetDaily(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.tracker.ResetDaily(ctx); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Daily totals reset."}, nil
}
