// ABOUTME: MCP resource implementations for nutrition tracking.
// ABOUTME: Provides nutrition://today and nutrition://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nutrition/internal/rollup"
)

func (s *Server) registerResources() {
	// nutrition://today - state plus every record logged today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://today",
		Name:        "Today's Nutrition",
		Description: "Totals, targets, progress, and records for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// nutrition://summary - trends over the last month
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://summary",
		Name:        "Nutrition Summary",
		Description: "Yesterday, 30-day average, last 7 days, and 4-week buckets",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	state, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	records := s.tracker.History(time.Now())

	return jsonResource("nutrition://today", map[string]interface{}{
		"state":   state,
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	weeks, err := s.tracker.Weekly(4)
	if err != nil {
		return nil, err
	}

	type bucketSummary struct {
		WeekStart string `json:"week_start"`
		WeekEnd   string `json:"week_end"`
		Calories  int    `json:"calories"`
		Water     string `json:"water"`
		Records   int    `json:"records"`
	}
	var buckets []bucketSummary
	for _, b := range weeks {
		buckets = append(buckets, bucketSummary{
			WeekStart: rollup.DayKey(b.WeekStart),
			WeekEnd:   rollup.DayKey(b.WeekEnd),
			Calories:  b.Totals.Calories,
			Water:     fmt.Sprintf("%.2f L", b.Totals.Water),
			Records:   len(b.Records),
		})
	}

	return jsonResource("nutrition://summary", map[string]interface{}{
		"generated_at":       time.Now().Format(time.RFC3339),
		"yesterday_calories": s.tracker.Yesterday(),
		"average_calories":   s.tracker.Average(rollup.DefaultAverageWindow),
		"last_7_days":        s.tracker.Trend(7),
		"weeks":              buckets,
	})
}
