package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revlens-ai/revlens/pkg/models"
)

type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

var toolHandlers = map[string]toolHandler{
	"revlens_overview":         handleOverview,
	"revlens_by_domain":        handleByDomain,
	"revlens_by_reviewer":      handleByReviewer,
	"revlens_by_trainer_level": handleByTrainerLevel,
	"revlens_task_level":       handleTaskLevel,
	"revlens_pre_delivery":     handlePreDelivery,
	"revlens_cache_stats":      handleCacheStats,
	"revlens_history":          handleHistory,
}

var allTools = []ToolDefinition{
	{
		Name:        "revlens_overview",
		Description: "Get overall review-quality statistics: conversation, reviewer and trainer counts plus average score per quality dimension.",
		InputSchema: filterSchema(),
	},
	{
		Name:        "revlens_by_domain",
		Description: "Get review-quality statistics aggregated by task domain.",
		InputSchema: filterSchema(),
	},
	{
		Name:        "revlens_by_reviewer",
		Description: "Get review-quality statistics aggregated by reviewer.",
		InputSchema: filterSchema(),
	},
	{
		Name:        "revlens_by_trainer_level",
		Description: "Get review-quality statistics aggregated by trainer level.",
		InputSchema: filterSchema(),
	},
	{
		Name:        "revlens_task_level",
		Description: "List per-task review details with quality dimension scores.",
		InputSchema: filterSchema(),
	},
	{
		Name:        "revlens_pre_delivery",
		Description: "Get pre-delivery review statistics: pass rates per quality dimension.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "revlens_cache_stats",
		Description: "Show response cache statistics: entry count, hits and misses.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "revlens_history",
		Description: "List recorded overview snapshots, newest first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of snapshots to return (0 = all)",
				},
			},
		},
	},
}

func filterSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"domain": map[string]any{
				"type":        "string",
				"description": "Filter by task domain",
			},
			"reviewer": map[string]any{
				"type":        "string",
				"description": "Filter by reviewer name",
			},
			"trainer_level": map[string]any{
				"type":        "string",
				"description": "Filter by trainer level",
			},
		},
	}
}

// filterArgs are the filter arguments shared by the stats tools.
type filterArgs struct {
	Domain       string `json:"domain"`
	Reviewer     string `json:"reviewer"`
	TrainerLevel string `json:"trainer_level"`
}

func (a filterArgs) filters() models.Filters {
	f := models.Filters{}
	if a.Domain != "" {
		f["domain"] = a.Domain
	}
	if a.Reviewer != "" {
		f["reviewer"] = a.Reviewer
	}
	if a.TrainerLevel != "" {
		f["trainer_level"] = a.TrainerLevel
	}
	return f
}

func parseFilters(args json.RawMessage) (models.Filters, error) {
	var a filterArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	return a.filters(), nil
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func errorResult(err error) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

func handleOverview(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	filters, err := parseFilters(args)
	if err != nil {
		return errorResult(err)
	}
	agg, err := s.svc.Overall(ctx, filters)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatOverview(agg))
}

func handleByDomain(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	filters, err := parseFilters(args)
	if err != nil {
		return errorResult(err)
	}
	aggs, err := s.svc.ByDomain(ctx, filters)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatDomains(aggs))
}

func handleByReviewer(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	filters, err := parseFilters(args)
	if err != nil {
		return errorResult(err)
	}
	aggs, err := s.svc.ByReviewer(ctx, filters)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatReviewers(aggs))
}

func handleByTrainerLevel(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	filters, err := parseFilters(args)
	if err != nil {
		return errorResult(err)
	}
	aggs, err := s.svc.ByTrainerLevel(ctx, filters)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatTrainerLevels(aggs))
}

func handleTaskLevel(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	filters, err := parseFilters(args)
	if err != nil {
		return errorResult(err)
	}
	tasks, err := s.svc.TaskLevel(ctx, filters)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatTasks(tasks))
}

func handlePreDelivery(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	overview, err := s.svc.PreDeliveryOverview(ctx)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatPreDelivery(overview))
}

func handleCacheStats(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	if s.cache == nil {
		return errorResult(fmt.Errorf("cache disabled"))
	}
	return textResult(formatCacheStats(s.cache.Stats()))
}

func handleHistory(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult {
	if s.hist == nil {
		return errorResult(fmt.Errorf("history disabled"))
	}
	var a struct {
		Limit int `json:"limit"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return errorResult(fmt.Errorf("invalid arguments: %w", err))
		}
	}
	snaps, err := s.hist.List(ctx, a.Limit)
	if err != nil {
		return errorResult(err)
	}
	return textResult(formatSnapshots(snaps))
}
