package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/revlens-ai/revlens/pkg/models"
)

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatOverview(agg *models.OverallAggregation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversations: %d\n", agg.ConversationCount)
	fmt.Fprintf(&b, "Reviewers:     %d\n", agg.ReviewerCount)
	fmt.Fprintf(&b, "Trainers:      %d\n", agg.TrainerCount)
	if len(agg.QualityDimensions) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-24s %10s %8s\n", "DIMENSION", "AVG SCORE", "SCORES")
	for _, d := range agg.QualityDimensions {
		fmt.Fprintf(&b, "%-24s %10s %8d\n", d.Name, formatScore(d.AverageScore), d.ScoreCount)
	}
	return b.String()
}

func formatDomains(aggs []models.DomainAggregation) string {
	if len(aggs) == 0 {
		return "No domain data."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %14s %10s\n", "DOMAIN", "CONVERSATIONS", "AVG SCORE")
	for _, a := range aggs {
		fmt.Fprintf(&b, "%-24s %14d %10s\n", a.Domain, a.ConversationCount, formatScore(meanScore(a.QualityDimensions)))
	}
	return b.String()
}

func formatReviewers(aggs []models.ReviewerAggregation) string {
	if len(aggs) == 0 {
		return "No reviewer data."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %6s %14s %10s\n", "REVIEWER", "ID", "CONVERSATIONS", "AVG SCORE")
	for _, a := range aggs {
		fmt.Fprintf(&b, "%-24s %6d %14d %10s\n", a.ReviewerName, a.ReviewerID, a.ConversationCount, formatScore(meanScore(a.QualityDimensions)))
	}
	return b.String()
}

func formatTrainerLevels(aggs []models.TrainerLevelAggregation) string {
	if len(aggs) == 0 {
		return "No trainer level data."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %14s %10s\n", "TRAINER LEVEL", "CONVERSATIONS", "AVG SCORE")
	for _, a := range aggs {
		fmt.Fprintf(&b, "%-24s %14d %10s\n", a.TrainerName, a.ConversationCount, formatScore(meanScore(a.QualityDimensions)))
	}
	return b.String()
}

func formatTasks(tasks []models.TaskLevelInfo) string {
	if len(tasks) == 0 {
		return "No task data."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-24s %-24s %s\n", "TASK", "ANNOTATOR", "REVIEWER", "DIMENSIONS")
	for _, t := range tasks {
		dims := make([]string, 0, len(t.QualityDimensions))
		for _, d := range t.QualityDimensions {
			dims = append(dims, fmt.Sprintf("%s=%s", d.Name, formatScore(d.Score)))
		}
		fmt.Fprintf(&b, "%-8d %-24s %-24s %s\n", t.TaskID, t.AnnotatorName, t.ReviewerName, strings.Join(dims, " "))
	}
	return b.String()
}

func formatPreDelivery(overview *models.PreDeliveryOverview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversations: %d\n", overview.ConversationCount)
	if len(overview.QualityDimensions) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-24s %8s %10s %10s %10s\n", "DIMENSION", "PASS", "NOT PASS", "PASS RATE", "AVG SCORE")
	for _, d := range overview.QualityDimensions {
		fmt.Fprintf(&b, "%-24s %8d %10d %9.1f%% %10.2f\n",
			d.Name, d.PassCount, d.NotPassCount, passRate(d), d.AverageScore)
	}
	return b.String()
}

func formatCacheStats(stats models.CacheStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(&b, "Hits:    %d\n", stats.Hits)
	fmt.Fprintf(&b, "Misses:  %d\n", stats.Misses)
	return b.String()
}

func formatSnapshots(snaps []models.Snapshot) string {
	if len(snaps) == 0 {
		return "No snapshots recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-6s %14s %10s %10s\n", "FETCHED", "SOURCE", "CONVERSATIONS", "DIMENSIONS", "AVG SCORE")
	for _, s := range snaps {
		fmt.Fprintf(&b, "%-20s %-6s %14d %10d %10s\n",
			s.FetchedAt.UTC().Format(time.RFC3339), s.Source, s.ConversationCount, s.DimensionCount, formatScore(s.AverageScore))
	}
	return b.String()
}

// meanScore averages the non-nil dimension scores, nil when none are scored.
func meanScore(dims []models.QualityDimensionStats) *float64 {
	var sum float64
	var n int
	for _, d := range dims {
		if d.AverageScore != nil {
			sum += *d.AverageScore
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func passRate(d models.DimensionBreakdown) float64 {
	total := d.PassCount + d.NotPassCount
	if total == 0 {
		return 0
	}
	return 100 * float64(d.PassCount) / float64(total)
}
