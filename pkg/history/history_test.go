package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/revlens-ai/revlens/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history_test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func scoreOf(v float64) *float64 { return &v }

func TestFromOverview(t *testing.T) {
	agg := &models.OverallAggregation{
		ConversationCount: 1840,
		ReviewerCount:     12,
		TrainerCount:      38,
		QualityDimensions: []models.QualityDimensionStats{
			{Name: "Clarity", AverageScore: scoreOf(4.0), ScoreCount: 100},
			{Name: "Completeness", AverageScore: scoreOf(3.0), ScoreCount: 90},
			{Name: "Tone", AverageScore: nil, ScoreCount: 0},
		},
	}

	snap := FromOverview(agg, "api", time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	if snap.DimensionCount != 3 {
		t.Errorf("dimension count = %d, want 3", snap.DimensionCount)
	}
	if snap.AverageScore == nil || *snap.AverageScore != 3.5 {
		t.Errorf("average score = %v, want 3.5 (nil averages excluded)", snap.AverageScore)
	}
}

func TestFromOverviewNoScores(t *testing.T) {
	agg := &models.OverallAggregation{ConversationCount: 1}
	snap := FromOverview(agg, "mock", time.Now())
	if snap.AverageScore != nil {
		t.Errorf("expected nil average score, got %v", *snap.AverageScore)
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := models.Snapshot{
			Source:            "api",
			ConversationCount: 100 + i,
			DimensionCount:    4,
			AverageScore:      scoreOf(4.2),
			FetchedAt:         base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.Record(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	if snaps[0].ConversationCount != 102 {
		t.Errorf("expected newest first, got count %d", snaps[0].ConversationCount)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d snapshots with limit 2", len(limited))
	}
}

func TestLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Fatal("expected nil on empty store")
	}

	if err := s.Record(ctx, models.Snapshot{Source: "mock", ConversationCount: 55, FetchedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}

	latest, err = s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ConversationCount != 55 {
		t.Errorf("unexpected latest snapshot: %+v", latest)
	}
	if latest.AverageScore != nil {
		t.Error("expected nil average score round-trip")
	}
}
