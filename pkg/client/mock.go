package client

import (
	"context"
	"embed"
	"math/rand/v2"
	"time"

	"github.com/revlens-ai/revlens/pkg/models"
	"github.com/revlens-ai/revlens/pkg/transform"
)

//go:embed fixtures/*.json
var fixturesFS embed.FS

// Mock serves embedded fixtures after an artificial randomized delay,
// honoring the same cancellation contract as the real client. Fixtures are
// snake_case on purpose so the mock exercises the same decode pipeline.
type Mock struct {
	minDelay time.Duration
	maxDelay time.Duration
}

var _ Service = (*Mock)(nil)

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithDelayRange overrides the artificial delay bounds, used by tests to
// avoid real waits.
func WithDelayRange(min, max time.Duration) MockOption {
	return func(m *Mock) {
		m.minDelay = min
		m.maxDelay = max
	}
}

// NewMock creates a Mock with the default 300-800ms delay range.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		minDelay: 300 * time.Millisecond,
		maxDelay: 800 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// wait blocks for a randomized delay. An aborted context pre-empts the delay
// and returns ErrCanceled.
func (m *Mock) wait(ctx context.Context) error {
	d := m.minDelay
	if span := m.maxDelay - m.minDelay; span > 0 {
		d += time.Duration(rand.Int64N(int64(span)))
	}
	if d <= 0 {
		if ctx.Err() != nil {
			return ErrCanceled
		}
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrCanceled
	case <-timer.C:
		return nil
	}
}

func mockResponse[T any](ctx context.Context, m *Mock, name string) (T, error) {
	var zero T

	if err := m.wait(ctx); err != nil {
		return zero, err
	}

	body, err := fixturesFS.ReadFile("fixtures/" + name)
	if err != nil {
		return zero, &models.APIError{Detail: "fixture " + name + " not found"}
	}

	out, err := transform.Decode[T](body)
	if err != nil {
		return zero, &models.APIError{Detail: err.Error()}
	}
	return out, nil
}

func (m *Mock) Overall(ctx context.Context, _ models.Filters) (*models.OverallAggregation, error) {
	return mockResponse[*models.OverallAggregation](ctx, m, "overall.json")
}

func (m *Mock) ByDomain(ctx context.Context, _ models.Filters) ([]models.DomainAggregation, error) {
	return mockResponse[[]models.DomainAggregation](ctx, m, "by_domain.json")
}

func (m *Mock) ByReviewer(ctx context.Context, _ models.Filters) ([]models.ReviewerAggregation, error) {
	return mockResponse[[]models.ReviewerAggregation](ctx, m, "by_reviewer.json")
}

func (m *Mock) ByTrainerLevel(ctx context.Context, _ models.Filters) ([]models.TrainerLevelAggregation, error) {
	return mockResponse[[]models.TrainerLevelAggregation](ctx, m, "by_trainer_level.json")
}

func (m *Mock) TaskLevel(ctx context.Context, _ models.Filters) ([]models.TaskLevelInfo, error) {
	return mockResponse[[]models.TaskLevelInfo](ctx, m, "task_level.json")
}

func (m *Mock) PreDeliveryOverview(ctx context.Context) (*models.PreDeliveryOverview, error) {
	return mockResponse[*models.PreDeliveryOverview](ctx, m, "pre_delivery_overview.json")
}

func (m *Mock) PreDeliveryByReviewer(ctx context.Context) ([]models.PreDeliveryReviewerRow, error) {
	return mockResponse[[]models.PreDeliveryReviewerRow](ctx, m, "pre_delivery_by_reviewer.json")
}

func (m *Mock) PreDeliveryByTrainer(ctx context.Context) ([]models.PreDeliveryTrainerRow, error) {
	return mockResponse[[]models.PreDeliveryTrainerRow](ctx, m, "pre_delivery_by_trainer.json")
}

func (m *Mock) PreDeliveryByDomain(ctx context.Context) ([]models.PreDeliveryDomainRow, error) {
	return mockResponse[[]models.PreDeliveryDomainRow](ctx, m, "pre_delivery_by_domain.json")
}
