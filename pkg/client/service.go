// Package client implements the service layer for the review-quality stats
// backend: URL construction, response caching, key normalization, and a
// fixture-backed mock with the same surface.
package client

import (
	"context"

	"github.com/revlens-ai/revlens/pkg/models"
)

// Endpoint paths on the stats backend, relative to the configured base URL.
const (
	EndpointOverall        = "/overall"
	EndpointByDomain       = "/by-domain"
	EndpointByReviewer     = "/by-reviewer"
	EndpointByTrainerLevel = "/by-trainer-level"
	EndpointTaskLevel      = "/task-level"

	EndpointPreDeliveryOverview   = "/pre-delivery/overview"
	EndpointPreDeliveryByReviewer = "/pre-delivery/by-reviewer"
	EndpointPreDeliveryByTrainer  = "/pre-delivery/by-trainer"
	EndpointPreDeliveryByDomain   = "/pre-delivery/by-domain"
)

// Service is the query surface shared by the real client and the mock.
// The choice between the two is made once at startup from configuration.
type Service interface {
	Overall(ctx context.Context, filters models.Filters) (*models.OverallAggregation, error)
	ByDomain(ctx context.Context, filters models.Filters) ([]models.DomainAggregation, error)
	ByReviewer(ctx context.Context, filters models.Filters) ([]models.ReviewerAggregation, error)
	ByTrainerLevel(ctx context.Context, filters models.Filters) ([]models.TrainerLevelAggregation, error)
	TaskLevel(ctx context.Context, filters models.Filters) ([]models.TaskLevelInfo, error)

	PreDeliveryOverview(ctx context.Context) (*models.PreDeliveryOverview, error)
	PreDeliveryByReviewer(ctx context.Context) ([]models.PreDeliveryReviewerRow, error)
	PreDeliveryByTrainer(ctx context.Context) ([]models.PreDeliveryTrainerRow, error)
	PreDeliveryByDomain(ctx context.Context) ([]models.PreDeliveryDomainRow, error)
}
