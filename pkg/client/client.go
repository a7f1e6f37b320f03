package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/revlens-ai/revlens/pkg/cache"
	"github.com/revlens-ai/revlens/pkg/models"
	"github.com/revlens-ai/revlens/pkg/transform"
)

// ErrCanceled marks a request aborted by its caller. The fetch controller
// classifies it as a no-op rather than a user-visible error.
var ErrCanceled = errors.New("request canceled")

// fallbackDetail is surfaced when a failure carries no message of its own.
const fallbackDetail = "request failed"

// Client is the HTTP service layer for the stats backend.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

var _ Service = (*Client)(nil)

// New creates a Client for the given base URL. A nil cache disables response
// caching; a non-positive timeout falls back to 30 seconds.
func New(baseURL string, timeout time.Duration, store *cache.Cache) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   store,
	}
}

// getJSON runs one query: cache lookup, GET, error normalization, key
// camelization, decode, cache fill.
func getJSON[T any](ctx context.Context, c *Client, endpoint string, filters models.Filters) (T, error) {
	var zero T

	key := cache.Key(endpoint, filters)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	url := c.baseURL + endpoint
	if qs := filters.Encode(); qs != "" {
		url += "?" + qs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, &models.APIError{Detail: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return zero, ErrCanceled
		}
		return zero, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return zero, ErrCanceled
		}
		return zero, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, httpError(resp.StatusCode, body)
	}

	out, err := transform.Decode[T](body)
	if err != nil {
		return zero, &models.APIError{Detail: err.Error()}
	}

	if c.cache != nil {
		c.cache.Set(key, out)
	}
	return out, nil
}

// transportError normalizes network-level failures. Timeouts are transport
// failures too, not a distinguished error kind.
func transportError(err error) error {
	msg := err.Error()
	if msg == "" {
		msg = fallbackDetail
	}
	return &models.APIError{Detail: msg}
}

// httpError extracts the server-provided detail from a non-2xx body, falling
// back to a status-based message.
func httpError(status int, body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &models.APIError{Detail: payload.Detail}
	}
	return &models.APIError{Detail: fmt.Sprintf("HTTP error %d", status)}
}

func (c *Client) Overall(ctx context.Context, filters models.Filters) (*models.OverallAggregation, error) {
	return getJSON[*models.OverallAggregation](ctx, c, EndpointOverall, filters)
}

func (c *Client) ByDomain(ctx context.Context, filters models.Filters) ([]models.DomainAggregation, error) {
	return getJSON[[]models.DomainAggregation](ctx, c, EndpointByDomain, filters)
}

func (c *Client) ByReviewer(ctx context.Context, filters models.Filters) ([]models.ReviewerAggregation, error) {
	return getJSON[[]models.ReviewerAggregation](ctx, c, EndpointByReviewer, filters)
}

func (c *Client) ByTrainerLevel(ctx context.Context, filters models.Filters) ([]models.TrainerLevelAggregation, error) {
	return getJSON[[]models.TrainerLevelAggregation](ctx, c, EndpointByTrainerLevel, filters)
}

func (c *Client) TaskLevel(ctx context.Context, filters models.Filters) ([]models.TaskLevelInfo, error) {
	return getJSON[[]models.TaskLevelInfo](ctx, c, EndpointTaskLevel, filters)
}

func (c *Client) PreDeliveryOverview(ctx context.Context) (*models.PreDeliveryOverview, error) {
	return getJSON[*models.PreDeliveryOverview](ctx, c, EndpointPreDeliveryOverview, nil)
}

func (c *Client) PreDeliveryByReviewer(ctx context.Context) ([]models.PreDeliveryReviewerRow, error) {
	return getJSON[[]models.PreDeliveryReviewerRow](ctx, c, EndpointPreDeliveryByReviewer, nil)
}

func (c *Client) PreDeliveryByTrainer(ctx context.Context) ([]models.PreDeliveryTrainerRow, error) {
	return getJSON[[]models.PreDeliveryTrainerRow](ctx, c, EndpointPreDeliveryByTrainer, nil)
}

func (c *Client) PreDeliveryByDomain(ctx context.Context) ([]models.PreDeliveryDomainRow, error) {
	return getJSON[[]models.PreDeliveryDomainRow](ctx, c, EndpointPreDeliveryByDomain, nil)
}
