package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens-ai/revlens/pkg/client"
	"github.com/revlens-ai/revlens/pkg/models"
)

func TestSuccessLifecycle(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	release := make(chan struct{})
	done := f.Fetch(ctx, func(context.Context) (int, error) {
		<-release
		return 42, nil
	})

	st := f.Snapshot()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Err)

	close(release)
	<-done

	st = f.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Err)
	assert.Equal(t, 42, st.Data)
}

func TestErrorPreservesPreviousData(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	<-f.Fetch(ctx, func(context.Context) (int, error) { return 7, nil })

	<-f.Fetch(ctx, func(context.Context) (int, error) {
		return 0, &models.APIError{Detail: "backend exploded"}
	})

	st := f.Snapshot()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Err)
	assert.Equal(t, "backend exploded", st.Err.Detail)
	assert.Equal(t, 7, st.Data, "previous data must survive a failed refresh")
}

func TestErrorFallbackMessage(t *testing.T) {
	f := New[int]()

	<-f.Fetch(context.Background(), func(context.Context) (int, error) {
		return 0, errors.New("")
	})

	st := f.Snapshot()
	require.NotNil(t, st.Err)
	assert.Equal(t, "request failed", st.Err.Detail)
}

func TestStaleResponseSuppression(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	release1 := make(chan struct{})
	done1 := f.Fetch(ctx, func(context.Context) (int, error) {
		// Ignores cancellation on purpose: suppression must not depend on
		// the producer cooperating.
		<-release1
		return 1, nil
	})

	done2 := f.Fetch(ctx, func(context.Context) (int, error) { return 2, nil })
	<-done2

	close(release1)
	<-done1

	st := f.Snapshot()
	assert.Equal(t, 2, st.Data, "superseded request must never win")
	assert.Nil(t, st.Err)
	assert.False(t, st.Loading)
}

func TestStaleErrorSuppressed(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	release1 := make(chan struct{})
	done1 := f.Fetch(ctx, func(context.Context) (int, error) {
		<-release1
		return 0, &models.APIError{Detail: "stale failure"}
	})

	done2 := f.Fetch(ctx, func(context.Context) (int, error) { return 2, nil })
	<-done2

	close(release1)
	<-done1

	st := f.Snapshot()
	assert.Nil(t, st.Err, "a superseded failure must not surface")
	assert.Equal(t, 2, st.Data)
}

func TestCancellationIsSilent(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	<-f.Fetch(ctx, func(context.Context) (int, error) { return 5, nil })

	done := f.Fetch(ctx, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, client.ErrCanceled
	})
	f.Close()
	<-done

	st := f.Snapshot()
	assert.Nil(t, st.Err, "cancellation must not populate an error")
	assert.Equal(t, 5, st.Data)
	assert.False(t, st.Loading)
}

func TestContextCanceledTreatedAsCancellation(t *testing.T) {
	f := New[int]()

	done := f.Fetch(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	f.Close()
	<-done

	st := f.Snapshot()
	assert.Nil(t, st.Err)
}

func TestSettlementAfterTeardownDiscarded(t *testing.T) {
	f := New[int]()

	<-f.Fetch(context.Background(), func(context.Context) (int, error) { return 5, nil })

	release := make(chan struct{})
	done := f.Fetch(context.Background(), func(context.Context) (int, error) {
		// Ignores cancellation on purpose: teardown must not depend on the
		// producer cooperating either.
		<-release
		return 99, nil
	})

	f.Close()
	close(release)
	<-done

	st := f.Snapshot()
	assert.Equal(t, 5, st.Data, "a request settling after teardown must be discarded")
	assert.Nil(t, st.Err)
	assert.False(t, st.Loading)
}

func TestSettlementAfterDisableDiscardedOnReenable(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	release := make(chan struct{})
	done := f.Fetch(ctx, func(context.Context) (int, error) {
		<-release
		return 0, &models.APIError{Detail: "late failure"}
	})

	f.SetEnabled(false)
	f.SetEnabled(true)

	done2 := f.Fetch(ctx, func(context.Context) (int, error) { return 8, nil })
	<-done2

	close(release)
	<-done

	st := f.Snapshot()
	assert.Equal(t, 8, st.Data)
	assert.Nil(t, st.Err, "a request invalidated by disable must never surface")
}

func TestDisabledFetcherIssuesNothing(t *testing.T) {
	f := New[int]()
	f.SetEnabled(false)

	called := false
	done := f.Fetch(context.Background(), func(context.Context) (int, error) {
		called = true
		return 1, nil
	})
	<-done

	assert.False(t, called, "disabled fetcher must not invoke the producer")
	st := f.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, 0, st.Data)
}

func TestNewActivationCancelsPrevious(t *testing.T) {
	f := New[int]()
	ctx := context.Background()

	canceled := make(chan struct{})
	f.Fetch(ctx, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(canceled)
		return 0, client.ErrCanceled
	})

	done2 := f.Fetch(ctx, func(context.Context) (int, error) { return 9, nil })

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("prior activation was not cancelled")
	}
	<-done2
	assert.Equal(t, 9, f.Snapshot().Data)
}

func TestObserverSeesTransitions(t *testing.T) {
	var states []State[int]
	f := New(WithObserver(func(st State[int]) { states = append(states, st) }))

	<-f.Fetch(context.Background(), func(context.Context) (int, error) { return 3, nil })

	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Equal(t, 3, states[1].Data)
}

func TestEndToEndOverviewThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"conversation_count": 1000,
			"quality_dimensions": [
				{"name": "Clarity", "pass_count": 50, "not_pass_count": 10, "average_score": 4.5}
			]
		}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, time.Second, nil)
	f := New[*models.PreDeliveryOverview]()

	<-f.Fetch(context.Background(), func(ctx context.Context) (*models.PreDeliveryOverview, error) {
		return c.PreDeliveryOverview(ctx)
	})

	st := f.Snapshot()
	assert.False(t, st.Loading)
	require.Nil(t, st.Err)
	require.NotNil(t, st.Data)
	assert.Equal(t, 1000, st.Data.ConversationCount)
	require.Len(t, st.Data.QualityDimensions, 1)
	dim := st.Data.QualityDimensions[0]
	assert.Equal(t, "Clarity", dim.Name)
	assert.Equal(t, 50, dim.PassCount)
	assert.Equal(t, 10, dim.NotPassCount)
	assert.Equal(t, 4.5, dim.AverageScore)
}
