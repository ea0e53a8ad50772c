package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func newTestSDK(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL,
		WithRetryMax(2),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://host")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL, "trailing slash is trimmed")
}

func TestLocates_Buckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/locates/buckets", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("search"))
		assert.Equal(t, "true", r.URL.Query().Get("untagged_only"))
		assert.Contains(t, r.Header.Get("User-Agent"), "locatesla-go-sdk/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_ = json.NewEncoder(w).Encode(types.BucketsView{
			NeedsCall: []types.RecordView{{ID: "pending-1", Countdown: ""}},
			InProgress: []types.RecordView{
				{ID: "active-1", Countdown: "20m 0s", Urgency: types.UrgencyCritical},
			},
		})
	}))
	defer srv.Close()

	view, err := newTestSDK(t, srv.URL).Locates().Buckets(context.Background(), "acme", true)
	require.NoError(t, err)
	require.Len(t, view.InProgress, 1)
	assert.Equal(t, "20m 0s", view.InProgress[0].Countdown)
}

func TestLocates_MarkCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/locates/work-orders/pending-1/call", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "EMERGENCY", body["call_type"])
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "called"})
	}))
	defer srv.Close()

	err := newTestSDK(t, srv.URL).Locates().MarkCalled(context.Background(), "pending-1", types.CallTypeEmergency)
	assert.NoError(t, err)
}

func TestLocates_BulkDeletePartialOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/locates/bulk-delete", r.URL.Path)
		w.WriteHeader(http.StatusMultiStatus)
		_ = json.NewEncoder(w).Encode(types.BulkOutcome{
			Attempted: 2,
			Succeeded: 1,
			Failed:    1,
			Message:   "1 deleted, 1 failed",
			Failures:  []types.ItemFailure{{ID: "pending-2", Error: "upstream down"}},
		})
	}))
	defer srv.Close()

	outcome, err := newTestSDK(t, srv.URL).Locates().BulkDelete(
		context.Background(), types.BucketNeedsCall, []string{"pending-1", "pending-2"})
	require.NoError(t, err, "207 carries an outcome, not an error")
	assert.Equal(t, "1 deleted, 1 failed", outcome.Message)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "pending-2", outcome.Failures[0].ID)
}

func TestLocates_BulkDeleteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "LOC_005",
			"message": "no records selected for deletion",
		})
	}))
	defer srv.Close()

	_, err := newTestSDK(t, srv.URL).Locates().BulkDelete(context.Background(), types.BucketNeedsCall, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "LOC_005", apiErr.Code)
	assert.True(t, apiErr.IsValidation())
}

func TestLocates_ToggleSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/locates/selection/needs_call/toggle", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "pending-1", "selected": true})
	}))
	defer srv.Close()

	selected, err := newTestSDK(t, srv.URL).Locates().ToggleSelection(
		context.Background(), types.BucketNeedsCall, "pending-1")
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "refreshed"})
	}))
	defer srv.Close()

	err := newTestSDK(t, srv.URL).Locates().Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "LOC_001",
			"message": "work order not found",
			"detail":  "no-such-id",
		})
	}))
	defer srv.Close()

	err := newTestSDK(t, srv.URL).Locates().MarkCalled(context.Background(), "no-such-id", types.CallTypeStandard)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "work order not found: no-such-id", apiErr.Message)
}
