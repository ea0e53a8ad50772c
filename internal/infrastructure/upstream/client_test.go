package upstream

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

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.UpstreamConfig{
		BaseURL:      baseURL,
		APIKey:       "test-key",
		Timeout:      5 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(config.UpstreamConfig{}, logging.NewNopLogger(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = NewClient(config.UpstreamConfig{BaseURL: "ftp://host"}, logging.NewNopLogger(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestClient_FetchAllLocates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/locates/all-locates", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_ = json.NewEncoder(w).Encode([]types.DashboardParent{
			{ID: "p1", WorkOrders: []types.WorkOrder{{ID: "wo-1", PriorityName: "EXCAVATOR"}}},
		})
	}))
	defer srv.Close()

	parents, err := newTestClient(t, srv.URL).FetchAllLocates(context.Background())
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "wo-1", parents[0].WorkOrders[0].ID)
}

func TestClient_UpdateCallStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/locates/work-order/wo-1/update-call-status", r.URL.Path)

		var req types.UpdateCallStatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.LocatesCalled)
		assert.Equal(t, "STANDARD", req.CallType)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).UpdateCallStatus(context.Background(), "wo-1", types.UpdateCallStatusRequest{
		LocatesCalled: true,
		CallType:      "STANDARD",
		CalledAt:      "2024-03-05T11:00:00Z",
	})
	assert.NoError(t, err)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).SyncDashboard(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad ids"})
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).DeleteWorkOrders(context.Background(), []string{"wo-1"})
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamRejected))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "4xx responses are never retried")
}

func TestClient_ExhaustedRetriesSurfaceUnavailable(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).SyncDashboard(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "retryMax=2 means three attempts")
}

func TestClient_DeleteRequiresIDs(t *testing.T) {
	err := newTestClient(t, "http://localhost:1").DeleteWorkOrders(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestClient_TagLocates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locates/tag-locates-needed", r.URL.Path)

		var req types.TagRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "WO-1001", req.WorkOrderNumber)
		assert.Equal(t, "dana@fieldlink.io", req.Email)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).TagLocates(context.Background(), types.TagRequest{
		WorkOrderNumber: "WO-1001",
		Name:            "Dana Ops",
		Email:           "dana@fieldlink.io",
		Tags:            "gas",
	})
	assert.NoError(t, err)
}
