package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlink/locate-sla/internal/domain/locate"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// 2024-03-05 is a Tuesday.
func mt(day, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

func seedParents() []types.DashboardParent {
	return []types.DashboardParent{{
		ID: "parent-1",
		WorkOrders: []types.WorkOrder{
			{
				ID:              "pending-1",
				WorkOrderNumber: "WO-1001",
				CustomerName:    "Acme Utilities",
				CustomerAddress: "123 Main St - Springfield, IL 62704",
				PriorityName:    "EXCAVATOR",
				TechName:        "J. Ramirez",
				CreatedDate:     "2024-03-01T08:00:00Z",
			},
			{
				ID:           "pending-2",
				PriorityName: "EXCAVATOR",
			},
			{
				ID:              "active-1",
				WorkOrderNumber: "WO-2001",
				PriorityName:    "Routine",
				LocatesCalled:   true,
				CallType:        "EMERGENCY",
				CalledAt:        "2024-03-05T08:00:00Z", // deadline 12:00
			},
		},
	}}
}

func newTestService(api *fakeAPI, clock locate.Clock) *Service {
	return NewService(ServiceOptions{
		API:      api,
		Clock:    clock,
		Location: time.UTC,
		Logger:   logging.NewNopLogger(),
	})
}

func TestService_RefreshPopulatesRecordSet(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	clock := locate.NewFakeClock(mt(5, 11, 0))
	svc := newTestService(api, clock)

	assert.False(t, svc.Ready())
	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))

	assert.True(t, svc.Ready())
	assert.Len(t, svc.Records(), 3)
	assert.Equal(t, mt(5, 11, 0), svc.LastRefresh())

	rec, ok := svc.RecordByID("active-1")
	require.True(t, ok)
	require.NotNil(t, rec.CompletionDeadline)
	assert.Equal(t, mt(5, 12, 0), *rec.CompletionDeadline)
}

func TestService_RefreshFailureKeepsLastKnownData(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	svc := newTestService(api, locate.NewFakeClock(mt(5, 11, 0)))

	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))

	api.mu.Lock()
	api.fetchErr = errors.New("upstream down")
	api.mu.Unlock()

	err := svc.Refresh(context.Background(), TriggerInterval)
	assert.Error(t, err)
	assert.True(t, svc.Ready(), "a failed refresh never discards the held record set")
	assert.Len(t, svc.Records(), 3)
}

func TestService_Snapshot(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	clock := locate.NewFakeClock(mt(5, 11, 40)) // 20 minutes before active-1's deadline
	svc := newTestService(api, clock)
	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))

	view := svc.Snapshot(locate.Filter{})
	assert.Equal(t, mt(5, 11, 40), view.GeneratedAt)

	require.Len(t, view.NeedsCall, 2)
	assert.Equal(t, "pending-1", view.NeedsCall[0].ID, "oldest created first")
	assert.Empty(t, view.NeedsCall[0].Countdown, "no countdown before a call is recorded")
	assert.Equal(t, types.UrgencyNormal, view.NeedsCall[0].Urgency)
	assert.Equal(t, "—", view.NeedsCall[1].CustomerName, "missing fields render as placeholders")
	assert.Equal(t, "—", view.NeedsCall[1].Street)

	require.Len(t, view.InProgress, 1)
	assert.Equal(t, "20m 0s", view.InProgress[0].Countdown)
	assert.Equal(t, types.UrgencyCritical, view.InProgress[0].Urgency)
	assert.Empty(t, view.Completed)

	// Advancing the clock past the deadline moves the record by
	// recomputation alone.
	clock.Set(mt(5, 12, 0))
	view = svc.Snapshot(locate.Filter{})
	assert.Empty(t, view.InProgress)
	require.Len(t, view.Completed, 1)
	assert.Equal(t, "EXPIRED", view.Completed[0].Countdown)
	assert.Equal(t, types.UrgencyExpired, view.Completed[0].Urgency)
}

func TestService_SnapshotSearch(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	svc := newTestService(api, locate.NewFakeClock(mt(5, 11, 0)))
	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))

	view := svc.Snapshot(locate.Filter{Search: "acme"})
	require.Len(t, view.NeedsCall, 1)
	assert.Equal(t, "pending-1", view.NeedsCall[0].ID)

	view = svc.Snapshot(locate.Filter{Search: "no-such-term"})
	assert.Empty(t, view.NeedsCall)
	assert.Len(t, view.InProgress, 1, "search never filters the other buckets")
}

func TestService_WorkOrderNumbers(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	svc := newTestService(api, locate.NewFakeClock(mt(5, 11, 0)))
	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))

	numbers := svc.WorkOrderNumbers([]string{"pending-1", "pending-2", "unknown", "pending-1"})
	assert.Equal(t, []string{"WO-1001"}, numbers,
		"records without numbers, unknown ids, and duplicates are dropped")
}

func TestService_Sync(t *testing.T) {
	api := &fakeAPI{parents: seedParents()}
	svc := newTestService(api, locate.NewFakeClock(mt(5, 11, 0)))

	require.NoError(t, svc.Sync(context.Background()))
	assert.Equal(t, 1, api.syncCalls)
	assert.Equal(t, 1, api.fetchCalls, "sync refetches after the upstream resync")
}

// fakeCache is an in-memory SnapshotCache.
type fakeCache struct {
	records []locate.Record
	loadErr error
	stored  int
}

func (c *fakeCache) Load(context.Context) ([]locate.Record, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.records, nil
}

func (c *fakeCache) Store(_ context.Context, records []locate.Record) error {
	c.records = records
	c.stored++
	return nil
}

func TestService_WarmFromCache(t *testing.T) {
	cache := &fakeCache{records: []locate.Record{{ID: "cached-1", NeedsCall: true}}}
	svc := NewService(ServiceOptions{
		API:    &fakeAPI{},
		Cache:  cache,
		Clock:  locate.NewFakeClock(mt(5, 11, 0)),
		Logger: logging.NewNopLogger(),
	})

	svc.warmFromCache(context.Background())

	assert.True(t, svc.Ready(), "a cache restore satisfies readiness")
	require.Len(t, svc.Records(), 1)
	assert.Equal(t, "cached-1", svc.Records()[0].ID)
}

func TestService_RefreshStoresSnapshot(t *testing.T) {
	cache := &fakeCache{}
	svc := NewService(ServiceOptions{
		API:    &fakeAPI{parents: seedParents()},
		Cache:  cache,
		Clock:  locate.NewFakeClock(mt(5, 11, 0)),
		Logger: logging.NewNopLogger(),
	})

	require.NoError(t, svc.Refresh(context.Background(), TriggerStartup))
	assert.Equal(t, 1, cache.stored)
	assert.Len(t, cache.records, 3)
}
