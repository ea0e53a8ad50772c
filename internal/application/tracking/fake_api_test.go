package tracking

import (
	"context"
	"sync"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// fakeAPI is an in-memory UpstreamAPI that records every call and fails on
// demand per operation or per id.
type fakeAPI struct {
	mu sync.Mutex

	parents  []types.DashboardParent
	fetchErr error
	syncErr  error

	updateErr  error
	deleteErr  map[string]error
	tagErr     error
	bulkTagErr error

	fetchCalls   int
	syncCalls    int
	updates      []string
	updateReqs   []types.UpdateCallStatusRequest
	deleteCalls  [][]string
	tagReqs      []types.TagRequest
	bulkTagReqs  []types.BulkTagRequest
	networkCalls int
}

func (f *fakeAPI) FetchAllLocates(context.Context) ([]types.DashboardParent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.networkCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.parents, nil
}

func (f *fakeAPI) SyncDashboard(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	f.networkCalls++
	return f.syncErr
}

func (f *fakeAPI) UpdateCallStatus(_ context.Context, id string, req types.UpdateCallStatusRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networkCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	f.updateReqs = append(f.updateReqs, req)
	return nil
}

func (f *fakeAPI) DeleteWorkOrders(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networkCalls++
	f.deleteCalls = append(f.deleteCalls, ids)
	for _, id := range ids {
		if err, ok := f.deleteErr[id]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeAPI) TagLocates(_ context.Context, req types.TagRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networkCalls++
	if f.tagErr != nil {
		return f.tagErr
	}
	f.tagReqs = append(f.tagReqs, req)
	return nil
}

func (f *fakeAPI) BulkTagLocates(_ context.Context, req types.BulkTagRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.networkCalls++
	if f.bulkTagErr != nil {
		return f.bulkTagErr
	}
	f.bulkTagReqs = append(f.bulkTagReqs, req)
	return nil
}

func (f *fakeAPI) totalNetworkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.networkCalls
}
