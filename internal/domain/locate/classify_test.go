package locate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func testRecords() []Record {
	return []Record{
		{
			ID:              "pending-1",
			WorkOrderNumber: "WO-1001",
			CustomerName:    "Acme Utilities",
			Address:         Address{Street: "123 Main St", City: "Springfield"},
			TechName:        "J. Ramirez",
			NeedsCall:       true,
			CreatedAt:       tp(mar(1, 9, 0)),
		},
		{
			ID:             "pending-2",
			NeedsCall:      true,
			ManuallyTagged: true,
			CreatedAt:      tp(mar(1, 8, 0)),
		},
		{
			ID:                 "active-1",
			NeedsCall:          true,
			LocatesCalled:      true,
			CalledAt:           tp(mar(4, 9, 0)),
			CompletionDeadline: tp(mar(6, 17, 0)),
		},
		{
			ID:                 "expired-1",
			LocatesCalled:      true,
			CalledAt:           tp(mar(1, 9, 0)),
			CompletionDeadline: tp(mar(5, 17, 0)),
		},
	}
}

func TestClassify_Buckets(t *testing.T) {
	now := mar(5, 17, 0) // exactly at expired-1's deadline
	p := Classify(testRecords(), now, Filter{})

	assert.ElementsMatch(t, []string{"pending-1", "pending-2"}, recordIDs(p.NeedsCall))
	assert.Equal(t, []string{"active-1"}, recordIDs(p.InProgress))
	assert.Equal(t, []string{"expired-1"}, recordIDs(p.Completed), "a deadline at now is expired, not in progress")
}

func TestClassify_ExpiryByPassageOfTimeOnly(t *testing.T) {
	records := testRecords()

	before := Classify(records, mar(5, 16, 59), Filter{})
	assert.ElementsMatch(t, []string{"active-1", "expired-1"}, recordIDs(before.InProgress))
	assert.Empty(t, before.Completed)

	after := Classify(records, mar(6, 18, 0), Filter{})
	assert.Empty(t, after.InProgress)
	assert.ElementsMatch(t, []string{"active-1", "expired-1"}, recordIDs(after.Completed))
}

func TestClassify_MutuallyExclusive(t *testing.T) {
	p := Classify(testRecords(), mar(5, 12, 0), Filter{})

	seen := map[string]int{}
	for _, rec := range p.NeedsCall {
		seen[rec.ID]++
	}
	for _, rec := range p.InProgress {
		seen[rec.ID]++
	}
	for _, rec := range p.Completed {
		seen[rec.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s appears in exactly one bucket", id)
	}
	assert.Len(t, seen, len(testRecords()))
}

func TestClassify_SearchFiltersNeedsCallOnly(t *testing.T) {
	now := mar(6, 18, 0)

	p := Classify(testRecords(), now, Filter{Search: "ramirez"})
	assert.Equal(t, []string{"pending-1"}, recordIDs(p.NeedsCall), "search matches tech name")

	p = Classify(testRecords(), now, Filter{Search: "no-such-term"})
	assert.Empty(t, p.NeedsCall)
	assert.Len(t, p.Completed, 2, "search never filters the other buckets")
}

func TestClassify_UntaggedOnly(t *testing.T) {
	p := Classify(testRecords(), mar(5, 12, 0), Filter{UntaggedOnly: true})
	assert.Equal(t, []string{"pending-1"}, recordIDs(p.NeedsCall))
}

func TestClassify_Sorting(t *testing.T) {
	records := []Record{
		{ID: "b", NeedsCall: true, CreatedAt: tp(mar(2, 0, 0))},
		{ID: "a", NeedsCall: true, CreatedAt: tp(mar(1, 0, 0))},
		{ID: "no-created", NeedsCall: true},
		{ID: "late", LocatesCalled: true, CompletionDeadline: tp(mar(8, 17, 0))},
		{ID: "soon", LocatesCalled: true, CompletionDeadline: tp(mar(6, 17, 0))},
		{ID: "old-expired", LocatesCalled: true, CompletionDeadline: tp(mar(1, 17, 0))},
		{ID: "new-expired", LocatesCalled: true, CompletionDeadline: tp(mar(4, 17, 0))},
	}

	p := Classify(records, mar(5, 12, 0), Filter{})

	require.Equal(t, []string{"a", "b", "no-created"}, recordIDs(p.NeedsCall), "needs call sorts oldest created first")
	require.Equal(t, []string{"soon", "late"}, recordIDs(p.InProgress), "in progress sorts nearest deadline first")
	require.Equal(t, []string{"new-expired", "old-expired"}, recordIDs(p.Completed), "completed sorts most recently expired first")
}

func recordIDs(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
