package locate

import (
	"sort"
	"time"
)

// Filter narrows the Needs Call bucket.  The other two buckets are never
// filtered.
type Filter struct {
	// Search is a case-insensitive substring matched against work-order
	// number, customer name, street, city, and technician name.
	Search string

	// UntaggedOnly drops records already marked manuallyTagged.
	UntaggedOnly bool
}

// Partition is the record set split into the three mutually exclusive
// life-cycle buckets at a given instant.
type Partition struct {
	NeedsCall  []Record
	InProgress []Record
	Completed  []Record
}

// Classify partitions records into the three buckets as seen at now:
//
//	Needs Call:  needs a call and none recorded yet
//	In Progress: called, deadline in the future (or absent)
//	Completed:   called, deadline at or before now
//
// A record moves from In Progress to Completed purely by the passage of now;
// no stored state changes.  Each bucket comes back sorted for display:
// Needs Call oldest-created first, In Progress nearest-deadline first,
// Completed most-recently-expired first.
func Classify(records []Record, now time.Time, f Filter) Partition {
	var p Partition
	for _, rec := range records {
		switch {
		case rec.NeedsCall && !rec.LocatesCalled:
			if f.UntaggedOnly && rec.ManuallyTagged {
				continue
			}
			if !rec.MatchesSearch(f.Search) {
				continue
			}
			p.NeedsCall = append(p.NeedsCall, rec)
		case rec.LocatesCalled && !rec.IsExpired(now):
			p.InProgress = append(p.InProgress, rec)
		case rec.LocatesCalled:
			p.Completed = append(p.Completed, rec)
		}
	}

	sort.SliceStable(p.NeedsCall, func(i, j int) bool {
		return timeLess(p.NeedsCall[i].CreatedAt, p.NeedsCall[j].CreatedAt)
	})
	sort.SliceStable(p.InProgress, func(i, j int) bool {
		return timeLess(p.InProgress[i].CompletionDeadline, p.InProgress[j].CompletionDeadline)
	})
	sort.SliceStable(p.Completed, func(i, j int) bool {
		return timeLess(p.Completed[j].CompletionDeadline, p.Completed[i].CompletionDeadline)
	})

	return p
}

// timeLess orders two optional timestamps; records without one sort last.
func timeLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
