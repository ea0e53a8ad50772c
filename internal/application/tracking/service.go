package tracking

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fieldlink/locate-sla/internal/domain/locate"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// UpstreamAPI is the slice of the collaborator API the engine consumes.
// *upstream.Client satisfies it; tests use a fake.
type UpstreamAPI interface {
	FetchAllLocates(ctx context.Context) ([]types.DashboardParent, error)
	SyncDashboard(ctx context.Context) error
	UpdateCallStatus(ctx context.Context, id string, req types.UpdateCallStatusRequest) error
	DeleteWorkOrders(ctx context.Context, ids []string) error
	TagLocates(ctx context.Context, req types.TagRequest) error
	BulkTagLocates(ctx context.Context, req types.BulkTagRequest) error
}

// SnapshotCache persists the last normalized record set so a restarted
// service can serve last-known-good data before its first refresh.
type SnapshotCache interface {
	Load(ctx context.Context) ([]locate.Record, error)
	Store(ctx context.Context, records []locate.Record) error
}

// Refresh triggers, used as metric labels and in logs.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerMutation = "mutation"
	TriggerManual   = "manual"
)

// placeholder substitutes for descriptive fields that arrived empty or
// malformed; rendering never blocks on a bad record.
const placeholder = "—"

// Service owns the current normalized record set and drives the two
// asynchronous loops of the engine: the classification tick (pure
// computation, no I/O) and the staleness refresh (upstream fetch +
// normalize).  Reads and refreshes may happen concurrently; the record
// set is swapped atomically under a RWMutex.
type Service struct {
	api        UpstreamAPI
	cache      SnapshotCache // optional
	clock      locate.Clock
	normalizer *locate.Normalizer
	loc        *time.Location
	logger     logging.Logger
	metrics    *prometheus.AppMetrics

	tickInterval    time.Duration
	refreshInterval time.Duration

	group singleflight.Group

	mu          sync.RWMutex
	records     []locate.Record
	lastRefresh time.Time
	ready       bool
}

// ServiceOptions carries the dependencies and tunables for NewService.
// Cache may be nil; Metrics defaults to no-op.
type ServiceOptions struct {
	API             UpstreamAPI
	Cache           SnapshotCache
	Clock           locate.Clock
	Location        *time.Location
	Logger          logging.Logger
	Metrics         *prometheus.AppMetrics
	TickInterval    time.Duration
	RefreshInterval time.Duration
}

// NewService wires the tracking service.
func NewService(opts ServiceOptions) *Service {
	if opts.Clock == nil {
		opts.Clock = locate.NewSystemClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Metrics == nil {
		opts.Metrics = prometheus.NewNopMetrics()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 5 * time.Minute
	}

	return &Service{
		api:             opts.API,
		cache:           opts.Cache,
		clock:           opts.Clock,
		normalizer:      locate.NewNormalizer(opts.Location),
		loc:             opts.Location,
		logger:          opts.Logger.Named("tracking"),
		metrics:         opts.Metrics,
		tickInterval:    opts.TickInterval,
		refreshInterval: opts.RefreshInterval,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Record set access
// ─────────────────────────────────────────────────────────────────────────────

// Records returns a copy of the current record set.
func (s *Service) Records() []locate.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]locate.Record, len(s.records))
	copy(out, s.records)
	return out
}

// RecordByID looks up one record in the current set.
func (s *Service) RecordByID(id string) (locate.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], true
		}
	}
	return locate.Record{}, false
}

// WorkOrderNumbers resolves record ids to their work-order numbers, dropping
// ids that are unknown or carry no number.
func (s *Service) WorkOrderNumbers(ids []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]string, len(s.records))
	for i := range s.records {
		byID[s.records[i].ID] = s.records[i].WorkOrderNumber
	}

	var numbers []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		num := byID[id]
		if num == "" {
			continue
		}
		if _, dup := seen[num]; dup {
			continue
		}
		seen[num] = struct{}{}
		numbers = append(numbers, num)
	}
	return numbers
}

// Ready reports whether the service holds data from at least one successful
// refresh or cache restore.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// LastRefresh returns when the record set was last replaced.
func (s *Service) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// ─────────────────────────────────────────────────────────────────────────────
// Refresh
// ─────────────────────────────────────────────────────────────────────────────

// Refresh fetches the dashboard payload, normalizes it, and swaps the record
// set.  Concurrent callers collapse into a single upstream fetch; every
// caller observes the same result.  The trigger labels metrics and logs.
func (s *Service) Refresh(ctx context.Context, trigger string) error {
	start := time.Now()
	_, err, shared := s.group.Do("refresh", func() (interface{}, error) {
		parents, err := s.api.FetchAllLocates(ctx)
		if err != nil {
			return nil, err
		}
		records := s.normalizer.Normalize(parents)

		s.mu.Lock()
		s.records = records
		s.lastRefresh = s.clock.Now()
		s.ready = true
		s.mu.Unlock()

		s.metrics.RecordsNormalized.WithLabelValues().Set(float64(len(records)))

		if s.cache != nil {
			if cerr := s.cache.Store(ctx, records); cerr != nil {
				s.logger.Warn("failed to store snapshot in cache", logging.Err(cerr))
			}
		}
		return nil, nil
	})

	result := "success"
	if err != nil {
		result = "error"
	}
	if !shared {
		s.metrics.RefreshDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	}
	s.metrics.RefreshTotal.WithLabelValues(trigger, result).Inc()

	if err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "record set refresh failed")
	}
	s.logger.Debug("record set refreshed", logging.String("trigger", trigger))
	return nil
}

// Sync asks upstream to resync its dashboard, then refetches.
func (s *Service) Sync(ctx context.Context) error {
	if err := s.api.SyncDashboard(ctx); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "dashboard sync failed")
	}
	return s.Refresh(ctx, TriggerManual)
}

// ─────────────────────────────────────────────────────────────────────────────
// Background loops
// ─────────────────────────────────────────────────────────────────────────────

// Run drives the tick and staleness-refresh loops until ctx is cancelled.
// A failed refresh is logged and retried at the next interval; countdowns
// keep updating against the last-known record set in the meantime.
func (s *Service) Run(ctx context.Context) error {
	s.warmFromCache(ctx)
	if err := s.Refresh(ctx, TriggerStartup); err != nil {
		s.logger.Warn("initial refresh failed; serving stale data until retry", logging.Err(err))
	}

	tick := time.NewTicker(s.tickInterval)
	defer tick.Stop()
	refresh := time.NewTicker(s.refreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			s.tick()
		case <-refresh.C:
			if err := s.Refresh(ctx, TriggerInterval); err != nil {
				s.logger.Warn("periodic refresh failed", logging.Err(err))
			}
		}
	}
}

// tick recomputes bucket membership and publishes the sizes.  Pure
// computation over the held record set, never network I/O.
func (s *Service) tick() {
	start := time.Now()
	p := locate.Classify(s.Records(), s.clock.Now(), locate.Filter{})

	s.metrics.BucketSize.WithLabelValues(string(types.BucketNeedsCall)).Set(float64(len(p.NeedsCall)))
	s.metrics.BucketSize.WithLabelValues(string(types.BucketInProgress)).Set(float64(len(p.InProgress)))
	s.metrics.BucketSize.WithLabelValues(string(types.BucketCompleted)).Set(float64(len(p.Completed)))
	s.metrics.TickDuration.WithLabelValues().Observe(time.Since(start).Seconds())
}

func (s *Service) warmFromCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	records, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Debug("no snapshot restored from cache", logging.Err(err))
		return
	}

	s.mu.Lock()
	if !s.ready {
		s.records = records
		s.ready = true
	}
	s.mu.Unlock()
	s.logger.Info("restored last-known record set from cache", logging.Int("records", len(records)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshot (exposed surface)
// ─────────────────────────────────────────────────────────────────────────────

// Snapshot classifies the current record set at the clock's now and renders
// each record with live countdown text.  A formatting failure on one record
// is isolated: the record renders with a placeholder countdown and the rest
// are unaffected.
func (s *Service) Snapshot(filter locate.Filter) types.BucketsView {
	now := s.clock.Now()
	p := locate.Classify(s.Records(), now, filter)
	return types.BucketsView{
		NeedsCall:   s.renderAll(p.NeedsCall, now),
		InProgress:  s.renderAll(p.InProgress, now),
		Completed:   s.renderAll(p.Completed, now),
		GeneratedAt: now,
	}
}

func (s *Service) renderAll(records []locate.Record, now time.Time) []types.RecordView {
	views := make([]types.RecordView, 0, len(records))
	for i := range records {
		views = append(views, s.render(&records[i], now))
	}
	return views
}

func (s *Service) render(rec *locate.Record, now time.Time) (view types.RecordView) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.FormatterFailures.WithLabelValues().Inc()
			s.logger.Error("countdown rendering failed for record",
				logging.String("record_id", rec.ID),
				logging.Any("panic", r),
			)
			view = baseView(rec)
			view.Countdown = placeholder
			view.Urgency = types.UrgencyNormal
		}
	}()

	view = baseView(rec)
	view.Urgency = types.UrgencyNormal
	if rec.CompletionDeadline != nil {
		cd := locate.FormatCountdown(*rec.CompletionDeadline, now, rec.CallType, s.loc)
		view.Countdown = cd.Text
		view.Urgency = cd.Urgency
	}
	return view
}

func baseView(rec *locate.Record) types.RecordView {
	view := types.RecordView{
		ID:                 rec.ID,
		WorkOrderNumber:    rec.WorkOrderNumber,
		CustomerName:       rec.CustomerName,
		Street:             rec.Address.Street,
		City:               rec.Address.City,
		State:              rec.Address.State,
		Zip:                rec.Address.Zip,
		TechName:           rec.TechName,
		PriorityName:       rec.PriorityName,
		LocatesCalled:      rec.LocatesCalled,
		CalledAt:           rec.CalledAt,
		CalledByName:       rec.CalledByName,
		CalledByEmail:      rec.CalledByEmail,
		CompletionDeadline: rec.CompletionDeadline,
		Tags:               rec.Tags,
		ManuallyTagged:     rec.ManuallyTagged,
		TaggedByName:       rec.TaggedByName,
		TaggedByEmail:      rec.TaggedByEmail,
	}
	if rec.CallType.Valid() {
		view.CallType = rec.CallType
	}
	if view.CustomerName == "" {
		view.CustomerName = placeholder
	}
	if view.Street == "" {
		view.Street = placeholder
	}
	return view
}
