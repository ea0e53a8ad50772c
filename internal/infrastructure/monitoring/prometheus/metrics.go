package prometheus

import "net/http"

// AppMetrics holds every metric the service emits, registered once at startup
// and passed down by injection.
type AppMetrics struct {
	// HTTP surface
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Tracking engine
	BucketSize        GaugeVec     // live record count per bucket, set by the tick loop
	RefreshTotal      CounterVec   // refreshes by trigger ("mutation", "interval", "manual") and result
	RefreshDuration   HistogramVec // upstream fetch + normalize, seconds
	TickDuration      HistogramVec // one classification pass, seconds
	RecordsNormalized GaugeVec     // records produced by the last refresh
	FormatterFailures CounterVec   // per-record countdown failures isolated by the snapshot pass

	// Bulk actions
	BulkItemsTotal CounterVec // items by action ("delete", "tag", "call") and outcome

	// Upstream collaborator API
	UpstreamRequestsTotal   CounterVec
	UpstreamRequestDuration HistogramVec

	// Snapshot cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
}

// Default histogram buckets.
var (
	defaultHTTPBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	defaultRefreshBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	defaultTickBuckets    = []float64{.0001, .0005, .001, .005, .01, .05, .1}
)

// NewAppMetrics registers all service metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", defaultHTTPBuckets, "method", "path")

	m.BucketSize = collector.RegisterGauge("bucket_size", "Records currently in each life-cycle bucket", "bucket")
	m.RefreshTotal = collector.RegisterCounter("refresh_total", "Record set refreshes", "trigger", "result")
	m.RefreshDuration = collector.RegisterHistogram("refresh_duration_seconds", "Upstream fetch and normalization duration", defaultRefreshBuckets, "trigger")
	m.TickDuration = collector.RegisterHistogram("tick_duration_seconds", "Classification pass duration", defaultTickBuckets)
	m.RecordsNormalized = collector.RegisterGauge("records_normalized", "Records produced by the last refresh")
	m.FormatterFailures = collector.RegisterCounter("formatter_failures_total", "Per-record countdown formatting failures")

	m.BulkItemsTotal = collector.RegisterCounter("bulk_items_total", "Bulk action items by outcome", "action", "outcome")

	m.UpstreamRequestsTotal = collector.RegisterCounter("upstream_requests_total", "Requests to the collaborator API", "operation", "result")
	m.UpstreamRequestDuration = collector.RegisterHistogram("upstream_request_duration_seconds", "Collaborator API request duration", defaultHTTPBuckets, "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Snapshot cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Snapshot cache misses", "cache")

	return m
}

// NewNopMetrics returns AppMetrics wired to no-op implementations, for tests
// and for components constructed without a collector.
func NewNopMetrics() *AppMetrics {
	return NewAppMetrics(nopCollector{})
}

type nopCollector struct{}

func (nopCollector) RegisterCounter(string, string, ...string) CounterVec { return nopCounterVec{} }
func (nopCollector) RegisterGauge(string, string, ...string) GaugeVec     { return nopGaugeVec{} }
func (nopCollector) RegisterHistogram(string, string, []float64, ...string) HistogramVec {
	return nopHistogramVec{}
}
func (nopCollector) Handler() http.Handler { return http.NotFoundHandler() }

type nopCounterVec struct{}
type nopCounter struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopCounter{} }
func (nopCounter) Inc()                                 {}
func (nopCounter) Add(float64)                          {}

type nopGaugeVec struct{}
type nopGauge struct{}

func (nopGaugeVec) WithLabelValues(...string) Gauge { return nopGauge{} }
func (nopGauge) Set(float64)                        {}
func (nopGauge) Inc()                               {}
func (nopGauge) Dec()                               {}

type nopHistogramVec struct{}
type nopHistogram struct{}

func (nopHistogramVec) WithLabelValues(...string) Histogram { return nopHistogram{} }
func (nopHistogram) Observe(float64)                        {}
