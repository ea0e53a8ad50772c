// Package redis provides the optional snapshot cache: the last normalized
// record set is persisted so a restarted service serves last-known-good data
// before its first upstream refresh.  The engine works unchanged without it.
package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/internal/domain/locate"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/pkg/errors"
)

const snapshotKey = "snapshot"

// snapshot is the stored payload.
type snapshot struct {
	SavedAt time.Time       `json:"saved_at"`
	Records []locate.Record `json:"records"`
}

// Cache stores the record-set snapshot in Redis.
type Cache struct {
	client  *goredis.Client
	prefix  string
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg config.RedisConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*Cache, error) {
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to connect to redis")
	}

	return &Cache{
		client:  client,
		prefix:  cfg.KeyPrefix,
		ttl:     cfg.SnapshotTTL,
		logger:  logger.Named("cache"),
		metrics: metrics,
	}, nil
}

// Load returns the cached record set, or a CodeNotFound error when no
// snapshot exists or it cannot be decoded.
func (c *Cache) Load(ctx context.Context) ([]locate.Record, error) {
	raw, err := c.client.Get(ctx, c.prefix+snapshotKey).Bytes()
	if err == goredis.Nil {
		c.metrics.CacheMissesTotal.WithLabelValues(snapshotKey).Inc()
		return nil, errors.NotFound("no snapshot cached")
	}
	if err != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(snapshotKey).Inc()
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to read snapshot")
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(snapshotKey).Inc()
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to decode snapshot")
	}

	c.metrics.CacheHitsTotal.WithLabelValues(snapshotKey).Inc()
	c.logger.Debug("snapshot loaded",
		logging.Int("records", len(snap.Records)),
		logging.Time("saved_at", snap.SavedAt),
	)
	return snap.Records, nil
}

// Store persists the record set with the configured TTL.
func (c *Cache) Store(ctx context.Context, records []locate.Record) error {
	raw, err := json.Marshal(snapshot{SavedAt: time.Now().UTC(), Records: records})
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to encode snapshot")
	}
	if err := c.client.Set(ctx, c.prefix+snapshotKey, raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to write snapshot")
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
