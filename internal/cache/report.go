// internal/cache/report.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sellerops/profitkpi/internal/config"
	"github.com/sellerops/profitkpi/internal/domain"
)

const (
	reportKeyPrefix  = "report:aggregate"
	scanBatchSize    = 100
	defaultReportTTL = 5 * time.Minute
)

// ReportCache stores monthly aggregates keyed by period and input digest, so
// re-uploading the same workbook for the same month skips recomputation.
type ReportCache interface {
	GetAggregate(ctx context.Context, month, year int, digest string) (*domain.Aggregate, bool, error)
	SetAggregate(ctx context.Context, digest string, agg *domain.Aggregate) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

// Digest fingerprints the uploaded workbook bytes for the cache key.
func Digest(payload []byte) string {
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}

func (c *redisReportCache) GetAggregate(ctx context.Context, month, year int, digest string) (*domain.Aggregate, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(month, year, digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var agg domain.Aggregate
	if err := json.Unmarshal(payload, &agg); err != nil {
		return nil, false, fmt.Errorf("decode aggregate cache: %w", err)
	}
	return &agg, true, nil
}

func (c *redisReportCache) SetAggregate(ctx context.Context, digest string, agg *domain.Aggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode aggregate cache: %w", err)
	}
	key := reportKey(agg.Month, agg.Year, digest)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, reportKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (n *noopReportCache) GetAggregate(ctx context.Context, month, year int, digest string) (*domain.Aggregate, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetAggregate(ctx context.Context, digest string, agg *domain.Aggregate) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func reportKey(month, year int, digest string) string {
	return fmt.Sprintf("%s:%d:%02d:%s", reportKeyPrefix, year, month, digest)
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
