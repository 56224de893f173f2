// internal/hostmap/redis.go
//
// Redis-backed mapping store.
//
// Keys are namespaced `hostmap:{hostname}`.  Entries carry no TTL; they
// live until a domain change or removal deletes them.  All failures are
// swallowed into the Store's best-effort contract: lookups degrade to ""
// and writes report false, with a WARN log and a Prometheus counter so a
// broken Redis shows up on a dashboard rather than in user traffic.
package hostmap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/metrics"
)

const keyPrefix = "hostmap:"

// opTimeout bounds each Redis round trip so a hung server cannot stall the
// edge path.
const opTimeout = 250 * time.Millisecond

// Redis implements Store on top of a go-redis client.
type Redis struct {
	cli *redis.Client
}

// NewRedis wraps an already-connected client.
func NewRedis(cli *redis.Client) *Redis { return &Redis{cli: cli} }

// Connect parses a redis:// URL, pings the server, and returns a Redis
// store.  Used at bootstrap; failures here are fatal because the operator
// explicitly configured a Redis URL.
func Connect(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	zap.S().Infow("hostmap redis ready", "addr", opts.Addr)
	return &Redis{cli: cli}, nil
}

func (s *Redis) Lookup(ctx context.Context, host string) string {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	slug, err := s.cli.Get(ctx, keyPrefix+host).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("hostmap lookup failed",
				zap.String("host", host), zap.Error(err))
		}
		return ""
	}
	return slug
}

func (s *Redis) Upsert(ctx context.Context, host, slug string) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.cli.Set(ctx, keyPrefix+host, slug, 0).Err(); err != nil {
		zap.L().Warn("hostmap upsert failed",
			zap.String("host", host), zap.String("slug", slug), zap.Error(err))
		metrics.HostmapWriteFailures.Inc()
		return false
	}
	return true
}

func (s *Redis) Delete(ctx context.Context, host string) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.cli.Del(ctx, keyPrefix+host).Err(); err != nil {
		zap.L().Warn("hostmap delete failed",
			zap.String("host", host), zap.Error(err))
		metrics.HostmapWriteFailures.Inc()
		return false
	}
	return true
}
