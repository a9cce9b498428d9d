package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Azi77ry/personal-App/logger"
)

// RevocationList records logged-out session tokens in redis until they
// expire on their own. With no redis client configured every method is a
// no-op: logout degrades to client-side token disposal.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// NewRevocationListFromURL connects to redis when a URL is configured.
// Connection failures disable revocation rather than blocking startup.
func NewRevocationListFromURL(ctx context.Context, redisURL string) *RevocationList {
	if redisURL == "" {
		return &RevocationList{}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Get().Warn("invalid REDIS_URL, token revocation disabled", zap.Error(err))
		return &RevocationList{}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Get().Warn("redis unreachable, token revocation disabled", zap.Error(err))
		return &RevocationList{}
	}
	return &RevocationList{client: client}
}

func (r *RevocationList) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, "revoked:"+token, "1", ttl).Err()
}

func (r *RevocationList) IsRevoked(ctx context.Context, token string) bool {
	if r.client == nil {
		return false
	}
	n, err := r.client.Exists(ctx, "revoked:"+token).Result()
	if err != nil {
		logger.Get().Warn("revocation check failed", zap.Error(err))
		return false
	}
	return n > 0
}
