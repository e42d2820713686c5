package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs so that a logged-out session
// token stops working before its signed expiry. Entries live exactly as
// long as the token they revoke.
type TokenDenylist struct {
	Redis *redis.Client
}

func (d *TokenDenylist) key(jti string) string {
	return "revoked_token:" + jti
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// Token already expired, nothing to revoke.
		return nil
	}
	return d.Redis.Set(ctx, d.key(jti), "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := d.Redis.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}
