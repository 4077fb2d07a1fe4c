package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked tokens in Redis until their natural expiry. A
// denylisted token turns every backend call into a 401, which is what
// drives the terminal's auth-expiry signal.
type Denylist struct {
	client *redis.Client
}

// NewDenylist builds a denylist on the given client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks a token revoked for ttl.
func (d *Denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return d.client.Set(ctx, d.key(token), "1", ttl).Err()
}

// IsRevoked reports whether the token has been revoked. Redis errors fail
// open so an unreachable denylist does not lock every terminal out.
func (d *Denylist) IsRevoked(ctx context.Context, token string) bool {
	exists, err := d.client.Exists(ctx, d.key(token)).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

func (d *Denylist) key(token string) string {
	return fmt.Sprintf("denylist:%s", token)
}
