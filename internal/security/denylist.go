package security

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked session tokens until their natural expiry.
// Sessions stay stateless on the happy path; the denylist exists so logout
// actually invalidates a token instead of only clearing the cookie. A nil
// *Denylist is valid and revokes nothing.
type Denylist struct {
	client *redis.Client
}

// NewDenylist returns nil when no redis client is configured.
func NewDenylist(client *redis.Client) *Denylist {
	if client == nil {
		return nil
	}
	return &Denylist{client: client}
}

const denylistKeyPrefix = "session:revoked:"

// Revoke marks the token's jti as revoked for the remainder of its lifetime.
// Already-expired tokens are ignored.
func (d *Denylist) Revoke(ctx context.Context, claims *SessionClaims) error {
	if d == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKeyPrefix+claims.ID, 1, ttl).Err()
}

// IsRevoked reports whether the jti has been revoked. Lookup failures are
// returned so the caller can decide; they are not treated as revocation.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if d == nil || jti == "" {
		return false, nil
	}
	_, err := d.client.Get(ctx, denylistKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
