// Package dedupe backs the employee domain's CreateEmployeeContext
// existence check with a Redis SETNX cache, mirroring the plain
// *redis.Client field injection pattern in the teacher's registry package.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goa.design/cq-runtime/domain/employee"
)

// Cache reports and records employee-name existence through Redis SETNX,
// so a concurrent onboarding dispatch for the same name never races past
// the CONTEXT actor's duplicate check.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Compile-time check that Cache implements employee.ExistenceChecker.
var _ employee.ExistenceChecker = (*Cache)(nil)

// New returns a Cache backed by rdb, marking a recorded name as
// provisionally claimed for ttl (zero means no expiry).
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Exists reports whether firstName/lastName was already claimed, claiming
// it as a side effect when it was not: the SETNX call itself is the
// existence check, so a concurrent first call for the same name always
// wins and every later call (concurrent or not) reports a duplicate.
func (c *Cache) Exists(ctx context.Context, firstName, lastName string) (bool, error) {
	key := dedupeKey(firstName, lastName)
	ok, err := c.rdb.SetNX(ctx, key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %q: %w", key, err)
	}
	return !ok, nil
}

// Forget releases a previously claimed name, used to compensate a failed
// onboarding dispatch so the name can be retried.
func (c *Cache) Forget(ctx context.Context, firstName, lastName string) error {
	key := dedupeKey(firstName, lastName)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func dedupeKey(firstName, lastName string) string {
	return fmt.Sprintf("employee:exists:%s:%s", firstName, lastName)
}
