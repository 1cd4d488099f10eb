package utils

import (
	"context"
	"sync"
	"time"
)

const stateKeyPrefix = "oauth:state:"

type stateEntry struct {
	expiresAt time.Time
}

var (
	stateStore   = map[string]stateEntry{}
	stateStoreMu sync.Mutex
)

// SaveState stores an OAuth state token with TTL to mitigate CSRF. Redis is
// preferred so every instance behind a balancer can consume the state; when
// the write fails the token is kept in process memory so single-instance
// logins keep working through a Redis outage.
func SaveState(state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := GetRedis().Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err == nil {
		return
	}

	stateStoreMu.Lock()
	stateStore[state] = stateEntry{expiresAt: time.Now().Add(ttl)}
	stateStoreMu.Unlock()
}

// ConsumeState validates and removes a state token. A token is single use:
// the first consumption wins, from Redis or from the in-memory store.
func ConsumeState(state string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if v, err := GetRedis().GetDel(ctx, stateKeyPrefix+state).Result(); err == nil && v != "" {
		return true
	}

	// Not in Redis, or Redis unreachable; the token may have been saved
	// in memory during an outage.
	stateStoreMu.Lock()
	entry, ok := stateStore[state]
	if ok {
		delete(stateStore, state)
	}
	stateStoreMu.Unlock()

	return ok && time.Now().Before(entry.expiresAt)
}
