package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// buildKey scopes a lock to one browser session and one route.
func buildKey(method, route, sessionID string) string {
	return "inflight:" + sessionID + ":" + strings.ToLower(method) + ":" + route
}

// ---- Redis helpers ----

func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry lockEntry, ttl time.Duration) (bool, error) {
	payload, _ := json.Marshal(entry)
	return rdb.SetNX(ctx, key, payload, ttl).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (lockEntry, error) {
	var e lockEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	_ = json.Unmarshal(v, &e)
	return e, nil
}

// releaseScript deletes the lock only while it still holds our payload, so
// a lock that expired and was re-taken by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func release(ctx context.Context, rdb *redis.Client, key string, entry lockEntry) error {
	payload, _ := json.Marshal(entry)
	return releaseScript.Run(ctx, rdb, []string{key}, string(payload)).Err()
}
