package redisx

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// The token check and the write must be one redis round trip: with separate
// GET and DEL/EXPIRE calls, a lease that expires in between lets this
// instance delete or extend the next holder's lock.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// Lock is a single-holder lease backed by SET NX PX. The scheduler uses it so
// only one instance runs the sweeps; the sweeps themselves stay idempotent,
// the lock only prevents the double-processing race on the database.
type Lock struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration

	token string
}

func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{Client: client, Key: key, TTL: ttl, token: uuid.NewString()}
}

// TryAcquire takes the lease if free, or extends it if this instance already
// holds it. Returns false while another holder's lease is live.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.Client.SetNX(ctx, l.Key, l.token, l.TTL).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	n, err := extendScript.Run(ctx, l.Client, []string{l.Key}, l.token, l.TTL.Milliseconds()).Int()
	if err != nil && err != redis.Nil {
		return false, err
	}
	return n == 1, nil
}

// Release drops the lease only while this instance still holds it.
func (l *Lock) Release(ctx context.Context) error {
	err := releaseScript.Run(ctx, l.Client, []string{l.Key}, l.token).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}
