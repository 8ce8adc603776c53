package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript cuenta el hit y devuelve {hits, ms restantes de la ventana}.
const fixedWindowScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local remaining = redis.call("PTTL", KEYS[1])
if remaining < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  remaining = tonumber(ARGV[1])
end
return {hits, remaining}
`

const redisLimiterTimeout = 500 * time.Millisecond

type scriptRunner interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// fixedWindowLimiter comparte la cuota entre instancias de la API.
type fixedWindowLimiter struct {
	redis  scriptRunner
	scope  string
	window time.Duration
	quota  int64
}

// NewRedisRateLimiter crea un limite de ventana fija en Redis. scope separa
// las cuotas ("rl:email:", "rl:ip:").
func NewRedisRateLimiter(client *redis.Client, scope string, window time.Duration, quota int) RateLimiter {
	if client == nil {
		return nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	if quota <= 0 {
		quota = 1
	}
	return &fixedWindowLimiter{redis: client, scope: scope, window: window, quota: int64(quota)}
}

func (l *fixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil || l.redis == nil {
		return true, 0
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false, 0
	}
	ctx, cancel := context.WithTimeout(ctx, redisLimiterTimeout)
	defer cancel()

	reply, err := l.redis.Eval(ctx, fixedWindowScript, []string{l.scope + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(reply) != 2 {
		// Redis caido no bloquea el trafico
		return true, 0
	}
	if reply[0] <= l.quota {
		return true, 0
	}
	return false, time.Duration(reply[1]) * time.Millisecond
}
