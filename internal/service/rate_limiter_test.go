package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockScriptRunner struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	hits       int64
	remaining  int64
	err        error
}

func (m *mockScriptRunner) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal([]interface{}{m.hits, m.remaining})
	return cmd
}

func TestFixedWindowLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *fixedWindowLimiter
		if ok, _ := l.Allow(ctx, "user@example.com"); !ok {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &fixedWindowLimiter{redis: &mockScriptRunner{hits: 1}, window: time.Minute, quota: 3, scope: "rl:email:"}
		if ok, _ := l.Allow(ctx, "   "); ok {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow within quota", func(t *testing.T) {
		runner := &mockScriptRunner{hits: 3, remaining: 400000}
		l := &fixedWindowLimiter{redis: runner, window: 10 * time.Minute, quota: 3, scope: "rl:email:"}
		ok, wait := l.Allow(ctx, " User@Example.com ")
		if !ok || wait != 0 {
			t.Fatalf("expected allow without wait, got %v %v", ok, wait)
		}
		if len(runner.lastKeys) != 1 || runner.lastKeys[0] != "rl:email:user@example.com" {
			t.Fatalf("unexpected key normalization, got %+v", runner.lastKeys)
		}
		if len(runner.lastArgs) != 1 || runner.lastArgs[0] != int64(600000) {
			t.Fatalf("expected window in milliseconds, got %+v", runner.lastArgs)
		}
		if runner.lastScript != fixedWindowScript {
			t.Fatalf("expected fixed window script")
		}
	})

	t.Run("deny over quota with remaining window", func(t *testing.T) {
		l := &fixedWindowLimiter{redis: &mockScriptRunner{hits: 4, remaining: 42000}, window: time.Minute, quota: 3, scope: "rl:ip:"}
		ok, wait := l.Allow(ctx, "10.0.0.1")
		if ok {
			t.Fatalf("expected deny when hits exceed quota")
		}
		if wait != 42*time.Second {
			t.Fatalf("expected 42s retry-after, got %v", wait)
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &fixedWindowLimiter{redis: &mockScriptRunner{err: errors.New("redis down")}, window: time.Minute, quota: 3}
		if ok, _ := l.Allow(ctx, "user@example.com"); !ok {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestMemoryRateLimiter_Window(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(10*time.Minute, 3).(*memoryRateLimiter)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow(ctx, "a@x.com"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	now = now.Add(4 * time.Minute)
	ok, wait := l.Allow(ctx, "A@X.com")
	if ok {
		t.Fatalf("fourth attempt should be limited")
	}
	if wait != 6*time.Minute {
		t.Fatalf("expected 6m until the oldest hit leaves the window, got %v", wait)
	}
	if ok, _ := l.Allow(ctx, "b@x.com"); !ok {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(7 * time.Minute)
	if ok, _ := l.Allow(ctx, "a@x.com"); !ok {
		t.Fatalf("window should have slid")
	}
}

func TestMemoryRateLimiter_DropsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(15*time.Minute, 100).(*memoryRateLimiter)
	l.now = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		l.Allow(ctx, fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	if len(l.hits) != 10000 {
		t.Fatalf("expected 10000 tracked keys, got %d", len(l.hits))
	}

	now = now.Add(time.Hour)
	if ok, _ := l.Allow(ctx, "198.51.100.1"); !ok {
		t.Fatalf("fresh key should pass")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expired keys should be dropped, %d remain", len(l.hits))
	}
}
