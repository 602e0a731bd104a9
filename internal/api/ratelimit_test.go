package api

import (
	"testing"
	"time"
)

func TestUpgradeLimiterAllowsUpToLimitThenBlocks(t *testing.T) {
	l := NewUpgradeLimiter(2, time.Minute)
	now := time.Now()
	if ok, _ := l.allow("1.2.3.4|user:1", now); !ok {
		t.Fatal("first attempt should be allowed")
	}
	if ok, _ := l.allow("1.2.3.4|user:1", now.Add(time.Second)); !ok {
		t.Fatal("second attempt within the window should be allowed")
	}
	ok, retryAfter := l.allow("1.2.3.4|user:1", now.Add(2*time.Second))
	if ok {
		t.Fatal("third attempt should exceed the limit")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected a positive retry-after hint, got %v", retryAfter)
	}
}

func TestUpgradeLimiterSlidingWindowFreesSlots(t *testing.T) {
	l := NewUpgradeLimiter(1, time.Minute)
	now := time.Now()
	if ok, _ := l.allow("1.2.3.4|user:1", now); !ok {
		t.Fatal("first attempt should be allowed")
	}
	if ok, _ := l.allow("1.2.3.4|user:1", now.Add(30*time.Second)); ok {
		t.Fatal("attempt inside the window should be blocked")
	}
	if ok, _ := l.allow("1.2.3.4|user:1", now.Add(61*time.Second)); !ok {
		t.Fatal("attempt after the window slid past should be allowed again")
	}
}

func TestUpgradeLimiterKeysIncludeClaimedIdentity(t *testing.T) {
	l := NewUpgradeLimiter(1, time.Minute)
	now := time.Now()
	if ok, _ := l.allow("1.2.3.4|user:1", now); !ok {
		t.Fatal("first identity should be allowed")
	}
	if ok, _ := l.allow("1.2.3.4|user:2", now); !ok {
		t.Fatal("a different claimed identity from the same IP gets its own window")
	}
	if ok, _ := l.allow("5.6.7.8|user:1", now); !ok {
		t.Fatal("the same identity from a different IP gets its own window")
	}
}

func TestUpgradeLimiterPrunesExpiredKeys(t *testing.T) {
	l := NewUpgradeLimiter(1, time.Minute)
	now := time.Now()
	l.allow("1.2.3.4|user:1", now)
	l.allow("5.6.7.8|user:2", now.Add(2*time.Minute))

	l.mu.Lock()
	_, stale := l.attempts["1.2.3.4|user:1"]
	l.mu.Unlock()
	if stale {
		t.Fatal("expected the fully expired key to be pruned")
	}
}
