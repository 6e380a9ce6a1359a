package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	return NewLimiter(max, window, logger.NewNop()).WithClock(clock), clock
}

func TestLimiter_Boundary(t *testing.T) {
	l, clock := newLimiter(30, 60*time.Second)

	for i := 1; i <= 30; i++ {
		assert.True(t, l.Hit(domain.PlatformMessenger, "user"), "hit %d", i)
		clock.Advance(time.Second)
	}
	assert.False(t, l.Hit(domain.PlatformMessenger, "user"), "31st hit within window must be rejected")

	// Окно началось с первого запроса; через 60 секунд от него начинается новое
	clock.Advance(30 * time.Second)
	assert.True(t, l.Hit(domain.PlatformMessenger, "user"), "first hit of a new window must be accepted")
}

func TestLimiter_RejectedHitsAreCounted(t *testing.T) {
	l, clock := newLimiter(2, time.Minute)

	assert.True(t, l.Hit(domain.PlatformTelegram, "1"))
	assert.True(t, l.Hit(domain.PlatformTelegram, "1"))
	assert.False(t, l.Hit(domain.PlatformTelegram, "1"))
	assert.False(t, l.Hit(domain.PlatformTelegram, "1"))

	clock.Advance(59 * time.Second)
	assert.False(t, l.Hit(domain.PlatformTelegram, "1"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newLimiter(1, time.Minute)

	assert.True(t, l.Hit(domain.PlatformMessenger, "same"))
	assert.False(t, l.Hit(domain.PlatformMessenger, "same"))

	assert.True(t, l.Hit(domain.PlatformTelegram, "same"))
	assert.True(t, l.Hit(domain.PlatformMessenger, "other"))
}

func TestLimiter_Evict(t *testing.T) {
	l, clock := newLimiter(5, time.Minute)

	l.Hit(domain.PlatformMessenger, "old")
	clock.Advance(45 * time.Second)
	l.Hit(domain.PlatformMessenger, "fresh")
	clock.Advance(20 * time.Second)

	assert.Equal(t, 1, l.Evict(clock.Now()))
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_ConcurrentHitsAreNotUnderCounted(t *testing.T) {
	l, _ := newLimiter(50, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Hit(domain.PlatformTelegram, "burst") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(0, 0, logger.NewNop())

	assert.Equal(t, domain.DefaultRateLimitMaxRequests, l.maxRequests)
	assert.Equal(t, time.Minute, l.window)
}
