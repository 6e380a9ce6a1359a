package ratelimit

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

type key struct {
	platform domain.Platform
	userID   string
}

type window struct {
	count int
	start time.Time
}

// Limiter счетчик запросов с фиксированным окном на пару (платформа, пользователь)
// Состояние хранится только в памяти процесса
type Limiter struct {
	maxRequests int
	window      time.Duration
	clock       TimeProvider
	logger      Logger

	mu      sync.Mutex
	entries map[key]*window
}

// NewLimiter создает лимитер: не более maxRequests попаданий за окно
func NewLimiter(maxRequests int, windowDuration time.Duration, logger Logger) *Limiter {
	if maxRequests < 1 {
		maxRequests = domain.DefaultRateLimitMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = domain.DefaultRateLimitWindowSeconds * time.Second
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      windowDuration,
		clock:       &RealTimeProvider{},
		logger:      logger,
		entries:     make(map[key]*window),
	}
}

// WithClock подменяет источник времени
func (l *Limiter) WithClock(clock TimeProvider) *Limiter {
	l.clock = clock
	return l
}

// Hit учитывает запрос и сообщает, разрешен ли он
// Отклоненный запрос тоже учитывается в счетчике окна
func (l *Limiter) Hit(platform domain.Platform, userID string) bool {
	now := l.clock.Now()
	k := key{platform: platform, userID: userID}

	l.mu.Lock()
	entry, ok := l.entries[k]
	if !ok || now.Sub(entry.start) >= l.window {
		entry = &window{start: now}
		l.entries[k] = entry
	}
	entry.count++
	count := entry.count
	l.mu.Unlock()

	if count > l.maxRequests {
		l.logger.Warn("RateLimit: limit exceeded platform=%s user=%s count=%d max=%d",
			platform, userID, count, l.maxRequests)
		return false
	}
	return true
}

// Evict удаляет записи, окно которых уже истекло, и возвращает их число
func (l *Limiter) Evict(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, entry := range l.entries {
		if now.Sub(entry.start) >= l.window {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Len возвращает количество отслеживаемых ключей
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartEviction периодически чистит устаревшие записи до закрытия stopCh
func (l *Limiter) StartEviction(interval time.Duration, stopCh <-chan struct{}) {
	if interval <= 0 {
		interval = l.window
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if removed := l.Evict(l.clock.Now()); removed > 0 {
					l.logger.Info("RateLimit: evicted %d stale entries", removed)
				}
			}
		}
	}()
}
