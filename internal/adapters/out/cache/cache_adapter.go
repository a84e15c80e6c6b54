package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

type weekEventsEntry struct {
	Events []domain.Event
	// Поколение пространства "events" на момент сохранения
	Generation uint64
}

type weekMetricsEntry struct {
	Metrics   domain.WeekMetrics
	Timestamp time.Time
}

// CacheAdapter - сквозной кэш недельных корзин на LRU.
// Два пространства ключей: "events" и "metrics". Инвалидация всегда по
// пространству целиком и увеличивает поколение, поэтому запрос, начатый
// до инвалидации, не может записать устаревшие данные поверх свежих.
type CacheAdapter struct {
	events  *lru.Cache[int, *weekEventsEntry]
	metrics *lru.Cache[int, *weekMetricsEntry]

	// Инвалидация идемпотентна: повторный сброс только двигает поколение дальше
	generation uint64

	metricsTTL time.Duration
	mu         sync.RWMutex
	logger     out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	eventsCache, err := lru.New[int, *weekEventsEntry](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.events.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	metricsCache, err := lru.New[int, *weekMetricsEntry](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.metrics.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		events:     eventsCache,
		metrics:    metricsCache,
		metricsTTL: 30 * time.Minute,
		logger:     logger.WithModule("CacheAdapter"),
	}, nil
}

// Пространство "events"

func (c *CacheAdapter) GetWeekEvents(ctx context.Context, offset int) ([]domain.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.events.Get(offset)
	if !exists {
		c.logger.Debug("cache.events.get.miss", out.LogFields{
			"offset": offset,
		})
		return nil, false
	}

	c.logger.Debug("cache.events.get.hit", out.LogFields{
		"offset":      offset,
		"eventsCount": len(entry.Events),
	})
	return entry.Events, true
}

// BeginWeekFetch снимает текущее поколение перед сетевым запросом.
func (c *CacheAdapter) BeginWeekFetch(ctx context.Context, offset int) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generation
}

// StoreWeekEvents сохраняет корзину, если за время запроса не было инвалидации.
// Обогнанный запрос молча отбрасывается - следующая отрисовка перечитает.
func (c *CacheAdapter) StoreWeekEvents(ctx context.Context, offset int, generation uint64, events []domain.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.logger.Debug("cache.events.store.superseded", out.LogFields{
			"offset":            offset,
			"fetchGeneration":   generation,
			"currentGeneration": c.generation,
		})
		return false
	}

	c.events.Add(offset, &weekEventsEntry{
		Events:     events,
		Generation: generation,
	})

	c.logger.Debug("cache.events.store", out.LogFields{
		"offset":      offset,
		"eventsCount": len(events),
	})
	return true
}

func (c *CacheAdapter) InvalidateEvents(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events.Purge()
	c.generation++

	c.logger.Debug("cache.events.invalidated", out.LogFields{
		"generation": c.generation,
	})
}

// Пространство "metrics"

func (c *CacheAdapter) GetWeekMetrics(ctx context.Context, offset int) (*domain.WeekMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.metrics.Get(offset)
	if !exists {
		return nil, false
	}

	if time.Since(entry.Timestamp) > c.metricsTTL {
		return nil, false
	}

	metrics := entry.Metrics
	return &metrics, true
}

func (c *CacheAdapter) StoreWeekMetrics(ctx context.Context, offset int, metrics domain.WeekMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.Add(offset, &weekMetricsEntry{
		Metrics:   metrics,
		Timestamp: time.Now(),
	})
}

func (c *CacheAdapter) InvalidateMetrics(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.Purge()
}
