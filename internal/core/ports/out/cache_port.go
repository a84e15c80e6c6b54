package out

import (
	"context"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// CachePort - сквозной кэш недельных корзин. Два пространства ключей:
// "events" и "metrics", инвалидация всегда целиком по пространству -
// хирургическое патчирование отдельных диапазонов не делаем, чтобы кэш
// не разъехался с сервером после частичного обновления.
type CachePort interface {
	// Кэширование событий по смещению недели
	GetWeekEvents(ctx context.Context, offset int) ([]domain.Event, bool)
	// BeginWeekFetch снимает поколение перед сетевым запросом;
	// StoreWeekEvents с устаревшим поколением молча отбрасывается,
	// чтобы обогнанный запрос не затер более свежие данные.
	BeginWeekFetch(ctx context.Context, offset int) uint64
	StoreWeekEvents(ctx context.Context, offset int, generation uint64, events []domain.Event) bool
	InvalidateEvents(ctx context.Context)

	// Кэширование метрик недели
	GetWeekMetrics(ctx context.Context, offset int) (*domain.WeekMetrics, bool)
	StoreWeekMetrics(ctx context.Context, offset int, metrics domain.WeekMetrics)
	InvalidateMetrics(ctx context.Context)
}
