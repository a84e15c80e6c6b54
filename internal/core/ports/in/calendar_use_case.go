package in

import (
	"context"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// WeekViewDay - один день недельной сетки с разложенными по колонкам событиями.
type WeekViewDay struct {
	Day    time.Time           `json:"day"`
	Events []domain.LayoutSlot `json:"events"`
	Boxes  []domain.LayoutBox  `json:"boxes"`
}

// WeekView - готовая к рендеру неделя.
type WeekView struct {
	Offset int           `json:"offset"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Days   []WeekViewDay `json:"days"`
}

type CalendarUseCase interface {
	// Недельная сетка с раскладкой
	WeekView(ctx context.Context, offset int) (*WeekView, error)

	// События, пересекающие диапазон [from, to)
	EventsInRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)

	// Свободные слоты дня для диалога бронирования (фиксированное окно)
	AvailableSlots(ctx context.Context, day time.Time) ([]domain.Slot, error)

	// Мутации событий, успешная мутация инвалидирует кэш
	CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, draft domain.EventDraft) (*domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error

	// Метрики загрузки недели
	WeekMetrics(ctx context.Context, offset int) (*domain.WeekMetrics, error)

	// Инвалидация кэша по внешнему сигналу (сообщение об изменении событий)
	InvalidateEventsCache(ctx context.Context)
}
