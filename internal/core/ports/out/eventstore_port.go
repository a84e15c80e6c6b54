package out

import (
	"context"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// EventStorePort - удаленное хранилище событий.
// Точная форма его эндпоинтов зависит от развертывания, поэтому адаптер
// обязан переживать несовпадение формы через цепочку запасных запросов.
type EventStorePort interface {
	// Чтение событий одной недельной корзины. offset=0 - текущая неделя,
	// from/to - границы корзины в таймзоне бизнеса.
	FetchWeekEvents(ctx context.Context, offset int, from, to time.Time) ([]domain.Event, error)

	// Мутации событий
	CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, draft domain.EventDraft) (*domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
