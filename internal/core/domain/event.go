package domain

import (
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/json_types"
)

// Event - забронированная встреча. Владелец данных - удаленное хранилище,
// здесь только прочитанная копия.
type Event struct {
	ID        string              `json:"id"`
	ClientID  string              `json:"clientId,omitempty"`
	Title     string              `json:"title"`
	StartDate json_types.DateTime `json:"start"`
	EndDate   json_types.DateTime `json:"end"`
	Notes     string              `json:"notes,omitempty"`
}

// Interval возвращает занятый интервал события в таймзоне бизнеса.
func (e Event) Interval(loc *time.Location) TimeInterval {
	return TimeInterval{
		Start: e.StartDate.Date.In(loc),
		End:   e.EndDate.Date.In(loc),
	}
}

// EventDraft - полезная нагрузка create/update, идентификатор назначает хранилище.
type EventDraft struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ClientID string    `json:"clientId,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Valid проверяет инвариант start < end.
func (d EventDraft) Valid() bool {
	return d.Start.Before(d.End)
}

// WeekMetrics - метрики загрузки недели для дашборда.
// Производные от событий и набора рабочих часов, кэшируются в пространстве "metrics".
type WeekMetrics struct {
	Offset        int     `json:"offset"`
	EventCount    int     `json:"eventCount"`
	BookedHours   float64 `json:"bookedHours"`
	CapacityHours float64 `json:"capacityHours"`
	Utilization   float64 `json:"utilization"`
}
