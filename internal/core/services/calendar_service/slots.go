package calendar_service

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

// GenerateWindowSlots нарезает рабочее окно дня на последовательные слоты фиксированного шага.
// Хвостовой слот, вылезающий за конец окна, отбрасывается, а не укорачивается -
// частичные слоты никогда не предлагаются. Скрытого состояния нет,
// повторный вызов с теми же аргументами дает тот же результат.
func GenerateWindowSlots(day time.Time, startHour, endHour, stepHours float64, loc *time.Location) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if stepHours <= 0 || startHour >= endHour {
		return slots
	}

	step := utils.HoursToDuration(stepHours)
	cursor := utils.HourOnDay(day, startHour, loc)
	windowEnd := utils.HourOnDay(day, endHour, loc)

	for !cursor.Add(step).After(windowEnd) {
		slots = append(slots, domain.Slot{StartTime: cursor, EndTime: cursor.Add(step)})
		cursor = cursor.Add(step)
	}

	return slots
}

// GenerateRuleSlots нарезает окно правила рабочих часов: SlotQuantity слотов
// по SlotDurationHours от начала окна. Остаток окна слотом не становится.
func GenerateRuleSlots(rule domain.WorkingHoursRule, day time.Time, loc *time.Location) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if !rule.SlotsEnabled {
		return slots
	}

	duration := utils.HoursToDuration(rule.SlotDurationHours)
	cursor := utils.HourOnDay(day, rule.StartHour, loc)
	windowEnd := utils.HourOnDay(day, rule.EndHour, loc)

	for i := 0; i < rule.SlotQuantity; i++ {
		end := cursor.Add(duration)
		// После клампа длительности производное количество может не влезать в окно
		if end.After(windowEnd) {
			break
		}
		slots = append(slots, domain.Slot{StartTime: cursor, EndTime: end})
		cursor = end
	}

	return slots
}

// FilterAvailableSlots оставляет слоты, не пересекающиеся ни с одним занятым интервалом.
// O(слоты x события), на календаре малого бизнеса обе величины - десятки.
func FilterAvailableSlots(slots []domain.Slot, busy []domain.TimeInterval) []domain.Slot {
	available := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		conflict := false
		for _, interval := range busy {
			if slot.Interval().Overlaps(interval) {
				conflict = true
				break
			}
		}
		if !conflict {
			available = append(available, slot)
		}
	}
	return available
}

// AvailableSlots возвращает свободные слоты дня для диалога бронирования.
// Пустой день - валидный пустой результат, не ошибка.
func (s *CalendarService) AvailableSlots(ctx context.Context, day time.Time) ([]domain.Slot, error) {
	dayStart := utils.StartCurrentDay(day.In(s.location))
	dayEnd := utils.StartNextDay(dayStart)

	events, err := s.EventsInRange(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("slots.available.events_fetch_failed", out.LogFields{
			"day":   dayStart.Format("2006-01-02"),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("slots.available.events_fetch_failed: %w", err)
	}

	busy := make([]domain.TimeInterval, 0, len(events))
	for _, event := range events {
		busy = append(busy, event.Interval(s.location))
	}

	slots := GenerateWindowSlots(
		dayStart,
		s.cfg.Booking.WindowStartHour,
		s.cfg.Booking.WindowEndHour,
		s.cfg.Booking.SlotStepHours,
		s.location,
	)
	available := FilterAvailableSlots(slots, busy)

	s.logger.Debug("slots.available.generated", out.LogFields{
		"day":            dayStart.Format("2006-01-02"),
		"candidateCount": len(slots),
		"availableCount": len(available),
	})

	return available, nil
}
