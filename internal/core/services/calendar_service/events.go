package calendar_service

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

// fetchWeek читает одну недельную корзину через сквозной кэш.
func (s *CalendarService) fetchWeek(ctx context.Context, offset int) ([]domain.Event, error) {
	if s.cacheEnabled() {
		if events, exists := s.cachePort.GetWeekEvents(ctx, offset); exists {
			s.logger.Debug("events.week.cache.hit", out.LogFields{
				"offset":      offset,
				"eventsCount": len(events),
			})
			return events, nil
		}
	}

	s.logger.Debug("events.week.cache.miss", out.LogFields{
		"offset": offset,
	})

	// Снимаем поколение до запроса: если за время запроса кэш инвалидировали,
	// результат не сохранится и не затрет более свежие данные
	var generation uint64
	if s.cacheEnabled() {
		generation = s.cachePort.BeginWeekFetch(ctx, offset)
	}

	from := utils.AddWeeks(utils.StartOfWeek(s.now()), offset)
	to := utils.AddWeeks(from, 1)

	events, err := s.storePort.FetchWeekEvents(ctx, offset, from, to)
	if err != nil {
		s.logger.Error("events.week.fetch_failed", out.LogFields{
			"offset": offset,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("events.week.fetch_failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cachePort.StoreWeekEvents(ctx, offset, generation, events)
	}

	return events, nil
}

// EventsInRange возвращает события, пересекающие [from, to).
// Диапазон раскладывается на недельные корзины от воскресенья,
// каждая корзина читается отдельно, затем результат фильтруется
// точным пересечением - так частичные недели отдаются точно,
// хотя запросы идут с недельной гранулярностью.
func (s *CalendarService) EventsInRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if !from.Before(to) {
		return []domain.Event{}, nil
	}

	from = from.In(s.location)
	to = to.In(s.location)
	current := s.now()

	startOffset := utils.WeekOffset(current, from)
	// Правая граница исключена: неделя, начинающаяся ровно в to, не нужна
	endOffset := utils.WeekOffset(current, to.Add(-time.Second))

	var all []domain.Event
	for offset := startOffset; offset <= endOffset; offset++ {
		events, err := s.fetchWeek(ctx, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}

	requested := domain.TimeInterval{Start: from, End: to}
	filtered := make([]domain.Event, 0, len(all))
	for _, event := range all {
		if event.Interval(s.location).Overlaps(requested) {
			filtered = append(filtered, event)
		}
	}

	return EventSlice(filtered).quickSort(), nil
}

// WeekView собирает недельную сетку: события недели, разложенные по дням
// с колонками и геометрией.
func (s *CalendarService) WeekView(ctx context.Context, offset int) (*in.WeekView, error) {
	weekStart := utils.AddWeeks(utils.StartOfWeek(s.now()), offset)
	weekEnd := utils.AddWeeks(weekStart, 1)

	events, err := s.EventsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	view := &in.WeekView{
		Offset: offset,
		Start:  weekStart,
		End:    weekEnd,
		Days:   make([]in.WeekViewDay, 0, 7),
	}

	day := weekStart
	for i := 0; i < 7; i++ {
		nextDay := utils.StartNextDay(day)
		dayInterval := domain.TimeInterval{Start: day, End: nextDay}

		dayEvents := make([]domain.Event, 0)
		for _, event := range events {
			if event.Interval(s.location).Overlaps(dayInterval) {
				dayEvents = append(dayEvents, event)
			}
		}

		layout := LayoutDay(dayEvents, s.location)
		boxes := make([]domain.LayoutBox, 0, len(layout))
		for _, slot := range layout {
			boxes = append(boxes, LayoutBoxFor(slot, day, s.cfg.Layout.PixelsPerHour, s.cfg.Layout.MinVisualMinutes, s.location))
		}

		view.Days = append(view.Days, in.WeekViewDay{
			Day:    day,
			Events: layout,
			Boxes:  boxes,
		})
		day = nextDay
	}

	return view, nil
}

// CreateEvent создает событие в удаленном хранилище и инвалидирует кэш.
func (s *CalendarService) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	// Невалидный интервал отклоняется до сети
	if !draft.Valid() {
		return nil, ErrInvalidEventInterval
	}

	event, err := s.storePort.CreateEvent(ctx, draft)
	if err != nil {
		s.logger.Error("events.create.failed", out.LogFields{
			"title": draft.Title,
			"error": err.Error(),
		})
		return nil, err
	}

	s.invalidateAfterMutation(ctx, "create")
	return event, nil
}

// UpdateEvent обновляет событие и инвалидирует кэш.
func (s *CalendarService) UpdateEvent(ctx context.Context, eventID string, draft domain.EventDraft) (*domain.Event, error) {
	if !draft.Valid() {
		return nil, ErrInvalidEventInterval
	}

	event, err := s.storePort.UpdateEvent(ctx, eventID, draft)
	if err != nil {
		s.logger.Error("events.update.failed", out.LogFields{
			"eventId": eventID,
			"error":   err.Error(),
		})
		return nil, err
	}

	s.invalidateAfterMutation(ctx, "update")
	return event, nil
}

// DeleteEvent удаляет событие и инвалидирует кэш.
func (s *CalendarService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.storePort.DeleteEvent(ctx, eventID); err != nil {
		s.logger.Error("events.delete.failed", out.LogFields{
			"eventId": eventID,
			"error":   err.Error(),
		})
		return err
	}

	s.invalidateAfterMutation(ctx, "delete")
	return nil
}

// invalidateAfterMutation сбрасывает оба пространства кэша целиком.
// Дешевле перечитать недели, чем рисковать расхождением кэша с сервером
// после обновления, задевшего несколько корзин.
func (s *CalendarService) invalidateAfterMutation(ctx context.Context, action string) {
	if !s.cacheEnabled() {
		return
	}

	s.cachePort.InvalidateEvents(ctx)
	s.cachePort.InvalidateMetrics(ctx)

	s.logger.Debug("events.cache.invalidated", out.LogFields{
		"action": action,
	})
}

// InvalidateEventsCache - инвалидация по внешнему сигналу (слушатель очереди).
func (s *CalendarService) InvalidateEventsCache(ctx context.Context) {
	s.invalidateAfterMutation(ctx, "external")
}

// WeekMetrics считает загрузку недели: часы броней против недельной емкости
// набора рабочих часов. Результат кэшируется в пространстве "metrics".
func (s *CalendarService) WeekMetrics(ctx context.Context, offset int) (*domain.WeekMetrics, error) {
	if s.cacheEnabled() {
		if metrics, exists := s.cachePort.GetWeekMetrics(ctx, offset); exists {
			s.logger.Debug("metrics.week.cache.hit", out.LogFields{
				"offset": offset,
			})
			return metrics, nil
		}
	}

	weekStart := utils.AddWeeks(utils.StartOfWeek(s.now()), offset)
	weekEnd := utils.AddWeeks(weekStart, 1)

	events, err := s.EventsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("metrics.week.events_fetch_failed: %w", err)
	}

	var bookedHours float64
	for _, event := range events {
		bookedHours += event.Interval(s.location).Duration().Hours()
	}

	metrics := domain.WeekMetrics{
		Offset:        offset,
		EventCount:    len(events),
		BookedHours:   bookedHours,
		CapacityHours: s.ruleSet.WeeklyCapacityHours(),
	}
	if metrics.CapacityHours > 0 {
		metrics.Utilization = metrics.BookedHours / metrics.CapacityHours
	}

	if s.cacheEnabled() {
		s.cachePort.StoreWeekMetrics(ctx, offset, metrics)
	}

	return &metrics, nil
}
