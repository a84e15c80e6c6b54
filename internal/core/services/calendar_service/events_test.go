package calendar_service

import (
	"context"
	"errors"
	"testing"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

func TestEventsInRangeWeekDecomposition(t *testing.T) {
	store := &fakeEventStore{
		events: []domain.Event{
			// До начала диапазона, прилетит в корзине недели 0, но отфильтруется
			testEvent("before", "Old booking", at(15, 9), at(15, 10)),
			testEvent("w0", "Tuesday evening", at(16, 18), at(16, 19)),
			testEvent("w1", "Next week", at(23, 10), at(23, 11)),
			testEvent("w2", "Week after", at(29, 10), at(29, 11)),
			// Внутри корзины недели 2, но после конца диапазона
			testEvent("after", "Too late", at(31, 9), at(31, 10)),
		},
	}
	service := newTestService(t, store, nil)

	from := at(16, 0)
	to := at(30, 0)
	events, err := service.EventsInRange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Диапазон накрывает три недельных корзины
	wantCalls := []int{0, 1, 2}
	if len(store.weekCalls) != len(wantCalls) {
		t.Fatalf("week calls = %v, want %v", store.weekCalls, wantCalls)
	}
	for i, offset := range wantCalls {
		if store.weekCalls[i] != offset {
			t.Fatalf("week calls = %v, want %v", store.weekCalls, wantCalls)
		}
	}

	wantIDs := []string{"w0", "w1", "w2"}
	if len(events) != len(wantIDs) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(wantIDs), events)
	}
	for i, id := range wantIDs {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %s, want %s", i, events[i].ID, id)
		}
	}
}

func TestEventsInRangeEmptyRange(t *testing.T) {
	store := &fakeEventStore{}
	service := newTestService(t, store, nil)

	events, err := service.EventsInRange(context.Background(), at(16, 0), at(16, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
	if len(store.weekCalls) != 0 {
		t.Errorf("empty range must not hit the store, got calls %v", store.weekCalls)
	}
}

func TestEventsInRangeSortedByStart(t *testing.T) {
	store := &fakeEventStore{
		events: []domain.Event{
			testEvent("late", "Late", at(15, 15), at(15, 16)),
			testEvent("early", "Early", at(15, 9), at(15, 10)),
			testEvent("mid", "Mid", at(15, 12), at(15, 13)),
		},
	}
	service := newTestService(t, store, nil)

	events, err := service.EventsInRange(context.Background(), at(15, 0), at(16, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(events); i++ {
		if events[i].StartDate.Date.Before(events[i-1].StartDate.Date) {
			t.Errorf("events out of order at %d: %v after %v", i, events[i].StartDate.Date, events[i-1].StartDate.Date)
		}
	}
}

func TestEventsInRangeCacheHit(t *testing.T) {
	store := &fakeEventStore{}
	cache := newFakeCache()
	cache.weeks[0] = []domain.Event{
		testEvent("cached", "Cached booking", at(16, 10), at(16, 11)),
	}
	service := newTestService(t, store, cache)

	events, err := service.EventsInRange(context.Background(), at(14, 0), at(21, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].ID != "cached" {
		t.Fatalf("got %v, want the cached event", events)
	}
	if len(store.weekCalls) != 0 {
		t.Errorf("cache hit must not hit the store, got calls %v", store.weekCalls)
	}
}

func TestEventsInRangePopulatesCache(t *testing.T) {
	store := &fakeEventStore{
		events: []domain.Event{
			testEvent("1", "Booking", at(16, 10), at(16, 11)),
		},
	}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	if _, err := service.EventsInRange(context.Background(), at(14, 0), at(21, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, exists := cache.weeks[0]; !exists {
		t.Error("fetched week must be stored in cache")
	}

	// Повторное чтение идет из кэша
	if _, err := service.EventsInRange(context.Background(), at(14, 0), at(21, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.weekCalls) != 1 {
		t.Errorf("store calls = %v, want a single call", store.weekCalls)
	}
}

func TestStaleFetchResultNotCached(t *testing.T) {
	cache := newFakeCache()
	store := &fakeEventStore{
		events: []domain.Event{
			testEvent("1", "Booking", at(16, 10), at(16, 11)),
		},
		// Инвалидация прилетает, пока сетевой запрос в полете
		onFetch: func() {
			cache.InvalidateEvents(context.Background())
		},
	}
	service := newTestService(t, store, cache)

	events, err := service.EventsInRange(context.Background(), at(14, 0), at(21, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	// Устаревший результат вернулся вызывающему, но кэш не затерт
	if cache.supersededStores != 1 {
		t.Errorf("superseded stores = %d, want 1", cache.supersededStores)
	}
	if _, exists := cache.weeks[0]; exists {
		t.Error("stale fetch result must not be cached")
	}
}

func TestCreateEventInvalidatesCache(t *testing.T) {
	store := &fakeEventStore{}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	draft := domain.EventDraft{Title: "Haircut", Start: at(16, 10), End: at(16, 11)}
	event, err := service.CreateEvent(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil || event.Title != "Haircut" {
		t.Fatalf("got %v, want created event", event)
	}

	if cache.eventsInvalidations != 1 || cache.metricsInvalidations != 1 {
		t.Errorf("invalidations = %d/%d, want 1/1", cache.eventsInvalidations, cache.metricsInvalidations)
	}
}

func TestCreateEventRejectsInvalidDraft(t *testing.T) {
	store := &fakeEventStore{}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	draft := domain.EventDraft{Title: "Backwards", Start: at(16, 11), End: at(16, 10)}
	if _, err := service.CreateEvent(context.Background(), draft); !errors.Is(err, ErrInvalidEventInterval) {
		t.Fatalf("err = %v, want ErrInvalidEventInterval", err)
	}

	// До хранилища и кэша дело не дошло
	if len(store.created) != 0 {
		t.Error("invalid draft must not reach the store")
	}
	if cache.eventsInvalidations != 0 {
		t.Error("invalid draft must not invalidate the cache")
	}
}

func TestUpdateEventInvalidatesCache(t *testing.T) {
	store := &fakeEventStore{}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	draft := domain.EventDraft{Title: "Moved", Start: at(16, 14), End: at(16, 15)}
	if _, err := service.UpdateEvent(context.Background(), "evt-1", draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.updated) != 1 || store.updated[0] != "evt-1" {
		t.Errorf("updated = %v, want [evt-1]", store.updated)
	}
	if cache.eventsInvalidations != 1 || cache.metricsInvalidations != 1 {
		t.Errorf("invalidations = %d/%d, want 1/1", cache.eventsInvalidations, cache.metricsInvalidations)
	}
}

func TestDeleteEventInvalidatesCache(t *testing.T) {
	store := &fakeEventStore{}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	if err := service.DeleteEvent(context.Background(), "evt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "evt-1" {
		t.Errorf("deleted = %v, want [evt-1]", store.deleted)
	}
	if cache.eventsInvalidations != 1 || cache.metricsInvalidations != 1 {
		t.Errorf("invalidations = %d/%d, want 1/1", cache.eventsInvalidations, cache.metricsInvalidations)
	}
}

func TestMutationErrorSkipsInvalidation(t *testing.T) {
	store := &fakeEventStore{err: errors.New("boom")}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	if err := service.DeleteEvent(context.Background(), "evt-1"); err == nil {
		t.Fatal("expected error")
	}
	if cache.eventsInvalidations != 0 {
		t.Error("failed mutation must not invalidate the cache")
	}
}

func TestWeekView(t *testing.T) {
	store := &fakeEventStore{
		events: []domain.Event{
			// Понедельник: A и C делят колонку 0, B в колонке 1
			testEvent("A", "First", at(15, 9), at(15, 10)),
			testEvent("B", "Second", at(15, 9.5), at(15, 10.5)),
			testEvent("C", "Third", at(15, 10.25), at(15, 11)),
			// Четверг: одно событие
			testEvent("D", "Solo", at(18, 14), at(18, 15)),
		},
	}
	service := newTestService(t, store, nil)

	view, err := service.WeekView(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Offset != 0 {
		t.Errorf("offset = %d, want 0", view.Offset)
	}
	if !view.Start.Equal(at(14, 0)) || !view.End.Equal(at(21, 0)) {
		t.Errorf("week bounds = %v-%v, want 07-14..07-21", view.Start, view.End)
	}
	if len(view.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(view.Days))
	}

	monday := view.Days[1]
	if len(monday.Events) != 3 || len(monday.Boxes) != 3 {
		t.Fatalf("monday: %d events, %d boxes, want 3/3", len(monday.Events), len(monday.Boxes))
	}
	for _, slot := range monday.Events {
		if slot.ColumnCount != 2 {
			t.Errorf("monday event %s columnCount = %d, want 2", slot.Event.ID, slot.ColumnCount)
		}
	}

	thursday := view.Days[4]
	if len(thursday.Events) != 1 || thursday.Events[0].Event.ID != "D" {
		t.Fatalf("thursday events = %v, want [D]", thursday.Events)
	}
	if thursday.Events[0].ColumnCount != 1 {
		t.Errorf("thursday columnCount = %d, want 1", thursday.Events[0].ColumnCount)
	}

	for _, day := range []int{0, 2, 3, 5, 6} {
		if len(view.Days[day].Events) != 0 {
			t.Errorf("day %d has %d events, want 0", day, len(view.Days[day].Events))
		}
	}
}

func TestWeekMetrics(t *testing.T) {
	store := &fakeEventStore{
		events: []domain.Event{
			testEvent("1", "Long", at(15, 9), at(15, 11)),
			testEvent("2", "Short", at(16, 14), at(16, 15.5)),
		},
	}
	cache := newFakeCache()
	service := newTestService(t, store, cache)

	metrics, err := service.WeekMetrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.EventCount != 2 {
		t.Errorf("eventCount = %d, want 2", metrics.EventCount)
	}
	if metrics.BookedHours != 3.5 {
		t.Errorf("bookedHours = %v, want 3.5", metrics.BookedHours)
	}
	if metrics.CapacityHours != 40 {
		t.Errorf("capacityHours = %v, want 40", metrics.CapacityHours)
	}
	if metrics.Utilization != 3.5/40 {
		t.Errorf("utilization = %v, want %v", metrics.Utilization, 3.5/40)
	}

	// Повторный запрос отдается из кэша метрик
	storeCalls := len(store.weekCalls)
	if _, err := service.WeekMetrics(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.weekCalls) != storeCalls {
		t.Errorf("cached metrics must not refetch events, calls %v", store.weekCalls)
	}
}

func TestInvalidateEventsCache(t *testing.T) {
	cache := newFakeCache()
	cache.weeks[0] = []domain.Event{testEvent("1", "Booking", at(16, 10), at(16, 11))}
	cache.metrics[0] = domain.WeekMetrics{Offset: 0}
	service := newTestService(t, &fakeEventStore{}, cache)

	service.InvalidateEventsCache(context.Background())

	if len(cache.weeks) != 0 || len(cache.metrics) != 0 {
		t.Error("external invalidation must clear both namespaces")
	}
}

func TestEventSliceSortStable(t *testing.T) {
	sameStart := at(15, 10)
	events := EventSlice{
		testEvent("b", "Second inserted", sameStart, at(15, 12)),
		testEvent("z", "Later", at(15, 14), at(15, 15)),
		testEvent("a", "First inserted", sameStart, at(15, 11)),
		testEvent("e", "Earlier", at(15, 8), at(15, 9)),
	}

	sorted := events.quickSort()

	wantIDs := []string{"e", "b", "a", "z"}
	for i, id := range wantIDs {
		if sorted[i].ID != id {
			t.Fatalf("sorted order = %v, want %v", sorted, wantIDs)
		}
	}
}
