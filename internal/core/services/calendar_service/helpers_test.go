package calendar_service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/json_types"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

// Среда, середина недели 2024-07-14..2024-07-21
var testNow = time.Date(2024, 7, 17, 12, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)          {}
func (nopLogger) Info(string, out.LogFields)           {}
func (nopLogger) Warn(string, out.LogFields)           {}
func (nopLogger) Error(string, out.LogFields)          {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type fakeEventStore struct {
	events []domain.Event

	weekCalls []int
	created   []domain.EventDraft
	updated   []string
	deleted   []string
	err       error

	// onFetch вызывается внутри FetchWeekEvents, для имитации гонки с инвалидацией
	onFetch func()
}

func (f *fakeEventStore) FetchWeekEvents(ctx context.Context, offset int, from, to time.Time) ([]domain.Event, error) {
	f.weekCalls = append(f.weekCalls, offset)
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}

	bucket := domain.TimeInterval{Start: from, End: to}
	events := make([]domain.Event, 0)
	for _, event := range f.events {
		if event.Interval(time.UTC).Overlaps(bucket) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (f *fakeEventStore) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, draft)
	event := testEvent(fmt.Sprintf("evt-%d", len(f.created)), draft.Title, draft.Start, draft.End)
	return &event, nil
}

func (f *fakeEventStore) UpdateEvent(ctx context.Context, eventID string, draft domain.EventDraft) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = append(f.updated, eventID)
	event := testEvent(eventID, draft.Title, draft.Start, draft.End)
	return &event, nil
}

func (f *fakeEventStore) DeleteEvent(ctx context.Context, eventID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeCache struct {
	weeks      map[int][]domain.Event
	metrics    map[int]domain.WeekMetrics
	generation uint64

	eventsInvalidations  int
	metricsInvalidations int
	supersededStores     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		weeks:   make(map[int][]domain.Event),
		metrics: make(map[int]domain.WeekMetrics),
	}
}

func (f *fakeCache) GetWeekEvents(ctx context.Context, offset int) ([]domain.Event, bool) {
	events, exists := f.weeks[offset]
	return events, exists
}

func (f *fakeCache) BeginWeekFetch(ctx context.Context, offset int) uint64 {
	return f.generation
}

func (f *fakeCache) StoreWeekEvents(ctx context.Context, offset int, generation uint64, events []domain.Event) bool {
	if generation != f.generation {
		f.supersededStores++
		return false
	}
	f.weeks[offset] = events
	return true
}

func (f *fakeCache) InvalidateEvents(ctx context.Context) {
	f.weeks = make(map[int][]domain.Event)
	f.generation++
	f.eventsInvalidations++
}

func (f *fakeCache) GetWeekMetrics(ctx context.Context, offset int) (*domain.WeekMetrics, bool) {
	metrics, exists := f.metrics[offset]
	if !exists {
		return nil, false
	}
	return &metrics, true
}

func (f *fakeCache) StoreWeekMetrics(ctx context.Context, offset int, metrics domain.WeekMetrics) {
	f.metrics[offset] = metrics
}

func (f *fakeCache) InvalidateMetrics(ctx context.Context) {
	f.metrics = make(map[int]domain.WeekMetrics)
	f.metricsInvalidations++
}

type fakeRuleSet struct {
	capacity float64
}

func (f *fakeRuleSet) Rules() []domain.WorkingHoursRule                 { return nil }
func (f *fakeRuleSet) AddRule() (domain.WorkingHoursRule, bool)         { return domain.WorkingHoursRule{}, false }
func (f *fakeRuleSet) ToggleDay(uuid.UUID, domain.DayCode) bool         { return false }
func (f *fakeRuleSet) UpdateRule(uuid.UUID, domain.RulePatch) bool      { return false }
func (f *fakeRuleSet) RemoveRule(uuid.UUID) bool                        { return false }
func (f *fakeRuleSet) NudgeStartHour(uuid.UUID, int) bool               { return false }
func (f *fakeRuleSet) NudgeEndHour(uuid.UUID, int) bool                 { return false }
func (f *fakeRuleSet) RuleSlots(uuid.UUID, time.Time) (*in.RuleSlotsPreview, bool) {
	return nil, false
}
func (f *fakeRuleSet) WeeklyCapacityHours() float64 { return f.capacity }

func testConfig(cacheEnabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.Booking.WindowStartHour = 10
	cfg.Booking.WindowEndHour = 18
	cfg.Booking.SlotStepHours = 2
	cfg.Layout.PixelsPerHour = 48
	cfg.Layout.MinVisualMinutes = 30
	cfg.Cache.Enabled = cacheEnabled
	return cfg
}

func newTestService(t *testing.T, store *fakeEventStore, cache *fakeCache) *CalendarService {
	t.Helper()

	var cachePort out.CachePort
	if cache != nil {
		cachePort = cache
	}

	service := NewCalendarService(
		store,
		cachePort,
		&fakeRuleSet{capacity: 40},
		nopLogger{},
		time.UTC,
		testConfig(cache != nil),
	)
	service.nowFn = func() time.Time { return testNow }
	return service
}

func testEvent(id, title string, start, end time.Time) domain.Event {
	return domain.Event{
		ID:        id,
		Title:     title,
		StartDate: json_types.DateTime{Date: start},
		EndDate:   json_types.DateTime{Date: end},
	}
}

func dt(ts time.Time) json_types.DateTime {
	return json_types.DateTime{Date: ts}
}

// at - момент на конкретном дне тестовой недели, hour дробный (9.5 = 09:30)
func at(day int, hour float64) time.Time {
	base := time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(hour * float64(time.Hour)))
}
