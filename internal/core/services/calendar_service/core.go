package calendar_service

import (
	"errors"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

// ErrInvalidEventInterval - черновик события с пустым или вывернутым интервалом,
// отклоняется до любого сетевого запроса.
var ErrInvalidEventInterval = errors.New("event interval is invalid")

type CalendarService struct {
	storePort out.EventStorePort
	cachePort out.CachePort
	ruleSet   in.RuleSetUseCase
	logger    out.LoggerPort
	location  *time.Location
	cfg       *config.Config

	// nowFn подменяется в тестах, глобального состояния здесь нет
	nowFn func() time.Time
}

func NewCalendarService(
	storePort out.EventStorePort,
	cachePort out.CachePort,
	ruleSet in.RuleSetUseCase,
	logger out.LoggerPort,
	location *time.Location,
	cfg *config.Config,
) *CalendarService {
	return &CalendarService{
		storePort: storePort,
		cachePort: cachePort,
		ruleSet:   ruleSet,
		logger:    logger.WithModule("CalendarService"),
		location:  location,
		cfg:       cfg,
		nowFn:     time.Now,
	}
}

func (s *CalendarService) cacheEnabled() bool {
	return s.cachePort != nil && s.cfg.Cache.Enabled
}

func (s *CalendarService) now() time.Time {
	return s.nowFn().In(s.location)
}
