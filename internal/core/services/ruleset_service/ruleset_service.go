package ruleset_service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
	"github.com/suchimauz/booking-calendar-service/internal/core/services/calendar_service"
)

// RuleSetService оборачивает доменный набор правил мьютексом и логированием.
// Набор передается явно при конструировании, модульных синглтонов нет.
type RuleSetService struct {
	mu       sync.Mutex
	set      *domain.WorkingHoursRuleSet
	logger   out.LoggerPort
	location *time.Location
}

func NewRuleSetService(set *domain.WorkingHoursRuleSet, logger out.LoggerPort, location *time.Location) *RuleSetService {
	return &RuleSetService{
		set:      set,
		logger:   logger.WithModule("RuleSetService"),
		location: location,
	}
}

func (s *RuleSetService) Rules() []domain.WorkingHoursRule {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set.Rules()
}

func (s *RuleSetService) AddRule() (domain.WorkingHoursRule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, applied := s.set.AddRule()
	if !applied {
		// Все дни уже разобраны, действие недоступно
		s.logger.Debug("ruleset.add.rejected", out.LogFields{})
		return domain.WorkingHoursRule{}, false
	}

	s.logger.Info("ruleset.add.applied", out.LogFields{
		"ruleId": rule.ID,
		"days":   rule.Days,
	})
	return rule, true
}

func (s *RuleSetService) ToggleDay(ruleID uuid.UUID, day domain.DayCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.set.ToggleDay(ruleID, day)
	if !applied {
		s.logger.Debug("ruleset.toggle_day.rejected", out.LogFields{
			"ruleId": ruleID,
			"day":    day,
		})
	}
	return applied
}

func (s *RuleSetService) UpdateRule(ruleID uuid.UUID, patch domain.RulePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.set.UpdateRule(ruleID, patch)
	if !applied {
		s.logger.Debug("ruleset.update.rejected", out.LogFields{
			"ruleId": ruleID,
		})
	}
	return applied
}

func (s *RuleSetService) RemoveRule(ruleID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.set.RemoveRule(ruleID)
	if applied {
		s.logger.Info("ruleset.remove.applied", out.LogFields{
			"ruleId": ruleID,
		})
	}
	return applied
}

func (s *RuleSetService) NudgeStartHour(ruleID uuid.UUID, direction int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set.NudgeStartHour(ruleID, direction)
}

func (s *RuleSetService) NudgeEndHour(ruleID uuid.UUID, direction int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set.NudgeEndHour(ruleID, direction)
}

// RuleSlots - предпросмотр нарезки правила на день для мастера настройки.
func (s *RuleSetService) RuleSlots(ruleID uuid.UUID, day time.Time) (*in.RuleSlotsPreview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range s.set.Rules() {
		if rule.ID == ruleID {
			return &in.RuleSlotsPreview{
				Slots:          calendar_service.GenerateRuleSlots(rule, day.In(s.location), s.location),
				RemainderHours: rule.RemainderHours(),
			}, true
		}
	}
	return nil, false
}

func (s *RuleSetService) WeeklyCapacityHours() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set.WeeklyCapacityHours()
}
