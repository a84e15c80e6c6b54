package in

import (
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// RuleSlotsPreview - предпросмотр нарезки правила на конкретный день.
type RuleSlotsPreview struct {
	Slots          []domain.Slot `json:"slots"`
	RemainderHours float64       `json:"remainderHours"`
}

// RuleSetUseCase - операции мастера настройки рабочих часов.
// Недопустимые изменения не применяются и возвращают applied=false,
// набор правил никогда не попадает в невалидное состояние.
type RuleSetUseCase interface {
	Rules() []domain.WorkingHoursRule
	AddRule() (domain.WorkingHoursRule, bool)
	ToggleDay(ruleID uuid.UUID, day domain.DayCode) bool
	UpdateRule(ruleID uuid.UUID, patch domain.RulePatch) bool
	RemoveRule(ruleID uuid.UUID) bool
	NudgeStartHour(ruleID uuid.UUID, direction int) bool
	NudgeEndHour(ruleID uuid.UUID, direction int) bool
	RuleSlots(ruleID uuid.UUID, day time.Time) (*RuleSlotsPreview, bool)
	WeeklyCapacityHours() float64
}
