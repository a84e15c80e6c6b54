package domain

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

type DayCode string

const (
	DayCodeMon DayCode = "mon"
	DayCodeTue DayCode = "tue"
	DayCodeWed DayCode = "wed"
	DayCodeThu DayCode = "thu"
	DayCodeFri DayCode = "fri"
	DayCodeSat DayCode = "sat"
	DayCodeSun DayCode = "sun"
)

// Порядок дней важен: первый незанятый день для нового правила ищется по этому списку
var AllDayCodes = []DayCode{
	DayCodeMon, DayCodeTue, DayCodeWed, DayCodeThu, DayCodeFri, DayCodeSat, DayCodeSun,
}

var WeekdayCodes = []DayCode{
	DayCodeMon, DayCodeTue, DayCodeWed, DayCodeThu, DayCodeFri,
}

type RuleMode string

const (
	RuleModeDuration RuleMode = "duration"
	RuleModeQuantity RuleMode = "quantity"
)

const (
	minSlotDurationHours = 0.25
	maxSlotDurationHours = 8
	hourStep             = 0.25
)

// WorkingHoursRule - рабочее окно для набора дней недели с опциональной нарезкой на слоты.
// Значения часов дробные (13.5 = 13:30) и квантуются до четверти часа.
type WorkingHoursRule struct {
	ID                uuid.UUID `json:"id"`
	Days              []DayCode `json:"days"`
	StartHour         float64   `json:"startHour"`
	EndHour           float64   `json:"endHour"`
	SlotsEnabled      bool      `json:"slotsEnabled"`
	Mode              RuleMode  `json:"mode"`
	SlotDurationHours float64   `json:"slotDurationHours"`
	SlotQuantity      int       `json:"slotQuantity"`
}

func (r *WorkingHoursRule) HasDay(day DayCode) bool {
	return slices.Contains(r.Days, day)
}

// WindowHours - длина рабочего окна в часах.
func (r *WorkingHoursRule) WindowHours() float64 {
	return r.EndHour - r.StartHour
}

// RemainderHours - хвост окна, который не покрывается слотами.
// Показывается как незанятая емкость, слотом не предлагается.
func (r *WorkingHoursRule) RemainderHours() float64 {
	remainder := r.WindowHours() - float64(r.SlotQuantity)*r.SlotDurationHours
	if remainder < 0 {
		return 0
	}
	return remainder
}

// reconcile согласовывает длительность и количество слотов.
// Пользователь правит одно из двух, второе всегда производное, чтобы они не разъезжались.
func (r *WorkingHoursRule) reconcile() {
	window := r.WindowHours()

	switch r.Mode {
	case RuleModeQuantity:
		if r.SlotQuantity < 1 {
			r.SlotQuantity = 1
		}
		duration := utils.RoundToQuarterHour(window / float64(r.SlotQuantity))
		r.SlotDurationHours = utils.Clamp(duration, minSlotDurationHours, maxSlotDurationHours)
	default:
		if r.SlotDurationHours < minSlotDurationHours {
			r.SlotDurationHours = minSlotDurationHours
		}
		quantity := int(math.Floor(window / r.SlotDurationHours))
		if quantity < 1 {
			quantity = 1
		}
		r.SlotQuantity = quantity
	}
}

func (r *WorkingHoursRule) valid() bool {
	return r.StartHour >= 0 && r.EndHour <= 24 && r.StartHour < r.EndHour
}

// RulePatch - частичное изменение правила, nil-поля не трогаются.
// Дни меняются только через ToggleDay.
type RulePatch struct {
	StartHour         *float64  `json:"startHour"`
	EndHour           *float64  `json:"endHour"`
	SlotsEnabled      *bool     `json:"slotsEnabled"`
	Mode              *RuleMode `json:"mode"`
	SlotDurationHours *float64  `json:"slotDurationHours"`
	SlotQuantity      *int      `json:"slotQuantity"`
}

// WorkingHoursRuleSet поддерживает разбиение дней недели по правилам:
// каждый день принадлежит максимум одному правилу. Все недопустимые операции
// молча отклоняются (false), ошибок здесь нет - набор никогда не бывает невалидным.
type WorkingHoursRuleSet struct {
	rules []*WorkingHoursRule
}

// NewWorkingHoursRuleSet создает набор с одним правилом мастера настройки:
// будни, 09:00-17:00, режим длительности, слот 2 часа.
func NewWorkingHoursRuleSet() *WorkingHoursRuleSet {
	set := &WorkingHoursRuleSet{}

	rule := &WorkingHoursRule{
		ID:                uuid.New(),
		Days:              slices.Clone(WeekdayCodes),
		StartHour:         9,
		EndHour:           17,
		SlotsEnabled:      true,
		Mode:              RuleModeDuration,
		SlotDurationHours: 2,
	}
	rule.reconcile()
	set.rules = append(set.rules, rule)

	return set
}

// NewEmptyRuleSet создает набор без правил (все дни свободны).
func NewEmptyRuleSet() *WorkingHoursRuleSet {
	return &WorkingHoursRuleSet{}
}

// Rules возвращает копии правил в порядке создания.
func (s *WorkingHoursRuleSet) Rules() []WorkingHoursRule {
	rules := make([]WorkingHoursRule, 0, len(s.rules))
	for _, rule := range s.rules {
		copied := *rule
		copied.Days = slices.Clone(rule.Days)
		rules = append(rules, copied)
	}
	return rules
}

func (s *WorkingHoursRuleSet) rule(id uuid.UUID) *WorkingHoursRule {
	for _, rule := range s.rules {
		if rule.ID == id {
			return rule
		}
	}
	return nil
}

// RuleForDay возвращает правило, которому принадлежит день.
func (s *WorkingHoursRuleSet) RuleForDay(day DayCode) (WorkingHoursRule, bool) {
	for _, rule := range s.rules {
		if rule.HasDay(day) {
			copied := *rule
			copied.Days = slices.Clone(rule.Days)
			return copied, true
		}
	}
	return WorkingHoursRule{}, false
}

func (s *WorkingHoursRuleSet) claimedBy(day DayCode) *WorkingHoursRule {
	for _, rule := range s.rules {
		if rule.HasDay(day) {
			return rule
		}
	}
	return nil
}

// AddRule создает правило на первый незанятый день недели.
// Если все дни уже заняты - операция недоступна.
func (s *WorkingHoursRuleSet) AddRule() (WorkingHoursRule, bool) {
	var freeDay DayCode
	for _, day := range AllDayCodes {
		if s.claimedBy(day) == nil {
			freeDay = day
			break
		}
	}
	if freeDay == "" {
		return WorkingHoursRule{}, false
	}

	rule := &WorkingHoursRule{
		ID:                uuid.New(),
		Days:              []DayCode{freeDay},
		StartHour:         9,
		EndHour:           17,
		SlotsEnabled:      true,
		Mode:              RuleModeDuration,
		SlotDurationHours: 2,
	}
	rule.reconcile()
	s.rules = append(s.rules, rule)

	copied := *rule
	copied.Days = slices.Clone(rule.Days)
	return copied, true
}

// ToggleDay добавляет день в правило или убирает его из правила.
// День, занятый другим правилом, забрать нельзя. Последний день правила убрать нельзя.
func (s *WorkingHoursRuleSet) ToggleDay(id uuid.UUID, day DayCode) bool {
	rule := s.rule(id)
	if rule == nil || !slices.Contains(AllDayCodes, day) {
		return false
	}

	if rule.HasDay(day) {
		if len(rule.Days) == 1 {
			return false
		}
		rule.Days = slices.DeleteFunc(rule.Days, func(d DayCode) bool { return d == day })
		return true
	}

	if s.claimedBy(day) != nil {
		return false
	}

	rule.Days = append(rule.Days, day)
	// Держим дни в каноническом порядке недели
	slices.SortFunc(rule.Days, func(a, b DayCode) int {
		return slices.Index(AllDayCodes, a) - slices.Index(AllDayCodes, b)
	})
	return true
}

// UpdateRule применяет частичное изменение и согласовывает производное поле.
// Изменение, приводящее к невалидному окну, не применяется вовсе.
func (s *WorkingHoursRuleSet) UpdateRule(id uuid.UUID, patch RulePatch) bool {
	rule := s.rule(id)
	if rule == nil {
		return false
	}

	updated := *rule
	if patch.StartHour != nil {
		updated.StartHour = utils.Clamp(utils.RoundToQuarterHour(*patch.StartHour), 0, 24)
	}
	if patch.EndHour != nil {
		updated.EndHour = utils.Clamp(utils.RoundToQuarterHour(*patch.EndHour), 0, 24)
	}
	if patch.SlotsEnabled != nil {
		updated.SlotsEnabled = *patch.SlotsEnabled
	}
	if patch.Mode != nil {
		if *patch.Mode != RuleModeDuration && *patch.Mode != RuleModeQuantity {
			return false
		}
		updated.Mode = *patch.Mode
	}
	if patch.SlotDurationHours != nil {
		updated.SlotDurationHours = utils.Clamp(utils.RoundToQuarterHour(*patch.SlotDurationHours), minSlotDurationHours, maxSlotDurationHours)
	}
	if patch.SlotQuantity != nil {
		if *patch.SlotQuantity < 1 {
			return false
		}
		updated.SlotQuantity = *patch.SlotQuantity
	}

	if !updated.valid() {
		return false
	}

	updated.reconcile()
	updated.Days = rule.Days
	*rule = updated
	return true
}

// RemoveRule удаляет правило, его дни становятся свободными (не переназначаются).
func (s *WorkingHoursRuleSet) RemoveRule(id uuid.UUID) bool {
	for i, rule := range s.rules {
		if rule.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return true
		}
	}
	return false
}

// NudgeStartHour сдвигает начало окна на шаг в четверть часа.
// direction: +1 позже, -1 раньше.
func (s *WorkingHoursRuleSet) NudgeStartHour(id uuid.UUID, direction int) bool {
	rule := s.rule(id)
	if rule == nil {
		return false
	}

	next := utils.Clamp(rule.StartHour+hourStep*float64(direction), 0, 24)
	if next >= rule.EndHour {
		return false
	}

	rule.StartHour = next
	rule.reconcile()
	return true
}

// NudgeEndHour сдвигает конец окна на шаг в четверть часа.
func (s *WorkingHoursRuleSet) NudgeEndHour(id uuid.UUID, direction int) bool {
	rule := s.rule(id)
	if rule == nil {
		return false
	}

	next := utils.Clamp(rule.EndHour+hourStep*float64(direction), 0, 24)
	if next <= rule.StartHour {
		return false
	}

	rule.EndHour = next
	rule.reconcile()
	return true
}

// WeeklyCapacityHours - суммарная недельная емкость набора в часах,
// используется в метриках утилизации.
func (s *WorkingHoursRuleSet) WeeklyCapacityHours() float64 {
	var total float64
	for _, rule := range s.rules {
		total += rule.WindowHours() * float64(len(rule.Days))
	}
	return total
}
