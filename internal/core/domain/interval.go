package domain

import "time"

// TimeInterval - полуоткрытый интервал [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeInterval возвращает false, если интервал пустой или вывернутый (Start >= End).
func NewTimeInterval(start, end time.Time) (TimeInterval, bool) {
	if !start.Before(end) {
		return TimeInterval{}, false
	}
	return TimeInterval{Start: start, End: end}, true
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Касание границ ([9,10) и [10,11)) пересечением не считается.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	startOverlapping := other.End.After(i.Start)
	endOverlapping := other.Start.Before(i.End)
	return startOverlapping && endOverlapping
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
