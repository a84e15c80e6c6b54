package domain

import "time"

// Slot - кандидат на бронирование. Эфемерный: никогда не сохраняется,
// пересчитывается заново на каждый запрос.
type Slot struct {
	StartTime time.Time `json:"start"`
	EndTime   time.Time `json:"end"`
}

func (s Slot) Interval() TimeInterval {
	return TimeInterval{Start: s.StartTime, End: s.EndTime}
}

// LayoutSlot - событие с назначенной колонкой для недельной сетки.
// ColumnCount один на весь день: ширина дня делится на максимальную
// одновременность дня, а не на ширину отдельного кластера.
type LayoutSlot struct {
	Event       Event `json:"event"`
	Column      int   `json:"column"`
	ColumnCount int   `json:"columnCount"`
}

// LayoutBox - готовая геометрия для рендера: горизонталь в процентах
// ширины дня, вертикаль в пикселях от начала дня.
type LayoutBox struct {
	LeftPercent  float64 `json:"left"`
	WidthPercent float64 `json:"width"`
	TopPx        float64 `json:"top"`
	HeightPx     float64 `json:"height"`
}
