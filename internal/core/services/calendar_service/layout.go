package calendar_service

import (
	"slices"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// LayoutDay раскладывает события одного дня по колонкам, чтобы пересекающиеся
// по времени события рендерились рядом, а не друг на друге.
//
// Жадная раскраска интервального графа: события в порядке начала, каждому -
// наименьшая колонка без пересечений. Оптимальная раскраска не нужна,
// одновременность на календаре записи редко выше 3-4, зато жадный проход
// детерминирован и стабилен между перерисовками.
//
// ColumnCount один на весь день (максимальная одновременность дня),
// не по кластерам пересечений.
func LayoutDay(events []domain.Event, loc *time.Location) []domain.LayoutSlot {
	placed := make([]domain.LayoutSlot, 0, len(events))
	if len(events) == 0 {
		return placed
	}

	sorted := EventSlice(slices.Clone(events)).quickSort()

	// columns[i] - интервалы, уже занявшие колонку i
	columns := make([][]domain.TimeInterval, 0, 2)

	for _, event := range sorted {
		interval := event.Interval(loc)

		column := -1
		for i, occupied := range columns {
			free := true
			for _, other := range occupied {
				if interval.Overlaps(other) {
					free = false
					break
				}
			}
			if free {
				column = i
				break
			}
		}

		if column == -1 {
			columns = append(columns, nil)
			column = len(columns) - 1
		}

		columns[column] = append(columns[column], interval)
		placed = append(placed, domain.LayoutSlot{Event: event, Column: column})
	}

	for i := range placed {
		placed[i].ColumnCount = len(columns)
	}

	return placed
}

// LayoutBoxFor переводит колонку и интервал в геометрию ячейки:
// горизонталь - доля ширины дня, вертикаль - минуты от начала дня,
// умноженные на пиксели в час. Минимальная визуальная длительность
// не дает очень коротким событиям схлопнуться до некликабельной полоски.
func LayoutBoxFor(slot domain.LayoutSlot, dayStart time.Time, pixelsPerHour, minVisualMinutes int, loc *time.Location) domain.LayoutBox {
	width := 100 / float64(slot.ColumnCount)
	interval := slot.Event.Interval(loc)

	topMinutes := interval.Start.Sub(dayStart).Minutes()
	heightMinutes := interval.Duration().Minutes()
	if heightMinutes < float64(minVisualMinutes) {
		heightMinutes = float64(minVisualMinutes)
	}

	pxPerMinute := float64(pixelsPerHour) / 60

	return domain.LayoutBox{
		LeftPercent:  float64(slot.Column) * width,
		WidthPercent: width,
		TopPx:        topMinutes * pxPerMinute,
		HeightPx:     heightMinutes * pxPerMinute,
	}
}
