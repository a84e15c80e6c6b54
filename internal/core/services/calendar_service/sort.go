package calendar_service

import "github.com/suchimauz/booking-calendar-service/internal/core/domain"

type EventSlice []domain.Event

// quickSort сортирует события по времени начала.
// Трехчастное разбиение сохраняет исходный порядок равных элементов,
// поэтому раскладка колонок стабильна между перерисовками.
func (s EventSlice) quickSort() EventSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	less := EventSlice{}
	equal := EventSlice{}
	greater := EventSlice{}

	for _, event := range s {
		if event.StartDate.Date.Before(pivot.StartDate.Date) {
			less = append(less, event)
		} else if event.StartDate.Date.Equal(pivot.StartDate.Date) {
			equal = append(equal, event)
		} else {
			greater = append(greater, event)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
