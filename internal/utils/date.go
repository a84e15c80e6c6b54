package utils

import (
	"fmt"
	"math"
	"time"
)

// StartCurrentDay возвращает начало дня (00:00) в таймзоне даты.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает новую дату, где день увеличен на 1, время установлено на 00:00, а таймзона остается прежней.
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// StartOfWeek возвращает начало недели для даты.
// Неделя считается с воскресенья 00:00, это якорь для недельных корзин кэша.
func StartOfWeek(t time.Time) time.Time {
	day := StartCurrentDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekOffset возвращает смещение недели даты t относительно недели даты now.
// Округляем через часы, потому что при переходе на летнее время неделя не равна ровно 168 часам.
func WeekOffset(now, t time.Time) int {
	hours := StartOfWeek(t).Sub(StartOfWeek(now)).Hours()
	return int(math.Round(hours / (7 * 24)))
}

// AddWeeks увеличивает дату на n недель, время устанавливается на 00:00.
func AddWeeks(t time.Time, n int) time.Time {
	newDate := t.AddDate(0, 0, 7*n)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// RoundToQuarterHour округляет дробные часы до ближайшей четверти часа.
func RoundToQuarterHour(hours float64) float64 {
	return math.Round(hours*4) / 4
}

// Clamp ограничивает значение диапазоном [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// HoursToDuration переводит дробные часы в time.Duration с точностью до секунды.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours*3600)) * time.Second
}

// HourOnDay возвращает момент времени внутри дня по дробному часу (13.5 = 13:30)
// в явно переданной таймзоне.
func HourOnDay(day time.Time, hour float64, loc *time.Location) time.Time {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start.Add(HoursToDuration(hour))
}

// ParseDate парсит дату из строки в формате RFC3339, если не удается, то пробует парсить
// дату со временем, но без таймзоны, подставляя явно переданную таймзону бизнеса.
func ParseDate(str string, loc *time.Location) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	if err != nil {
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, loc)
		if err != nil {
			// Если не удалось, пробуем как дату без времени
			parsedDate, err = time.ParseInLocation("2006-01-02", str, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse time: %v", err)
			}
		}
	}

	return parsedDate, nil
}
