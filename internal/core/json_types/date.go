package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateTime - момент времени на проводе.
// Хранилище отдает ISO-8601 с явным смещением, поэтому парсим строго RFC3339.
type DateTime struct {
	Date time.Time
}

func (t *DateTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("invalid datetime: %s", string(data))
	}
	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedDate, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return fmt.Errorf("failed to parse datetime: %v", err)
	}

	*t = DateTime{Date: parsedDate}
	return nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format(time.RFC3339))
}
