package eventstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSlotConflict - хранилище ответило 409: время уже занято,
// пользователю предлагается выбрать другой слот.
var ErrSlotConflict = errors.New("time slot conflict")

// StatusError - прочий не-2xx ответ хранилища.
type StatusError struct {
	Action  string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	// Структурированное сообщение сервера показывается дословно
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed (%d)", e.Action, e.Status)
}

func statusError(action string, status int, body []byte) error {
	if status == http.StatusConflict {
		return ErrSlotConflict
	}

	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	return &StatusError{Action: action, Status: status, Message: payload.Error}
}
