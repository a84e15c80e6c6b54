package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/json_types"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

// EventStoreAdapter ходит в удаленное хранилище событий.
// Контракт хранилища зависит от развертывания, поэтому чтение и мутации
// переживают несовпадение формы через упорядоченные запасные варианты.
type EventStoreAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewEventStoreAdapter(cfg *config.Config, logger out.LoggerPort) *EventStoreAdapter {
	return &EventStoreAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(cfg.EventStore.URL, "/"),
		username: cfg.EventStore.Username,
		password: cfg.EventStore.Password,
		logger:   logger,
	}
}

type weekResponse struct {
	Events []domain.Event      `json:"events"`
	Start  json_types.DateTime `json:"start"`
	End    json_types.DateTime `json:"end"`
	Mode   string              `json:"mode,omitempty"`
}

type rangeResponse struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Events []domain.Event `json:"events"`
}

type createResponse struct {
	Created domain.Event `json:"created"`
}

// FetchWeekEvents читает события недельной корзины.
// Основная форма - недельный эндпоинт со смещением, запасная - выборка
// по диапазону дат. Наружу отдается ошибка последней попытки.
func (a *EventStoreAdapter) FetchWeekEvents(ctx context.Context, offset int, from, to time.Time) ([]domain.Event, error) {
	events, err := a.fetchWeekByOffset(ctx, offset)
	if err == nil {
		return events, nil
	}

	// Промежуточный отказ - не самостоятельная ошибка: эта форма здесь не поддержана
	a.logger.Debug("eventstore.week.fallback_range", out.LogFields{
		"offset": offset,
		"reason": err.Error(),
	})

	return a.fetchRange(ctx, from, to)
}

func (a *EventStoreAdapter) fetchWeekByOffset(ctx context.Context, offset int) ([]domain.Event, error) {
	url := fmt.Sprintf("%s/api/calendar/week", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("offset", strconv.Itoa(offset))
	req.URL.RawQuery = query.Encode()

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError("fetch", resp.StatusCode, body)
	}

	var week weekResponse
	if err := json.NewDecoder(resp.Body).Decode(&week); err != nil {
		a.logger.Error("eventstore.week.decode_failed", out.LogFields{
			"offset": offset,
			"error":  err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("eventstore.week.fetch_success", out.LogFields{
		"offset":      offset,
		"eventsCount": len(week.Events),
	})

	return week.Events, nil
}

func (a *EventStoreAdapter) fetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	url := fmt.Sprintf("%s/api/events", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("from", from.Format("2006-01-02"))
	query.Add("to", to.Format("2006-01-02"))
	req.URL.RawQuery = query.Encode()

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("eventstore.range.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		a.logger.Error("eventstore.range.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, statusError("fetch", resp.StatusCode, body)
	}

	var events rangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		a.logger.Error("eventstore.range.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return events.Events, nil
}

// CreateEvent создает событие. Форма создания в контракте одна.
func (a *EventStoreAdapter) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	req, err := jsonRequest(ctx, http.MethodPost, a.baseURL+"/api/calendar/create", payload)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("eventstore.create.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		a.logger.Error("eventstore.create.failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, statusError("create", resp.StatusCode, body)
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		a.logger.Error("eventstore.create.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Info("eventstore.create.success", out.LogFields{
		"eventId": created.Created.ID,
	})

	return &created.Created, nil
}

// UpdateEvent пробует формы обновления по очереди до первого успеха.
func (a *EventStoreAdapter) UpdateEvent(ctx context.Context, eventID string, draft domain.EventDraft) (*domain.Event, error) {
	strategies, err := a.updateStrategies(eventID, draft)
	if err != nil {
		return nil, err
	}

	body, err := a.tryStrategies(ctx, "update", strategies)
	if err != nil {
		a.logger.Error("eventstore.update.failed", out.LogFields{
			"eventId": eventID,
			"error":   err.Error(),
		})
		return nil, err
	}

	return parseEventResponse(body, eventID, draft), nil
}

// DeleteEvent пробует формы удаления по очереди до первого успеха.
func (a *EventStoreAdapter) DeleteEvent(ctx context.Context, eventID string) error {
	strategies, err := a.deleteStrategies(eventID)
	if err != nil {
		return err
	}

	if _, err := a.tryStrategies(ctx, "delete", strategies); err != nil {
		a.logger.Error("eventstore.delete.failed", out.LogFields{
			"eventId": eventID,
			"error":   err.Error(),
		})
		return err
	}

	a.logger.Info("eventstore.delete.success", out.LogFields{
		"eventId": eventID,
	})
	return nil
}

// tryStrategies перебирает формы запроса строго последовательно и
// останавливается на первом не-ошибочном статусе. Промежуточные отказы
// проглатываются, наружу уходит только ошибка последней попытки.
func (a *EventStoreAdapter) tryStrategies(ctx context.Context, action string, strategies []requestStrategy) ([]byte, error) {
	var lastErr error

	for _, strategy := range strategies {
		req, err := strategy.build(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		req.SetBasicAuth(a.username, a.password)

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < http.StatusMultipleChoices {
			a.logger.Debug("eventstore."+action+".strategy_success", out.LogFields{
				"strategy": strategy.name,
				"status":   resp.StatusCode,
			})
			return body, nil
		}

		lastErr = statusError(action, resp.StatusCode, body)
	}

	return nil, lastErr
}

// parseEventResponse достает событие из ответа на мутацию.
// Форма ответа тоже не гарантирована: пробуем {updated: ...}, затем голое
// событие, иначе восстанавливаем его из черновика.
func parseEventResponse(body []byte, eventID string, draft domain.EventDraft) *domain.Event {
	var wrapped struct {
		Updated *domain.Event `json:"updated"`
		Event   *domain.Event `json:"event"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Updated != nil && wrapped.Updated.ID != "" {
			return wrapped.Updated
		}
		if wrapped.Event != nil && wrapped.Event.ID != "" {
			return wrapped.Event
		}
	}

	var event domain.Event
	if err := json.Unmarshal(body, &event); err == nil && event.ID != "" {
		return &event
	}

	return &domain.Event{
		ID:        eventID,
		ClientID:  draft.ClientID,
		Title:     draft.Title,
		StartDate: json_types.DateTime{Date: draft.Start},
		EndDate:   json_types.DateTime{Date: draft.End},
		Notes:     draft.Notes,
	}
}
