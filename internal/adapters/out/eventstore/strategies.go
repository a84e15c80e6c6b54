package eventstore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
)

// requestStrategy - одна форма запроса из упорядоченной цепочки.
// Формы перебираются строго последовательно до первого не-ошибочного статуса:
// параллельный обстрел всех форм запрещен, "чужой" эндпоинт может вернуть
// 200 без эффекта и дать ложный успех.
type requestStrategy struct {
	name  string
	build func(ctx context.Context) (*http.Request, error)
}

func jsonRequest(ctx context.Context, method, url string, payload []byte) (*http.Request, error) {
	var req *http.Request
	var err error

	if payload == nil {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	}
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// updateStrategies - цепочка форм обновления:
// PUT /events/:id -> PATCH /events/:id -> POST /events/:id ->
// POST /events/update {id,...} -> POST /events {action:"update", id, ...}
func (a *EventStoreAdapter) updateStrategies(eventID string, draft domain.EventDraft) ([]requestStrategy, error) {
	eventsURL := a.baseURL + "/api/events"

	body, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	bodyWithID, err := json.Marshal(struct {
		ID string `json:"id"`
		domain.EventDraft
	}{ID: eventID, EventDraft: draft})
	if err != nil {
		return nil, err
	}

	bodyWithAction, err := json.Marshal(struct {
		Action string `json:"action"`
		ID     string `json:"id"`
		domain.EventDraft
	}{Action: "update", ID: eventID, EventDraft: draft})
	if err != nil {
		return nil, err
	}

	return []requestStrategy{
		{name: "put_events_id", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPut, eventsURL+"/"+eventID, body)
		}},
		{name: "patch_events_id", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPatch, eventsURL+"/"+eventID, body)
		}},
		{name: "post_events_id", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL+"/"+eventID, body)
		}},
		{name: "post_events_update", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL+"/update", bodyWithID)
		}},
		{name: "post_events_action", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL, bodyWithAction)
		}},
	}, nil
}

// deleteStrategies - цепочка форм удаления:
// DELETE /events/:id -> POST /events/:id/delete ->
// POST /events/delete {id} -> POST /events {action:"delete", id}
func (a *EventStoreAdapter) deleteStrategies(eventID string) ([]requestStrategy, error) {
	eventsURL := a.baseURL + "/api/events"

	bodyWithID, err := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: eventID})
	if err != nil {
		return nil, err
	}

	bodyWithAction, err := json.Marshal(struct {
		Action string `json:"action"`
		ID     string `json:"id"`
	}{Action: "delete", ID: eventID})
	if err != nil {
		return nil, err
	}

	return []requestStrategy{
		{name: "delete_events_id", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodDelete, eventsURL+"/"+eventID, nil)
		}},
		{name: "post_events_id_delete", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL+"/"+eventID+"/delete", nil)
		}},
		{name: "post_events_delete", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL+"/delete", bodyWithID)
		}},
		{name: "post_events_action", build: func(ctx context.Context) (*http.Request, error) {
			return jsonRequest(ctx, http.MethodPost, eventsURL, bodyWithAction)
		}},
	}, nil
}
