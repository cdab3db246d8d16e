package api

import (
	"encoding/json"
	"fmt"
)

const StatusSuccess = "success"

type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e Envelope) OK() bool { return e.Status == StatusSuccess }

type Pagination struct {
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
	Page       int `json:"page,omitempty"`
}

// ListPage: одна страница списка: {<entity>: T[], pagination: {...}}.
type ListPage[T any] struct {
	Items      []T
	TotalPages int
	Total      int
}

// DecodeList разбирает data списочного эндпоинта; key, имя массива ("customers", "storageUnits", ...).
func DecodeList[T any](raw json.RawMessage, key string) (ListPage[T], error) {
	var page ListPage[T]
	if len(raw) == 0 {
		return page, fmt.Errorf("decode %s: empty data", key)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return page, fmt.Errorf("decode %s: %w", key, err)
	}
	if items, ok := fields[key]; ok && string(items) != "null" {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return page, fmt.Errorf("decode %s items: %w", key, err)
		}
	}
	if p, ok := fields["pagination"]; ok {
		var pg Pagination
		if err := json.Unmarshal(p, &pg); err != nil {
			return page, fmt.Errorf("decode %s pagination: %w", key, err)
		}
		page.TotalPages = pg.TotalPages
		page.Total = pg.Total
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
