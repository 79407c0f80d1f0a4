package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Getter is the read half of Client.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// List fetches path and decodes a JSON array of T. Some platform endpoints
// wrap the array as {"data": [...]}; both shapes are accepted.
func List[T any](ctx context.Context, c Getter, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		return decodeList[T](envelope.Data)
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}
