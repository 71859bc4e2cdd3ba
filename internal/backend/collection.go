package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Labels name a collection's records in fallback error messages.
type Labels struct {
	One  string
	Many string
}

// Collection is a typed view over one REST collection, e.g. /trainings.
type Collection[T any] struct {
	client *Client
	name   string
	labels Labels
}

// NewCollection binds a collection path to a client.
func NewCollection[T any](client *Client, name string, labels Labels) *Collection[T] {
	return &Collection[T]{client: client, name: strings.Trim(name, "/"), labels: labels}
}

// List fetches every record of the collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	data, err := c.client.do(ctx, http.MethodGet, "/"+c.name, nil, "", "Failed to fetch "+c.labels.Many)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.name, err)
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", c.name, err)
		}
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}

// Save creates the record when id is empty (POST) and replaces it otherwise
// (PUT). The payload is always sent as multipart/form-data.
func (c *Collection[T]) Save(ctx context.Context, id string, payload Payload) (*T, error) {
	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	method, path := http.MethodPost, "/"+c.name
	if id != "" {
		method, path = http.MethodPut, "/"+c.name+"/"+url.PathEscape(id)
	}

	data, err := c.client.do(ctx, method, path, body, contentType, DefaultErrorMessage)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", c.name, err)
	}
	return decodeRecord[T](data)
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	path := "/" + c.name + "/" + url.PathEscape(id)
	if _, err := c.client.do(ctx, http.MethodDelete, path, nil, "", "Failed to delete "+c.labels.One); err != nil {
		return fmt.Errorf("deleting %s: %w", c.name, err)
	}
	return nil
}

// decodeRecord accepts both {"data": record} and a bare record. An empty body
// yields nil.
func decodeRecord[T any](data []byte) (*T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		data = envelope.Data
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &rec, nil
}
