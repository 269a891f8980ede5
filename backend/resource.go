package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-cinema-booking/model"
)

// Paths describes where the CRUD calls of one entity live. Item, Update and
// Delete are format strings taking the id. An empty Create disables creation.
type Paths struct {
	List   string
	Item   string
	Create string
	Update string
	Delete string
}

type Resource[T any] struct {
	client *Client
	paths  Paths
}

func NewResource[T any](c *Client, paths Paths) Resource[T] {
	if paths.Update == "" {
		paths.Update = paths.Item
	}
	if paths.Delete == "" {
		paths.Delete = paths.Item
	}
	return Resource[T]{client: c, paths: paths}
}

func (r Resource[T]) CanCreate() bool {
	return r.paths.Create != ""
}

func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := r.client.do(ctx, http.MethodGet, r.paths.List, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPage calls the list endpoint with zero-based page and size query parameters.
func (r Resource[T]) ListPage(ctx context.Context, page, size int) (model.Page[T], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p model.Page[T]
	if _, err := r.client.do(ctx, http.MethodGet, r.paths.List+"?"+q.Encode(), nil, &p); err != nil {
		return model.Page[T]{}, err
	}
	return p, nil
}

func (r Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	if _, err := r.client.do(ctx, http.MethodGet, fmt.Sprintf(r.paths.Item, id), nil, &item); err != nil {
		return *new(T), err
	}
	return item, nil
}

func (r Resource[T]) Create(ctx context.Context, item T) (T, error) {
	if !r.CanCreate() {
		return *new(T), fmt.Errorf("[backend Create] %T cannot be created", item)
	}
	var created T
	if _, err := r.client.do(ctx, http.MethodPost, r.paths.Create, item, &created); err != nil {
		return *new(T), err
	}
	return created, nil
}

// Update returns the item sent when the backend answers without a body.
func (r Resource[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	updated := item
	if _, err := r.client.do(ctx, http.MethodPut, fmt.Sprintf(r.paths.Update, id), item, &updated); err != nil {
		return *new(T), err
	}
	return updated, nil
}

func (r Resource[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, http.MethodDelete, fmt.Sprintf(r.paths.Delete, id), nil, nil)
	return err
}
