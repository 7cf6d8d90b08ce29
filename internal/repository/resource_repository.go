package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

// ResourceRepository maps the backend's CRUD endpoints for one resource:
// list, _search, get, create (POST), update (PUT) and delete.
type ResourceRepository[T any, P any] struct {
	client   *RESTClient
	resource string
}

// NewResourceRepository binds a resource path such as "classrooms".
func NewResourceRepository[T any, P any](client *RESTClient, resource string) *ResourceRepository[T, P] {
	return &ResourceRepository[T, P]{client: client, resource: resource}
}

// Resource returns the REST resource name.
func (r *ResourceRepository[T, P]) Resource() string {
	return r.resource
}

// List fetches every record. A cache buster defeats intermediary caches and
// paging parameters are forwarded only when set.
func (r *ResourceRepository[T, P]) List(ctx context.Context, page models.PageRequest) ([]T, error) {
	query := url.Values{}
	if page.Page > 0 {
		query.Set("page", strconv.Itoa(page.Page))
	}
	if page.Size > 0 {
		query.Set("size", strconv.Itoa(page.Size))
	}
	if page.Sort != "" {
		query.Set("sort", page.Sort)
	}
	query.Set("cacheBuster", strconv.FormatInt(r.client.now().UnixMilli(), 10))

	var items []T
	if err := r.client.Do(ctx, r.resource, http.MethodGet, r.resource, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Search runs a full-text query against the search index.
func (r *ResourceRepository[T, P]) Search(ctx context.Context, q string) ([]T, error) {
	var items []T
	query := url.Values{"query": []string{q}}
	if err := r.client.Do(ctx, r.resource, http.MethodGet, "_search/"+r.resource, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one record by id.
func (r *ResourceRepository[T, P]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.client.Do(ctx, r.resource, http.MethodGet, r.itemPath(id), nil, nil, &item)
	return item, err
}

// Create posts a new record and returns the stored version.
func (r *ResourceRepository[T, P]) Create(ctx context.Context, payload P) (T, error) {
	var item T
	err := r.client.Do(ctx, r.resource, http.MethodPost, r.resource, nil, payload, &item)
	return item, err
}

// Update puts the full record, id included in the body.
func (r *ResourceRepository[T, P]) Update(ctx context.Context, payload P) (T, error) {
	var item T
	err := r.client.Do(ctx, r.resource, http.MethodPut, r.resource, nil, payload, &item)
	return item, err
}

// Delete removes a record by id.
func (r *ResourceRepository[T, P]) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, r.resource, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *ResourceRepository[T, P]) itemPath(id int64) string {
	return r.resource + "/" + strconv.FormatInt(id, 10)
}
