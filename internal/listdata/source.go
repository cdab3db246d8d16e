package listdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Spok95/storage-desk/internal/api"
)

// Query: параметры одной выборки страницы.
type Query struct {
	Page   int
	Limit  int
	Search string
	Filter string // уходит как filterStatus
}

func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Filter != "" {
		v.Set("filterStatus", q.Filter)
	}
	return v
}

type Source[T any] interface {
	Fetch(ctx context.Context, q Query) (api.ListPage[T], error)
	Delete(ctx context.Context, id int64) error
}

// Endpoint реализует Source поверх REST: GET <Path>?page&limit&search&filterStatus, DELETE <Path>/<id>.
type Endpoint[T any] struct {
	Client *api.Client
	Path   string
	Key    string
}

func (e Endpoint[T]) Fetch(ctx context.Context, q Query) (api.ListPage[T], error) {
	raw, err := e.Client.GetRaw(ctx, e.Path, q.Values())
	if err != nil {
		return api.ListPage[T]{}, err
	}
	return api.DecodeList[T](raw, e.Key)
}

func (e Endpoint[T]) Delete(ctx context.Context, id int64) error {
	return e.Client.Delete(ctx, fmt.Sprintf("%s/%d", strings.TrimRight(e.Path, "/"), id))
}
