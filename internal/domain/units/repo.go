package units

import (
	"context"
	"fmt"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
)

const (
	Path = "storage-units"
	Key  = "storageUnits"

	DefaultBulkLimit = 1000
)

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

func (r *Repo) Source() listdata.Endpoint[StorageUnit] {
	return listdata.Endpoint[StorageUnit]{Client: r.client, Path: Path, Key: Key}
}

// ListAll забирает все ячейки одним запросом: фильтр, сортировка и страницы считаются на клиенте.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]StorageUnit, error) {
	if limit <= 0 {
		limit = DefaultBulkLimit
	}
	page, err := r.Source().Fetch(ctx, listdata.Query{Page: 1, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list storage units: %w", err)
	}
	return EnrichAll(page.Items), nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) (*StorageUnit, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown unit status %q", status)
	}
	var u StorageUnit
	if err := r.client.Patch(ctx, fmt.Sprintf("%s/%d", Path, id), map[string]Status{"status": status}, &u); err != nil {
		return nil, err
	}
	u = Enrich(u)
	return &u, nil
}
