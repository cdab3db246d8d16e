package warehouses

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/Spok95/storage-desk/internal/api"
)

const (
	Path = "warehouses"
	Key  = "warehouses"
)

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// List: все склады по имени.
func (r *Repo) List(ctx context.Context) ([]Warehouse, error) {
	raw, err := r.client.GetRaw(ctx, Path, url.Values{"limit": {"1000"}})
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	page, err := api.DecodeList[Warehouse](raw, Key)
	if err != nil {
		return nil, err
	}
	sort.Slice(page.Items, func(i, j int) bool { return page.Items[i].Name < page.Items[j].Name })
	return page.Items, nil
}

// NameByID: справочник для подписей в отчётах и списках.
func (r *Repo) NameByID(ctx context.Context) (map[int64]string, error) {
	ws, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(ws))
	for _, w := range ws {
		out[w.ID] = w.Name
	}
	return out, nil
}
