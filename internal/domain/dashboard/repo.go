package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"golang.org/x/sync/errgroup"
)

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// Load тянет три независимых блока дашборда параллельно; первая ошибка отменяет остальные.
func (r *Repo) Load(ctx context.Context, date time.Time) (*Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.client.Get(ctx, "dashboard/customerOverview", nil, &ov.Customers); err != nil {
			return fmt.Errorf("customer overview: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.client.Get(ctx, "dashboard/storageOverview", nil, &ov.Storage); err != nil {
			return fmt.Errorf("storage overview: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.client.Get(ctx, "availability/"+date.Format("2006-01-02"), nil, &ov.Availability); err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
