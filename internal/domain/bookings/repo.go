package bookings

import (
	"context"
	"fmt"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
)

const (
	Path = "bookings"
	Key  = "bookings"
)

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// Source: постраничный список; фильтр уходит как filterStatus (active|completed|cancelled).
func (r *Repo) Source() listdata.Endpoint[Booking] {
	return listdata.Endpoint[Booking]{Client: r.client, Path: Path, Key: Key}
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := r.client.Get(ctx, fmt.Sprintf("%s/%d", Path, id), nil, &b); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown booking status %q", status)
	}
	var b Booking
	if err := r.client.Patch(ctx, fmt.Sprintf("%s/%d", Path, id), map[string]Status{"status": status}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func ID(b Booking) int64 { return b.ID }
