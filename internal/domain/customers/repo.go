package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
	"github.com/go-playground/validator/v10"
)

const (
	Path = "customers"
	Key  = "customers"
)

var validate = validator.New()

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// Source: постраничный список; фильтр "0"/"1" уходит как filterStatus.
func (r *Repo) Source() listdata.Endpoint[Customer] {
	return listdata.Endpoint[Customer]{Client: r.client, Path: Path, Key: Key}
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	if err := r.client.Get(ctx, fmt.Sprintf("%s/%d", Path, id), nil, &c); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (*Customer, error) {
	in = normalize(in)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid customer: %w", err)
	}
	var c Customer
	if err := r.client.Post(ctx, Path, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) (*Customer, error) {
	in = normalize(in)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid customer: %w", err)
	}
	var c Customer
	if err := r.client.Patch(ctx, fmt.Sprintf("%s/%d", Path, id), in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetActive переключает флаг deleted (0, активен, 1, неактивен).
func (r *Repo) SetActive(ctx context.Context, id int64, active bool) (*Customer, error) {
	deleted := Inactive
	if active {
		deleted = Active
	}
	var c Customer
	if err := r.client.Patch(ctx, fmt.Sprintf("%s/%d", Path, id), map[string]int{"deleted": deleted}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func normalize(in Input) Input {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}
