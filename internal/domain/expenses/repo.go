package expenses

import (
	"context"
	"fmt"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/listdata"
	"github.com/go-playground/validator/v10"
)

const (
	Path = "expenses"
	Key  = "expenses"
)

var validate = validator.New()

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// Source: постраничный список; фильтр по типу расхода уходит как filterStatus.
func (r *Repo) Source() listdata.Endpoint[Expense] {
	return listdata.Endpoint[Expense]{Client: r.client, Path: Path, Key: Key}
}

func (r *Repo) Create(ctx context.Context, in Input) (*Expense, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	var e Expense
	if err := r.client.Post(ctx, Path, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) (*Expense, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	var e Expense
	if err := r.client.Patch(ctx, fmt.Sprintf("%s/%d", Path, id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func check(in Input) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("invalid expense: unknown type %q", in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("invalid expense: amount must be > 0")
	}
	return nil
}
