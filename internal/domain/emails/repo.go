package emails

import (
	"context"
	"fmt"

	"github.com/Spok95/storage-desk/internal/api"
)

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

// ListByUser: письма, отправленные пользователю (/emails/user/:id).
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Email, error) {
	raw, err := r.client.GetRaw(ctx, fmt.Sprintf("emails/user/%d", userID), nil)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	page, err := api.DecodeList[Email](raw, "emails")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
