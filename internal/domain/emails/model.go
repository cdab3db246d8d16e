package emails

import "github.com/Spok95/storage-desk/internal/api"

type Email struct {
	ID      int64    `json:"id"`
	UserID  int64    `json:"userId"`
	To      string   `json:"to,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body,omitempty"`
	Status  string   `json:"status,omitempty"`
	SentAt  api.Date `json:"sentAt"`
}
