package customers

import (
	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/domain/bookings"
)

// Значения поля deleted у backend.
const (
	Active   = 0
	Inactive = 1
)

type Customer struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address,omitempty"`
	Deleted   int      `json:"deleted"`
	CreatedAt api.Date `json:"createdAt"`
}

func (c Customer) FullName() string { return bookings.JoinName(c.FirstName, c.LastName) }

func (c Customer) Active() bool { return c.Deleted == Active }

// Input: форма создания/редактирования клиента.
type Input struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"required,min=5,max=32"`
	Address   string `json:"address,omitempty" validate:"max=255"`
	Deleted   *int   `json:"deleted,omitempty" validate:"omitempty,oneof=0 1"`
}

func ID(c Customer) int64 { return c.ID }
