package bookings

import (
	"github.com/Spok95/storage-desk/internal/api"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentPending
}

type Payment struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Status PaymentStatus   `json:"status"`
	Method string          `json:"method,omitempty"`
	PaidAt api.Date        `json:"paidAt"`
}

type CustomerRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Booking struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customerId"`
	Customer      *CustomerRef    `json:"customer,omitempty"`
	UnitID        int64           `json:"unitId"`
	StartDate     api.Date        `json:"startDate"`
	EndDate       api.Date        `json:"endDate"`
	OccupiedSpace float64         `json:"occupiedSpace"`
	Status        Status          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Payments      []Payment       `json:"payments,omitempty"`
}

func (b Booking) Active() bool { return b.Status == StatusActive }

// Paid: сумма оплаченных платежей.
func (b Booking) Paid() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range b.Payments {
		if p.Status == PaymentPaid {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

func (b Booking) CustomerName() string {
	if b.Customer == nil {
		return ""
	}
	return JoinName(b.Customer.FirstName, b.Customer.LastName)
}

func JoinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
