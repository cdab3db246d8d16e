package bookings

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBookingPaidSumsOnlyPaid(t *testing.T) {
	var b Booking
	err := json.Unmarshal([]byte(`{
		"id": 1, "status": "active", "occupiedSpace": 4.5,
		"customer": {"id": 3, "firstName": "Ivan", "lastName": "Petrov"},
		"payments": [
			{"id": 1, "amount": "100.50", "status": "paid", "paidAt": "2024-03-01"},
			{"id": 2, "amount": "40", "status": "pending"},
			{"id": 3, "amount": 9.5, "status": "paid"}
		]
	}`), &b)
	require.NoError(t, err)
	require.True(t, b.Active())
	require.True(t, b.Paid().Equal(decimal.RequireFromString("110")))
	require.Equal(t, "Ivan Petrov", b.CustomerName())
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusCancelled.Valid())
	require.False(t, Status("archived").Valid())
	require.True(t, PaymentPending.Valid())
	require.False(t, PaymentStatus("refunded").Valid())
	require.Equal(t, "Petrov", JoinName("", "Petrov"))
}
