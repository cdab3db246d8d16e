package reports

import (
	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/Spok95/storage-desk/internal/domain/expenses"
	"github.com/Spok95/storage-desk/internal/domain/units"
	"github.com/shopspring/decimal"
)

// Kind: вид отчёта; совпадает с сегментом пути /reports/<kind>.
type Kind string

const (
	KindCustomer     Kind = "customer"
	KindRevenue      Kind = "revenue"
	KindExpense      Kind = "expense"
	KindStorageUnits Kind = "storage-units"
)

var Kinds = []Kind{KindCustomer, KindRevenue, KindExpense, KindStorageUnits}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

func (k Kind) Title() string {
	switch k {
	case KindCustomer:
		return "Customer Report"
	case KindRevenue:
		return "Revenue Report"
	case KindExpense:
		return "Expense Report"
	case KindStorageUnits:
		return "Storage Units Report"
	}
	return string(k)
}

type CustomerSummary struct {
	TotalCustomers    int             `json:"totalCustomers"`
	ActiveCustomers   int             `json:"activeCustomers"`
	InactiveCustomers int             `json:"inactiveCustomers"`
	NewThisMonth      int             `json:"newThisMonth"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
}

type CustomerRow struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Status         string          `json:"status"` // active|inactive
	TotalBookings  int             `json:"totalBookings"`
	ActiveBookings int             `json:"activeBookings"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	JoinedAt       api.Date        `json:"joinedAt"`
}

type CustomerReport struct {
	Summary      CustomerSummary `json:"summary"`
	Customers    []CustomerRow   `json:"customers"`
	DownloadLink string          `json:"downloadLink,omitempty"`
}

type RevenueSummary struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	TotalPayments int             `json:"totalPayments"`
}

type PaymentRow struct {
	ID            int64                  `json:"id"`
	BookingID     int64                  `json:"bookingId"`
	CustomerName  string                 `json:"customerName"`
	UnitNumber    string                 `json:"unitNumber"`
	WarehouseName string                 `json:"warehouseName"`
	Amount        decimal.Decimal        `json:"amount"`
	Status        bookings.PaymentStatus `json:"status"`
	Date          api.Date               `json:"date"`
}

type MonthlyRevenue struct {
	Month    string          `json:"month"` // YYYY-MM
	Revenue  decimal.Decimal `json:"revenue"`
	Payments int             `json:"payments"`
}

type RevenueReport struct {
	Summary      RevenueSummary   `json:"summary"`
	Payments     []PaymentRow     `json:"payments"`
	Monthly      []MonthlyRevenue `json:"monthly"`
	DownloadLink string           `json:"downloadLink,omitempty"`
}

type ExpenseSummary struct {
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Count         int             `json:"count"`
}

type ExpenseRow struct {
	ID            int64           `json:"id"`
	Type          expenses.Type   `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          api.Date        `json:"date"`
	Description   string          `json:"description"`
	WarehouseName string          `json:"warehouseName"`
}

type ExpenseReport struct {
	Summary      ExpenseSummary `json:"summary"`
	Expenses     []ExpenseRow   `json:"expenses"`
	DownloadLink string         `json:"downloadLink,omitempty"`
}

type UnitsSummary struct {
	TotalUnits         int     `json:"totalUnits"`
	Available          int     `json:"available"`
	Occupied           int     `json:"occupied"`
	Maintenance        int     `json:"maintenance"`
	AverageUtilization float64 `json:"averageUtilization"`
}

type UnitRow struct {
	ID             int64           `json:"id"`
	UnitNumber     string          `json:"unitNumber"`
	WarehouseName  string          `json:"warehouseName"`
	Size           float64         `json:"size"`
	Floor          int             `json:"floor"`
	Status         units.Status    `json:"status"`
	Utilization    float64         `json:"utilization"`
	ActiveBookings int             `json:"activeBookings"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
}

type UnitsReport struct {
	Summary      UnitsSummary `json:"summary"`
	Units        []UnitRow    `json:"units"`
	DownloadLink string       `json:"downloadLink,omitempty"`
}
