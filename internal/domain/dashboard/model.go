package dashboard

import "github.com/shopspring/decimal"

type CustomerOverview struct {
	TotalCustomers    int             `json:"totalCustomers"`
	ActiveCustomers   int             `json:"activeCustomers"`
	InactiveCustomers int             `json:"inactiveCustomers"`
	NewCustomers      int             `json:"newCustomers"`
	MonthlyRevenue    decimal.Decimal `json:"monthlyRevenue"`
}

type StorageOverview struct {
	TotalUnits    int     `json:"totalUnits"`
	Available     int     `json:"available"`
	Occupied      int     `json:"occupied"`
	Maintenance   int     `json:"maintenance"`
	OccupancyRate float64 `json:"occupancyRate"`
}

type AvailableUnit struct {
	ID            int64   `json:"id"`
	UnitNumber    string  `json:"unitNumber"`
	WarehouseName string  `json:"warehouseName"`
	Size          float64 `json:"size"`
	FreeSpace     float64 `json:"freeSpace"`
}

type Availability struct {
	Date  string          `json:"date"`
	Units []AvailableUnit `json:"units"`
}

type Overview struct {
	Customers    CustomerOverview
	Storage      StorageOverview
	Availability Availability
}
