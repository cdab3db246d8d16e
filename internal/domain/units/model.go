package units

import (
	"math"

	"github.com/Spok95/storage-desk/internal/domain/bookings"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusOccupied    Status = "occupied"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusOccupied:
		return true
	}
	return false
}

type WarehouseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StorageUnit struct {
	ID            int64              `json:"id"`
	WarehouseID   int64              `json:"warehouseId"`
	Warehouse     *WarehouseRef      `json:"warehouse,omitempty"`
	WarehouseName string             `json:"warehouseName,omitempty"`
	UnitNumber    string             `json:"unitNumber"`
	Size          float64            `json:"size"`
	Floor         int                `json:"floor"`
	Status        Status             `json:"status"`
	Bookings      []bookings.Booking `json:"bookings,omitempty"`

	// считаются на клиенте, см. Enrich
	Percentage float64 `json:"-"`
	Customers  int     `json:"-"`
}

func ID(u StorageUnit) int64 { return u.ID }

// Enrich заполняет WarehouseName, Percentage (занято/размер, 0..100) и Customers
// (число разных клиентов с активной бронью).
func Enrich(u StorageUnit) StorageUnit {
	if u.WarehouseName == "" && u.Warehouse != nil {
		u.WarehouseName = u.Warehouse.Name
	}
	occupied := 0.0
	seen := make(map[int64]struct{})
	for _, b := range u.Bookings {
		if !b.Active() {
			continue
		}
		occupied += b.OccupiedSpace
		seen[b.CustomerID] = struct{}{}
	}
	u.Customers = len(seen)
	u.Percentage = 0
	if u.Size > 0 {
		p := occupied / u.Size * 100
		u.Percentage = math.Round(math.Min(math.Max(p, 0), 100)*100) / 100
	}
	return u
}

func EnrichAll(in []StorageUnit) []StorageUnit {
	out := make([]StorageUnit, len(in))
	for i, u := range in {
		out[i] = Enrich(u)
	}
	return out
}
