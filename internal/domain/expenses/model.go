package expenses

import (
	"github.com/Spok95/storage-desk/internal/api"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeMaintenance Type = "maintenance"
	TypeUtilities   Type = "utilities"
	TypeSalary      Type = "salary"
	TypeRent        Type = "rent"
	TypeSupplies    Type = "supplies"
	TypeOther       Type = "other"
)

var Types = []Type{TypeMaintenance, TypeUtilities, TypeSalary, TypeRent, TypeSupplies, TypeOther}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          int64           `json:"id"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // на проводе строка "123.45"
	Date        api.Date        `json:"date"`
	Description string          `json:"description"`
	WarehouseID int64           `json:"warehouseId"`
	UserID      int64           `json:"userId"`
}

func ID(e Expense) int64 { return e.ID }

type Input struct {
	Type        Type            `json:"type" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"max=500"`
	WarehouseID int64           `json:"warehouseId" validate:"required,gt=0"`
}
