package units

import (
	"cmp"
	"slices"
	"strings"
)

// AllWarehouses: фильтр «все склады». Пустая строка не пересекается с именами складов:
// WarehouseNames их не отдаёт, GroupCounts не считает.
const AllWarehouses = ""

type SortKey string

const (
	SortUnitNumber    SortKey = "unitNumber"
	SortSize          SortKey = "size"
	SortFloor         SortKey = "floor"
	SortStatus        SortKey = "status"
	SortPercentage    SortKey = "percentage"
	SortCustomers     SortKey = "customers"
	SortWarehouseName SortKey = "warehouseName"
)

var SortKeys = []SortKey{SortUnitNumber, SortSize, SortFloor, SortStatus, SortPercentage, SortCustomers, SortWarehouseName}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Query struct {
	Warehouse string
	SortKey   SortKey
	Direction Direction
	Page      int
	PageSize  int
}

type Result struct {
	PageItems  []StorageUnit
	TotalPages int
	TotalCount int
}

// Derive: фильтр по складу → сортировка → срез страницы. Исходный слайс не меняется.
func Derive(all []StorageUnit, q Query) Result {
	filtered := FilterByWarehouse(all, q.Warehouse)
	Sort(filtered, q.SortKey, q.Direction)

	size := q.PageSize
	if size <= 0 {
		size = 10
	}
	res := Result{
		TotalCount: len(filtered),
		TotalPages: max((len(filtered)+size-1)/size, 1),
		PageItems:  []StorageUnit{},
	}
	page := max(q.Page, 1)
	from := (page - 1) * size
	if from >= len(filtered) {
		return res
	}
	to := min(from+size, len(filtered))
	res.PageItems = append(res.PageItems, filtered[from:to]...)
	return res
}

// FilterByWarehouse возвращает копию; AllWarehouses пропускает всё.
func FilterByWarehouse(all []StorageUnit, warehouse string) []StorageUnit {
	if warehouse == AllWarehouses {
		return slices.Clone(all)
	}
	out := make([]StorageUnit, 0, len(all))
	for _, u := range all {
		if u.WarehouseName == warehouse {
			out = append(out, u)
		}
	}
	return out
}

// Sort: стабильная сортировка: равные элементы сохраняют исходный порядок в обоих направлениях.
func Sort(items []StorageUnit, key SortKey, dir Direction) {
	if key == "" {
		return
	}
	slices.SortStableFunc(items, func(a, b StorageUnit) int {
		c := compareBy(a, b, key)
		if dir == Desc {
			return -c
		}
		return c
	})
}

func compareBy(a, b StorageUnit, key SortKey) int {
	switch key {
	case SortUnitNumber:
		return compareNatural(a.UnitNumber, b.UnitNumber)
	case SortSize:
		return cmp.Compare(a.Size, b.Size)
	case SortFloor:
		return cmp.Compare(a.Floor, b.Floor)
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	case SortPercentage:
		return cmp.Compare(a.Percentage, b.Percentage)
	case SortCustomers:
		return cmp.Compare(a.Customers, b.Customers)
	case SortWarehouseName:
		return cmp.Compare(strings.ToLower(a.WarehouseName), strings.ToLower(b.WarehouseName))
	}
	return 0
}

// compareNatural: "A-2" < "A-10".
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		if ad && bd {
			na, ra := leadingDigits(a)
			nb, rb := leadingDigits(b)
			na, nb = strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
			continue
		}
		ca, cb := toLower(a[0]), toLower(b[0])
		if ca != cb {
			return cmp.Compare(ca, cb)
		}
		a, b = a[1:], b[1:]
	}
	return cmp.Compare(len(a), len(b))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func leadingDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// GroupCounts: число ячеек по имени склада. Общее количество «Все» это len(all), в карту оно не входит.
func GroupCounts(all []StorageUnit) map[string]int {
	counts := make(map[string]int)
	for _, u := range all {
		if u.WarehouseName == "" {
			continue
		}
		counts[u.WarehouseName]++
	}
	return counts
}

// WarehouseNames: непустые имена складов по алфавиту.
func WarehouseNames(all []StorageUnit) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, u := range all {
		if _, ok := seen[u.WarehouseName]; ok || u.WarehouseName == "" {
			continue
		}
		seen[u.WarehouseName] = struct{}{}
		names = append(names, u.WarehouseName)
	}
	slices.Sort(names)
	return names
}
