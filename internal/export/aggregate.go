package export

import (
	"cmp"
	"slices"

	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/shopspring/decimal"
)

// Bucket описывает строку разбивки (ключ, количество, сумма).
type Bucket struct {
	Key   string
	Count int
	Sum   decimal.Decimal
	Avg   float64 // используется для средней загрузки ячеек
}

type bucketer struct {
	order []string
	byKey map[string]*Bucket
}

func newBucketer() *bucketer { return &bucketer{byKey: map[string]*Bucket{}} }

func (b *bucketer) add(key string, sum decimal.Decimal) *Bucket {
	bk, ok := b.byKey[key]
	if !ok {
		bk = &Bucket{Key: key, Sum: decimal.Zero}
		b.byKey[key] = bk
		b.order = append(b.order, key)
	}
	bk.Count++
	bk.Sum = bk.Sum.Add(sum)
	return bk
}

// sorted: по сумме убыв., при равенстве по ключу.
func (b *bucketer) sorted() []Bucket {
	out := make([]Bucket, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.byKey[k])
	}
	slices.SortStableFunc(out, func(x, y Bucket) int {
		if c := y.Sum.Cmp(x.Sum); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	return out
}

func CustomerStatusBreakdown(rep *reports.CustomerReport) []Bucket {
	b := newBucketer()
	for _, c := range rep.Customers {
		b.add(Title(c.Status), c.TotalPaid)
	}
	return b.sorted()
}

func TopCustomers(rep *reports.CustomerReport, n int) []reports.CustomerRow {
	rows := slices.Clone(rep.Customers)
	slices.SortStableFunc(rows, func(a, b reports.CustomerRow) int { return b.TotalPaid.Cmp(a.TotalPaid) })
	return rows[:min(n, len(rows))]
}

func RevenueByStatus(rep *reports.RevenueReport) []Bucket {
	b := newBucketer()
	for _, p := range rep.Payments {
		b.add(Title(string(p.Status)), p.Amount)
	}
	return b.sorted()
}

// RevenueTopCustomers: только оплаченные платежи.
func RevenueTopCustomers(rep *reports.RevenueReport, n int) []Bucket {
	b := newBucketer()
	for _, p := range rep.Payments {
		if p.Status != bookings.PaymentPaid {
			continue
		}
		b.add(p.CustomerName, p.Amount)
	}
	out := b.sorted()
	return out[:min(n, len(out))]
}

func ExpensesByType(rep *reports.ExpenseReport) []Bucket {
	b := newBucketer()
	for _, e := range rep.Expenses {
		b.add(Title(string(e.Type)), e.Amount)
	}
	return b.sorted()
}

func ExpensesByWarehouse(rep *reports.ExpenseReport) []Bucket {
	b := newBucketer()
	for _, e := range rep.Expenses {
		name := e.WarehouseName
		if name == "" {
			name = "-"
		}
		b.add(name, e.Amount)
	}
	return b.sorted()
}

// ExpensesByMonth: по месяцам в хронологическом порядке.
func ExpensesByMonth(rep *reports.ExpenseReport) []Bucket {
	b := newBucketer()
	for _, e := range rep.Expenses {
		key := "-"
		if !e.Date.IsZero() {
			key = e.Date.Format("2006-01")
		}
		b.add(key, e.Amount)
	}
	out := b.sorted()
	slices.SortFunc(out, func(x, y Bucket) int { return cmp.Compare(x.Key, y.Key) })
	return out
}

// Share: доля части в целом, в процентах.
func Share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func UnitsByWarehouse(rep *reports.UnitsReport) []Bucket {
	return unitBuckets(rep, func(u reports.UnitRow) string { return u.WarehouseName })
}

func UnitsByStatus(rep *reports.UnitsReport) []Bucket {
	return unitBuckets(rep, func(u reports.UnitRow) string { return Title(string(u.Status)) })
}

func unitBuckets(rep *reports.UnitsReport, key func(reports.UnitRow) string) []Bucket {
	b := newBucketer()
	util := map[string]float64{}
	for _, u := range rep.Units {
		k := key(u)
		b.add(k, u.MonthlyRevenue)
		util[k] += u.Utilization
	}
	out := b.sorted()
	for i := range out {
		out[i].Avg = util[out[i].Key] / float64(out[i].Count)
	}
	slices.SortStableFunc(out, func(x, y Bucket) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	return out
}

func TopUtilization(rep *reports.UnitsReport, n int) []reports.UnitRow {
	rows := slices.Clone(rep.Units)
	slices.SortStableFunc(rows, func(a, b reports.UnitRow) int { return cmp.Compare(b.Utilization, a.Utilization) })
	return rows[:min(n, len(rows))]
}
