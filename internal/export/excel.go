package export

import (
	"fmt"
	"time"

	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// book собирает листы подряд и запоминает первую ошибку.
type book struct {
	f      *excelize.File
	header int
	sheets int
	err    error
}

func newBook() *book {
	b := &book{f: excelize.NewFile()}
	b.header, b.err = b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	return b
}

func (b *book) sheet(name string, header []interface{}, rows [][]interface{}) {
	if b.err != nil {
		return
	}
	if b.sheets == 0 {
		// первый лист, переименовываем дефолтный Sheet1
		b.err = b.f.SetSheetName(b.f.GetSheetName(0), name)
	} else {
		_, b.err = b.f.NewSheet(name)
	}
	if b.err != nil {
		b.err = fmt.Errorf("sheet %s: %w", name, b.err)
		return
	}
	b.sheets++

	if err := b.f.SetSheetRow(name, "A1", &header); err != nil {
		b.err = fmt.Errorf("sheet %s header: %w", name, err)
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		b.err = err
		return
	}
	if err := b.f.SetCellStyle(name, "A1", last, b.header); err != nil {
		b.err = err
		return
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := b.f.SetColWidth(name, "A", lastCol, 18); err != nil {
		b.err = err
		return
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			b.err = err
			return
		}
		if err := b.f.SetSheetRow(name, cell, &r); err != nil {
			b.err = fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
			return
		}
	}
}

func (b *book) done() (*excelize.File, error) {
	if b.err != nil {
		_ = b.f.Close()
		return nil, b.err
	}
	b.f.SetActiveSheet(0)
	return b.f, nil
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func bucketRows(buckets []Bucket, total decimal.Decimal) [][]interface{} {
	rows := make([][]interface{}, 0, len(buckets))
	for _, bk := range buckets {
		rows = append(rows, []interface{}{bk.Key, bk.Count, money(bk.Sum), round1(Share(bk.Sum, total))})
	}
	return rows
}

func round1(v float64) float64 { return float64(int64(v*10+0.5)) / 10 }

func summaryRows(generated time.Time, pairs ...interface{}) [][]interface{} {
	rows := [][]interface{}{{"Generated", generated.Format("2006-01-02 15:04")}}
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, []interface{}{pairs[i], pairs[i+1]})
	}
	return rows
}

var summaryHeader = []interface{}{"Metric", "Value"}

func CustomerWorkbook(rep *reports.CustomerReport, now time.Time) (*excelize.File, error) {
	b := newBook()
	s := rep.Summary
	b.sheet("Summary", summaryHeader, summaryRows(now,
		"Total Customers", s.TotalCustomers,
		"Active Customers", s.ActiveCustomers,
		"Inactive Customers", s.InactiveCustomers,
		"New This Month", s.NewThisMonth,
		"Total Revenue", money(s.TotalRevenue),
	))

	rows := make([][]interface{}, 0, len(rep.Customers))
	total := decimal.Zero
	for _, c := range rep.Customers {
		total = total.Add(c.TotalPaid)
		rows = append(rows, []interface{}{
			c.ID, c.Name, c.Email, c.Phone, Title(c.Status), c.TotalBookings, c.ActiveBookings,
			money(c.TotalPaid), money(c.Outstanding), Date(c.JoinedAt),
		})
	}
	b.sheet("Customers", []interface{}{"ID", "Name", "Email", "Phone", "Status", "Bookings", "Active Bookings", "Total Paid", "Outstanding", "Joined"}, rows)
	b.sheet("Status Breakdown", []interface{}{"Status", "Customers", "Total Paid", "Share %"}, bucketRows(CustomerStatusBreakdown(rep), total))

	top := [][]interface{}{}
	for i, c := range TopCustomers(rep, 10) {
		top = append(top, []interface{}{i + 1, c.Name, c.TotalBookings, money(c.TotalPaid)})
	}
	b.sheet("Top Customers", []interface{}{"Rank", "Name", "Bookings", "Total Paid"}, top)
	return b.done()
}

func RevenueWorkbook(rep *reports.RevenueReport, now time.Time) (*excelize.File, error) {
	b := newBook()
	s := rep.Summary
	b.sheet("Summary", summaryHeader, summaryRows(now,
		"Total Revenue", money(s.TotalRevenue),
		"Paid", money(s.PaidAmount),
		"Pending", money(s.PendingAmount),
		"Payments", s.TotalPayments,
	))

	rows := make([][]interface{}, 0, len(rep.Payments))
	total := decimal.Zero
	for _, p := range rep.Payments {
		total = total.Add(p.Amount)
		rows = append(rows, []interface{}{
			p.ID, Date(p.Date), p.CustomerName, p.UnitNumber, p.WarehouseName, money(p.Amount), Title(string(p.Status)),
		})
	}
	b.sheet("Payments", []interface{}{"ID", "Date", "Customer", "Unit", "Warehouse", "Amount", "Status"}, rows)

	monthly := [][]interface{}{}
	for _, m := range rep.Monthly {
		monthly = append(monthly, []interface{}{m.Month, m.Payments, money(m.Revenue)})
	}
	b.sheet("Monthly", []interface{}{"Month", "Payments", "Revenue"}, monthly)
	b.sheet("By Status", []interface{}{"Status", "Payments", "Amount", "Share %"}, bucketRows(RevenueByStatus(rep), total))

	top := [][]interface{}{}
	for i, bk := range RevenueTopCustomers(rep, 10) {
		top = append(top, []interface{}{i + 1, bk.Key, bk.Count, money(bk.Sum)})
	}
	b.sheet("Top Customers", []interface{}{"Rank", "Customer", "Payments", "Paid"}, top)
	return b.done()
}

func ExpenseWorkbook(rep *reports.ExpenseReport, now time.Time) (*excelize.File, error) {
	b := newBook()
	b.sheet("Summary", summaryHeader, summaryRows(now,
		"Total Expenses", money(rep.Summary.TotalExpenses),
		"Entries", rep.Summary.Count,
	))

	rows := make([][]interface{}, 0, len(rep.Expenses))
	total := decimal.Zero
	for _, e := range rep.Expenses {
		total = total.Add(e.Amount)
		rows = append(rows, []interface{}{
			e.ID, Date(e.Date), Title(string(e.Type)), e.WarehouseName, e.Description, money(e.Amount),
		})
	}
	b.sheet("Expenses", []interface{}{"ID", "Date", "Type", "Warehouse", "Description", "Amount"}, rows)
	b.sheet("By Type", []interface{}{"Type", "Entries", "Amount", "Share %"}, bucketRows(ExpensesByType(rep), total))
	b.sheet("By Warehouse", []interface{}{"Warehouse", "Entries", "Amount", "Share %"}, bucketRows(ExpensesByWarehouse(rep), total))
	b.sheet("Monthly", []interface{}{"Month", "Entries", "Amount", "Share %"}, bucketRows(ExpensesByMonth(rep), total))
	return b.done()
}

func UnitsWorkbook(rep *reports.UnitsReport, now time.Time) (*excelize.File, error) {
	b := newBook()
	s := rep.Summary
	b.sheet("Summary", summaryHeader, summaryRows(now,
		"Total Units", s.TotalUnits,
		"Available", s.Available,
		"Occupied", s.Occupied,
		"Maintenance", s.Maintenance,
		"Average Utilization %", round1(s.AverageUtilization),
	))

	rows := make([][]interface{}, 0, len(rep.Units))
	for _, u := range rep.Units {
		rows = append(rows, []interface{}{
			u.ID, u.UnitNumber, u.WarehouseName, u.Size, u.Floor, Title(string(u.Status)),
			round1(u.Utilization), u.ActiveBookings, money(u.MonthlyRevenue),
		})
	}
	b.sheet("Units", []interface{}{"ID", "Unit", "Warehouse", "Size", "Floor", "Status", "Utilization %", "Active Bookings", "Monthly Revenue"}, rows)

	byWh := [][]interface{}{}
	for _, bk := range UnitsByWarehouse(rep) {
		byWh = append(byWh, []interface{}{bk.Key, bk.Count, round1(bk.Avg), money(bk.Sum)})
	}
	b.sheet("By Warehouse", []interface{}{"Warehouse", "Units", "Avg Utilization %", "Monthly Revenue"}, byWh)

	byStatus := [][]interface{}{}
	for _, bk := range UnitsByStatus(rep) {
		byStatus = append(byStatus, []interface{}{bk.Key, bk.Count, round1(bk.Avg)})
	}
	b.sheet("By Status", []interface{}{"Status", "Units", "Avg Utilization %"}, byStatus)

	top := [][]interface{}{}
	for i, u := range TopUtilization(rep, 10) {
		top = append(top, []interface{}{i + 1, u.UnitNumber, u.WarehouseName, round1(u.Utilization)})
	}
	b.sheet("Top Utilization", []interface{}{"Rank", "Unit", "Warehouse", "Utilization %"}, top)
	return b.done()
}
