package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/Spok95/storage-desk/internal/domain/reports"
)

type card struct {
	Label string
	Value string
}

type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type document struct {
	Title     string
	Generated string
	Cards     []card
	Tables    []table
}

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 24px; }
  h1 { font-size: 22px; margin: 0 0 4px; }
  .generated { color: #6b7280; font-size: 12px; margin-bottom: 20px; }
  .cards { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 24px; }
  .card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 10px 14px; min-width: 140px; }
  .card .label { color: #6b7280; font-size: 11px; text-transform: uppercase; }
  .card .value { font-size: 18px; font-weight: bold; }
  h2 { font-size: 16px; margin: 24px 0 8px; }
  table { width: 100%; border-collapse: collapse; font-size: 11px; }
  th { background: #f3f4f6; text-align: left; padding: 6px; border-bottom: 1px solid #d1d5db; }
  td { padding: 6px; border-bottom: 1px solid #e5e7eb; }
  .empty { color: #9ca3af; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="generated">Generated on {{.Generated}}</div>
<div class="cards">
{{- range .Cards}}
  <div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{- end}}
</div>
{{- range .Tables}}
<h2>{{.Title}}</h2>
{{- if .Rows}}
<table>
  <thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{- range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{- end}}
  </tbody>
</table>
{{- else}}
<p class="empty">No data</p>
{{- end}}
{{- end}}
</body>
</html>
`))

func render(doc document) (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render %s: %w", doc.Title, err)
	}
	return buf.String(), nil
}

func newDocument(kind reports.Kind, now time.Time) document {
	return document{Title: kind.Title(), Generated: now.Format("Jan 2, 2006 15:04")}
}

func bucketTable(title, keyHeader string, buckets []Bucket) table {
	t := table{Title: title, Headers: []string{keyHeader, "Count", "Amount"}}
	for _, b := range buckets {
		t.Rows = append(t.Rows, []string{b.Key, strconv.Itoa(b.Count), Currency(b.Sum)})
	}
	return t
}

// CustomerPDFContent: HTML для печати в PDF.
func CustomerPDFContent(rep *reports.CustomerReport, now time.Time) (string, error) {
	doc := newDocument(reports.KindCustomer, now)
	s := rep.Summary
	doc.Cards = []card{
		{"Total Customers", strconv.Itoa(s.TotalCustomers)},
		{"Active", strconv.Itoa(s.ActiveCustomers)},
		{"Inactive", strconv.Itoa(s.InactiveCustomers)},
		{"New This Month", strconv.Itoa(s.NewThisMonth)},
		{"Total Revenue", Currency(s.TotalRevenue)},
	}
	details := table{
		Title:   "Customers",
		Headers: []string{"Name", "Email", "Phone", "Status", "Bookings", "Active", "Paid", "Outstanding", "Joined"},
	}
	for _, c := range rep.Customers {
		details.Rows = append(details.Rows, []string{
			c.Name, c.Email, c.Phone, Title(c.Status),
			strconv.Itoa(c.TotalBookings), strconv.Itoa(c.ActiveBookings),
			Currency(c.TotalPaid), Currency(c.Outstanding), Date(c.JoinedAt),
		})
	}
	top := table{Title: "Top Customers", Headers: []string{"#", "Name", "Paid"}}
	for i, c := range TopCustomers(rep, 10) {
		top.Rows = append(top.Rows, []string{strconv.Itoa(i + 1), c.Name, Currency(c.TotalPaid)})
	}
	doc.Tables = []table{details, bucketTable("Status Breakdown", "Status", CustomerStatusBreakdown(rep)), top}
	return render(doc)
}

func RevenuePDFContent(rep *reports.RevenueReport, now time.Time) (string, error) {
	doc := newDocument(reports.KindRevenue, now)
	s := rep.Summary
	doc.Cards = []card{
		{"Total Revenue", Currency(s.TotalRevenue)},
		{"Paid", Currency(s.PaidAmount)},
		{"Pending", Currency(s.PendingAmount)},
		{"Payments", strconv.Itoa(s.TotalPayments)},
	}
	payments := table{Title: "Payments", Headers: []string{"Date", "Customer", "Unit", "Warehouse", "Amount", "Status"}}
	for _, p := range rep.Payments {
		payments.Rows = append(payments.Rows, []string{
			Date(p.Date), p.CustomerName, p.UnitNumber, p.WarehouseName, Currency(p.Amount), Title(string(p.Status)),
		})
	}
	monthly := table{Title: "Monthly Revenue", Headers: []string{"Month", "Payments", "Revenue"}}
	for _, m := range rep.Monthly {
		monthly.Rows = append(monthly.Rows, []string{m.Month, strconv.Itoa(m.Payments), Currency(m.Revenue)})
	}
	doc.Tables = []table{
		payments,
		monthly,
		bucketTable("By Status", "Status", RevenueByStatus(rep)),
		bucketTable("Top Customers", "Customer", RevenueTopCustomers(rep, 10)),
	}
	return render(doc)
}

func ExpensePDFContent(rep *reports.ExpenseReport, now time.Time) (string, error) {
	doc := newDocument(reports.KindExpense, now)
	doc.Cards = []card{
		{"Total Expenses", Currency(rep.Summary.TotalExpenses)},
		{"Entries", strconv.Itoa(rep.Summary.Count)},
	}
	details := table{Title: "Expenses", Headers: []string{"Date", "Type", "Warehouse", "Description", "Amount"}}
	for _, e := range rep.Expenses {
		details.Rows = append(details.Rows, []string{
			Date(e.Date), Title(string(e.Type)), e.WarehouseName, e.Description, Currency(e.Amount),
		})
	}
	doc.Tables = []table{
		details,
		bucketTable("By Type", "Type", ExpensesByType(rep)),
		bucketTable("By Warehouse", "Warehouse", ExpensesByWarehouse(rep)),
		bucketTable("Monthly", "Month", ExpensesByMonth(rep)),
	}
	return render(doc)
}

func UnitsPDFContent(rep *reports.UnitsReport, now time.Time) (string, error) {
	doc := newDocument(reports.KindStorageUnits, now)
	s := rep.Summary
	doc.Cards = []card{
		{"Total Units", strconv.Itoa(s.TotalUnits)},
		{"Available", strconv.Itoa(s.Available)},
		{"Occupied", strconv.Itoa(s.Occupied)},
		{"Maintenance", strconv.Itoa(s.Maintenance)},
		{"Avg Utilization", Percent(s.AverageUtilization)},
	}
	details := table{
		Title:   "Units",
		Headers: []string{"Unit", "Warehouse", "Size", "Floor", "Status", "Utilization", "Bookings", "Monthly Revenue"},
	}
	for _, u := range rep.Units {
		details.Rows = append(details.Rows, []string{
			u.UnitNumber, u.WarehouseName, strconv.FormatFloat(u.Size, 'f', -1, 64), strconv.Itoa(u.Floor),
			Title(string(u.Status)), Percent(u.Utilization), strconv.Itoa(u.ActiveBookings), Currency(u.MonthlyRevenue),
		})
	}
	byWh := table{Title: "By Warehouse", Headers: []string{"Warehouse", "Units", "Avg Utilization", "Monthly Revenue"}}
	for _, b := range UnitsByWarehouse(rep) {
		byWh.Rows = append(byWh.Rows, []string{b.Key, strconv.Itoa(b.Count), Percent(b.Avg), Currency(b.Sum)})
	}
	top := table{Title: "Top Utilization", Headers: []string{"#", "Unit", "Warehouse", "Utilization"}}
	for i, u := range TopUtilization(rep, 10) {
		top.Rows = append(top.Rows, []string{strconv.Itoa(i + 1), u.UnitNumber, u.WarehouseName, Percent(u.Utilization)})
	}
	doc.Tables = []table{details, byWh, bucketTable("By Status", "Status", UnitsByStatus(rep)), top}
	return render(doc)
}
