package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/Spok95/storage-desk/internal/infra/metrics"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatExcel Format = "xlsx"
	FormatHTML  Format = "html"
)

func (f Format) Valid() bool { return f == FormatExcel || f == FormatHTML }

func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/html; charset=utf-8"
}

// Document: готовый файл отчёта.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportSource: откуда берутся агрегаты (reports.Repo в проде).
type ReportSource interface {
	Customer(ctx context.Context, p reports.Period) (*reports.CustomerReport, error)
	Revenue(ctx context.Context, p reports.Period) (*reports.RevenueReport, error)
	Expense(ctx context.Context, p reports.Period) (*reports.ExpenseReport, error)
	Units(ctx context.Context, p reports.Period) (*reports.UnitsReport, error)
}

type Generator struct {
	src ReportSource
	now func() time.Time
}

func NewGenerator(src ReportSource) *Generator {
	return &Generator{src: src, now: time.Now}
}

// Generate забирает отчёт с backend и собирает файл в нужном формате.
func (g *Generator) Generate(ctx context.Context, kind reports.Kind, format Format, p reports.Period) (doc *Document, err error) {
	defer func() {
		metrics.Exports.WithLabelValues(string(kind), string(format), metrics.Outcome(err)).Inc()
	}()
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown report %q", kind)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	now := g.now()
	var (
		html string
		wb   *excelize.File
	)
	switch kind {
	case reports.KindCustomer:
		rep, err := g.src.Customer(ctx, p)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			html, err = CustomerPDFContent(rep, now)
		} else {
			wb, err = CustomerWorkbook(rep, now)
		}
		if err != nil {
			return nil, err
		}
	case reports.KindRevenue:
		rep, err := g.src.Revenue(ctx, p)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			html, err = RevenuePDFContent(rep, now)
		} else {
			wb, err = RevenueWorkbook(rep, now)
		}
		if err != nil {
			return nil, err
		}
	case reports.KindExpense:
		rep, err := g.src.Expense(ctx, p)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			html, err = ExpensePDFContent(rep, now)
		} else {
			wb, err = ExpenseWorkbook(rep, now)
		}
		if err != nil {
			return nil, err
		}
	case reports.KindStorageUnits:
		rep, err := g.src.Units(ctx, p)
		if err != nil {
			return nil, err
		}
		if format == FormatHTML {
			html, err = UnitsPDFContent(rep, now)
		} else {
			wb, err = UnitsWorkbook(rep, now)
		}
		if err != nil {
			return nil, err
		}
	}

	doc = &Document{
		Name:        FileName(kind, format, now),
		ContentType: format.ContentType(),
	}
	if wb == nil {
		doc.Data = []byte(html)
		return doc, nil
	}
	defer func() { _ = wb.Close() }()
	buf := &bytes.Buffer{}
	if err := wb.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	doc.Data = buf.Bytes()
	return doc, nil
}

// FileName: revenue_20240301_150405.xlsx
func FileName(kind reports.Kind, format Format, now time.Time) string {
	base := strings.ReplaceAll(string(kind), "-", "_")
	return fmt.Sprintf("%s_%s.%s", base, now.Format("20060102_150405"), format)
}

// FileSharer кладёт документ во временный каталог и отдаёт путь для отправки.
type FileSharer struct {
	Dir string
}

func (s FileSharer) Share(doc *Document) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("share %s: %w", doc.Name, err)
	}
	path := filepath.Join(dir, filepath.Base(doc.Name))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("share %s: %w", doc.Name, err)
	}
	return path, nil
}
