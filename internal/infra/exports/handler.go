package exports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/Spok95/storage-desk/internal/export"
)

type Generator interface {
	Generate(ctx context.Context, kind reports.Kind, format export.Format, p reports.Period) (*export.Document, error)
}

type Handler struct {
	log *slog.Logger
	gen Generator
}

func NewHandler(log *slog.Logger, gen Generator) *Handler {
	return &Handler{log: log, gen: gen}
}

// ServeHTTP отдаёт отчёт файлом:
// /exports/revenue?format=xlsx&from=2024-01-01&to=2024-01-31
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind := reports.Kind(r.PathValue("report"))
	if !kind.Valid() {
		http.Error(w, "unknown report", http.StatusNotFound)
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatExcel
	}
	if !format.Valid() {
		http.Error(w, "invalid format parameter", http.StatusBadRequest)
		return
	}

	period, err := parsePeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.gen.Generate(r.Context(), kind, format, period)
	if err != nil {
		h.log.Error("export failed", "report", kind, "format", format, "err", err)
		status := http.StatusBadGateway
		if errors.Is(err, api.ErrNoToken) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, fmt.Sprintf("failed to build %s report", kind), status)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	_, _ = w.Write(doc.Data)
}

func parsePeriod(r *http.Request) (reports.Period, error) {
	var p reports.Period
	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return p, fmt.Errorf("invalid from parameter")
		}
		p.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return p, fmt.Errorf("invalid to parameter")
		}
		p.To = t
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return p, fmt.Errorf("to is before from")
	}
	return p, nil
}
