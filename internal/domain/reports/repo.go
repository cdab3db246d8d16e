package reports

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
)

// Period: границы отчёта; нулевые значения не отправляются.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) values() url.Values {
	v := url.Values{}
	if !p.From.IsZero() {
		v.Set("startDate", p.From.Format("2006-01-02"))
	}
	if !p.To.IsZero() {
		v.Set("endDate", p.To.Format("2006-01-02"))
	}
	return v
}

// CurrentMonth: с первого числа текущего месяца по сегодня.
func CurrentMonth(now time.Time) Period {
	return Period{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   now,
	}
}

type Repo struct{ client *api.Client }

func NewRepo(client *api.Client) *Repo { return &Repo{client: client} }

func (r *Repo) fetch(ctx context.Context, kind Kind, p Period, out any) error {
	if err := r.client.Get(ctx, "reports/"+string(kind), p.values(), out); err != nil {
		return fmt.Errorf("fetch %s report: %w", kind, err)
	}
	return nil
}

func (r *Repo) Customer(ctx context.Context, p Period) (*CustomerReport, error) {
	var rep CustomerReport
	if err := r.fetch(ctx, KindCustomer, p, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *Repo) Revenue(ctx context.Context, p Period) (*RevenueReport, error) {
	var rep RevenueReport
	if err := r.fetch(ctx, KindRevenue, p, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *Repo) Expense(ctx context.Context, p Period) (*ExpenseReport, error) {
	var rep ExpenseReport
	if err := r.fetch(ctx, KindExpense, p, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *Repo) Units(ctx context.Context, p Period) (*UnitsReport, error) {
	var rep UnitsReport
	if err := r.fetch(ctx, KindStorageUnits, p, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
