package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/Spok95/storage-desk/internal/domain/customers"
	"github.com/Spok95/storage-desk/internal/domain/expenses"
	"github.com/Spok95/storage-desk/internal/export"
	"github.com/Spok95/storage-desk/internal/listdata"
)

// screen: список с серверной пагинацией, поиском и фильтром.
type screen interface {
	renderer
	ready() bool
	load(ctx context.Context) error
	refresh(ctx context.Context) error
	next(ctx context.Context) error
	prev()
	remove(ctx context.Context, id int64) error
	undo(id int64) bool
	cycleFilter(ctx context.Context) error
	setSearch(ctx context.Context, q string) error
	changes() <-chan struct{}
	close()
}

type filterOption struct {
	value string
	label string
}

type listScreen[T any] struct {
	key     string
	title   string
	ctrl    *listdata.Controller[T]
	size    int
	id      func(T) int64
	line    func(T) string
	filters []filterOption
	// доп. кнопки в строке записи
	extra func(T) []tgbotapi.InlineKeyboardButton
	// кнопка «➕», форма создания
	creatable bool

	loaded atomic.Bool
	mu     sync.Mutex
	view   int // страница, которую сейчас видно в сообщении
}

func newListScreen[T any](key, title string, src listdata.Source[T], ui UIConfig, log *slog.Logger,
	id func(T) int64, line func(T) string, filters []filterOption) *listScreen[T] {

	size := ui.PageSize
	if size <= 0 {
		size = listdata.DefaultPageSize
	}
	return &listScreen[T]{
		key:   key,
		title: title,
		ctrl: listdata.NewController(src, listdata.Config[T]{
			PageSize:         size,
			DeleteDelay:      ui.DeleteDelay,
			RestoreOnFailure: ui.RestoreOnFailedDelete,
			ID:               id,
			Log:              log.With("list", key),
		}),
		size:    size,
		id:      id,
		line:    line,
		filters: filters,
		view:    1,
	}
}

func newCustomerScreen(src listdata.Source[customers.Customer], ui UIConfig, log *slog.Logger) *listScreen[customers.Customer] {
	s := newListScreen(listCustomers, "👥 Клиенты", src, ui, log, customers.ID, customerLine, []filterOption{
		{"", "все"},
		{"active", "активные"},
		{"inactive", "неактивные"},
	})
	s.extra = func(c customers.Customer) []tgbotapi.InlineKeyboardButton {
		toggle := "🚫"
		if !c.Active() {
			toggle = "🟢"
		}
		return []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(toggle, fmt.Sprintf("ls:%s:toggle:%d", listCustomers, c.ID)),
			tgbotapi.NewInlineKeyboardButtonData("✉️", fmt.Sprintf("ls:%s:mail:%d", listCustomers, c.ID)),
		}
	}
	s.creatable = true
	return s
}

func newExpenseScreen(src listdata.Source[expenses.Expense], ui UIConfig, log *slog.Logger) *listScreen[expenses.Expense] {
	filters := []filterOption{{"", "все"}}
	for _, t := range expenses.Types {
		filters = append(filters, filterOption{string(t), expenseTypeLabel(t)})
	}
	s := newListScreen(listExpenses, "💸 Расходы", src, ui, log, expenses.ID, expenseLine, filters)
	s.creatable = true
	return s
}

func newBookingScreen(src listdata.Source[bookings.Booking], ui UIConfig, log *slog.Logger) *listScreen[bookings.Booking] {
	s := newListScreen(listBookings, "📅 Бронирования", src, ui, log, bookings.ID, bookingLine, []filterOption{
		{"", "все"},
		{string(bookings.StatusActive), "активные"},
		{string(bookings.StatusCompleted), "завершённые"},
		{string(bookings.StatusCancelled), "отменённые"},
	})
	s.extra = func(b bookings.Booking) []tgbotapi.InlineKeyboardButton {
		if !b.Active() {
			return nil
		}
		return []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Завершить", fmt.Sprintf("ls:%s:done:%d", listBookings, b.ID)),
		}
	}
	return s
}

func (s *listScreen[T]) setView(v int) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *listScreen[T]) ready() bool { return s.loaded.Load() }

func (s *listScreen[T]) load(ctx context.Context) error {
	s.setView(1)
	s.loaded.Store(true)
	return s.ctrl.Load(ctx)
}

func (s *listScreen[T]) refresh(ctx context.Context) error {
	s.setView(1)
	s.loaded.Store(true)
	return s.ctrl.Refresh(ctx)
}

// next листает вперёд; если загруженное кончилось, подгружает следующую страницу с backend.
func (s *listScreen[T]) next(ctx context.Context) error {
	s.mu.Lock()
	v := s.view
	s.mu.Unlock()

	st := s.ctrl.Snapshot()
	if v*s.size >= len(st.Items) {
		if st.Page >= st.TotalPages {
			return nil
		}
		if err := s.ctrl.LoadMore(ctx); err != nil {
			return err
		}
	}

	n := len(s.ctrl.Snapshot().Items)
	s.mu.Lock()
	if s.view*s.size < n {
		s.view++
	}
	s.mu.Unlock()
	return nil
}

func (s *listScreen[T]) prev() {
	s.mu.Lock()
	if s.view > 1 {
		s.view--
	}
	s.mu.Unlock()
}

func (s *listScreen[T]) remove(ctx context.Context, id int64) error {
	err := s.ctrl.Delete(ctx, id)
	if errors.Is(err, listdata.ErrDeleteCanceled) {
		return nil
	}
	return err
}

func (s *listScreen[T]) undo(id int64) bool { return s.ctrl.CancelDelete(id) }

func (s *listScreen[T]) cycleFilter(ctx context.Context) error {
	if len(s.filters) == 0 {
		return nil
	}
	next := nextFilter(s.filters, s.ctrl.Snapshot().Filter)
	s.setView(1)
	s.loaded.Store(true)
	return s.ctrl.SetFilter(ctx, next.value)
}

func (s *listScreen[T]) setSearch(ctx context.Context, q string) error {
	s.setView(1)
	s.loaded.Store(true)
	return s.ctrl.SetSearch(ctx, q)
}

func (s *listScreen[T]) changes() <-chan struct{} { return s.ctrl.Subscribe() }

// add показывает только что созданную запись первой строкой.
func (s *listScreen[T]) add(item T) {
	s.setView(1)
	s.ctrl.Add(item)
}

func (s *listScreen[T]) replace(item T) bool { return s.ctrl.Update(item) }

func (s *listScreen[T]) find(id int64) (T, bool) {
	for _, it := range s.ctrl.Snapshot().Items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *listScreen[T]) close() { s.ctrl.Close() }

func (s *listScreen[T]) render() (string, tgbotapi.InlineKeyboardMarkup) {
	st := s.ctrl.Snapshot()
	s.mu.Lock()
	from, to, view := window(len(st.Items), s.view, s.size)
	s.view = view
	s.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s · %d\n", s.title, st.TotalItems)
	if len(s.filters) > 0 {
		fmt.Fprintf(&sb, "Фильтр: %s", filterLabel(s.filters, st.Filter))
	}
	if st.Search != "" {
		fmt.Fprintf(&sb, " · Поиск: «%s»", st.Search)
	}
	fmt.Fprintf(&sb, "\nСтр. %d из %d\n", view, max(st.TotalPages, pagesFor(len(st.Items), s.size)))

	switch {
	case st.Loading:
		sb.WriteString("⏳ Загрузка…\n")
	case st.Refreshing:
		sb.WriteString("🔄 Обновление…\n")
	case st.LoadingMore:
		sb.WriteString("⏳ Подгружаю…\n")
	}
	sb.WriteString("\n")

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if from == to && !st.Loading && !st.Refreshing {
		sb.WriteString("Ничего не найдено.\n")
	}
	for _, it := range st.Items[from:to] {
		id := s.id(it)
		removing := slices.Contains(st.Removing, id)
		if removing {
			sb.WriteString("⌛ ")
		} else {
			sb.WriteString("• ")
		}
		sb.WriteString(s.line(it))
		sb.WriteString("\n")

		var row []tgbotapi.InlineKeyboardButton
		if removing {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("↩️ Отменить #%d", id), fmt.Sprintf("ls:%s:undo:%d", s.key, id)))
		} else {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 #%d", id), fmt.Sprintf("ls:%s:del:%d", s.key, id)))
			if s.extra != nil {
				row = append(row, s.extra(it)...)
			}
		}
		rows = append(rows, row)
	}
	sb.WriteString("\nНапишите текст для поиска, «-» сбросит поиск.")

	nav := []tgbotapi.InlineKeyboardButton{}
	if view > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", "ls:"+s.key+":prev"))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("🔄", "ls:"+s.key+":refresh"))
	if s.creatable {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➕", "ls:"+s.key+":new"))
	}
	if to < len(st.Items) || st.Page < st.TotalPages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", "ls:"+s.key+":next"))
	}
	rows = append(rows, nav)
	if len(s.filters) > 0 {
		next := nextFilter(s.filters, st.Filter)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Фильтр → "+next.label, "ls:"+s.key+":filter"),
		))
	}
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// window: границы видимой страницы view в n загруженных записях; view прижимается к допустимому.
func window(n, view, size int) (from, to, page int) {
	page = min(max(view, 1), pagesFor(n, size))
	from = (page - 1) * size
	to = min(from+size, n)
	return from, to, page
}

func pagesFor(n, size int) int {
	return max((n+size-1)/size, 1)
}

func nextFilter(opts []filterOption, current string) filterOption {
	for i, o := range opts {
		if o.value == current {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

func filterLabel(opts []filterOption, current string) string {
	for _, o := range opts {
		if o.value == current {
			return o.label
		}
	}
	return current
}

func customerLine(c customers.Customer) string {
	parts := []string{fmt.Sprintf("%s #%d %s", badge(c.Active()), c.ID, c.FullName())}
	if c.Phone != "" {
		parts = append(parts, c.Phone)
	}
	if c.Email != "" {
		parts = append(parts, c.Email)
	}
	return strings.Join(parts, " · ")
}

func expenseLine(e expenses.Expense) string {
	s := fmt.Sprintf("#%d %s · %s · %s", e.ID, export.Date(e.Date), expenseTypeLabel(e.Type), export.Currency(e.Amount))
	if d := truncate(e.Description, 40); d != "" {
		s += " · " + d
	}
	return s
}

func bookingLine(b bookings.Booking) string {
	name := b.CustomerName()
	if name == "" {
		name = fmt.Sprintf("клиент #%d", b.CustomerID)
	}
	return fmt.Sprintf("#%d %s · ячейка #%d · %s – %s · %s · %s",
		b.ID, name, b.UnitID, export.Date(b.StartDate), export.Date(b.EndDate),
		bookingStatusLabel(b.Status), export.Currency(b.TotalAmount))
}

func expenseTypeLabel(t expenses.Type) string {
	switch t {
	case expenses.TypeMaintenance:
		return "обслуживание"
	case expenses.TypeUtilities:
		return "коммунальные"
	case expenses.TypeSalary:
		return "зарплата"
	case expenses.TypeRent:
		return "аренда"
	case expenses.TypeSupplies:
		return "расходники"
	case expenses.TypeOther:
		return "прочее"
	}
	return string(t)
}

func bookingStatusLabel(s bookings.Status) string {
	switch s {
	case bookings.StatusActive:
		return "активна"
	case bookings.StatusCompleted:
		return "завершена"
	case bookings.StatusCancelled:
		return "отменена"
	}
	return string(s)
}
