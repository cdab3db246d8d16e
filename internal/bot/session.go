package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/Spok95/storage-desk/internal/domain/customers"
	"github.com/Spok95/storage-desk/internal/domain/dashboard"
	"github.com/Spok95/storage-desk/internal/domain/emails"
	"github.com/Spok95/storage-desk/internal/domain/expenses"
	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/Spok95/storage-desk/internal/domain/units"
	"github.com/Spok95/storage-desk/internal/domain/warehouses"
	"github.com/Spok95/storage-desk/internal/export"
	"github.com/Spok95/storage-desk/internal/listdata"
)

// Ключи экранов; они же второй сегмент callback data.
const (
	listCustomers = "cust"
	listExpenses  = "exp"
	listBookings  = "book"
	screenUnits   = "units"
)

var listStates = map[string]dialog.State{
	listCustomers: dialog.StateCustomerList,
	listExpenses:  dialog.StateExpenseList,
	listBookings:  dialog.StateBookingList,
}

type renderer interface {
	render() (string, tgbotapi.InlineKeyboardMarkup)
}

// session: экраны одного чата. Живёт, пока работает бот.
type session struct {
	chatID int64
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	screens   map[string]screen
	customers *listScreen[customers.Customer]
	expenses  *listScreen[expenses.Expense]
	bookings  *listScreen[bookings.Booking]
	units     *unitsScreen

	custRepo  *customers.Repo
	expRepo   *expenses.Repo
	bookRepo  *bookings.Repo
	unitsRepo *units.Repo
	whRepo    *warehouses.Repo

	reports   *export.Generator
	dashboard *dashboard.Repo
	emails    *emails.Repo
	// у каждого списка своя отложенная строка поиска
	search map[string]*listdata.Debouncer[string]

	mu     sync.Mutex
	active string // экран, который сейчас показан в сообщении msgID
	msgID  int
	last   string // последний отрисованный текст+кнопки
}

func newSession(parent context.Context, chatID int64, client *api.Client, ui UIConfig,
	log *slog.Logger, redraw func(*session)) *session {

	ctx, cancel := context.WithCancel(parent)
	s := &session{
		chatID:    chatID,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		custRepo:  customers.NewRepo(client),
		expRepo:   expenses.NewRepo(client),
		bookRepo:  bookings.NewRepo(client),
		unitsRepo: units.NewRepo(client),
		whRepo:    warehouses.NewRepo(client),
		reports:   export.NewGenerator(reports.NewRepo(client)),
		dashboard: dashboard.NewRepo(client),
		emails:    emails.NewRepo(client),
	}

	s.units = newUnitsScreen(s.unitsRepo, ui)
	s.customers = newCustomerScreen(s.custRepo.Source(), ui, log)
	s.expenses = newExpenseScreen(s.expRepo.Source(), ui, log)
	s.bookings = newBookingScreen(s.bookRepo.Source(), ui, log)
	s.screens = map[string]screen{
		listCustomers: s.customers,
		listExpenses:  s.expenses,
		listBookings:  s.bookings,
	}

	s.initSearch(ui.SearchDebounce)

	for key, sc := range s.screens {
		go s.watch(key, sc.changes(), redraw)
	}
	return s
}

// watch перерисовывает экран после каждого изменения его контроллера.
func (s *session) watch(key string, ch <-chan struct{}, redraw func(*session)) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ch:
			s.mu.Lock()
			shown := s.active == key
			s.mu.Unlock()
			if shown {
				redraw(s)
			}
		}
	}
}

// show делает экран key текущим в сообщении msgID.
func (s *session) show(key string, msgID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != key || s.msgID != msgID {
		s.last = ""
	}
	s.active = key
	s.msgID = msgID
}

func (s *session) initSearch(delay time.Duration) {
	s.search = make(map[string]*listdata.Debouncer[string], len(s.screens))
	for key, sc := range s.screens {
		s.search[key] = listdata.NewDebouncer(delay, func(q string) {
			if err := sc.setSearch(s.ctx, q); err != nil {
				s.log.Error("search failed", "list", key, "search", q, "err", err)
			}
		})
	}
}

// triggerSearch откладывает поиск в списке, который показан сейчас.
func (s *session) triggerSearch(q string) bool {
	s.mu.Lock()
	d := s.search[s.active]
	s.mu.Unlock()
	if d == nil {
		return false
	}
	d.Trigger(q)
	return true
}

func (s *session) screen(key string) screen {
	return s.screens[key]
}

// frame отдаёт то, что надо нарисовать; ok=false, если рисовать нечего или ничего не изменилось.
func (s *session) frame() (msgID int, text string, kb tgbotapi.InlineKeyboardMarkup, ok bool) {
	s.mu.Lock()
	key, msgID := s.active, s.msgID
	s.mu.Unlock()
	if msgID == 0 {
		return 0, "", kb, false
	}

	var r renderer
	if key == screenUnits {
		r = s.units
	} else if sc := s.screens[key]; sc != nil {
		r = sc
	}
	if r == nil {
		return 0, "", kb, false
	}
	text, kb = r.render()

	sig := text + keyboardSig(kb)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != key || s.msgID != msgID || s.last == sig {
		return 0, "", kb, false
	}
	s.last = sig
	return msgID, text, kb, true
}

func keyboardSig(kb tgbotapi.InlineKeyboardMarkup) string {
	var sb strings.Builder
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			sb.WriteString(btn.Text)
			if btn.CallbackData != nil {
				sb.WriteString("=" + *btn.CallbackData)
			}
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *session) close() {
	for _, d := range s.search {
		d.Stop()
	}
	s.cancel()
	for _, sc := range s.screens {
		sc.close()
	}
}

func (b *Bot) render(s *session) {
	msgID, text, kb, ok := s.frame()
	if !ok {
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(s.chatID, msgID, text, kb)
	b.send(edit)
}
