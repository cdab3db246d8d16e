package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/Spok95/storage-desk/internal/domain/customers"
	"github.com/Spok95/storage-desk/internal/domain/expenses"
	"github.com/Spok95/storage-desk/internal/domain/units"
	"github.com/Spok95/storage-desk/internal/domain/warehouses"
	"github.com/Spok95/storage-desk/internal/export"
)

const customerFormHelp = "Новый клиент одним сообщением:\n" +
	"Имя Фамилия; телефон; email; адрес\n" +
	"email и адрес можно не указывать."

const expenseFormHelp = "Новый расход одним сообщением:\n" +
	"тип; сумма; дата (ГГГГ-ММ-ДД или «сегодня»); склад; описание\n" +
	"Типы: обслуживание, коммунальные, зарплата, аренда, расходники, прочее."

func splitFields(text string) []string {
	parts := strings.Split(text, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseCustomerInput разбирает «Имя Фамилия; телефон; email; адрес».
func parseCustomerInput(text string) (customers.Input, error) {
	f := splitFields(text)
	if len(f) < 2 || f[0] == "" || f[1] == "" {
		return customers.Input{}, errors.New("нужны как минимум имя с фамилией и телефон")
	}
	first, last, _ := strings.Cut(f[0], " ")
	in := customers.Input{FirstName: first, LastName: strings.TrimSpace(last), Phone: f[1]}
	if len(f) > 2 {
		in.Email = f[2]
	}
	if len(f) > 3 {
		in.Address = f[3]
	}
	if in.LastName == "" {
		return customers.Input{}, errors.New("укажите имя и фамилию через пробел")
	}
	return in, nil
}

// parseExpenseInput разбирает «тип; сумма; дата; склад; описание»; склад, имя или id.
func parseExpenseInput(text string, whs []warehouses.Warehouse, now time.Time) (expenses.Input, error) {
	f := splitFields(text)
	if len(f) < 4 {
		return expenses.Input{}, errors.New("нужны тип, сумма, дата и склад")
	}

	typ, ok := expenseTypeByLabel(f[0])
	if !ok {
		return expenses.Input{}, fmt.Errorf("неизвестный тип «%s»", f[0])
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(f[1], ",", "."))
	if err != nil || !amount.IsPositive() {
		return expenses.Input{}, fmt.Errorf("сумма «%s» должна быть положительным числом", f[1])
	}

	date := f[2]
	if date == "" || strings.EqualFold(date, "сегодня") {
		date = now.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return expenses.Input{}, fmt.Errorf("дата «%s» не в формате ГГГГ-ММ-ДД", f[2])
	}

	wh, ok := findWarehouse(whs, f[3])
	if !ok {
		return expenses.Input{}, fmt.Errorf("склад «%s» не найден", f[3])
	}

	in := expenses.Input{Type: typ, Amount: amount, Date: date, WarehouseID: wh.ID}
	if len(f) > 4 {
		in.Description = strings.Join(f[4:], "; ")
	}
	return in, nil
}

func expenseTypeByLabel(s string) (expenses.Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range expenses.Types {
		if s == string(t) || s == expenseTypeLabel(t) {
			return t, true
		}
	}
	return "", false
}

func findWarehouse(whs []warehouses.Warehouse, s string) (warehouses.Warehouse, bool) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		for _, w := range whs {
			if w.ID == id {
				return w, true
			}
		}
	}
	for _, w := range whs {
		if strings.EqualFold(w.Name, s) {
			return w, true
		}
	}
	return warehouses.Warehouse{}, false
}

func (b *Bot) askForm(ctx context.Context, chatID int64, key string) {
	state, help := dialog.StateCustomerNew, customerFormHelp
	if key == listExpenses {
		state, help = dialog.StateExpenseNew, expenseFormHelp
	}
	m := tgbotapi.NewMessage(chatID, help)
	m.ReplyMarkup = navKeyboard(false, true)
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, state, dialog.Payload{}, sent.MessageID)
}

func (b *Bot) submitCustomer(ctx context.Context, chatID int64, text string) {
	in, err := parseCustomerInput(text)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Не получилось: "+err.Error()+"\n\n"+customerFormHelp))
		return
	}
	s := b.session(ctx, chatID)
	c, err := s.custRepo.Create(ctx, in)
	if err != nil {
		b.log.Error("create customer failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось создать клиента: "+errText(err)))
		return
	}
	s.customers.add(*c)
	b.clearPrevStep(ctx, chatID)
	_ = b.states.Set(ctx, chatID, dialog.StateCustomerList, dialog.Payload{})
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Клиент #%d %s добавлен.", c.ID, c.FullName())))
}

func (b *Bot) submitExpense(ctx context.Context, chatID int64, text string) {
	s := b.session(ctx, chatID)
	whs, err := s.whRepo.List(ctx)
	if err != nil {
		b.log.Error("list warehouses failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить склады: "+errText(err)))
		return
	}
	in, err := parseExpenseInput(text, whs, b.now())
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Не получилось: "+err.Error()+"\n\n"+expenseFormHelp))
		return
	}
	e, err := s.expRepo.Create(ctx, in)
	if err != nil {
		b.log.Error("create expense failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось добавить расход: "+errText(err)))
		return
	}
	s.expenses.add(*e)
	b.clearPrevStep(ctx, chatID)
	_ = b.states.Set(ctx, chatID, dialog.StateExpenseList, dialog.Payload{})
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Расход #%d на %s добавлен.", e.ID, export.Currency(e.Amount))))
}

// toggleCustomer переключает активность клиента и обновляет строку в списке.
func (b *Bot) toggleCustomer(ctx context.Context, s *session, id int64) error {
	c, ok := s.customers.find(id)
	if !ok {
		return fmt.Errorf("customer %d: %w", id, errGone)
	}
	updated, err := s.custRepo.SetActive(ctx, id, !c.Active())
	if err != nil {
		return err
	}
	s.customers.replace(*updated)
	return nil
}

func (b *Bot) completeBooking(ctx context.Context, s *session, id int64) error {
	if _, ok := s.bookings.find(id); !ok {
		return fmt.Errorf("booking %d: %w", id, errGone)
	}
	updated, err := s.bookRepo.SetStatus(ctx, id, bookings.StatusCompleted)
	if err != nil {
		return err
	}
	s.bookings.replace(*updated)
	return nil
}

// toggleMaintenance: свободная/занятая ячейка уходит на обслуживание, с обслуживания, в свободные.
func (b *Bot) toggleMaintenance(ctx context.Context, s *session, id int64) error {
	u, ok := s.units.find(id)
	if !ok {
		return fmt.Errorf("unit %d: %w", id, errGone)
	}
	next := units.StatusMaintenance
	if u.Status == units.StatusMaintenance {
		next = units.StatusAvailable
	}
	if _, err := s.unitsRepo.SetStatus(ctx, id, next); err != nil {
		return err
	}
	return s.units.reload(ctx)
}
