package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/domain/units"
	"github.com/Spok95/storage-desk/internal/export"
	"github.com/Spok95/storage-desk/internal/listdata"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		_ = b.states.Reset(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "Склад: клиенты, ячейки, бронирования, расходы и отчёты. Выберите раздел в меню ниже.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	case "token":
		b.askToken(ctx, chatID)
	case "cancel":
		b.clearPrevStep(ctx, chatID)
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, "Операция отменена."))
	default:
		b.send(tgbotapi.NewMessage(chatID, "Неизвестная команда. Используйте меню ниже."))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch text {
	case menuCustomers:
		b.openList(ctx, chatID, listCustomers)
		return
	case menuExpenses:
		b.openList(ctx, chatID, listExpenses)
		return
	case menuBookings:
		b.openList(ctx, chatID, listBookings)
		return
	case menuUnits:
		b.openUnits(ctx, chatID)
		return
	case menuReports:
		b.clearPrevStep(ctx, chatID)
		b.showReports(ctx, chatID)
		return
	case menuDashboard:
		_ = b.states.Set(ctx, chatID, dialog.StateDashboard, dialog.Payload{})
		b.showDashboard(ctx, chatID)
		return
	case menuToken:
		b.askToken(ctx, chatID)
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state failed", "chat_id", chatID, "err", err)
		return
	}

	switch {
	case st.State == dialog.StateAwaitToken:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Токен не может быть пустым. Отправьте токен сообщением."))
			return
		}
		if err := b.states.SetToken(ctx, chatID, text); err != nil {
			b.log.Error("save token failed", "chat_id", chatID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Не удалось сохранить токен."))
			return
		}
		b.clearPrevStep(ctx, chatID)
		_ = b.states.Reset(ctx, chatID)
		// списки, загруженные со старым токеном, больше не показываем
		b.dropSession(chatID)
		// сообщение с токеном в чате не оставляем
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
			b.log.Warn("delete token message failed", "chat_id", chatID, "err", err)
		}
		b.send(tgbotapi.NewMessage(chatID, "Токен сохранён."))

	case st.State == dialog.StateCustomerNew:
		b.submitCustomer(ctx, chatID, text)

	case st.State == dialog.StateExpenseNew:
		b.submitExpense(ctx, chatID, text)

	case st.State.Searchable():
		q := text
		if q == "-" {
			q = ""
		}
		if !b.session(ctx, chatID).triggerSearch(q) {
			b.send(tgbotapi.NewMessage(chatID, "Откройте список, чтобы искать."))
		}

	default:
		m := tgbotapi.NewMessage(chatID, "Выберите раздел в меню ниже.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	}
}

func (b *Bot) askToken(ctx context.Context, chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Отправьте токен доступа к складу одним сообщением.")
	m.ReplyMarkup = navKeyboard(false, true)
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateAwaitToken, dialog.Payload{}, sent.MessageID)
}

// openList присылает новое сообщение списка и загружает первую страницу; дальше его перерисовывает watch.
func (b *Bot) openList(ctx context.Context, chatID int64, key string) {
	s := b.session(ctx, chatID)
	sc := s.screen(key)

	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Загрузка…"))
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	_ = b.states.Set(ctx, chatID, listStates[key], dialog.Payload{})
	s.show(key, sent.MessageID)

	if err := sc.load(s.ctx); err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить список: "+errText(err)))
	}
	b.render(s)
}

func (b *Bot) openUnits(ctx context.Context, chatID int64) {
	s := b.session(ctx, chatID)
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, "⏳ Загрузка…"))
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateUnitList, dialog.Payload{})
	s.show(screenUnits, sent.MessageID)

	if err := s.units.load(ctx); err != nil {
		b.log.Error("units load failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить ячейки: "+errText(err)))
	}
	b.render(s)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	if data == "nav:cancel" {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Операция отменена.")
		_ = b.answerCallback(cb, "Отменено", false)
		return
	}
	if data == "nav:back" {
		st, _ := b.states.Get(ctx, chatID)
		if st != nil && st.State == dialog.StateReportFormat {
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
				"Отчёт за текущий месяц. Выберите вид:", reportKindKeyboard())
			b.send(edit)
			b.saveLastStep(ctx, chatID, dialog.StateReportPick, dialog.Payload{}, cb.Message.MessageID)
		}
		_ = b.answerCallback(cb, "", false)
		return
	}

	parts := strings.SplitN(data, ":", 4)
	switch parts[0] {
	case "ls":
		if len(parts) < 3 {
			break
		}
		arg := ""
		if len(parts) == 4 {
			arg = parts[3]
		}
		b.handleListCallback(ctx, cb, parts[1], parts[2], arg)
		return
	case "un":
		if len(parts) < 2 {
			break
		}
		arg := ""
		if len(parts) >= 3 {
			arg = parts[2]
		}
		b.handleUnitsCallback(ctx, cb, parts[1], arg)
		return
	case "rp":
		if len(parts) < 3 {
			break
		}
		b.handleReportCallback(ctx, cb, parts[1], parts[2])
		return
	}
	_ = b.answerCallback(cb, "Неизвестная команда", false)
}

func (b *Bot) handleListCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, key, action, arg string) {
	chatID := cb.Message.Chat.ID
	s := b.session(ctx, chatID)
	sc := s.screen(key)
	if sc == nil {
		_ = b.answerCallback(cb, "Неизвестный список", false)
		return
	}

	// кнопки могли остаться от прошлого запуска: подхватываем это сообщение
	s.show(key, cb.Message.MessageID)
	if st, err := b.states.Get(ctx, chatID); err == nil && st.State != listStates[key] {
		_ = b.states.Set(ctx, chatID, listStates[key], dialog.Payload{})
	}
	if !sc.ready() && action != "refresh" {
		if err := sc.load(s.ctx); err != nil {
			b.listError(cb, key, err)
			return
		}
	}

	var err error
	switch action {
	case "next":
		err = sc.next(s.ctx)
	case "prev":
		sc.prev()
	case "refresh":
		err = sc.refresh(s.ctx)
	case "filter":
		err = sc.cycleFilter(s.ctx)
	case "del":
		id, ok := parseID(arg)
		if !ok {
			break
		}
		_ = b.answerCallback(cb, "Удаляю…", false)
		go func() {
			if err := sc.remove(s.ctx, id); err != nil && !errors.Is(err, context.Canceled) {
				b.log.Error("delete failed", "chat_id", chatID, "list", key, "id", id, "err", err)
				if errors.Is(err, listdata.ErrItemNotFound) {
					b.render(s)
				}
			}
		}()
		return
	case "undo":
		id, ok := parseID(arg)
		if ok && sc.undo(id) {
			_ = b.answerCallback(cb, "Удаление отменено", false)
		} else {
			_ = b.answerCallback(cb, "Уже удалено", false)
		}
		return
	case "new":
		_ = b.answerCallback(cb, "", false)
		b.askForm(ctx, chatID, key)
		return
	case "toggle", "done":
		id, ok := parseID(arg)
		if !ok {
			break
		}
		if key == listCustomers && action == "toggle" {
			err = b.toggleCustomer(ctx, s, id)
		} else if key == listBookings && action == "done" {
			err = b.completeBooking(ctx, s, id)
		}
	case "mail":
		id, ok := parseID(arg)
		if !ok {
			break
		}
		_ = b.answerCallback(cb, "", false)
		b.showEmails(ctx, chatID, id)
		return
	}
	if err != nil {
		b.listError(cb, key, err)
		return
	}
	b.render(s)
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) listError(cb *tgbotapi.CallbackQuery, key string, err error) {
	b.log.Error("list action failed", "chat_id", cb.Message.Chat.ID, "list", key, "err", err)
	_ = b.answerCallback(cb, "Ошибка: "+errText(err), true)
}

func (b *Bot) showEmails(ctx context.Context, chatID, customerID int64) {
	s := b.session(ctx, chatID)
	list, err := s.emails.ListByUser(ctx, customerID)
	if err != nil {
		b.log.Error("emails failed", "chat_id", chatID, "customer_id", customerID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить письма: "+errText(err)))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Писем клиенту #%d не было.", customerID)))
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "✉️ Письма клиенту #%d:\n", customerID)
	for _, e := range list {
		fmt.Fprintf(&sb, "• %s · %s", export.Date(e.SentAt), truncate(e.Subject, 60))
		if e.Status != "" {
			sb.WriteString(" · " + e.Status)
		}
		sb.WriteString("\n")
	}
	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) handleUnitsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	s := b.session(ctx, chatID)
	s.show(screenUnits, cb.Message.MessageID)

	if s.units.view.Len() == 0 || action == "reload" {
		if err := s.units.load(ctx); err != nil {
			b.log.Error("units load failed", "chat_id", chatID, "err", err)
			_ = b.answerCallback(cb, "Ошибка: "+errText(err), true)
			return
		}
	}

	switch action {
	case "wh":
		i, err := strconv.Atoi(arg)
		if err != nil {
			i = 0
		}
		s.units.selectWarehouse(i)
	case "sort":
		s.units.sortBy(units.SortKey(arg))
	case "dir":
		s.units.toggleDirection()
	case "prev":
		s.units.turn(-1)
	case "next":
		s.units.turn(1)
	case "svc":
		id, ok := parseID(arg)
		if !ok {
			break
		}
		if err := b.toggleMaintenance(ctx, s, id); err != nil {
			b.log.Error("unit status failed", "chat_id", chatID, "unit_id", id, "err", err)
			_ = b.answerCallback(cb, "Ошибка: "+errText(err), true)
			return
		}
	}
	b.render(s)
	_ = b.answerCallback(cb, "", false)
}
