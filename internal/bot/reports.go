package bot

import (
	"context"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/Spok95/storage-desk/internal/export"
)

func reportLabel(k reports.Kind) string {
	switch k {
	case reports.KindCustomer:
		return "👥 Клиенты"
	case reports.KindRevenue:
		return "💰 Выручка"
	case reports.KindExpense:
		return "💸 Расходы"
	case reports.KindStorageUnits:
		return "📦 Ячейки"
	}
	return string(k)
}

func reportKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reports.Kinds)+1)
	for _, k := range reports.Kinds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reportLabel(k), "rp:kind:"+string(k)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reportFormatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel", "rp:fmt:"+string(export.FormatExcel)),
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF (HTML)", "rp:fmt:"+string(export.FormatHTML)),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

func (b *Bot) showReports(ctx context.Context, chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Отчёт за текущий месяц. Выберите вид:")
	m.ReplyMarkup = reportKindKeyboard()
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateReportPick, dialog.Payload{}, sent.MessageID)
}

func (b *Bot) handleReportCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	switch action {
	case "kind":
		kind := reports.Kind(arg)
		if !kind.Valid() {
			_ = b.answerCallback(cb, "Неизвестный отчёт", true)
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
			reportLabel(kind)+": выберите формат", reportFormatKeyboard())
		b.send(edit)
		b.saveLastStep(ctx, chatID, dialog.StateReportFormat, dialog.Payload{"kind": string(kind)}, msgID)
		_ = b.answerCallback(cb, "", false)

	case "fmt":
		st, err := b.states.Get(ctx, chatID)
		if err != nil || st.State != dialog.StateReportFormat {
			_ = b.answerCallback(cb, "Выберите отчёт заново", true)
			return
		}
		k, _ := dialog.GetString(st.Payload, "kind")
		kind := reports.Kind(k)
		format := export.Format(arg)
		if !kind.Valid() || !format.Valid() {
			_ = b.answerCallback(cb, "Выберите отчёт заново", true)
			return
		}
		_ = b.answerCallback(cb, "Формирую отчёт…", false)
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, reportLabel(kind)+": формирую…"))
		b.sendReport(ctx, chatID, kind, format)
		_ = b.states.Reset(ctx, chatID)
	}
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, kind reports.Kind, format export.Format) {
	s := b.session(ctx, chatID)
	doc, err := s.reports.Generate(ctx, kind, format, reports.CurrentMonth(b.now()))
	if err != nil {
		b.log.Error("report failed", "chat_id", chatID, "report", kind, "format", format, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать отчёт: "+errText(err)))
		return
	}

	path, err := b.sharer.Share(doc)
	if err != nil {
		b.log.Error("report share failed", "chat_id", chatID, "file", doc.Name, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать отчёт: ошибка записи файла"))
		return
	}
	defer func() { _ = os.Remove(path) }()

	d := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	d.Caption = reportLabel(kind) + " · " + doc.Name
	b.send(d)
}
