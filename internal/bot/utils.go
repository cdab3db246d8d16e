package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/dialog"
)

/*** HELPERS ***/

// errGone: записи уже нет на экране (удалена или список перечитан).
var errGone = errors.New("item is no longer shown")

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

// clearPrevStep убрать inline-кнопки у прошлого шага, если он был
func (b *Bot) clearPrevStep(ctx context.Context, chatID int64) {
	st, _ := b.states.Get(ctx, chatID)
	if st == nil || st.Payload == nil {
		return
	}
	if mid, ok := dialog.GetInt(st.Payload, "last_mid"); ok {
		// просто чистим markup, текст оставляем как есть
		rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, mid, rm))
	}
}

// saveLastStep сохранить id текущего бот-сообщения как «последний»
func (b *Bot) saveLastStep(ctx context.Context, chatID int64, nextState dialog.State, payload dialog.Payload, newMID int) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	payload["last_mid"] = float64(newMID)
	if err := b.states.Set(ctx, chatID, nextState, payload); err != nil {
		b.log.Error("save dialog state failed", "chat_id", chatID, "state", nextState, "err", err)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// errText: короткое пояснение ошибки backend для пользователя.
func errText(err error) string {
	var apiErr *api.APIError
	var invalid validator.ValidationErrors
	switch {
	case errors.Is(err, errGone):
		return "запись уже не в списке, обновите его"
	case errors.As(err, &invalid):
		fields := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, fe.Field())
		}
		return "неверно заполнены поля: " + strings.Join(fields, ", ")
	case errors.Is(err, api.ErrNoToken):
		return "не задан токен доступа (кнопка «Токен»)"
	case errors.As(err, &apiErr) && apiErr.StatusCode == 401:
		return "токен не подошёл, задайте новый (кнопка «Токен»)"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, api.ErrNotSuccess):
		return "сервер вернул ошибку"
	}
	return "сервер недоступен, попробуйте позже"
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Бейдж активности
func badge(b bool) string {
	if b {
		return "🟢"
	}
	return "🚫"
}
