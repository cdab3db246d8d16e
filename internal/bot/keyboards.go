package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки нижнего меню.
const (
	menuCustomers = "Клиенты"
	menuUnits     = "Ячейки"
	menuExpenses  = "Расходы"
	menuBookings  = "Бронирования"
	menuReports   = "Отчёты"
	menuDashboard = "Дашборд"
	menuToken     = "Токен"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// mainReplyKeyboard Нижняя панель (ReplyKeyboard)
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(menuCustomers), tgbotapi.NewKeyboardButton(menuUnits)},
			{tgbotapi.NewKeyboardButton(menuExpenses), tgbotapi.NewKeyboardButton(menuBookings)},
			{tgbotapi.NewKeyboardButton(menuReports), tgbotapi.NewKeyboardButton(menuDashboard)},
			{tgbotapi.NewKeyboardButton(menuToken)},
		},
	}
}
