package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/domain/dashboard"
	"github.com/Spok95/storage-desk/internal/export"
)

const dashboardUnitsShown = 10

func (b *Bot) showDashboard(ctx context.Context, chatID int64) {
	s := b.session(ctx, chatID)
	ov, err := s.dashboard.Load(ctx, b.now())
	if err != nil {
		b.log.Error("dashboard failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить дашборд: "+errText(err)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, dashboardText(ov)))
}

func dashboardText(ov *dashboard.Overview) string {
	c, st := ov.Customers, ov.Storage
	var sb strings.Builder
	sb.WriteString("📊 Дашборд\n\n")
	fmt.Fprintf(&sb, "Клиенты: %d (активных %d, неактивных %d, новых %d)\n",
		c.TotalCustomers, c.ActiveCustomers, c.InactiveCustomers, c.NewCustomers)
	fmt.Fprintf(&sb, "Выручка за месяц: %s\n\n", export.Currency(c.MonthlyRevenue))
	fmt.Fprintf(&sb, "Ячейки: %d (свободно %d, занято %d, на обслуживании %d)\n",
		st.TotalUnits, st.Available, st.Occupied, st.Maintenance)
	fmt.Fprintf(&sb, "Заполненность: %s\n\n", export.Percent(st.OccupancyRate))

	units := ov.Availability.Units
	if len(units) == 0 {
		fmt.Fprintf(&sb, "Свободных ячеек на %s нет.", ov.Availability.Date)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Свободно на %s:\n", ov.Availability.Date)
	for _, u := range units[:min(len(units), dashboardUnitsShown)] {
		fmt.Fprintf(&sb, "• %s · %s · свободно %g из %g м²\n", u.UnitNumber, u.WarehouseName, u.FreeSpace, u.Size)
	}
	if rest := len(units) - dashboardUnitsShown; rest > 0 {
		fmt.Fprintf(&sb, "…и ещё %d", rest)
	}
	return sb.String()
}
