package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/storage-desk/internal/domain/units"
	"github.com/Spok95/storage-desk/internal/export"
)

// unitsSource: откуда экран берёт ячейки (units.Repo в проде).
type unitsSource interface {
	ListAll(ctx context.Context, limit int) ([]units.StorageUnit, error)
}

// unitsScreen: все ячейки забираются один раз, дальше фильтр/сортировка/страницы на клиенте.
type unitsScreen struct {
	src   unitsSource
	limit int
	view  *units.View

	mu sync.Mutex
	q  units.Query
}

func newUnitsScreen(src unitsSource, ui UIConfig) *unitsScreen {
	size := ui.PageSize
	if size <= 0 {
		size = 10
	}
	return &unitsScreen{
		src:   src,
		limit: ui.UnitsBulkLimit,
		view:  units.NewView(nil),
		q: units.Query{
			Warehouse: units.AllWarehouses,
			SortKey:   units.SortUnitNumber,
			Direction: units.Asc,
			Page:      1,
			PageSize:  size,
		},
	}
}

func (u *unitsScreen) load(ctx context.Context) error {
	return u.fetch(ctx, true)
}

// reload перечитывает ячейки, оставаясь на текущей странице.
func (u *unitsScreen) reload(ctx context.Context) error {
	return u.fetch(ctx, false)
}

func (u *unitsScreen) fetch(ctx context.Context, firstPage bool) error {
	all, err := u.src.ListAll(ctx, u.limit)
	if err != nil {
		return err
	}
	u.view.SetData(all)
	u.mu.Lock()
	defer u.mu.Unlock()
	// выбранного склада могло не остаться
	if u.q.Warehouse != units.AllWarehouses && u.view.Counts()[u.q.Warehouse] == 0 {
		u.q.Warehouse = units.AllWarehouses
		firstPage = true
	}
	if firstPage {
		u.q.Page = 1
	} else {
		u.q.Page = min(u.q.Page, u.view.Result(u.q).TotalPages)
	}
	return nil
}

func (u *unitsScreen) find(id int64) (units.StorageUnit, bool) {
	for _, it := range u.view.Result(u.query()).PageItems {
		if it.ID == id {
			return it, true
		}
	}
	return units.StorageUnit{}, false
}

// selectWarehouse: 0, все склады, i, i-й склад из списка Warehouses.
func (u *unitsScreen) selectWarehouse(i int) {
	names := u.view.Warehouses()
	name := units.AllWarehouses
	if i > 0 && i <= len(names) {
		name = names[i-1]
	}
	u.mu.Lock()
	u.q.Warehouse = name
	u.q.Page = 1
	u.mu.Unlock()
}

func (u *unitsScreen) sortBy(key units.SortKey) {
	if !slices.Contains(units.SortKeys, key) {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.q.SortKey == key {
		return
	}
	u.q.SortKey = key
	u.q.Page = 1
}

func (u *unitsScreen) toggleDirection() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.q.Direction == units.Asc {
		u.q.Direction = units.Desc
	} else {
		u.q.Direction = units.Asc
	}
	u.q.Page = 1
}

func (u *unitsScreen) turn(delta int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	res := u.view.Result(u.q)
	u.q.Page = min(max(u.q.Page+delta, 1), res.TotalPages)
}

func (u *unitsScreen) query() units.Query {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.q
}

func (u *unitsScreen) render() (string, tgbotapi.InlineKeyboardMarkup) {
	q := u.query()
	res := u.view.Result(q)
	counts := u.view.Counts()
	names := u.view.Warehouses()

	var sb strings.Builder
	wh := "все склады"
	if q.Warehouse != units.AllWarehouses {
		wh = q.Warehouse
	}
	fmt.Fprintf(&sb, "📦 Ячейки · %s · %d\n", wh, res.TotalCount)
	fmt.Fprintf(&sb, "Сортировка: %s %s · стр. %d из %d\n\n", sortLabel(q.SortKey), directionArrow(q.Direction), q.Page, res.TotalPages)
	if len(res.PageItems) == 0 {
		sb.WriteString("Ячеек нет.\n")
	}
	for _, it := range res.PageItems {
		sb.WriteString("• ")
		sb.WriteString(unitLine(it))
		sb.WriteString("\n")
	}

	var rows [][]tgbotapi.InlineKeyboardButton

	svc := make([]tgbotapi.InlineKeyboardButton, 0, len(res.PageItems))
	for _, it := range res.PageItems {
		svc = append(svc, tgbotapi.NewInlineKeyboardButtonData("🛠 "+it.UnitNumber, fmt.Sprintf("un:svc:%d", it.ID)))
	}
	rows = append(rows, chunk(svc, 3)...)

	// склады с количеством ячеек, по два в ряд
	whButtons := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(mark(q.Warehouse == units.AllWarehouses, fmt.Sprintf("Все (%d)", u.view.Len())), "un:wh:0"),
	}
	for i, name := range names {
		label := fmt.Sprintf("%s (%d)", name, counts[name])
		whButtons = append(whButtons, tgbotapi.NewInlineKeyboardButtonData(mark(q.Warehouse == name, label), fmt.Sprintf("un:wh:%d", i+1)))
	}
	rows = append(rows, chunk(whButtons, 2)...)

	sortButtons := make([]tgbotapi.InlineKeyboardButton, 0, len(units.SortKeys))
	for _, k := range units.SortKeys {
		sortButtons = append(sortButtons, tgbotapi.NewInlineKeyboardButtonData(mark(q.SortKey == k, sortLabel(k)), "un:sort:"+string(k)))
	}
	rows = append(rows, chunk(sortButtons, 4)...)

	nav := []tgbotapi.InlineKeyboardButton{}
	if q.Page > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", "un:prev"))
	}
	nav = append(nav,
		tgbotapi.NewInlineKeyboardButtonData(directionArrow(q.Direction), "un:dir"),
		tgbotapi.NewInlineKeyboardButtonData("🔄", "un:reload"),
	)
	if q.Page < res.TotalPages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", "un:next"))
	}
	rows = append(rows, nav)
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func unitLine(u units.StorageUnit) string {
	return fmt.Sprintf("%s · %s · %g м² · эт. %d · %s · %s · клиентов: %d",
		u.UnitNumber, u.WarehouseName, u.Size, u.Floor, unitStatusLabel(u.Status), export.Percent(u.Percentage), u.Customers)
}

func unitStatusLabel(s units.Status) string {
	switch s {
	case units.StatusAvailable:
		return "свободна"
	case units.StatusOccupied:
		return "занята"
	case units.StatusMaintenance:
		return "на обслуживании"
	}
	return string(s)
}

func sortLabel(k units.SortKey) string {
	switch k {
	case units.SortUnitNumber:
		return "номер"
	case units.SortSize:
		return "размер"
	case units.SortFloor:
		return "этаж"
	case units.SortStatus:
		return "статус"
	case units.SortPercentage:
		return "занятость"
	case units.SortCustomers:
		return "клиенты"
	case units.SortWarehouseName:
		return "склад"
	}
	return string(k)
}

func directionArrow(d units.Direction) string {
	if d == units.Desc {
		return "↓"
	}
	return "↑"
}

func mark(on bool, label string) string {
	if on {
		return "✅ " + label
	}
	return label
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, n int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		k := min(n, len(buttons))
		rows = append(rows, buttons[:k])
		buttons = buttons[k:]
	}
	return rows
}
