package dialog

type State string

const (
	StateIdle State = "idle"

	// Токен доступа к backend
	StateAwaitToken State = "await_token"

	// Списки с поиском: свободный текст в этих состояниях, поисковая строка
	StateCustomerList State = "customer_list"
	StateExpenseList  State = "expense_list"
	StateBookingList  State = "booking_list"

	// Формы создания: одно сообщение с полями через «;»
	StateCustomerNew State = "customer_new"
	StateExpenseNew  State = "expense_new"

	// Ячейки: выбор склада, сортировки, страницы
	StateUnitList State = "unit_list"

	// Отчёты
	StateReportPick   State = "report_pick"
	StateReportFormat State = "report_format"

	StateDashboard State = "dashboard"
)

// Searchable: состояния, где текст сообщения уходит в поиск.
func (s State) Searchable() bool {
	switch s {
	case StateCustomerList, StateExpenseList, StateBookingList:
		return true
	}
	return false
}

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
