package listdata

// removalState: жизненный цикл оптимистичного удаления одной записи.
type removalState int

const (
	removalIdle removalState = iota
	removalAnimating
	removalRemoved // убрана локально, ждём ответа backend
)

func (s removalState) String() string {
	switch s {
	case removalAnimating:
		return "animating"
	case removalRemoved:
		return "removed"
	default:
		return "idle"
	}
}

type removal[T any] struct {
	state  removalState
	cancel chan struct{}
	item   T
	index  int
}
