package listdata

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Spok95/storage-desk/internal/infra/metrics"
)

const (
	DefaultPageSize    = 10
	DefaultDeleteDelay = 250 * time.Millisecond
)

var (
	ErrItemNotFound   = errors.New("listdata: item not in list")
	ErrDeleteCanceled = errors.New("listdata: delete canceled")
)

type Config[T any] struct {
	PageSize    int
	DeleteDelay time.Duration
	// RestoreOnFailure возвращает запись в список, если backend не подтвердил удаление.
	RestoreOnFailure bool
	ID               func(T) int64
	Log              *slog.Logger
}

// State: снимок контроллера для отрисовки.
type State[T any] struct {
	Items       []T
	Page        int
	TotalPages  int
	TotalItems  int
	Loading     bool
	LoadingMore bool
	Refreshing  bool
	Removing    []int64
	Search      string
	Filter      string
}

// Controller держит одну постраничную выборку: первая страница заменяет список, LoadMore дописывает.
// Ответы устаревших выборок отбрасываются по номеру.
type Controller[T any] struct {
	src Source[T]
	cfg Config[T]
	log *slog.Logger

	mu          sync.Mutex
	items       []T
	page        int
	totalPages  int
	totalItems  int
	loading     bool
	loadingMore bool
	refreshing  bool
	search      string
	filter      string
	seq         uint64
	removals    map[int64]*removal[T]
	subs        []chan struct{}

	wg sync.WaitGroup
}

func NewController[T any](src Source[T], cfg Config[T]) *Controller[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.DeleteDelay <= 0 {
		cfg.DeleteDelay = DefaultDeleteDelay
	}
	if cfg.ID == nil {
		panic("listdata: Config.ID is required")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Controller[T]{
		src:        src,
		cfg:        cfg,
		log:        log,
		page:       1,
		totalPages: 1,
		removals:   make(map[int64]*removal[T]),
	}
}

type fetchMode int

const (
	modeLoad fetchMode = iota
	modeRefresh
)

// Load выбирает первую страницу и заменяет список.
func (c *Controller[T]) Load(ctx context.Context) error { return c.fetchFirst(ctx, modeLoad) }

// Refresh: то же, что Load, но с флагом refreshing (pull-to-refresh).
func (c *Controller[T]) Refresh(ctx context.Context) error { return c.fetchFirst(ctx, modeRefresh) }

// Bump принудительно перечитывает список по запросу владельца.
func (c *Controller[T]) Bump(ctx context.Context) error { return c.fetchFirst(ctx, modeLoad) }

func (c *Controller[T]) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	if c.search == search {
		c.mu.Unlock()
		return nil
	}
	c.search = search
	c.mu.Unlock()
	return c.fetchFirst(ctx, modeLoad)
}

func (c *Controller[T]) SetFilter(ctx context.Context, filter string) error {
	c.mu.Lock()
	if c.filter == filter {
		c.mu.Unlock()
		return nil
	}
	c.filter = filter
	c.mu.Unlock()
	return c.fetchFirst(ctx, modeLoad)
}

func (c *Controller[T]) fetchFirst(ctx context.Context, mode fetchMode) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = mode == modeLoad
	c.refreshing = mode == modeRefresh
	c.loadingMore = false
	q := Query{Page: 1, Limit: c.cfg.PageSize, Search: c.search, Filter: c.filter}
	c.mu.Unlock()
	c.notify()

	res, err := c.src.Fetch(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug("stale list response dropped", "seq", seq, "search", q.Search, "filter", q.Filter)
		return nil
	}
	c.loading = false
	c.refreshing = false
	if err != nil {
		c.resetLocked()
		c.mu.Unlock()
		c.log.Error("list fetch failed", "page", 1, "search", q.Search, "filter", q.Filter, "err", err)
		c.notify()
		return err
	}
	c.items = c.withoutPendingLocked(res.Items)
	c.page = 1
	c.totalPages = max(res.TotalPages, 1)
	c.totalItems = res.Total
	c.mu.Unlock()
	c.notify()
	return nil
}

// LoadMore дописывает следующую страницу. Ничего не делает, если уже идёт выборка или страница последняя.
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.loadingMore || c.refreshing || c.page >= c.totalPages {
		c.mu.Unlock()
		return nil
	}
	c.loadingMore = true
	seq := c.seq
	next := c.page + 1
	q := Query{Page: next, Limit: c.cfg.PageSize, Search: c.search, Filter: c.filter}
	c.mu.Unlock()
	c.notify()

	res, err := c.src.Fetch(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		// с тех пор стартовала новая первая страница, этот хвост уже не про неё
		c.mu.Unlock()
		c.log.Debug("stale load-more response dropped", "page", next)
		return nil
	}
	c.loadingMore = false
	if err != nil {
		c.resetLocked()
		c.mu.Unlock()
		c.log.Error("list fetch failed", "page", next, "search", q.Search, "filter", q.Filter, "err", err)
		c.notify()
		return err
	}
	c.items = append(c.items, c.withoutPendingLocked(res.Items)...)
	c.page = next
	c.totalPages = max(res.TotalPages, 1)
	c.totalItems = res.Total
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller[T]) resetLocked() {
	c.items = nil
	c.page = 1
	c.totalPages = 1
	c.totalItems = 0
}

// withoutPendingLocked убирает из свежей выборки записи, удаление которых ещё не подтверждено.
func (c *Controller[T]) withoutPendingLocked(items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if r, ok := c.removals[c.cfg.ID(it)]; ok && r.state == removalRemoved {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c *Controller[T]) indexLocked(id int64) int {
	return slices.IndexFunc(c.items, func(it T) bool { return c.cfg.ID(it) == id })
}

// Delete: оптимистичное удаление: запись помечается, через DeleteDelay убирается из списка,
// DELETE уходит в фоне. Возвращается сразу после локального удаления.
func (c *Controller[T]) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	if _, busy := c.removals[id]; busy {
		c.mu.Unlock()
		return nil
	}
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return ErrItemNotFound
	}
	r := &removal[T]{state: removalAnimating, cancel: make(chan struct{})}
	c.removals[id] = r
	c.mu.Unlock()
	c.notify()

	timer := time.NewTimer(c.cfg.DeleteDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.cancel:
		return ErrDeleteCanceled
	case <-ctx.Done():
		c.CancelDelete(id)
		return ctx.Err()
	}

	c.mu.Lock()
	if c.removals[id] != r || r.state != removalAnimating {
		c.mu.Unlock()
		return ErrDeleteCanceled
	}
	r.state = removalRemoved
	r.index = -1
	// список могли перечитать без этой записи; DELETE всё равно уходит
	if idx := c.indexLocked(id); idx >= 0 {
		r.item = c.items[idx]
		r.index = idx
		c.items = slices.Delete(c.items, idx, idx+1)
		c.totalItems = max(c.totalItems-1, 0)
	}
	c.mu.Unlock()
	c.notify()

	c.wg.Add(1)
	go c.confirmDelete(context.WithoutCancel(ctx), id, r)
	return nil
}

func (c *Controller[T]) confirmDelete(ctx context.Context, id int64, r *removal[T]) {
	defer c.wg.Done()

	err := c.src.Delete(ctx, id)
	metrics.OptimisticDeletes.WithLabelValues(metrics.Outcome(err)).Inc()

	c.mu.Lock()
	delete(c.removals, id)
	restored := false
	if err != nil && c.cfg.RestoreOnFailure && r.index >= 0 && c.indexLocked(id) < 0 {
		idx := min(r.index, len(c.items))
		c.items = slices.Insert(c.items, idx, r.item)
		c.totalItems++
		restored = true
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Error("delete failed", "id", id, "restored", restored, "err", err)
		if restored {
			c.notify()
		}
		return
	}
	c.log.Debug("delete confirmed", "id", id)
}

// CancelDelete отменяет удаление, пока запись ещё не убрана из списка.
func (c *Controller[T]) CancelDelete(id int64) bool {
	c.mu.Lock()
	r, ok := c.removals[id]
	if !ok || r.state != removalAnimating {
		c.mu.Unlock()
		return false
	}
	r.state = removalIdle
	close(r.cancel)
	delete(c.removals, id)
	c.mu.Unlock()
	c.notify()
	return true
}

// Add: оптимистичное добавление в начало списка.
func (c *Controller[T]) Add(item T) {
	c.mu.Lock()
	c.items = slices.Insert(c.items, 0, item)
	c.totalItems++
	c.mu.Unlock()
	c.notify()
}

// Update заменяет запись с тем же id; если её нет, ничего не делает.
func (c *Controller[T]) Update(item T) bool {
	c.mu.Lock()
	idx := c.indexLocked(c.cfg.ID(item))
	if idx >= 0 {
		c.items[idx] = item
	}
	c.mu.Unlock()
	if idx >= 0 {
		c.notify()
	}
	return idx >= 0
}

func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State[T]{
		Items:       slices.Clone(c.items),
		Page:        c.page,
		TotalPages:  c.totalPages,
		TotalItems:  c.totalItems,
		Loading:     c.loading,
		LoadingMore: c.loadingMore,
		Refreshing:  c.refreshing,
		Search:      c.search,
		Filter:      c.filter,
	}
	if st.Items == nil {
		st.Items = []T{}
	}
	for id, r := range c.removals {
		if r.state == removalAnimating {
			st.Removing = append(st.Removing, id)
		}
	}
	slices.Sort(st.Removing)
	return st
}

// Subscribe возвращает канал, в который приходит сигнал после каждого изменения состояния.
func (c *Controller[T]) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

func (c *Controller[T]) notify() {
	c.mu.Lock()
	subs := c.subs
	c.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Wait дожидается фоновых подтверждений удаления.
func (c *Controller[T]) Wait() { c.wg.Wait() }

// Close отменяет ещё не завершённые анимации удаления и ждёт фоновые DELETE.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	var pending []int64
	for id, r := range c.removals {
		if r.state == removalAnimating {
			pending = append(pending, id)
		}
	}
	c.mu.Unlock()
	for _, id := range pending {
		c.CancelDelete(id)
	}
	c.wg.Wait()
}
