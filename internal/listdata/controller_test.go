package listdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func rowID(r row) int64 { return r.ID }

// fakeSource отдаёт страницы из памяти и записывает запросы.
type fakeSource struct {
	mu        sync.Mutex
	rows      []row
	queries   []Query
	deleted   []int64
	fetchErr  error
	deleteErr error
	gate      map[string]chan struct{} // по search: задержать ответ до закрытия канала
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{gate: map[string]chan struct{}{}}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, row{ID: int64(i), Name: fmt.Sprintf("row-%d", i)})
	}
	return s
}

func (s *fakeSource) Fetch(ctx context.Context, q Query) (api.ListPage[row], error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	gate := s.gate[q.Search]
	err := s.fetchErr
	rows := s.rows
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return api.ListPage[row]{}, ctx.Err()
		}
	}
	if err != nil {
		return api.ListPage[row]{}, err
	}

	var filtered []row
	for _, r := range rows {
		if q.Search == "" || r.Name == q.Search {
			filtered = append(filtered, r)
		}
	}
	from := (q.Page - 1) * q.Limit
	to := min(from+q.Limit, len(filtered))
	page := api.ListPage[row]{Items: []row{}, Total: len(filtered)}
	if from < to {
		page.Items = append(page.Items, filtered[from:to]...)
	}
	page.TotalPages = max((len(filtered)+q.Limit-1)/q.Limit, 1)
	return page, nil
}

func (s *fakeSource) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

func (s *fakeSource) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func ids(items []row) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func newTestController(src Source[row], restore bool) *Controller[row] {
	return NewController[row](src, Config[row]{
		PageSize:         3,
		DeleteDelay:      20 * time.Millisecond,
		RestoreOnFailure: restore,
		ID:               rowID,
	})
}

func TestLoadAndLoadMore(t *testing.T) {
	src := newFakeSource(7)
	c := newTestController(src, false)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	st := c.Snapshot()
	require.Equal(t, []int64{1, 2, 3}, ids(st.Items))
	require.Equal(t, 1, st.Page)
	require.Equal(t, 3, st.TotalPages)
	require.Equal(t, 7, st.TotalItems)
	require.False(t, st.Loading)

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))
	st = c.Snapshot()
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids(st.Items))
	require.Equal(t, 3, st.Page)

	// последняя страница, повторный LoadMore ничего не запрашивает
	before := src.queryCount()
	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, before, src.queryCount())
}

func TestQueryParameters(t *testing.T) {
	src := newFakeSource(2)
	c := newTestController(src, false)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, "active"))
	require.NoError(t, c.SetSearch(ctx, "row-2"))

	last := src.queries[len(src.queries)-1]
	require.Equal(t, Query{Page: 1, Limit: 3, Search: "row-2", Filter: "active"}, last)
	v := last.Values()
	require.Equal(t, "1", v.Get("page"))
	require.Equal(t, "3", v.Get("limit"))
	require.Equal(t, "row-2", v.Get("search"))
	require.Equal(t, "active", v.Get("filterStatus"))

	// то же значение, без повторного запроса
	n := src.queryCount()
	require.NoError(t, c.SetSearch(ctx, "row-2"))
	require.Equal(t, n, src.queryCount())

	require.False(t, Query{Page: 1, Limit: 3}.Values().Has("search"))
	require.False(t, Query{Page: 1, Limit: 3}.Values().Has("filterStatus"))
}

func TestSearchResetsToFirstPage(t *testing.T) {
	src := newFakeSource(7)
	c := newTestController(src, false)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 2, c.Snapshot().Page)

	require.NoError(t, c.SetSearch(ctx, "row-5"))
	st := c.Snapshot()
	require.Equal(t, 1, st.Page)
	require.Equal(t, []int64{5}, ids(st.Items))
	require.Equal(t, 1, st.TotalPages)
}

func TestFetchFailureClearsList(t *testing.T) {
	src := newFakeSource(5)
	c := newTestController(src, false)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NotEmpty(t, c.Snapshot().Items)

	src.mu.Lock()
	src.fetchErr = errors.New("boom")
	src.mu.Unlock()

	require.Error(t, c.Refresh(ctx))
	st := c.Snapshot()
	require.Empty(t, st.Items)
	require.Equal(t, 1, st.TotalPages)
	require.Equal(t, 1, st.Page)
	require.False(t, st.Refreshing)
}

func TestStaleResponseIsDropped(t *testing.T) {
	src := newFakeSource(5)
	slow := make(chan struct{})
	src.gate["row-1"] = slow
	c := newTestController(src, false)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.SetSearch(ctx, "row-1") }()

	require.Eventually(t, func() bool { return src.queryCount() == 1 }, time.Second, time.Millisecond)

	// новый поиск отвечает раньше медленного старого
	require.NoError(t, c.SetSearch(ctx, "row-4"))
	close(slow)
	require.NoError(t, <-done)

	st := c.Snapshot()
	require.Equal(t, []int64{4}, ids(st.Items))
	require.Equal(t, "row-4", st.Search)
	require.False(t, st.Loading)
}

func TestLoadMoreIgnoredWhileLoading(t *testing.T) {
	src := newFakeSource(7)
	c := newTestController(src, false)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	slow := make(chan struct{})
	src.mu.Lock()
	src.gate[""] = slow
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Refresh(ctx) }()
	require.Eventually(t, func() bool { return c.Snapshot().Refreshing }, time.Second, time.Millisecond)

	n := src.queryCount()
	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, n, src.queryCount())

	close(slow)
	require.NoError(t, <-done)
}

func TestOptimisticDelete(t *testing.T) {
	src := newFakeSource(3)
	c := newTestController(src, false)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, 2))
	st := c.Snapshot()
	require.Equal(t, []int64{1, 3}, ids(st.Items))
	require.Equal(t, 2, st.TotalItems)
	require.Empty(t, st.Removing)

	c.Wait()
	require.Equal(t, []int64{2}, src.deleted)
}

func TestDeleteFailureKeepsItemRemoved(t *testing.T) {
	src := newFakeSource(3)
	src.deleteErr = errors.New("backend down")
	c := newTestController(src, false)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, 1))
	c.Wait()
	require.Equal(t, []int64{2, 3}, ids(c.Snapshot().Items))
}

func TestDeleteFailureRestores(t *testing.T) {
	src := newFakeSource(3)
	src.deleteErr = errors.New("backend down")
	c := newTestController(src, true)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, 2))
	c.Wait()
	st := c.Snapshot()
	require.Equal(t, []int64{1, 2, 3}, ids(st.Items))
	require.Equal(t, 3, st.TotalItems)
}

func TestDeleteMarksRemovingDuringAnimation(t *testing.T) {
	src := newFakeSource(3)
	c := NewController[row](src, Config[row]{PageSize: 3, DeleteDelay: 200 * time.Millisecond, ID: rowID})
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	done := make(chan error, 1)
	go func() { done <- c.Delete(ctx, 3) }()

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Removing) == 1
	}, time.Second, time.Millisecond)
	st := c.Snapshot()
	require.Equal(t, []int64{3}, st.Removing)
	require.Equal(t, []int64{1, 2, 3}, ids(st.Items))

	require.True(t, c.CancelDelete(3))
	require.ErrorIs(t, <-done, ErrDeleteCanceled)
	require.Equal(t, []int64{1, 2, 3}, ids(c.Snapshot().Items))
	c.Wait()
	require.Empty(t, src.deleted)
	require.False(t, c.CancelDelete(3))
}

func TestRefreshDoesNotResurrectPendingDelete(t *testing.T) {
	src := newFakeSource(3)
	block := make(chan struct{})
	c := newTestController(blockingDelete{fakeSource: src, block: block}, false)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.Delete(ctx, 2))
	// backend ещё не подтвердил, а список уже перечитан
	require.NoError(t, c.Refresh(ctx))
	require.Equal(t, []int64{1, 3}, ids(c.Snapshot().Items))

	close(block)
	c.Wait()
}

func TestDeleteUnknownID(t *testing.T) {
	c := newTestController(newFakeSource(1), false)
	require.ErrorIs(t, c.Delete(context.Background(), 99), ErrItemNotFound)
}

func TestAddAndUpdate(t *testing.T) {
	src := newFakeSource(2)
	c := newTestController(src, false)
	require.NoError(t, c.Load(context.Background()))

	c.Add(row{ID: 10, Name: "new"})
	st := c.Snapshot()
	require.Equal(t, []int64{10, 1, 2}, ids(st.Items))
	require.Equal(t, 3, st.TotalItems)

	require.True(t, c.Update(row{ID: 1, Name: "renamed"}))
	require.Equal(t, "renamed", c.Snapshot().Items[1].Name)
	require.False(t, c.Update(row{ID: 77}))
}

func TestSubscribeSignalsChanges(t *testing.T) {
	c := newTestController(newFakeSource(2), false)
	ch := c.Subscribe()
	require.NoError(t, c.Load(context.Background()))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}
}

type blockingDelete struct {
	*fakeSource
	block chan struct{}
}

func (b blockingDelete) Delete(ctx context.Context, id int64) error {
	<-b.block
	return b.fakeSource.Delete(ctx, id)
}

func TestCloseCancelsAnimationAndWaits(t *testing.T) {
	src := newFakeSource(2)
	c := NewController[row](src, Config[row]{PageSize: 3, DeleteDelay: time.Second, ID: rowID})
	require.NoError(t, c.Load(context.Background()))

	done := make(chan error, 1)
	go func() { done <- c.Delete(context.Background(), 1) }()
	require.Eventually(t, func() bool { return len(c.Snapshot().Removing) == 1 }, time.Second, time.Millisecond)

	c.Close()
	require.ErrorIs(t, <-done, ErrDeleteCanceled)
	require.Empty(t, src.deleted)
	require.Equal(t, []int64{1, 2}, ids(c.Snapshot().Items))
}
