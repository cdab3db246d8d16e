package listdata

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	vals []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals = append(r.vals, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.vals...)
}

func TestDebouncerFiresOnceWithLastValue(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(40*time.Millisecond, rec.add)
	defer d.Stop()

	for _, s := range []string{"a", "ab", "abc", "abcd"} {
		d.Trigger(s)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, []string{"abcd"}, rec.get())
}

func TestDebouncerSeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.add)
	defer d.Stop()

	d.Trigger("first")
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	d.Trigger("second")
	require.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"first", "second"}, rec.get())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.add)
	d.Trigger("x")
	d.Stop()
	d.Trigger("y")
	time.Sleep(60 * time.Millisecond)
	require.Empty(t, rec.get())
}

func TestDebouncedSearchFetchesOnce(t *testing.T) {
	src := newFakeSource(5)
	c := newTestController(src, false)

	d := NewDebouncer(30*time.Millisecond, func(s string) {
		_ = c.SetSearch(t.Context(), s)
	})
	defer d.Stop()

	for _, s := range []string{"r", "ro", "row", "row-", "row-3"} {
		d.Trigger(s)
	}
	require.Eventually(t, func() bool { return src.queryCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 1, src.queryCount())
	require.Equal(t, "row-3", src.queries[0].Search)
	require.Equal(t, []int64{3}, ids(c.Snapshot().Items))
}
