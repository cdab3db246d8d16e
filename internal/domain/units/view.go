package units

import (
	"maps"
	"slices"
	"sync"
)

type viewKey struct {
	version uint64
	query   Query
}

// View кэширует последний Derive: пересчёт только при смене данных или параметров.
type View struct {
	mu      sync.Mutex
	all     []StorageUnit
	version uint64
	last    *viewKey
	result  Result
	counts  map[string]int
}

func NewView(all []StorageUnit) *View {
	v := &View{}
	v.SetData(all)
	return v
}

func (v *View) SetData(all []StorageUnit) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.all = all
	v.version++
	v.last = nil
	v.counts = GroupCounts(all)
}

func (v *View) Result(q Query) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	key := viewKey{version: v.version, query: q}
	if v.last == nil || *v.last != key {
		v.result = Derive(v.all, q)
		v.last = &key
	}
	// кэш наружу не отдаём
	res := v.result
	res.PageItems = slices.Clone(res.PageItems)
	return res
}

// Counts: копия GroupCounts для текущих данных.
func (v *View) Counts() map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.counts)
}

func (v *View) Warehouses() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return WarehouseNames(v.all)
}

func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.all)
}
