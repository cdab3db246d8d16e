package units

import (
	"fmt"
	"testing"

	"github.com/Spok95/storage-desk/internal/domain/bookings"
	"github.com/stretchr/testify/require"
)

func unitIDs(us []StorageUnit) []int64 {
	out := make([]int64, 0, len(us))
	for _, u := range us {
		out = append(out, u.ID)
	}
	return out
}

func sample() []StorageUnit {
	whs := []string{"North", "South", "East"}
	var out []StorageUnit
	for i := 1; i <= 23; i++ {
		out = append(out, StorageUnit{
			ID:            int64(i),
			WarehouseName: whs[i%3],
			UnitNumber:    fmt.Sprintf("U-%d", i),
			Size:          float64(10 + i%5),
			Floor:         i % 4,
			Percentage:    float64((i * 37) % 101),
			Customers:     i % 3,
		})
	}
	return out
}

func TestDerivePercentageDescExample(t *testing.T) {
	us := []StorageUnit{
		{ID: 1, Percentage: 40},
		{ID: 2, Percentage: 90},
		{ID: 3, Percentage: 10},
	}
	q := Query{Warehouse: AllWarehouses, SortKey: SortPercentage, Direction: Desc, PageSize: 2}

	q.Page = 1
	p1 := Derive(us, q)
	require.Equal(t, []int64{2, 1}, unitIDs(p1.PageItems))
	require.Equal(t, 2, p1.TotalPages)
	require.Equal(t, 3, p1.TotalCount)

	q.Page = 2
	require.Equal(t, []int64{3}, unitIDs(Derive(us, q).PageItems))

	// исходный порядок не тронут
	require.Equal(t, []int64{1, 2, 3}, unitIDs(us))
}

func TestFilterMatchesGroupCounts(t *testing.T) {
	all := sample()
	counts := GroupCounts(all)
	_, hasAll := counts[AllWarehouses]
	require.False(t, hasAll)

	for _, wh := range WarehouseNames(all) {
		filtered := FilterByWarehouse(all, wh)
		require.Len(t, filtered, counts[wh])
		for _, u := range filtered {
			require.Equal(t, wh, u.WarehouseName)
		}
	}
	require.Len(t, FilterByWarehouse(all, AllWarehouses), len(all))
	require.Empty(t, FilterByWarehouse(all, "Nowhere"))
}

func TestSortAscDescReversed(t *testing.T) {
	us := []StorageUnit{
		{ID: 1, Percentage: 12.5}, {ID: 2, Percentage: 80}, {ID: 3, Percentage: 3},
		{ID: 4, Percentage: 55}, {ID: 5, Percentage: 99.9},
	}
	asc := Derive(us, Query{SortKey: SortPercentage, Direction: Asc, PageSize: 10, Page: 1}).PageItems
	desc := Derive(us, Query{SortKey: SortPercentage, Direction: Desc, PageSize: 10, Page: 1}).PageItems

	require.Equal(t, []int64{3, 1, 4, 2, 5}, unitIDs(asc))
	for i := range asc {
		require.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSortTiesKeepInputOrder(t *testing.T) {
	us := []StorageUnit{{ID: 1, Floor: 2}, {ID: 2, Floor: 1}, {ID: 3, Floor: 2}, {ID: 4, Floor: 1}}
	asc := Derive(us, Query{SortKey: SortFloor, Direction: Asc, Page: 1, PageSize: 10}).PageItems
	require.Equal(t, []int64{2, 4, 1, 3}, unitIDs(asc))
	desc := Derive(us, Query{SortKey: SortFloor, Direction: Desc, Page: 1, PageSize: 10}).PageItems
	require.Equal(t, []int64{1, 3, 2, 4}, unitIDs(desc))
}

func TestPagesReconstructFullList(t *testing.T) {
	all := sample()
	for _, wh := range append(WarehouseNames(all), AllWarehouses) {
		for _, key := range SortKeys {
			q := Query{Warehouse: wh, SortKey: key, Direction: Desc, PageSize: 4}
			q.Page = 1
			first := Derive(all, q)

			var joined []int64
			for p := 1; p <= first.TotalPages; p++ {
				q.Page = p
				joined = append(joined, unitIDs(Derive(all, q).PageItems)...)
			}
			full := FilterByWarehouse(all, wh)
			Sort(full, key, Desc)
			require.Equal(t, unitIDs(full), joined, "warehouse=%s key=%s", wh, key)
			require.Equal(t, first.TotalCount, len(joined))
		}
	}
}

func TestDeriveOutOfRangeAndEmpty(t *testing.T) {
	res := Derive(nil, Query{Page: 1, PageSize: 5})
	require.Empty(t, res.PageItems)
	require.Equal(t, 1, res.TotalPages)
	require.Equal(t, 0, res.TotalCount)

	res = Derive(sample(), Query{Page: 100, PageSize: 5})
	require.Empty(t, res.PageItems)
	require.Equal(t, 5, res.TotalPages)
}

func TestCompareNatural(t *testing.T) {
	require.Negative(t, compareNatural("A-2", "A-10"))
	require.Positive(t, compareNatural("b1", "A1"))
	require.Zero(t, compareNatural("U-007", "u-7"))
	require.Negative(t, compareNatural("U", "U-1"))
}

func TestEnrich(t *testing.T) {
	u := Enrich(StorageUnit{
		ID:        1,
		Size:      20,
		Warehouse: &WarehouseRef{ID: 3, Name: "North"},
		Bookings: []bookings.Booking{
			{CustomerID: 1, OccupiedSpace: 5, Status: bookings.StatusActive},
			{CustomerID: 1, OccupiedSpace: 3, Status: bookings.StatusActive},
			{CustomerID: 2, OccupiedSpace: 2, Status: bookings.StatusActive},
			{CustomerID: 3, OccupiedSpace: 10, Status: bookings.StatusCompleted},
		},
	})
	require.Equal(t, "North", u.WarehouseName)
	require.Equal(t, 50.0, u.Percentage)
	require.Equal(t, 2, u.Customers)

	over := Enrich(StorageUnit{Size: 1, Bookings: []bookings.Booking{{OccupiedSpace: 5, Status: bookings.StatusActive}}})
	require.Equal(t, 100.0, over.Percentage)
	require.Equal(t, 0.0, Enrich(StorageUnit{}).Percentage)
}

func TestViewMemoizes(t *testing.T) {
	v := NewView(sample())
	q := Query{Warehouse: "North", SortKey: SortSize, Direction: Asc, Page: 1, PageSize: 3}
	r1 := v.Result(q)
	r2 := v.Result(q)
	require.Equal(t, r1, r2)
	require.Equal(t, 23, v.Len())

	v.SetData(sample()[:3])
	r3 := v.Result(q)
	require.Equal(t, 1, r3.TotalCount)
	require.Equal(t, 3, v.Len())
	require.Equal(t, []string{"East", "North", "South"}, v.Warehouses())
}

func TestWarehouseNamedAllIsOrdinary(t *testing.T) {
	us := []StorageUnit{
		{ID: 1, WarehouseName: "All"},
		{ID: 2, WarehouseName: "All"},
		{ID: 3, WarehouseName: "North"},
	}
	counts := GroupCounts(us)
	require.Equal(t, map[string]int{"All": 2, "North": 1}, counts)
	require.Len(t, FilterByWarehouse(us, "All"), counts["All"])
	require.Len(t, FilterByWarehouse(us, AllWarehouses), len(us))
	require.Equal(t, []string{"All", "North"}, WarehouseNames(us))
}

func TestUnnamedUnitsOnlyInTotal(t *testing.T) {
	us := []StorageUnit{{ID: 1}, {ID: 2, WarehouseName: "North"}}
	require.Equal(t, map[string]int{"North": 1}, GroupCounts(us))
	require.Equal(t, 2, Derive(us, Query{Page: 1, PageSize: 10}).TotalCount)
}

func TestViewReturnsCopies(t *testing.T) {
	v := NewView(sample())
	q := Query{SortKey: SortUnitNumber, Direction: Asc, Page: 1, PageSize: 3}

	r := v.Result(q)
	want := unitIDs(r.PageItems)
	r.PageItems[0].ID = -1
	require.Equal(t, want, unitIDs(v.Result(q).PageItems))

	c := v.Counts()
	north := c["North"]
	c["North"] = 1000
	delete(c, "South")
	require.Equal(t, north, v.Counts()["North"])
	require.Contains(t, v.Counts(), "South")
}
