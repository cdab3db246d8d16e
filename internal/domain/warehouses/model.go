package warehouses

type Warehouse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address,omitempty"`
	Capacity float64 `json:"capacity,omitempty"`
}
