package models

// StockItem is a stock-keeping unit of field consumables (ONUs, drop cable,
// patch cords...) that job orders reserve against.
//
// Reserved is the only field that changes during a session, and only when a
// job order commits. Availability is derived on every read.
type StockItem struct {
	// ID is the unique SKU identifier (e.g. onu-huawei)
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name is the display name
	Name string `json:"item" yaml:"item" validate:"required"`

	// Category groups items on the stock panel
	Category string `json:"category" yaml:"category" validate:"required"`

	// OnHand is the physical quantity in the warehouse
	OnHand int `json:"inStock" yaml:"inStock" validate:"gte=0"`

	// Reserved is the quantity already committed to job orders
	Reserved int `json:"reserved" yaml:"reserved" validate:"gte=0,ltefield=OnHand"`

	// ReorderThreshold flags the item for replenishment at or below this availability
	ReorderThreshold int `json:"reorderPoint" yaml:"reorderPoint" validate:"gte=0"`
}

// Available returns OnHand minus Reserved, floored at zero.
func (s StockItem) Available() int {
	return max(s.OnHand-s.Reserved, 0)
}

// NeedsReorder reports whether availability has dropped to the reorder threshold.
func (s StockItem) NeedsReorder() bool {
	return s.Available() <= s.ReorderThreshold
}
