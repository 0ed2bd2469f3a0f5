package reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItemsSelected is returned when a job order is submitted with an empty draft.
	ErrNoItemsSelected = errors.New("no items selected")

	// ErrItemNotFound is returned for an item id that is not in the catalog.
	ErrItemNotFound = errors.New("stock item not found")

	// ErrInvalidQuantity is returned for a draft line with a non-positive quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// InsufficientStockError rejects a commit whose line asks for more than the
// item's live availability. No stock is mutated when it is returned.
type InsufficientStockError struct {
	ItemID    string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}
