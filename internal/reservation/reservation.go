// Package reservation implements the inventory reservation engine that stages
// and commits job orders against consumable stock.
//
// A job-order attempt moves through Idle → Staging → Validating →
// Committed|Rejected and returns to Idle once the outcome is reported. Stock is
// only mutated by Commit, and only when every line of the draft validates
// against live availability: a single shortfall rejects the whole batch.
//
// The engine owns its job-order counters, so independent instances never share
// state. It is not safe for concurrent use; callers serialize access.
package reservation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/fiberflow/opsdash/models"
)

// DefaultReferencePrefix is prepended to the zero-padded job-order sequence.
const DefaultReferencePrefix = "JO-2025-"

// Phase is the state of the current job-order attempt.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStaging
	PhaseValidating
	PhaseCommitted
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStaging:
		return "staging"
	case PhaseValidating:
		return "validating"
	case PhaseCommitted:
		return "committed"
	case PhaseRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Counters is the monotonic job-order state. Both fields only move on a
// successful commit.
type Counters struct {
	OpenJobOrders int `json:"openJobOrders"`
	Sequence      int `json:"sequence"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithCounters seeds the job-order counters.
func WithCounters(c Counters) Option {
	return func(e *Engine) {
		e.counters = c
	}
}

// WithReferencePrefix overrides DefaultReferencePrefix.
func WithReferencePrefix(prefix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
	}
}

// Engine is the inventory reservation state machine.
type Engine struct {
	items    []models.StockItem
	index    map[string]int
	desired  map[string]int
	counters Counters
	prefix   string
}

// New creates an engine over a copy of the stock catalog.
func New(items []models.StockItem, opts ...Option) *Engine {
	e := &Engine{
		items:   slices.Clone(items),
		index:   make(map[string]int, len(items)),
		desired: make(map[string]int),
		prefix:  DefaultReferencePrefix,
	}
	for i, it := range e.items {
		e.index[it.ID] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Items returns a snapshot of the stock catalog in catalog order.
func (e *Engine) Items() []models.StockItem {
	return slices.Clone(e.items)
}

// Item returns a snapshot of a single stock item.
func (e *Engine) Item(id string) (models.StockItem, bool) {
	i, ok := e.index[id]
	if !ok {
		return models.StockItem{}, false
	}
	return e.items[i], true
}

// Counters returns the current job-order counters.
func (e *Engine) Counters() Counters {
	return e.counters
}

// Desired returns the staged quantity for an item.
func (e *Engine) Desired(id string) int {
	return e.desired[id]
}

// SetDesiredQuantity stages qty for an item, clamped into [0, available].
// The clamp is a convenience for the input form; Commit re-validates.
func (e *Engine) SetDesiredQuantity(id string, qty int) (int, error) {
	i, ok := e.index[id]
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrItemNotFound)
	}

	qty = min(max(qty, 0), e.items[i].Available())
	if qty == 0 {
		delete(e.desired, id)
	} else {
		e.desired[id] = qty
	}
	return qty, nil
}

// SetDesiredQuantityRaw parses the raw input string and stages the result.
func (e *Engine) SetDesiredQuantityRaw(id, raw string) (int, error) {
	return e.SetDesiredQuantity(id, ParseQuantity(raw))
}

// ParseQuantity turns a raw numeric input into a quantity. Blank, malformed
// and negative input yields 0; fractions are truncated.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Reset clears every staged quantity.
func (e *Engine) Reset() {
	clear(e.desired)
}

// Phase reports Staging while any quantity is staged, Idle otherwise.
func (e *Engine) Phase() Phase {
	if len(e.desired) > 0 {
		return PhaseStaging
	}
	return PhaseIdle
}

// BuildDraft collects the staged quantities in catalog order.
func (e *Engine) BuildDraft() Draft {
	lines := make([]Line, 0, len(e.desired))
	for _, it := range e.items {
		if qty := e.desired[it.ID]; qty > 0 {
			lines = append(lines, Line{ItemID: it.ID, Name: it.Name, Quantity: qty})
		}
	}
	return Draft{Lines: lines}
}

// Commit validates every line of d against live availability and, only if
// all of them pass, reserves the stock and mints the next job-order reference.
func (e *Engine) Commit(d Draft) (*Receipt, error) {
	if d.Empty() {
		return nil, ErrNoItemsSelected
	}

	// lines for the same item are validated against their running total
	requested := make(map[string]int, len(d.Lines))
	for _, line := range d.Lines {
		i, ok := e.index[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%s: %w", line.ItemID, ErrItemNotFound)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%s: %w: %d", line.ItemID, ErrInvalidQuantity, line.Quantity)
		}

		item := e.items[i]
		requested[item.ID] += line.Quantity
		if available := item.Available(); requested[item.ID] > available {
			return nil, &InsufficientStockError{
				ItemID:    item.ID,
				Name:      item.Name,
				Requested: requested[item.ID],
				Available: available,
			}
		}
	}

	for _, line := range d.Lines {
		e.items[e.index[line.ItemID]].Reserved += line.Quantity
	}

	e.counters.OpenJobOrders++
	e.counters.Sequence++

	return &Receipt{
		Reference:  e.reference(e.counters.Sequence),
		Sequence:   e.counters.Sequence,
		LineCount:  len(d.Lines),
		TotalUnits: d.TotalUnits(),
		Lines:      slices.Clone(d.Lines),
	}, nil
}

// Submit commits the staged draft. Staged quantities are cleared after a
// commit or a stock rejection so the form is re-rendered against fresh
// availability; an empty submission leaves the form untouched.
func (e *Engine) Submit() (*Receipt, error) {
	receipt, err := e.Commit(e.BuildDraft())
	if errors.Is(err, ErrNoItemsSelected) {
		return nil, err
	}
	e.Reset()
	return receipt, err
}

// Aggregates computes the stock panel totals.
func (e *Engine) Aggregates() StockAggregates {
	return StockAggregates{
		TotalAvailable: lo.SumBy(e.items, func(it models.StockItem) int { return it.Available() }),
		CriticalItems:  lo.CountBy(e.items, func(it models.StockItem) bool { return it.NeedsReorder() }),
		OpenJobOrders:  e.counters.OpenJobOrders,
	}
}

func (e *Engine) reference(seq int) string {
	return fmt.Sprintf("%s%04d", e.prefix, seq)
}

// StockAggregates contains the fleet-wide stock totals.
type StockAggregates struct {
	TotalAvailable int `json:"totalAvailable"`
	CriticalItems  int `json:"criticalItems"`
	OpenJobOrders  int `json:"openJobOrders"`
}
