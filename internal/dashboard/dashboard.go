// Package dashboard is the single entry point for dashboard events.
//
// A Dashboard owns one NAP directory engine and one reservation engine and
// serializes every event behind a mutex, so each engine call runs to
// completion before the next one starts. After every state change it projects
// fresh view models and hands them to an optional Publisher for live push.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/metrics"
	"github.com/fiberflow/opsdash/internal/reservation"
)

// Filter fields accepted by ChangeFilter.
const (
	FieldMunicipality = "municipality"
	FieldState        = "state"
	FieldSearch       = "search"
)

// Event types handed to the Publisher.
const (
	EventDirectoryUpdated  = "directory_updated"
	EventDraftUpdated      = "draft_updated"
	EventJobOrderCommitted = "joborder_committed"
	EventJobOrderRejected  = "joborder_rejected"
)

// ErrUnknownFilter is returned by ChangeFilter for a field it does not know.
var ErrUnknownFilter = errors.New("unknown filter field")

// Publisher receives the dashboard view after every state change.
type Publisher interface {
	Publish(event string, data any)
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dashboard) {
		d.logger = l
	}
}

// WithMetrics records dashboard events on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dashboard) {
		d.metrics = m
	}
}

// WithPublisher pushes views to p after every state change.
func WithPublisher(p Publisher) Option {
	return func(d *Dashboard) {
		d.publisher = p
	}
}

// Dashboard coordinates the directory and reservation engines.
type Dashboard struct {
	mu        sync.Mutex
	directory *directory.Engine
	stock     *reservation.Engine
	outcome   Outcome

	logger    *zap.Logger
	metrics   *metrics.Metrics
	publisher Publisher
}

// New creates a dashboard over the given engines. The dashboard takes
// ownership of both; callers must not use them directly afterwards.
func New(dir *directory.Engine, stock *reservation.Engine, opts ...Option) *Dashboard {
	d := &Dashboard{
		directory: dir,
		stock:     stock,
		outcome:   Outcome{Tone: ToneNeutral, Phase: stock.Phase().String()},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.recordStock()
	return d
}

// View returns the full dashboard projection.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view()
}

// Directory returns the NAP directory projection.
func (d *Dashboard) Directory() DirectoryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return buildDirectoryView(d.directory)
}

// Stock returns the stock panel projection.
func (d *Dashboard) Stock() StockView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return buildStockView(d.stock)
}

// Summary returns the staged job-order summary.
func (d *Dashboard) Summary() JobOrderSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return buildSummary(d.stock.BuildDraft())
}

// Counters returns the job-order counters.
func (d *Dashboard) Counters() reservation.Counters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stock.Counters()
}

// ChangeFilter updates one filter field. "status" is accepted as an alias
// of "state". Unknown values are stored and simply match nothing.
func (d *Dashboard) ChangeFilter(field, value string) (DirectoryView, error) {
	var p directory.Patch
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldMunicipality:
		p.Municipality = directory.Value(value)
	case FieldState, "status":
		p.State = directory.Value(value)
	case FieldSearch:
		p.Search = directory.Value(value)
	default:
		return DirectoryView{}, fmt.Errorf("%w: %q", ErrUnknownFilter, field)
	}
	return d.ApplyFilter(p), nil
}

// ApplyFilter merges a partial criteria update.
func (d *Dashboard) ApplyFilter(p directory.Patch) DirectoryView {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.directory.SetFilter(p)
	if d.metrics != nil {
		for field, set := range map[string]bool{
			FieldMunicipality: p.Municipality != nil,
			FieldState:        p.State != nil,
			FieldSearch:       p.Search != nil,
		} {
			if set {
				d.metrics.RecordFilterChange(field)
			}
		}
	}

	view := buildDirectoryView(d.directory)
	d.logger.Debug("directory filter changed",
		logging.Any("criteria", view.Criteria),
		logging.Int("visible", len(view.Rows)),
		logging.String("active", d.directory.ActiveID()),
	)
	d.publish(EventDirectoryUpdated, view)
	return view
}

// ActivateRow selects a visible NAP. It reports false and leaves the
// selection untouched for unknown or filtered-out ids.
func (d *Dashboard) ActivateRow(napID string) (DirectoryView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok := d.directory.Select(napID)
	view := buildDirectoryView(d.directory)
	if !ok {
		return view, false
	}

	if d.metrics != nil {
		d.metrics.RecordSelection()
	}
	d.publish(EventDirectoryUpdated, view)
	return view, true
}

// ChangeQuantity stages the raw input value for a stock item and returns the
// stored, clamped quantity.
func (d *Dashboard) ChangeQuantity(itemID, raw string) (int, JobOrderSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	qty, err := d.stock.SetDesiredQuantityRaw(itemID, raw)
	if err != nil {
		return 0, JobOrderSummary{}, err
	}

	summary := buildSummary(d.stock.BuildDraft())
	d.publish(EventDraftUpdated, summary)
	return qty, summary, nil
}

// ClearDraft drops every staged quantity and replaces the last outcome with
// an informational note.
func (d *Dashboard) ClearDraft() JobOrderSummary {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stock.Reset()
	d.outcome = Outcome{Tone: ToneInfo, Phase: reservation.PhaseIdle.String(), Message: "Job order draft cleared."}
	summary := buildSummary(d.stock.BuildDraft())
	d.publish(EventDraftUpdated, summary)
	return summary
}

// SubmitJobOrder commits the staged draft. The outcome is always returned;
// the receipt is nil and err is set when the submission was rejected.
func (d *Dashboard) SubmitJobOrder() (Outcome, *reservation.Receipt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	receipt, err := d.stock.Submit()
	return d.settle(receipt, err)
}

// CommitLines commits lines exactly as given, without the input clamp, so a
// line above live availability rejects the whole job order. Staged
// quantities are left alone.
func (d *Dashboard) CommitLines(lines []reservation.Line) (Outcome, *reservation.Receipt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft := reservation.Draft{Lines: make([]reservation.Line, len(lines))}
	for i, l := range lines {
		if it, ok := d.stock.Item(l.ItemID); ok {
			l.Name = it.Name
		}
		draft.Lines[i] = l
	}

	receipt, err := d.stock.Commit(draft)
	return d.settle(receipt, err)
}

func (d *Dashboard) settle(receipt *reservation.Receipt, err error) (Outcome, *reservation.Receipt, error) {
	d.outcome = outcomeFor(receipt, err)

	switch {
	case err == nil:
		d.logger.Info("job order committed",
			logging.String("reference", receipt.Reference),
			logging.Int("lines", receipt.LineCount),
			logging.Int("units", receipt.TotalUnits),
		)
		if d.metrics != nil {
			d.metrics.RecordJobOrder(metrics.OutcomeCommitted)
			for _, l := range receipt.Lines {
				d.metrics.RecordUnitsReserved(l.ItemID, l.Quantity)
			}
		}
		d.recordStock()
		d.publish(EventJobOrderCommitted, d.view())

	case errors.Is(err, reservation.ErrNoItemsSelected):
		d.logger.Debug("job order submitted without items")
		if d.metrics != nil {
			d.metrics.RecordJobOrder(metrics.OutcomeEmpty)
		}
		d.publish(EventJobOrderRejected, d.view())

	default:
		d.logger.Warn("job order rejected", logging.ErrorF(err))
		if d.metrics != nil {
			d.metrics.RecordJobOrder(metrics.OutcomeRejected)
		}
		d.publish(EventJobOrderRejected, d.view())
	}

	return d.outcome, receipt, err
}

// Outcome returns the message of the last submission.
func (d *Dashboard) Outcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

func (d *Dashboard) view() View {
	return View{
		Directory: buildDirectoryView(d.directory),
		Stock:     buildStockView(d.stock),
		Summary:   buildSummary(d.stock.BuildDraft()),
		Outcome:   d.outcome,
	}
}

func (d *Dashboard) publish(event string, data any) {
	if d.publisher != nil {
		d.publisher.Publish(event, data)
	}
}

func (d *Dashboard) recordStock() {
	if d.metrics == nil {
		return
	}
	for _, it := range d.stock.Items() {
		d.metrics.SetStockAvailable(it.ID, it.Available())
	}
}

func outcomeFor(receipt *reservation.Receipt, err error) Outcome {
	var stockErr *reservation.InsufficientStockError

	switch {
	case err == nil:
		return Outcome{
			Tone:      ToneSuccess,
			Phase:     reservation.PhaseCommitted.String(),
			Reference: receipt.Reference,
			Message: fmt.Sprintf("%s staged with %d %s (%d pcs).",
				receipt.Reference, receipt.LineCount,
				plural(receipt.LineCount, "line item", "line items"), receipt.TotalUnits),
		}
	case errors.Is(err, reservation.ErrNoItemsSelected):
		return Outcome{
			Tone:    ToneError,
			Phase:   reservation.PhaseRejected.String(),
			Message: "Select at least one consumable to reserve.",
		}
	case errors.As(err, &stockErr):
		return Outcome{
			Tone:    ToneError,
			Phase:   reservation.PhaseRejected.String(),
			Message: fmt.Sprintf("Only %d pcs available for %s.", stockErr.Available, stockErr.Name),
		}
	default:
		return Outcome{
			Tone:    ToneError,
			Phase:   reservation.PhaseRejected.String(),
			Message: err.Error(),
		}
	}
}
