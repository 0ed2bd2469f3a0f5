package dashboard

import (
	"fmt"

	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/reservation"
	"github.com/fiberflow/opsdash/models"
)

// Tone is the visual register of an outcome message.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// Outcome is the result line shown under the job-order form.
type Outcome struct {
	Tone      Tone   `json:"tone"`
	Message   string `json:"message"`
	Phase     string `json:"phase"`
	Reference string `json:"reference,omitempty"`
}

// NAPRow is one row of the NAP table.
type NAPRow struct {
	ID             string          `json:"id"`
	Municipality   string          `json:"municipality"`
	Barangay       string          `json:"barangay"`
	CircuitID      string          `json:"pon"`
	ConcentratorID string          `json:"lcp"`
	TotalPorts     int             `json:"totalPorts"`
	AvailablePorts int             `json:"availablePorts"`
	State          models.NAPState `json:"state"`
	StateLabel     string          `json:"stateLabel"`
	Active         bool            `json:"active"`
}

// DirectoryView is the projection of the NAP directory panel.
type DirectoryView struct {
	Criteria       directory.Criteria   `json:"criteria"`
	Municipalities []string             `json:"municipalities"`
	Rows           []NAPRow             `json:"rows"`
	Totals         directory.Aggregates `json:"totals"`
	Detail         directory.Detail     `json:"detail"`
}

// StockRow is one row of the stock table and its job-order input.
type StockRow struct {
	ID          string `json:"id"`
	Name        string `json:"item"`
	Category    string `json:"category"`
	OnHand      int    `json:"inStock"`
	Reserved    int    `json:"reserved"`
	Available   int    `json:"available"`
	Critical    bool   `json:"critical"`
	StatusLabel string `json:"statusLabel"`
	Desired     int    `json:"desired"`
	Disabled    bool   `json:"disabled"`
}

// StockView is the projection of the stock panel.
type StockView struct {
	Rows   []StockRow                  `json:"rows"`
	Totals reservation.StockAggregates `json:"totals"`
}

// JobOrderSummary describes the staged draft.
type JobOrderSummary struct {
	Empty      bool               `json:"empty"`
	Headline   string             `json:"headline"`
	TotalUnits int                `json:"totalUnits"`
	Lines      []string           `json:"lines"`
	Draft      []reservation.Line `json:"draft"`
}

// View is the full dashboard state pushed to clients.
type View struct {
	Directory DirectoryView   `json:"directory"`
	Stock     StockView       `json:"stock"`
	Summary   JobOrderSummary `json:"summary"`
	Outcome   Outcome         `json:"outcome"`
}

func buildDirectoryView(e *directory.Engine) DirectoryView {
	visible := e.Visible()
	active := e.ActiveID()

	rows := make([]NAPRow, len(visible))
	for i, n := range visible {
		rows[i] = NAPRow{
			ID:             n.ID,
			Municipality:   n.Municipality,
			Barangay:       n.Barangay,
			CircuitID:      n.CircuitID,
			ConcentratorID: n.ConcentratorID,
			TotalPorts:     n.TotalPorts,
			AvailablePorts: n.Available(),
			State:          n.State(),
			StateLabel:     directory.StateLabel(n.State()),
			Active:         n.ID == active,
		}
	}

	return DirectoryView{
		Criteria:       e.Criteria(),
		Municipalities: e.Municipalities(),
		Rows:           rows,
		Totals:         directory.Aggregate(visible),
		Detail:         e.ActiveDetail(),
	}
}

func buildStockView(e *reservation.Engine) StockView {
	items := e.Items()

	rows := make([]StockRow, len(items))
	for i, it := range items {
		available := it.Available()
		rows[i] = StockRow{
			ID:          it.ID,
			Name:        it.Name,
			Category:    it.Category,
			OnHand:      it.OnHand,
			Reserved:    it.Reserved,
			Available:   available,
			Critical:    it.NeedsReorder(),
			StatusLabel: StockLabel(it),
			Desired:     e.Desired(it.ID),
			Disabled:    available == 0,
		}
	}

	return StockView{Rows: rows, Totals: e.Aggregates()}
}

func buildSummary(d reservation.Draft) JobOrderSummary {
	if d.Empty() {
		return JobOrderSummary{
			Empty:    true,
			Headline: "No items selected yet.",
			Lines:    []string{},
			Draft:    []reservation.Line{},
		}
	}

	units := d.TotalUnits()
	lines := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = fmt.Sprintf("%d × %s", l.Quantity, l.Name)
	}

	return JobOrderSummary{
		Headline:   fmt.Sprintf("%d %s reserved", units, plural(units, "unit", "units")),
		TotalUnits: units,
		Lines:      lines,
		Draft:      d.Lines,
	}
}

// StockLabel is the status pill text of a stock item.
func StockLabel(it models.StockItem) string {
	if it.NeedsReorder() {
		return "Reorder"
	}
	return "Healthy"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
