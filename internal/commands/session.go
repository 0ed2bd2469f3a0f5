package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fiberflow/opsdash/internal/catalog"
	"github.com/fiberflow/opsdash/internal/config"
	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/internal/reservation"
	"github.com/fiberflow/opsdash/pkg/opsdash/client"
)

// newDashboard loads the configured catalog and builds a fresh session.
func newDashboard(c *config.Config, logger *zap.Logger, opts ...dashboard.Option) (*dashboard.Dashboard, error) {
	cat, err := catalog.Load(c.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	stock := reservation.New(cat.Stock,
		reservation.WithReferencePrefix(c.JobOrders.ReferencePrefix),
		reservation.WithCounters(reservation.Counters{
			OpenJobOrders: c.JobOrders.OpenBaseline,
			Sequence:      c.JobOrders.SequenceBaseline,
		}),
	)

	opts = append([]dashboard.Option{dashboard.WithLogger(logger)}, opts...)
	return dashboard.New(directory.New(cat.NAPs), stock, opts...), nil
}

// remoteClient returns a client when --api is set, nil otherwise.
func remoteClient() (*client.Client, error) {
	if apiURL == "" {
		return nil, nil
	}
	return client.New(apiURL)
}

func napRowsFromClient(naps []client.NAP) []dashboard.NAPRow {
	rows := make([]dashboard.NAPRow, len(naps))
	for i, n := range naps {
		rows[i] = dashboard.NAPRow{
			ID:             n.ID,
			Municipality:   n.Municipality,
			Barangay:       n.Barangay,
			CircuitID:      n.CircuitID,
			ConcentratorID: n.ConcentratorID,
			TotalPorts:     n.TotalPorts,
			AvailablePorts: n.AvailablePorts,
			State:          n.State,
			StateLabel:     n.StateLabel,
			Active:         n.Active,
		}
	}
	return rows
}

func totalsFromClient(t client.Totals) directory.Aggregates {
	return directory.Aggregates{
		Count:              t.Count,
		TotalPorts:         t.TotalPorts,
		ActivePorts:        t.ActivePorts,
		AvailablePorts:     t.AvailablePorts,
		UtilisationPercent: t.UtilisationPercent,
	}
}

func detailFromClient(d client.Detail) directory.Detail {
	return directory.Detail{
		Selected:       d.Selected,
		Name:           d.Name,
		CircuitID:      d.CircuitID,
		ConcentratorID: d.ConcentratorID,
		NAPID:          d.NAPID,
		Port:           d.Port,
	}
}

func filterFromPatch(p directory.Patch) client.Filter {
	return client.Filter{Municipality: p.Municipality, State: p.State, Search: p.Search}
}

func stockViewFromClient(v *client.StockView) dashboard.StockView {
	view := dashboard.StockView{
		Rows: make([]dashboard.StockRow, len(v.Rows)),
		Totals: reservation.StockAggregates{
			TotalAvailable: v.Totals.TotalAvailable,
			CriticalItems:  v.Totals.CriticalItems,
			OpenJobOrders:  v.Totals.OpenJobOrders,
		},
	}
	for i, r := range v.Rows {
		view.Rows[i] = dashboard.StockRow{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			OnHand:      r.OnHand,
			Reserved:    r.Reserved,
			Available:   r.Available,
			Critical:    r.Critical,
			StatusLabel: r.StatusLabel,
			Desired:     r.Desired,
			Disabled:    r.Disabled,
		}
	}
	return view
}

func outcomeFromClient(o client.Outcome) dashboard.Outcome {
	return dashboard.Outcome{
		Tone:      dashboard.Tone(o.Tone),
		Message:   o.Message,
		Phase:     o.Phase,
		Reference: o.Reference,
	}
}

func receiptFromClient(r *client.Receipt) *reservation.Receipt {
	if r == nil {
		return nil
	}
	out := &reservation.Receipt{
		Reference:  r.Reference,
		Sequence:   r.Sequence,
		LineCount:  r.LineCount,
		TotalUnits: r.TotalUnits,
		Lines:      make([]reservation.Line, len(r.Lines)),
	}
	for i, l := range r.Lines {
		out.Lines[i] = reservation.Line{ItemID: l.ItemID, Name: l.Name, Quantity: l.Quantity}
	}
	return out
}
