package web

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/directory"
	"github.com/fiberflow/opsdash/models"
)

// stateOptions are the entries of the state filter, in display order.
var stateOptions = []struct {
	Value string
	Label string
}{
	{directory.All, "All states"},
	{string(models.StateAvailable), directory.StateLabel(models.StateAvailable)},
	{string(models.StateFull), directory.StateLabel(models.StateFull)},
	{string(models.StateMaintenance), directory.StateLabel(models.StateMaintenance)},
}

// Page renders the full dashboard.
func Page(v dashboard.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Field Operations Dashboard</title>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`)
		h.raw(`</head><body><main class="dashboard">`)
		h.raw(`<section class="panel-group" aria-labelledby="nap-heading"><h2 id="nap-heading">NAP directory</h2>`)
		h.render(ctx, NAPPanel(v.Directory))
		h.raw(`</section>`)
		h.raw(`<section class="panel-group" aria-labelledby="stock-heading"><h2 id="stock-heading">Stock &amp; job orders</h2>`)
		h.render(ctx, StockPanel(v.Stock, v.Summary, v.Outcome))
		h.raw(`</section></main></body></html>`)
		return h.err
	})
}

// NAPPanel renders the filters, totals, table and detail of the directory.
func NAPPanel(v dashboard.DirectoryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div id="nap-panel" class="panel">`)

		h.raw(`<form class="filters" hx-get="/web/naps" hx-target="#nap-panel" hx-swap="outerHTML" hx-trigger="change, keyup changed delay:300ms from:find input">`)
		h.raw(`<select name="municipality" aria-label="Municipality">`)
		option(h, directory.All, "All municipalities", v.Criteria.Municipality == directory.All || v.Criteria.Municipality == "")
		for _, m := range v.Municipalities {
			option(h, m, m, v.Criteria.Municipality == m)
		}
		h.raw(`</select><select name="state" aria-label="State">`)
		for _, o := range stateOptions {
			option(h, o.Value, o.Label, v.Criteria.State == o.Value || (o.Value == directory.All && v.Criteria.State == ""))
		}
		h.raw(`</select><input type="search" name="search" placeholder="Search NAP, barangay, PON or LCP" value="`)
		h.text(v.Criteria.Search)
		h.raw(`"></form>`)

		h.raw(`<dl class="totals"><dt>NAPs</dt><dd data-nap-total>`)
		h.text(formatNumber(v.Totals.Count))
		h.raw(`</dd><dt>Available ports</dt><dd data-available-ports>`)
		h.text(formatNumber(v.Totals.AvailablePorts))
		h.raw(`</dd><dt>Utilisation</dt><dd data-utilisation>`)
		h.text(fmt.Sprintf("%d%%", v.Totals.UtilisationPercent))
		h.raw(`</dd></dl>`)

		h.raw(`<table class="nap-table"><thead><tr><th>NAP</th><th>Municipality</th><th>Barangay</th><th>PON</th><th>LCP</th><th class="numeric">Ports</th><th class="numeric">Available</th><th>Status</th></tr></thead><tbody>`)
		if len(v.Rows) == 0 {
			h.raw(`<tr class="empty"><td colspan="8">No NAPs match the current filters.</td></tr>`)
		}
		for _, r := range v.Rows {
			napRow(h, r)
		}
		h.raw(`</tbody></table>`)

		h.render(ctx, NAPDetail(v.Detail))
		h.raw(`</div>`)
		return h.err
	})
}

func napRow(h *html, r dashboard.NAPRow) {
	h.raw(`<tr data-nap-id="`)
	h.text(r.ID)
	h.raw(`" tabindex="0"`)
	if r.Active {
		h.raw(` class="is-active" aria-selected="true"`)
	}
	h.raw(` hx-post="`)
	h.path("/web/naps/", r.ID, "/activate")
	h.raw(`" hx-target="#nap-panel" hx-swap="outerHTML" hx-trigger="click, keydown[key=='Enter'||key==' ']">`)
	for _, cell := range []string{r.ID, r.Municipality, r.Barangay, r.CircuitID, r.ConcentratorID} {
		h.raw(`<td>`)
		h.text(cell)
		h.raw(`</td>`)
	}
	h.raw(`<td class="numeric">`)
	h.text(formatNumber(r.TotalPorts))
	h.raw(`</td><td class="numeric">`)
	h.text(formatNumber(r.AvailablePorts))
	h.raw(`</td><td><span class="status-pill status-`)
	h.text(string(r.State))
	h.raw(`">`)
	h.text(r.StateLabel)
	h.raw(`</span></td></tr>`)
}

// NAPDetail renders the detail card of the active NAP.
func NAPDetail(d directory.Detail) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(fmt.Sprintf(`<aside class="nap-detail" data-selected="%t"><h3 data-customer-name>`, d.Selected))
		h.text(d.Name)
		h.raw(`</h3><dl>`)
		for _, f := range []struct{ label, attr, value string }{
			{"PON", "data-customer-pon", d.CircuitID},
			{"LCP", "data-customer-lcp", d.ConcentratorID},
			{"NAP", "data-customer-nap", d.NAPID},
			{"Port", "data-customer-port", d.Port},
		} {
			h.raw(`<dt>` + f.label + `</dt><dd ` + f.attr + `>`)
			h.text(f.value)
			h.raw(`</dd>`)
		}
		h.raw(`</dl></aside>`)
		return h.err
	})
}

// StockPanel renders the stock table, the job-order form and the last outcome.
func StockPanel(v dashboard.StockView, s dashboard.JobOrderSummary, o dashboard.Outcome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div id="stock-panel" class="panel">`)

		h.raw(`<dl class="totals"><dt>Units available</dt><dd data-stock-count>`)
		h.text(formatNumber(v.Totals.TotalAvailable))
		h.raw(`</dd><dt>Critical items</dt><dd data-critical-count>`)
		h.text(formatNumber(v.Totals.CriticalItems))
		h.raw(`</dd><dt>Open job orders</dt><dd data-open-orders>`)
		h.text(formatNumber(v.Totals.OpenJobOrders))
		h.raw(`</dd></dl>`)

		h.raw(`<table class="inventory-table"><thead><tr><th>Item</th><th>Category</th><th class="numeric">In stock</th><th class="numeric">Reserved</th><th class="numeric">Available</th><th>Status</th></tr></thead><tbody>`)
		for _, r := range v.Rows {
			h.raw(`<tr><td>`)
			h.text(r.Name)
			h.raw(`</td><td>`)
			h.text(r.Category)
			h.raw(`</td><td class="numeric">`)
			h.text(formatNumber(r.OnHand))
			h.raw(`</td><td class="numeric">`)
			h.text(formatNumber(r.Reserved))
			h.raw(`</td><td class="numeric">`)
			h.text(formatNumber(r.Available))
			if r.Critical {
				h.raw(`</td><td><span class="status-pill status-critical">`)
			} else {
				h.raw(`</td><td><span class="status-pill status-healthy">`)
			}
			h.text(r.StatusLabel)
			h.raw(`</span></td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<form id="jobOrderForm" hx-post="/web/joborders" hx-target="#stock-panel" hx-swap="outerHTML"><div class="job-items" data-job-items>`)
		for _, r := range v.Rows {
			jobItem(h, r)
		}
		h.raw(`</div>`)
		h.render(ctx, JobSummary(s))
		h.raw(`<div class="actions"><button type="submit">Stage job order</button>`)
		h.raw(`<button type="button" hx-post="/web/joborders/clear" hx-target="#stock-panel" hx-swap="outerHTML">Clear</button></div>`)
		h.render(ctx, OutcomeLine(o))
		h.raw(`</form></div>`)
		return h.err
	})
}

func jobItem(h *html, r dashboard.StockRow) {
	name := "item-" + r.ID
	h.raw(`<div class="job-item"><label for="`)
	h.text(name)
	h.raw(`"><span>`)
	h.text(r.Name)
	h.raw(`</span><small>`)
	h.text(fmt.Sprintf("%s • Available: %s", r.Category, formatNumber(r.Available)))
	h.raw(`</small></label><input type="number" id="`)
	h.text(name)
	h.raw(`" name="`)
	h.text(name)
	h.raw(fmt.Sprintf(`" min="0" max="%d" value="%d" step="1"`, r.Available, r.Desired))
	h.raw(` hx-post="`)
	h.path("/web/joborders/items/", r.ID, "")
	h.raw(`" hx-trigger="input changed delay:200ms" hx-target="#job-summary" hx-swap="outerHTML" hx-include="this"`)
	if r.Disabled {
		h.raw(` disabled`)
	}
	h.raw(`></div>`)
}

// JobSummary renders the staged draft.
func JobSummary(s dashboard.JobOrderSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div id="job-summary" class="job-summary" data-job-summary><strong>`)
		h.text(s.Headline)
		h.raw(`</strong>`)
		if !s.Empty {
			h.raw(`<ul>`)
			for _, l := range s.Lines {
				h.raw(`<li>`)
				h.text(l)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// OutcomeLine renders the result of the last submission.
func OutcomeLine(o dashboard.Outcome) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<p class="job-response" role="status" data-joborder-response data-tone="`)
		h.text(string(o.Tone))
		h.raw(`" data-phase="`)
		h.text(o.Phase)
		h.raw(`">`)
		h.text(o.Message)
		h.raw(`</p>`)
		return h.err
	})
}

func option(h *html, value, label string, selected bool) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}
