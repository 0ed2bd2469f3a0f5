// Package directory implements the NAP directory filter and selection engine.
//
// The engine holds an immutable catalog of network access points, a single
// mutable filter criteria and the id of the active (highlighted) NAP. Every
// filter change re-derives the visible set and repairs the selection so that
// the active NAP is always a member of the visible set when that set is
// non-empty.
//
// The engine is not safe for concurrent use; callers serialize access.
//
// # Usage Example
//
//	dir := directory.New(naps)
//	dir.SetFilter(directory.Patch{State: directory.Value("available")})
//	rows := dir.Visible()
//	totals := directory.Aggregate(rows)
//	detail := dir.ActiveDetail()
package directory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/fiberflow/opsdash/models"
)

// All is the selector value that disables a categorical filter.
const All = "all"

// Criteria is the current filter. Empty selector values behave like All.
type Criteria struct {
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Search       string `json:"search"`
}

// Patch is a partial criteria update; nil fields are left untouched.
type Patch struct {
	Municipality *string `json:"municipality,omitempty"`
	State        *string `json:"state,omitempty"`
	Search       *string `json:"search,omitempty"`
}

// Value returns a pointer to v for building a Patch.
func Value(v string) *string {
	return &v
}

// Matches reports whether a NAP passes the municipality, state and search
// filters, applied in that order.
func (c Criteria) Matches(n models.NAP) bool {
	if !isAll(c.Municipality) && n.Municipality != c.Municipality {
		return false
	}
	if !isAll(c.State) && string(n.State()) != c.State {
		return false
	}
	if c.Search == "" {
		return true
	}

	term := strings.ToLower(c.Search)
	return lo.SomeBy([]string{n.ID, n.Barangay, n.CircuitID, n.ConcentratorID}, func(v string) bool {
		return strings.Contains(strings.ToLower(v), term)
	})
}

// Filtering reports whether any filter is active.
func (c Criteria) Filtering() bool {
	return !isAll(c.Municipality) || !isAll(c.State) || c.Search != ""
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Engine is the directory filter and selection state machine.
type Engine struct {
	catalog  []models.NAP
	index    map[string]int
	criteria Criteria
	// active is the id of the highlighted NAP, "" when nothing is selected
	active string
}

// New creates an engine over a copy of the catalog with no filtering applied.
// The first catalog entry starts out as the active selection.
func New(naps []models.NAP) *Engine {
	e := &Engine{
		catalog:  slices.Clone(naps),
		index:    make(map[string]int, len(naps)),
		criteria: Criteria{Municipality: All, State: All},
	}
	for i, n := range e.catalog {
		e.index[n.ID] = i
	}
	if len(e.catalog) > 0 {
		e.active = e.catalog[0].ID
	}
	e.repair(e.Visible())
	return e
}

// Len returns the catalog size.
func (e *Engine) Len() int {
	return len(e.catalog)
}

// Criteria returns the current filter criteria.
func (e *Engine) Criteria() Criteria {
	return e.criteria
}

// SetFilter merges p into the criteria and repairs the active selection.
// Unknown selector values are accepted; they simply match nothing.
func (e *Engine) SetFilter(p Patch) {
	if p.Municipality != nil {
		e.criteria.Municipality = *p.Municipality
	}
	if p.State != nil {
		e.criteria.State = *p.State
	}
	if p.Search != nil {
		e.criteria.Search = strings.TrimSpace(*p.Search)
	}
	e.repair(e.Visible())
}

// Visible returns the NAPs passing the current criteria in catalog order.
func (e *Engine) Visible() []models.NAP {
	return lo.Filter(e.catalog, func(n models.NAP, _ int) bool {
		return e.criteria.Matches(n)
	})
}

// Select makes id the active NAP. It is a no-op returning false when id is
// not in the catalog or is hidden by the current filter.
func (e *Engine) Select(id string) bool {
	i, ok := e.index[id]
	if !ok || !e.criteria.Matches(e.catalog[i]) {
		return false
	}
	e.active = id
	return true
}

// Active returns the active NAP, if any.
func (e *Engine) Active() (models.NAP, bool) {
	i, ok := e.index[e.active]
	if e.active == "" || !ok {
		return models.NAP{}, false
	}
	return e.catalog[i], true
}

// ActiveID returns the active NAP id or "" when nothing is selected.
func (e *Engine) ActiveID() string {
	return e.active
}

// ActiveDetail returns the detail record for the active NAP, or the
// placeholder when nothing is selected.
func (e *Engine) ActiveDetail() Detail {
	n, ok := e.Active()
	if !ok {
		return Placeholder()
	}
	return DetailFor(n)
}

// Municipalities returns the sorted, de-duplicated municipality list used to
// populate the municipality selector.
func (e *Engine) Municipalities() []string {
	out := lo.Uniq(lo.Map(e.catalog, func(n models.NAP, _ int) string {
		return n.Municipality
	}))
	slices.Sort(out)
	return out
}

// repair keeps the active id if it survives the filter, otherwise falls back
// to the first visible NAP or to no selection.
func (e *Engine) repair(visible []models.NAP) {
	if e.active != "" && lo.ContainsBy(visible, func(n models.NAP) bool { return n.ID == e.active }) {
		return
	}
	if len(visible) == 0 {
		e.active = ""
		return
	}
	e.active = visible[0].ID
}

// Detail is the display record for the active NAP panel.
type Detail struct {
	Selected       bool   `json:"selected"`
	Name           string `json:"name"`
	CircuitID      string `json:"pon"`
	ConcentratorID string `json:"lcp"`
	NAPID          string `json:"nap"`
	Port           string `json:"port"`
}

const (
	placeholderName  = "No NAP selected"
	placeholderValue = "—"
	nextSlotName     = "Next install slot"
	fullName         = "Fully utilised"
	noPortsLabel     = "All ports reserved"
)

// Placeholder is the detail shown when no NAP is selected.
func Placeholder() Detail {
	return Detail{
		Name:           placeholderName,
		CircuitID:      placeholderValue,
		ConcentratorID: placeholderValue,
		NAPID:          placeholderValue,
		Port:           placeholderValue,
	}
}

// DetailFor returns the NAP's focus customer verbatim, or synthesizes one from
// the NAP's identifiers and next free port.
func DetailFor(n models.NAP) Detail {
	if fc := n.FocusCustomer; fc != nil {
		return Detail{
			Selected:       true,
			Name:           fc.Name,
			CircuitID:      fc.CircuitID,
			ConcentratorID: fc.ConcentratorID,
			NAPID:          fc.NAPID,
			Port:           fc.Port,
		}
	}

	d := Detail{
		Selected:       true,
		CircuitID:      n.CircuitID,
		ConcentratorID: n.ConcentratorID,
		NAPID:          n.ID,
	}
	if n.Available() == 0 {
		d.Name = fullName
		d.Port = noPortsLabel
		return d
	}

	next := n.ActivePorts + 1
	if n.NextPort != nil {
		next = *n.NextPort
	}
	d.Name = nextSlotName
	d.Port = fmt.Sprintf("%02d", next)
	return d
}

// StateLabel is the human label for a derived NAP state.
func StateLabel(s models.NAPState) string {
	switch s {
	case models.StateMaintenance:
		return "Under maintenance"
	case models.StateFull:
		return "Fully utilised"
	default:
		return "Ports available"
	}
}
