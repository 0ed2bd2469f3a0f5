package client

import "github.com/fiberflow/opsdash/models"

// Filter is a partial filter update. Nil fields keep the server-side value.
type Filter struct {
	Municipality *string `json:"municipality,omitempty"`
	State        *string `json:"state,omitempty"`
	Search       *string `json:"search,omitempty"`
}

// String returns a pointer to s for use in Filter.
func String(s string) *string { return &s }

// Criteria is the filter in effect on the server.
type Criteria struct {
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Search       string `json:"search"`
}

// Totals are the port totals over the visible NAPs.
type Totals struct {
	Count              int `json:"count"`
	TotalPorts         int `json:"totalPorts"`
	ActivePorts        int `json:"activePorts"`
	AvailablePorts     int `json:"availablePorts"`
	UtilisationPercent int `json:"utilisationPercent"`
}

// NAP is one row of the NAP directory.
type NAP struct {
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

// Detail is the install detail of the selected NAP.
type Detail struct {
	Selected       bool   `json:"selected"`
	Name           string `json:"name"`
	CircuitID      string `json:"pon"`
	ConcentratorID string `json:"lcp"`
	NAPID          string `json:"nap"`
	Port           string `json:"port"`
}

// DirectoryView is the NAP directory after a filter change.
type DirectoryView struct {
	Criteria       Criteria `json:"criteria"`
	Municipalities []string `json:"municipalities"`
	Rows           []NAP    `json:"rows"`
	Totals         Totals   `json:"totals"`
	Detail         Detail   `json:"detail"`
}

// StockItem is one consumable with its live availability.
type StockItem struct {
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

// StockTotals summarises the stock panel.
type StockTotals struct {
	TotalAvailable int `json:"totalAvailable"`
	CriticalItems  int `json:"criticalItems"`
	OpenJobOrders  int `json:"openJobOrders"`
}

// StockView is the stock panel.
type StockView struct {
	Rows   []StockItem `json:"rows"`
	Totals StockTotals `json:"totals"`
}

// Line is one item and quantity of a job order.
type Line struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// Summary describes the staged draft.
type Summary struct {
	Empty      bool     `json:"empty"`
	Headline   string   `json:"headline"`
	TotalUnits int      `json:"totalUnits"`
	Lines      []string `json:"lines"`
	Draft      []Line   `json:"draft"`
}

// Outcome is the status message of the last job order action.
type Outcome struct {
	Tone      string `json:"tone"`
	Message   string `json:"message"`
	Phase     string `json:"phase"`
	Reference string `json:"reference,omitempty"`
}

// Receipt describes a committed job order.
type Receipt struct {
	Reference  string `json:"reference"`
	Sequence   int    `json:"sequence"`
	LineCount  int    `json:"lineCount"`
	TotalUnits int    `json:"totalUnits"`
	Lines      []Line `json:"lines"`
}

// Counters are the job order counters.
type Counters struct {
	OpenJobOrders int `json:"openJobOrders"`
	Sequence      int `json:"sequence"`
}
