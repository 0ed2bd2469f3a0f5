package models

// NAPStatus is the operational status recorded for a network access point.
type NAPStatus string

const (
	NAPOperational NAPStatus = "operational"
	NAPMaintenance NAPStatus = "maintenance"
)

// NAPState is the derived state used for filtering and status pills.
// It is computed from Status and port counts on every read.
type NAPState string

const (
	StateAvailable   NAPState = "available"
	StateFull        NAPState = "full"
	StateMaintenance NAPState = "maintenance"
)

// NAP represents a network access point: a field cabinet terminating a fixed
// number of subscriber-facing fiber ports.
//
// NAP records are loaded once from the static catalog and never mutated
// during a session.
//
// Example YAML representation:
//
//	- id: NAP-ODG-01
//	  municipality: Odiongan
//	  barangay: Tabing Dagat
//	  pon: PON-ODG-12
//	  lcp: LCP-ODG-01
//	  totalPorts: 16
//	  activePorts: 11
//	  status: operational
//	  nextPort: 12
type NAP struct {
	// ID is the unique NAP identifier (e.g. NAP-ODG-01)
	ID string `json:"id" yaml:"id" validate:"required"`

	// Municipality groups NAPs for the municipality filter
	Municipality string `json:"municipality" yaml:"municipality" validate:"required"`

	// Barangay is the village-level location of the cabinet
	Barangay string `json:"barangay" yaml:"barangay" validate:"required"`

	// CircuitID is the upstream PON circuit feeding the cabinet
	CircuitID string `json:"pon" yaml:"pon" validate:"required"`

	// ConcentratorID is the last-mile concentrator (LCP) the cabinet hangs off
	ConcentratorID string `json:"lcp" yaml:"lcp" validate:"required"`

	// TotalPorts is the number of subscriber ports in the cabinet
	TotalPorts int `json:"totalPorts" yaml:"totalPorts" validate:"gte=0"`

	// ActivePorts is the number of ports currently in service
	ActivePorts int `json:"activePorts" yaml:"activePorts" validate:"gte=0,ltefield=TotalPorts"`

	// Status is the operational status (operational, maintenance)
	Status NAPStatus `json:"status" yaml:"status" validate:"required,oneof=operational maintenance"`

	// NextPort hints the next port number to hand out, if known
	NextPort *int `json:"nextPort,omitempty" yaml:"nextPort,omitempty" validate:"omitempty,gte=1"`

	// FocusCustomer is a denormalized detail record shown when the NAP is selected
	FocusCustomer *FocusCustomer `json:"focusCustomer,omitempty" yaml:"focusCustomer,omitempty" validate:"omitempty"`
}

// FocusCustomer is the display record for the active NAP's detail panel.
type FocusCustomer struct {
	Name           string `json:"name" yaml:"name" validate:"required"`
	CircuitID      string `json:"pon" yaml:"pon"`
	ConcentratorID string `json:"lcp" yaml:"lcp"`
	NAPID          string `json:"nap" yaml:"nap"`
	Port           string `json:"port" yaml:"port"`
}

// Available returns the number of free ports, floored at zero.
func (n NAP) Available() int {
	return max(n.TotalPorts-n.ActivePorts, 0)
}

// State returns the derived filter state of the NAP.
func (n NAP) State() NAPState {
	if n.Status == NAPMaintenance {
		return StateMaintenance
	}
	if n.Available() == 0 {
		return StateFull
	}
	return StateAvailable
}
