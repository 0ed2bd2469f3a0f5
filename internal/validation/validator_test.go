package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiberflow/opsdash/models"
)

func intPtr(v int) *int { return &v }

func validNAP() models.NAP {
	return models.NAP{
		ID:             "NAP-ODG-01",
		Municipality:   "Odiongan",
		Barangay:       "Tabing Dagat",
		CircuitID:      "PON-ODG-12",
		ConcentratorID: "LCP-ODG-01",
		TotalPorts:     16,
		ActivePorts:    11,
		Status:         models.NAPOperational,
		NextPort:       intPtr(12),
		FocusCustomer: &models.FocusCustomer{
			Name: "Juan Dela Cruz", CircuitID: "PON-ODG-12", ConcentratorID: "LCP-ODG-01",
			NAPID: "NAP-ODG-01", Port: "12",
		},
	}
}

func validItem() models.StockItem {
	return models.StockItem{
		ID: "onu-huawei", Name: "Huawei HG8145V5 ONU", Category: "ONU",
		OnHand: 68, Reserved: 12, ReorderThreshold: 10,
	}
}

func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.structValidator)
}

func TestValidateNAP_Valid(t *testing.T) {
	v := New()

	assert.Empty(t, v.ValidateNAP("", validNAP()))
}

func TestValidateNAP_Invalid(t *testing.T) {
	v := New()

	tests := []struct {
		name          string
		mutate        func(n *models.NAP)
		expectedField string
	}{
		{name: "missing id", mutate: func(n *models.NAP) { n.ID = "" }, expectedField: "id"},
		{name: "missing municipality", mutate: func(n *models.NAP) { n.Municipality = "" }, expectedField: "municipality"},
		{name: "missing pon", mutate: func(n *models.NAP) { n.CircuitID = "" }, expectedField: "pon"},
		{name: "negative active ports", mutate: func(n *models.NAP) { n.ActivePorts = -1 }, expectedField: "activePorts"},
		{name: "active exceeds total", mutate: func(n *models.NAP) { n.ActivePorts = 17 }, expectedField: "activePorts"},
		{name: "unknown status", mutate: func(n *models.NAP) { n.Status = "decommissioned" }, expectedField: "status"},
		{name: "next port zero", mutate: func(n *models.NAP) { n.NextPort = intPtr(0) }, expectedField: "nextPort"},
		{name: "next port beyond cabinet", mutate: func(n *models.NAP) { n.NextPort = intPtr(20) }, expectedField: "nextPort"},
		{name: "focus customer without name", mutate: func(n *models.NAP) { n.FocusCustomer.Name = "" }, expectedField: "focusCustomer.name"},
		{name: "focus customer for another nap", mutate: func(n *models.NAP) { n.FocusCustomer.NAPID = "NAP-ODG-02" }, expectedField: "focusCustomer.nap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNAP()
			tt.mutate(&n)

			errs := v.ValidateNAP("", n)

			require.NotEmpty(t, errs)
			assert.Contains(t, fields(errs), tt.expectedField)
		})
	}
}

func TestValidateNAP_Messages(t *testing.T) {
	v := New()
	n := validNAP()
	n.ActivePorts = 20
	n.Status = "retired"

	errs := v.ValidateNAP("naps[0].", n)

	require.Len(t, errs, 2)
	assert.Equal(t, "naps[0].activePorts", errs[0].Field)
	assert.Equal(t, "activePorts must not exceed totalPorts", errs[0].Message)
	assert.Equal(t, 20, errs[0].Value)
	assert.Equal(t, "naps[0].status", errs[1].Field)
	assert.Equal(t, "Invalid status: must be one of: operational, maintenance", errs[1].Message)
}

func TestValidateStockItem(t *testing.T) {
	v := New()

	tests := []struct {
		name          string
		mutate        func(s *models.StockItem)
		expectedField string
	}{
		{name: "valid", mutate: func(s *models.StockItem) {}},
		{name: "fully reserved is valid", mutate: func(s *models.StockItem) { s.Reserved = s.OnHand }},
		{name: "missing name", mutate: func(s *models.StockItem) { s.Name = "" }, expectedField: "item"},
		{name: "missing category", mutate: func(s *models.StockItem) { s.Category = "" }, expectedField: "category"},
		{name: "negative on hand", mutate: func(s *models.StockItem) { s.OnHand = -1; s.Reserved = -2 }, expectedField: "inStock"},
		{name: "over reserved", mutate: func(s *models.StockItem) { s.Reserved = 69 }, expectedField: "reserved"},
		{name: "negative threshold", mutate: func(s *models.StockItem) { s.ReorderThreshold = -1 }, expectedField: "reorderPoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validItem()
			tt.mutate(&s)

			errs := v.ValidateStockItem("", s)

			if tt.expectedField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Contains(t, fields(errs), tt.expectedField)
		})
	}
}

func TestValidateCatalog(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		result := v.ValidateCatalog([]models.NAP{validNAP()}, []models.StockItem{validItem()})

		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("empty catalog", func(t *testing.T) {
		result := v.ValidateCatalog(nil, nil)

		assert.True(t, result.Valid)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		result := v.ValidateCatalog(
			[]models.NAP{validNAP(), validNAP()},
			[]models.StockItem{validItem(), validItem()},
		)

		assert.False(t, result.Valid)
		assert.Equal(t, []string{"naps[1].id", "stock[1].id"}, fields(result.Errors))
		assert.Contains(t, result.Errors[0].Message, "naps[0]")
	})

	t.Run("errors are prefixed by position", func(t *testing.T) {
		bad := validItem()
		bad.ID = "onu-zte"
		bad.Reserved = 100

		result := v.ValidateCatalog([]models.NAP{validNAP()}, []models.StockItem{validItem(), bad})

		assert.False(t, result.Valid)
		assert.Equal(t, []string{"stock[1].reserved"}, fields(result.Errors))
		assert.Equal(t, "stock[1].reserved: reserved must not exceed inStock", result.Error())
	})
}
