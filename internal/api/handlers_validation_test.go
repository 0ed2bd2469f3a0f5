package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiberflow/opsdash/internal/validation"
)

func validateBody(t *testing.T, body string) (*httptest.ResponseRecorder, validation.ValidationResult) {
	t.Helper()
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate/catalog", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := server.echo.NewContext(req, rec)

	err := server.validateCatalog(c)
	require.NoError(t, err)

	var result validation.ValidationResult
	if rec.Code == http.StatusOK || len(rec.Body.Bytes()) > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &result)
	}
	return rec, result
}

func TestValidateCatalog_Valid(t *testing.T) {
	rec, result := validateBody(t, `{
		"naps": [{
			"id": "NAP-TST-01",
			"municipality": "Odiongan",
			"barangay": "Poblacion",
			"pon": "PON-TST-01",
			"lcp": "LCP-TST-01",
			"totalPorts": 8,
			"activePorts": 2,
			"status": "operational"
		}],
		"stock": [{
			"id": "onu-test",
			"item": "Test ONU",
			"category": "ONU",
			"inStock": 10,
			"reserved": 2,
			"reorderPoint": 3
		}]
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateCatalog_Invalid(t *testing.T) {
	rec, result := validateBody(t, `{
		"naps": [{
			"id": "NAP-TST-01",
			"municipality": "Odiongan",
			"barangay": "Poblacion",
			"pon": "PON-TST-01",
			"lcp": "LCP-TST-01",
			"totalPorts": 8,
			"activePorts": 9,
			"status": "decommissioned"
		}],
		"stock": []
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "naps[0].activePorts")
	assert.Contains(t, fields, "naps[0].status")
}

func TestValidateCatalog_DuplicateIDs(t *testing.T) {
	rec, result := validateBody(t, `{
		"stock": [
			{"id": "onu-test", "item": "A", "category": "ONU", "inStock": 1, "reserved": 0, "reorderPoint": 0},
			{"id": "onu-test", "item": "B", "category": "ONU", "inStock": 1, "reserved": 0, "reorderPoint": 0}
		]
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "stock[1].id", result.Errors[0].Field)
	assert.Equal(t, "Duplicate stock id (first defined at stock[0])", result.Errors[0].Message)
}

func TestValidateCatalog_UnknownField(t *testing.T) {
	rec, _ := validateBody(t, `{"hosts": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid catalog document")
}
