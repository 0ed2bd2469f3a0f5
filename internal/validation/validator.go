// Package validation checks the static NAP and stock catalog before it is
// handed to the engines.
//
// It uses go-playground/validator for the struct-level constraints declared on
// the models (required fields, port and quantity bounds, status enums) and adds
// the cross-record rules the tags cannot express: unique identifiers and focus
// customers that point back at their own NAP.
//
// # Usage Example
//
//	v := validation.New()
//	result := v.ValidateCatalog(naps, items)
//	if !result.Valid {
//	    for _, e := range result.Errors {
//	        fmt.Printf("%s: %s\n", e.Field, e.Message)
//	    }
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fiberflow/opsdash/models"
)

// Validator validates catalog records.
type Validator struct {
	// structValidator validates Go struct constraints and tags
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level details.
type ValidationError struct {
	// Field is the path of the field that failed validation (e.g. naps[1].activePorts)
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

// Error joins the collected errors into a single message.
func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// New creates a Validator that reports fields by their YAML names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{structValidator: v}
}

// ValidateNAP validates a single NAP record. prefix is prepended to every
// reported field.
func (v *Validator) ValidateNAP(prefix string, n models.NAP) []ValidationError {
	errs := v.validateStruct(prefix, n)

	if n.NextPort != nil && *n.NextPort > n.TotalPorts {
		errs = append(errs, ValidationError{
			Field:   prefix + "nextPort",
			Message: fmt.Sprintf("Next port must not exceed totalPorts (%d)", n.TotalPorts),
			Value:   *n.NextPort,
		})
	}
	if fc := n.FocusCustomer; fc != nil && fc.NAPID != "" && fc.NAPID != n.ID {
		errs = append(errs, ValidationError{
			Field:   prefix + "focusCustomer.nap",
			Message: fmt.Sprintf("Focus customer must reference its own NAP %s", n.ID),
			Value:   fc.NAPID,
		})
	}
	return errs
}

// ValidateStockItem validates a single stock item.
func (v *Validator) ValidateStockItem(prefix string, s models.StockItem) []ValidationError {
	return v.validateStruct(prefix, s)
}

// ValidateCatalog validates every NAP and stock item and checks that
// identifiers are unique within each list.
func (v *Validator) ValidateCatalog(naps []models.NAP, items []models.StockItem) *ValidationResult {
	var all []ValidationError

	seen := make(map[string]int, len(naps))
	for i, n := range naps {
		prefix := fmt.Sprintf("naps[%d].", i)
		all = append(all, v.ValidateNAP(prefix, n)...)
		if first, dup := seen[n.ID]; dup && n.ID != "" {
			all = append(all, ValidationError{
				Field:   prefix + "id",
				Message: fmt.Sprintf("Duplicate NAP id (first defined at naps[%d])", first),
				Value:   n.ID,
			})
			continue
		}
		seen[n.ID] = i
	}

	seen = make(map[string]int, len(items))
	for i, s := range items {
		prefix := fmt.Sprintf("stock[%d].", i)
		all = append(all, v.ValidateStockItem(prefix, s)...)
		if first, dup := seen[s.ID]; dup && s.ID != "" {
			all = append(all, ValidationError{
				Field:   prefix + "id",
				Message: fmt.Sprintf("Duplicate stock id (first defined at stock[%d])", first),
				Value:   s.ID,
			})
			continue
		}
		seen[s.ID] = i
	}

	return &ValidationResult{
		Valid:  len(all) == 0,
		Errors: all,
	}
}

func (v *Validator) validateStruct(prefix string, s interface{}) []ValidationError {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   prefix + fieldPath(fe.Namespace()),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace
// ("NAP.focusCustomer.name" -> "focusCustomer.name").
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), yamlNames[fe.Param()])
	case "oneof":
		return fmt.Sprintf("Invalid %s: must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// yamlNames maps the Go field names referenced by cross-field tags.
var yamlNames = map[string]string{
	"TotalPorts": "totalPorts",
	"OnHand":     "inStock",
}
