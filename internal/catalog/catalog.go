// Package catalog loads the static NAP directory and stock catalog.
//
// The catalog is read once at startup, either from a YAML file or from the
// seed catalog embedded in the binary, and validated before any engine sees it.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fiberflow/opsdash/internal/validation"
	"github.com/fiberflow/opsdash/models"
)

//go:embed default.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned by Load when the catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the static reference data of a dashboard session.
type Catalog struct {
	NAPs  []models.NAP       `yaml:"naps" json:"naps"`
	Stock []models.StockItem `yaml:"stock" json:"stock"`
}

// Decode parses a YAML catalog. Unknown keys are rejected.
func Decode(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// Read decodes the catalog at path, or the embedded seed catalog when path is
// empty. The result is not validated.
func Read(path string) (*Catalog, error) {
	if path == "" {
		return Decode(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(data)
}

// Load reads and validates the catalog.
func Load(path string) (*Catalog, error) {
	c, err := Read(path)
	if err != nil {
		return nil, err
	}
	if result := c.Validate(); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, result.Error())
	}
	return c, nil
}

// Default returns the validated seed catalog.
func Default() (*Catalog, error) {
	return Load("")
}

// Validate checks every record and the uniqueness of identifiers.
func (c *Catalog) Validate() *validation.ValidationResult {
	return validation.New().ValidateCatalog(c.NAPs, c.Stock)
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
