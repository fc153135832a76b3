package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

var (
	ErrInvalidVersion     = errors.New("catalog version is not a valid semantic version")
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
)

// ErrInvalidCatalog indicates the catalog document failed schema validation.
type ErrInvalidCatalog struct {
	Err error
}

func (e *ErrInvalidCatalog) Error() string {
	return fmt.Sprintf("invalid catalog: %v", e.Err)
}

func (e *ErrInvalidCatalog) Unwrap() error { return e.Err }

//go:embed schema.json
var schemaJSON []byte

//go:embed default.json
var defaultJSON []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

type document struct {
	Version string   `json:"version"`
	Modules []Module `json:"modules"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates raw catalog JSON and builds a Catalog from it.
func Parse(data []byte) (*Catalog, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &ErrInvalidCatalog{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := catalogSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidCatalog{Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ErrInvalidCatalog{Err: err}
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	c, err := New(doc.Version, doc.Modules)
	if err != nil {
		return nil, &ErrInvalidCatalog{Err: err}
	}
	return c, nil
}

// Default returns the built-in course catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultJSON)
		if err != nil {
			panic(fmt.Sprintf("built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedVersion, v, SupportedMajor)
	}
	return nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://catalog.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}
