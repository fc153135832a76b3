// Package personalize decides, per learner, what to review, how hard the
// next question should be, what to do next, and how much daily practice a
// target score needs. Every function here is pure: it reads an already
// loaded Snapshot and returns a value for the caller to show or persist.
package personalize

import "github.com/abhisek/satcoach/internal/catalog"

// Engine runs the catalog-dependent parts of personalization.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine over the given catalog. A nil catalog is
// treated as empty: every module gets catalog.DefaultWeight and no module
// has sections or lessons.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
