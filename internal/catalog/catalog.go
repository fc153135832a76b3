// Package catalog holds the static course configuration: which modules
// exist, how much each one matters on the test, its practice sections and
// its lessons in teaching order.
package catalog

import "fmt"

// DefaultWeight is the importance assumed for modules the catalog does not know.
const DefaultWeight float64 = 5

// Lesson is a single lesson within a module.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Module is a unit of the course.
type Module struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Weight   float64  `json:"weight"`
	Sections []string `json:"sections"`
	Lessons  []Lesson `json:"lessons"`
}

// Catalog is an ordered, read-only set of modules.
// A nil *Catalog behaves like an empty one.
type Catalog struct {
	version string
	modules []Module
	byID    map[string]int
}

// New builds a catalog from modules in display order.
func New(version string, modules []Module) (*Catalog, error) {
	c := &Catalog{
		version: version,
		modules: make([]Module, len(modules)),
		byID:    make(map[string]int, len(modules)),
	}
	for i, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("module %d: empty id", i)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %q", m.ID)
		}
		seen := make(map[string]bool, len(m.Sections))
		for _, s := range m.Sections {
			if seen[s] {
				return nil, fmt.Errorf("module %q: duplicate section %q", m.ID, s)
			}
			seen[s] = true
		}
		c.byID[m.ID] = i
		c.modules[i] = m
	}
	return c, nil
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// Modules returns all modules in display order.
func (c *Catalog) Modules() []Module {
	if c == nil {
		return nil
	}
	return c.modules
}

// Module looks up a module by id.
func (c *Catalog) Module(id string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

// Title returns the module's display title, falling back to its id.
func (c *Catalog) Title(id string) string {
	if m, ok := c.Module(id); ok && m.Title != "" {
		return m.Title
	}
	return id
}

// Weight returns the module's importance weight, or DefaultWeight.
func (c *Catalog) Weight(id string) float64 {
	if m, ok := c.Module(id); ok {
		return m.Weight
	}
	return DefaultWeight
}

// Sections returns the module's practice sections in order.
func (c *Catalog) Sections(id string) []string {
	m, _ := c.Module(id)
	return m.Sections
}

// Lessons returns the module's lessons in teaching order.
func (c *Catalog) Lessons(id string) []Lesson {
	m, _ := c.Module(id)
	return m.Lessons
}

// ModuleIndex returns the module's display position. Unknown modules sort last.
func (c *Catalog) ModuleIndex(id string) int {
	if c == nil {
		return 0
	}
	if i, ok := c.byID[id]; ok {
		return i
	}
	return len(c.modules)
}

// SectionIndex returns the section's position within its module.
// Unknown sections sort last.
func (c *Catalog) SectionIndex(moduleID, section string) int {
	sections := c.Sections(moduleID)
	for i, s := range sections {
		if s == section {
			return i
		}
	}
	return len(sections)
}

// Weights returns a copy of the module weight table.
func (c *Catalog) Weights() map[string]float64 {
	weights := make(map[string]float64)
	for _, m := range c.Modules() {
		weights[m.ID] = m.Weight
	}
	return weights
}
