package meta

import (
	"slices"
	"strings"
)

// Catalog is a set of entities from one schema source, kept in source
// order.
type Catalog struct {
	Dialect Dialect
	Tables  []*Table
	Views   []*View
	Enums   []*Enum
	Domains []*Domain
}

// Entities returns tables, then views, then enums.
func (c *Catalog) Entities() []Entity {
	out := make([]Entity, 0, len(c.Tables)+len(c.Views)+len(c.Enums))
	for _, t := range c.Tables {
		out = append(out, t)
	}
	for _, v := range c.Views {
		out = append(out, v)
	}
	for _, e := range c.Enums {
		out = append(out, e)
	}
	return out
}

// Lookup finds an entity by qualified or bare name. A bare name matches
// only when it is unambiguous.
func (c *Catalog) Lookup(name string) (Entity, bool) {
	var match Entity
	count := 0
	for _, e := range c.Entities() {
		qn := e.QualifiedName()
		if qn == name {
			return e, true
		}
		if bare(qn) == name {
			match = e
			count++
		}
	}
	return match, count == 1
}

// Names returns the qualified names of every entity.
func (c *Catalog) Names() []string {
	var out []string
	for _, e := range c.Entities() {
		out = append(out, e.QualifiedName())
	}
	return out
}

// Table returns the table with the given qualified or bare name.
func (c *Catalog) Table(name string) (*Table, bool) {
	e, ok := c.Lookup(name)
	if !ok {
		return nil, false
	}
	t, ok := e.(*Table)
	return t, ok
}

// Merge appends other's entities. Other's dialect wins when c has none.
func (c *Catalog) Merge(other *Catalog) {
	if c.Dialect == "" {
		c.Dialect = other.Dialect
	}
	c.Tables = append(c.Tables, other.Tables...)
	c.Views = append(c.Views, other.Views...)
	c.Enums = append(c.Enums, other.Enums...)
	c.Domains = append(c.Domains, other.Domains...)
}

// Duplicates returns qualified names defined more than once, sorted.
func (c *Catalog) Duplicates() []string {
	seen := make(map[string]int)
	for _, n := range c.Names() {
		seen[n]++
	}
	var out []string
	for n, count := range seen {
		if count > 1 {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

func bare(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
