// Package sqlzod derives runtime validators from relational schema metadata.
//
// A table, view or standalone enum goes in; a z.Schema object comes out,
// one field per column in declaration order. Select, insert and update
// validators differ only in which fields are present and how they are
// wrapped:
//
//	mode    nullable column      not-null with default   not-null
//	select  nullable             plain                   plain
//	insert  nullable, optional   optional                plain
//	update  nullable, optional   optional                optional
//
// Generated-always columns are left out of insert and update validators.
//
// Derivation is a pure function of its inputs and is safe to call from
// multiple goroutines.
package sqlzod

import (
	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// Mode selects which nullability rule applies to top-level columns.
type Mode int

const (
	ModeSelect Mode = iota
	ModeInsert
	ModeUpdate
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeUpdate:
		return "update"
	default:
		return "select"
	}
}

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "select", "":
		return ModeSelect, nil
	case "insert":
		return ModeInsert, nil
	case "update":
		return ModeUpdate, nil
	}
	err := alerr.Newf(ErrInvalidConfig, "unknown mode %q", name)
	if hint := alerr.SuggestSimilar(name, []string{"select", "insert", "update"}); hint != "" {
		err.WithHelp(hint)
	}
	return 0, err
}

// Factory derives validators under a fixed Config.
// The zero value is ready to use and applies no coercion.
type Factory struct {
	cfg Config
}

// CreateSchemaFactory returns a Factory closed over cfg.
func CreateSchemaFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// Config returns the configuration the factory was created with.
func (f *Factory) Config() Config {
	return f.cfg
}

// CreateSelectSchema derives the validator for rows read from entity.
// Tables and views yield objects; a standalone enum yields its enum
// validator directly and accepts no refinements.
func (f *Factory) CreateSelectSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return f.Create(entity, ModeSelect, refinements)
}

// CreateInsertSchema derives the validator for rows written to a table.
func (f *Factory) CreateInsertSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return f.Create(entity, ModeInsert, refinements)
}

// CreateUpdateSchema derives the validator for partial updates of a table.
func (f *Factory) CreateUpdateSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return f.Create(entity, ModeUpdate, refinements)
}

// Create derives the validator for entity in the given mode.
func (f *Factory) Create(entity meta.Entity, mode Mode, refinements Refinements) (*z.Schema, error) {
	if entity == nil {
		return nil, alerr.New(ErrUnsupportedEntityKind, "entity is nil")
	}
	name := entity.QualifiedName()

	switch e := entity.(type) {
	case *meta.Table:
		return f.table(e, mode, refinements)
	case *meta.View:
		if mode != ModeSelect {
			return nil, alerr.NewUnsupportedEntityError(name, "view", mode.String())
		}
		return f.view(e, refinements)
	case *meta.Enum:
		if mode != ModeSelect {
			return nil, alerr.NewUnsupportedEntityError(name, "enum", mode.String())
		}
		if len(refinements) > 0 {
			return nil, alerr.NewInvalidRefinementError(name, nil, "enum validators accept no refinements")
		}
		return enumSchema(e), nil
	default:
		return nil, alerr.NewUnsupportedEntityError(name, entity.EntityKind().String(), mode.String())
	}
}

func enumSchema(e *meta.Enum) *z.Schema {
	if len(e.Values) == 0 {
		return z.String()
	}
	return z.Enum(e.Values...)
}

var defaultFactory = &Factory{}

// CreateSelectSchema derives a select validator with no coercion.
func CreateSelectSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return defaultFactory.CreateSelectSchema(entity, refinements)
}

// CreateInsertSchema derives an insert validator with no coercion.
func CreateInsertSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return defaultFactory.CreateInsertSchema(entity, refinements)
}

// CreateUpdateSchema derives an update validator with no coercion.
func CreateUpdateSchema(entity meta.Entity, refinements Refinements) (*z.Schema, error) {
	return defaultFactory.CreateUpdateSchema(entity, refinements)
}
