package sqlzod

import (
	"slices"

	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// view walks the projection tree of v. Every level is resolved in select
// mode, and refinements apply independently at each nesting level.
func (f *Factory) view(v *meta.View, r Refinements) (*z.Schema, error) {
	entity := v.QualifiedName()
	d, err := resolveDialect(v.Dialect, entity)
	if err != nil {
		return nil, err
	}
	l, err := f.projectionLevel(v.Fields, d, entity, nil)
	if err != nil {
		return nil, err
	}
	return l.merge(r)
}

func (f *Factory) projectionLevel(fields []meta.Field, d meta.Dialect, entity string, path []string) (*level, error) {
	l := &level{entity: entity, path: slices.Clone(path)}
	for _, pf := range fields {
		fd, err := f.projectionField(pf, d, entity, l.fieldPath(pf.Name))
		if err != nil {
			return nil, err
		}
		l.fields = append(l.fields, fd)
	}
	return l, nil
}

// projectionField derives one view field. path is the field's own path.
func (f *Factory) projectionField(pf meta.Field, d meta.Dialect, entity string, path []string) (field, error) {
	fd := field{name: pf.Name}

	switch n := pf.Node.(type) {
	case *meta.ColumnRef:
		cd, checks := d, []string(nil)
		if n.Table != nil {
			if n.Table.Dialect != "" {
				td, err := resolveDialect(n.Table.Dialect, n.Table.QualifiedName())
				if err != nil {
					return field{}, err
				}
				cd = td
			}
			checks = tableChecks(n.Table)
		}
		fd.base = f.Column(n.Column, cd, checks)
		notNull := n.Column != nil && n.Column.IsNotNull()
		fd.wrap = func(s *z.Schema) *z.Schema { return Resolve(s, notNull, false, ModeSelect) }

	case *meta.Nested:
		fd.walk = func(r Refinements, p []string) (*z.Schema, error) {
			l, err := f.projectionLevel(n.Fields, d, entity, p)
			if err != nil {
				return nil, err
			}
			return l.merge(r)
		}

	case *meta.Embedded:
		if n.Table == nil {
			fd.base = z.Object(nil)
			break
		}
		fd.walk = func(r Refinements, p []string) (*z.Schema, error) {
			l, err := f.tableLevel(n.Table, ModeSelect, entity, p)
			if err != nil {
				return nil, err
			}
			return l.merge(r)
		}

	default:
		// Raw expressions have no static type and are never wrapped.
		fd.base = z.Unknown()
	}

	if fd.walk != nil {
		base, err := fd.walk(nil, path)
		if err != nil {
			return field{}, err
		}
		fd.base = base
	}
	return fd, nil
}
