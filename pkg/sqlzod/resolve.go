package sqlzod

import (
	"slices"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/checkexpr"
	"github.com/hlop3z/sqlzod/internal/classify"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// Resolve wraps base for mode. defaulted means an insert may omit the
// value: an explicit default, an identity or auto-increment generator, or
// a generated expression.
func Resolve(base *z.Schema, notNull, defaulted bool, mode Mode) *z.Schema {
	switch mode {
	case ModeInsert:
		if !notNull {
			return base.Nullable().Optional()
		}
		if defaulted {
			return base.Optional()
		}
		return base
	case ModeUpdate:
		if !notNull {
			return base.Nullable().Optional()
		}
		return base.Optional()
	default:
		if !notNull {
			return base.Nullable()
		}
		return base
	}
}

// Included reports whether col is part of a validator in mode.
// Generated-always columns can never be written.
func Included(col *meta.Column, mode Mode) bool {
	return mode == ModeSelect || !col.IsGeneratedAlways()
}

// Column returns the unwrapped validator of one column: classified for
// dialect d, narrowed by its own and its domain's checks plus any
// table-level checks that constrain it, then coerced per the config.
func (f *Factory) Column(col *meta.Column, d meta.Dialect, tableChecks []string) *z.Schema {
	s := classify.Classify(col, d)
	if col == nil {
		return s
	}
	s = checkexpr.Translate(s, col.CheckExpressions())
	if len(tableChecks) > 0 {
		s = checkexpr.TranslateFor(s, col.Name, tableChecks)
	}
	return f.coerce(s)
}

// coerce marks s and, for arrays, its elements as coerced when the kind
// is enabled. UUID strings keep strict string input.
func (f *Factory) coerce(s *z.Schema) *z.Schema {
	c := f.cfg.Coerce
	if !c.Any() {
		return s
	}
	if s.Kind() == z.KindArray && s.Elem() != nil {
		return s.WithElem(f.coerce(s.Elem()))
	}
	if s.Format() == z.FormatUUID || !c.Applies(s.Kind()) {
		return s
	}
	return s.Coerce()
}

func (f *Factory) table(t *meta.Table, mode Mode, r Refinements) (*z.Schema, error) {
	l, err := f.tableLevel(t, mode, t.QualifiedName(), nil)
	if err != nil {
		return nil, err
	}
	return l.merge(r)
}

// tableLevel derives one field per included column of t in declaration
// order. entity and path locate the level for error reporting.
func (f *Factory) tableLevel(t *meta.Table, mode Mode, entity string, path []string) (*level, error) {
	d, err := resolveDialect(t.Dialect, t.QualifiedName())
	if err != nil {
		return nil, err
	}
	checks := tableChecks(t)

	l := &level{entity: entity, path: slices.Clone(path), excluded: make(map[string]string)}
	for _, col := range t.Columns {
		if col == nil {
			continue
		}
		if !Included(col, mode) {
			l.excluded[col.Name] = "generated always"
			continue
		}
		notNull, defaulted := col.IsNotNull(), col.Defaulted()
		l.fields = append(l.fields, field{
			name: col.Name,
			base: f.Column(col, d, checks),
			wrap: func(s *z.Schema) *z.Schema { return Resolve(s, notNull, defaulted, mode) },
		})
	}
	return l, nil
}

func tableChecks(t *meta.Table) []string {
	if t == nil || len(t.Checks) == 0 {
		return nil
	}
	out := make([]string, len(t.Checks))
	for i, c := range t.Checks {
		out[i] = c.Expr
	}
	return out
}

// resolveDialect defaults an empty dialect to Postgres and rejects names
// outside the supported set.
func resolveDialect(d meta.Dialect, entity string) (meta.Dialect, error) {
	if d == "" {
		return meta.Postgres, nil
	}
	if slices.Contains(meta.Dialects(), d) {
		return d, nil
	}
	if parsed, err := meta.ParseDialect(string(d)); err == nil {
		return parsed, nil
	}
	names := make([]string, 0, len(meta.Dialects()))
	for _, known := range meta.Dialects() {
		names = append(names, string(known))
	}
	return "", alerr.NewUnknownDialectError(string(d), names).WithEntity(entity)
}
