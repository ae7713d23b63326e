// Package loader reads YAML schema documents into meta catalogs and writes
// catalogs back out. A directory load merges every *.yaml and *.yml file
// under it, in path order, so views may reference tables from any file.
package loader

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// Load reads a schema file or every schema file under a directory.
func Load(path string) (*meta.Catalog, error) {
	files, err := schemaFiles(path)
	if err != nil {
		return nil, err
	}
	b := newBuilder()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrSchemaNotFound, err, "cannot read schema file").WithFile(file, 0)
		}
		if err := b.add(data, file); err != nil {
			return nil, err
		}
	}
	return b.build()
}

// Parse reads one schema document. name is used in error context only.
func Parse(data []byte, name string) (*meta.Catalog, error) {
	b := newBuilder()
	if err := b.add(data, name); err != nil {
		return nil, err
	}
	return b.build()
}

// schemaFiles lists path itself or the YAML files below it, sorted.
func schemaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrSchemaNotFound, err, "schema path not found").WithFile(path, 0)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSchemaFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrSchemaNotFound, err, "cannot list schema directory").WithFile(path, 0)
	}
	if len(files) == 0 {
		return nil, alerr.New(alerr.ErrSchemaNotFound, "no schema files found").
			WithFile(path, 0).
			WithHelp("schema files end in .yaml or .yml")
	}
	slices.Sort(files)
	return files, nil
}

// IsSchemaFile reports whether path has a schema file extension.
func IsSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parsed is one decoded file waiting for cross-file resolution.
type parsed struct {
	file    string
	dialect meta.Dialect
	doc     document
}

type builder struct {
	files []parsed

	cat     *meta.Catalog
	domains map[string]*meta.Domain
	enums   map[string]*meta.Enum
	tables  map[string]*meta.Table
}

func newBuilder() *builder {
	return &builder{
		cat:     &meta.Catalog{},
		domains: make(map[string]*meta.Domain),
		enums:   make(map[string]*meta.Enum),
		tables:  make(map[string]*meta.Table),
	}
}

func (b *builder) add(data []byte, file string) error {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid schema document").WithFile(file, 0)
	}

	d := b.cat.Dialect
	if doc.Dialect != "" {
		parsedDialect, err := meta.ParseDialect(doc.Dialect)
		if err != nil {
			return alerr.NewUnknownDialectError(doc.Dialect, dialect.Names()).WithFile(file, 0)
		}
		d = parsedDialect
	}
	if d == "" {
		d = meta.Postgres
	}
	if b.cat.Dialect == "" {
		b.cat.Dialect = d
	}
	b.files = append(b.files, parsed{file: file, dialect: d, doc: doc})
	return nil
}

// build resolves every file in three passes: domains and enums, then
// tables, then views, so references may point across files.
func (b *builder) build() (*meta.Catalog, error) {
	if b.cat.Dialect == "" {
		b.cat.Dialect = meta.Postgres
	}
	for _, p := range b.files {
		if err := b.types(p); err != nil {
			return nil, err
		}
	}
	for _, p := range b.files {
		if err := b.buildTables(p); err != nil {
			return nil, err
		}
	}
	for _, p := range b.files {
		if err := b.buildViews(p); err != nil {
			return nil, err
		}
	}
	if dups := b.cat.Duplicates(); len(dups) > 0 {
		return nil, alerr.New(alerr.ErrSchemaInvalid, "entity defined more than once").
			With("entities", strings.Join(dups, ", "))
	}
	return b.cat, nil
}

func invalid(file string, line int, format string, args ...any) *alerr.Error {
	return alerr.Newf(alerr.ErrSchemaInvalid, format, args...).WithFile(file, line)
}

// splitName splits an optionally qualified key, defaulting the schema.
func splitName(key, schema string) (string, string) {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return schema, key
}

func register[T any](m map[string]T, schema, name string, v T) {
	m[strings.ToLower(qualified(schema, name))] = v
	if _, taken := m[strings.ToLower(name)]; !taken {
		m[strings.ToLower(name)] = v
	}
}

func qualified(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}

// -----------------------------------------------------------------------------
// Domains and enums
// -----------------------------------------------------------------------------

func (b *builder) types(p parsed) error {
	domains, ok := pairs(&p.doc.Domains)
	if !ok {
		return invalid(p.file, p.doc.Domains.Line, "domains must be a mapping")
	}
	for _, kv := range domains {
		var dd domainDoc
		if err := kv.value.Decode(&dd); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid domain").WithFile(p.file, kv.line).With("domain", kv.key)
		}
		if dd.Type == "" {
			return invalid(p.file, kv.line, "domain %q has no type", kv.key)
		}
		schema, name := splitName(kv.key, p.doc.Schema)
		dom := &meta.Domain{Name: name, BaseType: dd.Type, NotNull: dd.NotNull, Checks: dd.Checks}
		b.cat.Domains = append(b.cat.Domains, dom)
		register(b.domains, schema, name, dom)
	}

	enums, ok := pairs(&p.doc.Enums)
	if !ok {
		return invalid(p.file, p.doc.Enums.Line, "enums must be a mapping")
	}
	for _, kv := range enums {
		var values []string
		if err := kv.value.Decode(&values); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "enum values must be a list of strings").
				WithFile(p.file, kv.line).With("enum", kv.key)
		}
		schema, name := splitName(kv.key, p.doc.Schema)
		e := &meta.Enum{Schema: schema, Name: name, Values: values}
		b.cat.Enums = append(b.cat.Enums, e)
		register(b.enums, schema, name, e)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

func (b *builder) buildTables(p parsed) error {
	tables, ok := pairs(&p.doc.Tables)
	if !ok {
		return invalid(p.file, p.doc.Tables.Line, "tables must be a mapping")
	}
	for _, kv := range tables {
		var td tableDoc
		if err := kv.value.Decode(&td); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid table").WithFile(p.file, kv.line).With("table", kv.key)
		}
		schema, name := splitName(kv.key, p.doc.Schema)
		t := &meta.Table{Schema: schema, Name: name, Dialect: p.dialect}

		seen := make(map[string]bool, len(td.Columns))
		for _, cd := range td.Columns {
			if cd.Name == "" {
				return invalid(p.file, kv.line, "column without a name").WithTable(schema, name)
			}
			if seen[cd.Name] {
				return invalid(p.file, kv.line, "duplicate column %q", cd.Name).WithTable(schema, name)
			}
			seen[cd.Name] = true

			col, err := b.column(p, cd)
			if err != nil {
				return err.WithFile(p.file, kv.line).WithTable(schema, name)
			}
			t.Columns = append(t.Columns, col)
		}
		for _, cd := range td.Checks {
			t.Checks = append(t.Checks, meta.Check{Name: cd.Name, Expr: cd.Expr})
		}

		b.cat.Tables = append(b.cat.Tables, t)
		register(b.tables, schema, name, t)
	}
	return nil
}

func (b *builder) column(p parsed, cd columnDoc) (*meta.Column, *alerr.Error) {
	if cd.Type == "" {
		return nil, alerr.Newf(alerr.ErrSchemaInvalid, "column %q has no type", cd.Name).WithColumn(cd.Name)
	}
	d := dialect.For(p.dialect)
	col, err := dialect.ParseType(d, cd.Type)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column type").WithColumn(cd.Name)
	}

	inner := innermost(col)
	if dom, ok := b.domains[inner.Kind]; ok {
		base, err := dialect.ParseType(d, dom.BaseType)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid domain base type").
				WithColumn(cd.Name).With("domain", dom.Name)
		}
		*inner = *base
		inner.Domain = dom
		inner = innermost(inner)
	}
	if e, ok := b.enums[inner.Kind]; ok {
		inner.Kind = dialect.KindEnum
		inner.EnumValues = slices.Clone(e.Values)
	}
	if len(cd.Values) > 0 {
		inner.EnumValues = slices.Clone(cd.Values)
	}
	if cd.Mode != "" {
		inner.Mode = cd.Mode
	}
	if cd.Unsigned {
		inner.Unsigned = true
	}

	identity, ok := parseIdentity(cd.Identity)
	if !ok {
		return nil, alerr.Newf(alerr.ErrSchemaInvalid, "unknown identity %q", cd.Identity).
			WithColumn(cd.Name).
			WithHelp("use always or by_default")
	}

	col.Name = cd.Name
	col.SQLType = cd.Type
	col.NotNull = cd.NotNull || cd.PrimaryKey
	col.PrimaryKey = cd.PrimaryKey
	col.AutoIncrement = cd.AutoIncrement
	col.Identity = identity
	col.GeneratedExpr = cd.Generated
	col.GeneratedAlways = cd.Generated != ""
	col.Checks = cd.Checks
	if cd.Default.Kind != 0 {
		col.HasDefault = true
		col.Default = cd.Default.Value
	}
	if cd.HasDefault {
		col.HasDefault = true
	}
	return col, nil
}

// innermost returns the element column at the bottom of an array chain.
func innermost(col *meta.Column) *meta.Column {
	for col.Kind == dialect.KindArray && col.Element != nil {
		col = col.Element
	}
	return col
}

func parseIdentity(s string) (meta.Identity, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "":
		return meta.IdentityNone, true
	case "always":
		return meta.IdentityAlways, true
	case "by_default", "default":
		return meta.IdentityByDefault, true
	}
	return meta.IdentityNone, false
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

func (b *builder) buildViews(p parsed) error {
	views, ok := pairs(&p.doc.Views)
	if !ok {
		return invalid(p.file, p.doc.Views.Line, "views must be a mapping")
	}
	for _, kv := range views {
		var vh viewHeader
		if err := kv.value.Decode(&vh); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid view").WithFile(p.file, kv.line).With("view", kv.key)
		}
		schema, name := splitName(kv.key, p.doc.Schema)
		v := &meta.View{Schema: schema, Name: name, Dialect: p.dialect, SQL: vh.SQL}
		switch strings.ToLower(vh.Query) {
		case "", "builder":
			v.Query = meta.QueryBuilder
		case "raw":
			v.Query = meta.QueryRaw
		default:
			return invalid(p.file, kv.line, "unknown view query kind %q", vh.Query).With("view", kv.key)
		}

		fields, err := b.fields(p, &vh.Fields)
		if err != nil {
			return err.With("view", qualified(schema, name))
		}
		v.Fields = fields
		b.cat.Views = append(b.cat.Views, v)
	}
	return nil
}

func (b *builder) fields(p parsed, n *yaml.Node) ([]meta.Field, *alerr.Error) {
	entries, ok := pairs(n)
	if !ok {
		return nil, invalid(p.file, n.Line, "view fields must be a mapping")
	}
	out := make([]meta.Field, 0, len(entries))
	for _, kv := range entries {
		node, err := b.node(p, kv)
		if err != nil {
			return nil, err
		}
		out = append(out, meta.Field{Name: kv.key, Node: node})
	}
	return out, nil
}

func (b *builder) node(p parsed, kv pair) (meta.Node, *alerr.Error) {
	if kv.value.Kind == yaml.ScalarNode {
		return b.columnRef(p, kv.value.Value, kv.line)
	}

	var fd fieldDoc
	if err := kv.value.Decode(&fd); err != nil {
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid view field").WithFile(p.file, kv.line).With("field", kv.key)
	}
	set := 0
	for _, present := range []bool{fd.Column != "", fd.Raw != "", fd.Table != "", fd.Fields.Kind != 0} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, invalid(p.file, kv.line, "view field %q needs exactly one of column, raw, table or fields", kv.key)
	}

	switch {
	case fd.Column != "":
		return b.columnRef(p, fd.Column, kv.line)
	case fd.Raw != "":
		return &meta.RawExpr{SQL: fd.Raw}, nil
	case fd.Table != "":
		t, err := b.table(p, fd.Table, kv.line)
		if err != nil {
			return nil, err
		}
		return &meta.Embedded{Table: t}, nil
	default:
		fields, err := b.fields(p, &fd.Fields)
		if err != nil {
			return nil, err
		}
		return &meta.Nested{Fields: fields}, nil
	}
}

// columnRef resolves "table.column" or "schema.table.column".
func (b *builder) columnRef(p parsed, ref string, line int) (meta.Node, *alerr.Error) {
	i := strings.LastIndexByte(ref, '.')
	if i <= 0 {
		return nil, invalid(p.file, line, "column reference %q must be table.column", ref)
	}
	t, err := b.table(p, ref[:i], line)
	if err != nil {
		return nil, err
	}
	col, ok := t.Column(ref[i+1:])
	if !ok {
		names := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			names[j] = c.Name
		}
		e := alerr.Newf(alerr.ErrSchemaNotFound, "column %q not found", ref[i+1:]).
			WithFile(p.file, line).
			WithTable(t.Schema, t.Name)
		if hint := alerr.SuggestSimilar(ref[i+1:], names); hint != "" {
			e.WithHelp(hint)
		}
		return nil, e
	}
	return &meta.ColumnRef{Column: col, Table: t}, nil
}

func (b *builder) table(p parsed, name string, line int) (*meta.Table, *alerr.Error) {
	key := strings.ToLower(name)
	if !strings.Contains(key, ".") && p.doc.Schema != "" {
		if t, ok := b.tables[strings.ToLower(qualified(p.doc.Schema, name))]; ok {
			return t, nil
		}
	}
	if t, ok := b.tables[key]; ok {
		return t, nil
	}
	e := alerr.Newf(alerr.ErrSchemaNotFound, "table %q not found", name).WithFile(p.file, line)
	if hint := alerr.SuggestSimilar(name, tableNames(b.cat.Tables)); hint != "" {
		e.WithHelp(hint)
	}
	return nil, e
}

func tableNames(tables []*meta.Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.QualifiedName()
	}
	return out
}
