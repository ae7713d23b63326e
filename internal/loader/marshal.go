package loader

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// Marshal writes cat as a single schema document that Parse reads back
// into an equal catalog. Entity keys are written qualified.
func Marshal(cat *meta.Catalog) ([]byte, error) {
	root := mapping()
	if cat.Dialect != "" {
		add(root, "dialect", scalar(string(cat.Dialect)))
	}

	if len(cat.Domains) > 0 {
		domains := mapping()
		for _, d := range cat.Domains {
			n, err := encode(domainDoc{Type: d.BaseType, NotNull: d.NotNull, Checks: d.Checks})
			if err != nil {
				return nil, err
			}
			add(domains, d.Name, n)
		}
		add(root, "domains", domains)
	}

	if len(cat.Enums) > 0 {
		enums := mapping()
		for _, e := range cat.Enums {
			seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, v := range e.Values {
				seq.Content = append(seq.Content, scalar(v))
			}
			add(enums, e.QualifiedName(), seq)
		}
		add(root, "enums", enums)
	}

	if len(cat.Tables) > 0 {
		tables := mapping()
		for _, t := range cat.Tables {
			td := tableDoc{Columns: make([]columnDoc, 0, len(t.Columns))}
			for _, c := range t.Columns {
				td.Columns = append(td.Columns, columnDocOf(c))
			}
			for _, c := range t.Checks {
				td.Checks = append(td.Checks, checkDoc{Name: c.Name, Expr: c.Expr})
			}
			n, err := encode(td)
			if err != nil {
				return nil, err
			}
			add(tables, t.QualifiedName(), n)
		}
		add(root, "tables", tables)
	}

	if len(cat.Views) > 0 {
		views := mapping()
		for _, v := range cat.Views {
			vn := mapping()
			if v.Query == meta.QueryRaw {
				add(vn, "query", scalar("raw"))
			}
			if v.SQL != "" {
				add(vn, "sql", scalar(v.SQL))
			}
			add(vn, "fields", fieldsNode(v.Fields))
			add(views, v.QualifiedName(), vn)
		}
		add(root, "views", views)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "cannot encode schema document")
	}
	if err := enc.Close(); err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "cannot encode schema document")
	}
	return buf.Bytes(), nil
}

func columnDocOf(c *meta.Column) columnDoc {
	cd := columnDoc{
		Name:          c.Name,
		Type:          typeOf(c),
		NotNull:       c.NotNull && !c.PrimaryKey,
		PrimaryKey:    c.PrimaryKey,
		AutoIncrement: c.AutoIncrement,
		Identity:      c.Identity.String(),
		Generated:     c.GeneratedExpr,
		Checks:        c.Checks,
	}
	// FormatType writes canonical kinds, so an alias-implied mode such as
	// SQLite boolean must be spelled out.
	cd.Mode = innermost(c).Mode
	if c.HasDefault {
		if c.Default != "" {
			cd.Default = *scalar(c.Default)
		} else {
			cd.HasDefault = true
		}
	}
	return cd
}

// typeOf renders the declared type, preferring the domain name.
func typeOf(c *meta.Column) string {
	inner := innermost(c)
	if inner.Domain == nil {
		return dialect.FormatType(c)
	}
	name := inner.Domain.Name
	for col := c; col != inner; col = col.Element {
		name += "[]"
	}
	return name
}

func fieldsNode(fields []meta.Field) *yaml.Node {
	n := mapping()
	for _, f := range fields {
		switch node := f.Node.(type) {
		case *meta.ColumnRef:
			if node.Column == nil {
				continue
			}
			ref := node.Column.Name
			if node.Table != nil {
				ref = node.Table.QualifiedName() + "." + ref
			}
			add(n, f.Name, scalar(ref))
		case *meta.RawExpr:
			add(n, f.Name, single("raw", scalar(node.SQL)))
		case *meta.Nested:
			add(n, f.Name, single("fields", fieldsNode(node.Fields)))
		case *meta.Embedded:
			if node.Table == nil {
				continue
			}
			add(n, f.Name, single("table", scalar(node.Table.QualifiedName())))
		}
	}
	return n
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func single(key string, value *yaml.Node) *yaml.Node {
	n := mapping()
	add(n, key, value)
	return n
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

func encode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "cannot encode schema document")
	}
	return &n, nil
}
