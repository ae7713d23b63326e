package loader

import "gopkg.in/yaml.v3"

// document is the YAML layout of one schema file. Mapping sections are
// kept as nodes so entity and field order survive decoding.
//
//	dialect: postgres
//	schema: public
//	domains:
//	  email_address: {type: text, not_null: true, checks: ["VALUE LIKE '%@%'"]}
//	enums:
//	  mood: [sad, ok, happy]
//	tables:
//	  users:
//	    columns:
//	      - {name: id, type: integer, primary_key: true, identity: always}
//	      - {name: email, type: email_address}
//	    checks:
//	      - {name: adult, expr: "age >= 18"}
//	views:
//	  user_cards:
//	    query: raw
//	    sql: select ...
//	    fields:
//	      id: users.id
//	      total: {raw: "count(*)"}
//	      profile: {fields: {name: users.name}}
//	      author: {table: users}
type document struct {
	Dialect string    `yaml:"dialect,omitempty"`
	Schema  string    `yaml:"schema,omitempty"`
	Domains yaml.Node `yaml:"domains,omitempty"`
	Enums   yaml.Node `yaml:"enums,omitempty"`
	Tables  yaml.Node `yaml:"tables,omitempty"`
	Views   yaml.Node `yaml:"views,omitempty"`
}

type domainDoc struct {
	Type    string   `yaml:"type"`
	NotNull bool     `yaml:"not_null,omitempty"`
	Checks  []string `yaml:"checks,omitempty"`
}

type tableDoc struct {
	Columns []columnDoc `yaml:"columns"`
	Checks  []checkDoc  `yaml:"checks,omitempty"`
}

type columnDoc struct {
	Name          string    `yaml:"name"`
	Type          string    `yaml:"type"`
	NotNull       bool      `yaml:"not_null,omitempty"`
	Default       yaml.Node `yaml:"default,omitempty"`
	HasDefault    bool      `yaml:"has_default,omitempty"`
	PrimaryKey    bool      `yaml:"primary_key,omitempty"`
	AutoIncrement bool      `yaml:"auto_increment,omitempty"`
	Identity      string    `yaml:"identity,omitempty"`
	Generated     string    `yaml:"generated,omitempty"`
	Unsigned      bool      `yaml:"unsigned,omitempty"`
	Mode          string    `yaml:"mode,omitempty"`
	Values        []string  `yaml:"values,omitempty"`
	Checks        []string  `yaml:"checks,omitempty"`
}

type checkDoc struct {
	Name string `yaml:"name,omitempty"`
	Expr string `yaml:"expr"`
}

// fieldDoc is the mapping form of a view field. Exactly one key is set.
type fieldDoc struct {
	Column string    `yaml:"column,omitempty"`
	Raw    string    `yaml:"raw,omitempty"`
	Table  string    `yaml:"table,omitempty"`
	Fields yaml.Node `yaml:"fields,omitempty"`
}

type viewHeader struct {
	Query  string    `yaml:"query,omitempty"`
	SQL    string    `yaml:"sql,omitempty"`
	Fields yaml.Node `yaml:"fields"`
}

// pair is one key of a mapping node.
type pair struct {
	key   string
	value *yaml.Node
	line  int
}

// pairs returns the entries of a mapping node in source order. An absent
// or null node has no entries.
func pairs(n *yaml.Node) ([]pair, bool) {
	if n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, true
	}
	if n.Kind != yaml.MappingNode {
		return nil, false
	}
	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, pair{key: n.Content[i].Value, value: n.Content[i+1], line: n.Content[i].Line})
	}
	return out, true
}
