package meta

// Field is one named output of a view or nested group.
type Field struct {
	Name string
	Node Node
}

// Node is one projection node. The set of implementations is closed:
// *ColumnRef, *RawExpr, *Nested and *Embedded.
type Node interface {
	projectionNode()
}

// ColumnRef projects a single table column. Table supplies the dialect
// and the table-level checks that may mention the column.
type ColumnRef struct {
	Column *Column
	Table  *Table
}

// RawExpr is a computed SQL expression with no statically known type.
type RawExpr struct {
	SQL string
}

// Nested groups further fields under one key.
type Nested struct {
	Fields []Field
}

// Embedded selects an entire table under one key.
type Embedded struct {
	Table *Table
}

func (*ColumnRef) projectionNode() {}
func (*RawExpr) projectionNode()   {}
func (*Nested) projectionNode()    {}
func (*Embedded) projectionNode()  {}
