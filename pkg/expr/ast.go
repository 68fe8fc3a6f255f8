package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a node in a symbolic property-access expression.
type Expr interface {
	String() string
	exprNode()
}

// Ident names the root parameter of an access expression.
type Ident struct {
	Name string
}

func (*Ident) exprNode()        {}
func (i *Ident) String() string { return i.Name }

// Member accesses a named member of its target: target.Name.
type Member struct {
	Target Expr
	Name   string
}

func (*Member) exprNode() {}
func (m *Member) String() string {
	return m.Target.String() + "." + m.Name
}

// Index accesses an indexed member of its target: target.Name[args].
// Args hold literal index values only; anything non-constant is rejected
// at parse time.
type Index struct {
	Target Expr
	Name   string
	Args   []Literal
}

func (*Index) exprNode() {}
func (ix *Index) String() string {
	parts := make([]string, len(ix.Args))
	for i, a := range ix.Args {
		parts[i] = a.String()
	}
	return ix.Target.String() + "." + ix.Name + "[" + strings.Join(parts, ",") + "]"
}

// Convert annotates its target with a symbolic type name, mirroring the
// conversion/boxing wrappers a compiler inserts around member accesses.
// Rewrite collapses these before chain extraction; the type name, when
// present, becomes the declaring type of the enclosing link.
type Convert struct {
	Target   Expr
	TypeName string
}

func (*Convert) exprNode() {}
func (c *Convert) String() string {
	return c.Target.String() + ".(" + c.TypeName + ")"
}

// Literal is a constant index argument.
type Literal interface {
	Expr
	Value() any
}

// IntLit is an integer index argument.
type IntLit struct {
	V int
}

func (*IntLit) exprNode()        {}
func (l *IntLit) String() string { return strconv.Itoa(l.V) }
func (l *IntLit) Value() any     { return l.V }

// StringLit is a string index argument.
type StringLit struct {
	V string
}

func (*StringLit) exprNode()        {}
func (l *StringLit) String() string { return fmt.Sprintf("%q", l.V) }
func (l *StringLit) Value() any     { return l.V }

// BoolLit is a boolean index argument.
type BoolLit struct {
	V bool
}

func (*BoolLit) exprNode()        {}
func (l *BoolLit) String() string { return strconv.FormatBool(l.V) }
func (l *BoolLit) Value() any     { return l.V }
