// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

// File is a parsed Rust source file.
type File struct {
	// Path is the file path (or name for in-memory sources)
	Path string

	// HasErrors reports whether tree-sitter recovered from syntax errors
	HasErrors bool

	// ErrorLine is the first line holding a syntax error, 0 when there is none
	ErrorLine int

	// Items holds the top-level declarations in source order
	Items []Item
}

// ItemKind classifies top-level declarations.
type ItemKind int

const (
	ItemOther ItemKind = iota
	ItemRecord
	ItemFunction
	ItemUse
)

func (k ItemKind) String() string {
	switch k {
	case ItemRecord:
		return "record"
	case ItemFunction:
		return "function"
	case ItemUse:
		return "use"
	default:
		return "other"
	}
}

// Item is a top-level declaration. Exactly one of Record, Function and Use is
// set, matching Kind.
type Item struct {
	Kind     ItemKind
	Line     int
	Record   *RustStruct
	Function *RustFunction
	Use      *RustUse

	// Raw is the node type of an ItemOther
	Raw string
}

// RustUse is a use declaration.
type RustUse struct {
	Path string
	Line int
}

// RustStruct is a struct declaration.
type RustStruct struct {
	Name   string
	Fields []RustField

	// IsTuple marks positional structs; their fields are named "0", "1", ...
	IsTuple bool
	Line    int
}

// RustField is a struct field.
type RustField struct {
	Name string
	Type TypeExpr
	Line int
}

// RustFunction is a function declaration with its body statements.
type RustFunction struct {
	Name       string
	Parameters []RustParameter
	Line       int
	Body       []Stmt
}

// RustParameter is a function parameter.
type RustParameter struct {
	// Name is the binding name (see Pattern.BindingName)
	Name    string
	Pattern Pattern
	Type    TypeExpr
	IsSelf  bool
	Line    int
}

// PatKind classifies binding patterns.
type PatKind int

const (
	PatOther PatKind = iota
	PatIdent
	PatTupleStruct
)

// Pattern is a parameter binding pattern.
type Pattern struct {
	Kind PatKind

	// Name is the identifier of a PatIdent
	Name string

	// Path is the wrapper path of a PatTupleStruct (e.g., ["axum", "extract", "Query"])
	Path []string

	// Elems are the element patterns of a PatTupleStruct
	Elems []Pattern
	Raw   string
}

// Wrapper returns the last path segment of a tuple-struct pattern.
func (p Pattern) Wrapper() string {
	if p.Kind != PatTupleStruct || len(p.Path) == 0 {
		return ""
	}
	return p.Path[len(p.Path)-1]
}

// BindingName returns the identifier bound by the pattern. For a
// tuple-struct pattern it is the identifier of the last element.
func (p Pattern) BindingName() string {
	switch p.Kind {
	case PatIdent:
		return p.Name
	case PatTupleStruct:
		if len(p.Elems) > 0 {
			return p.Elems[len(p.Elems)-1].BindingName()
		}
	}
	return ""
}

// StmtKind classifies block statements.
type StmtKind int

const (
	StmtOther StmtKind = iota
	StmtExpr
	StmtLocal
	StmtItem
)

// Stmt is a statement of a function body. Expr is set for StmtExpr and for
// StmtLocal with an initializer.
type Stmt struct {
	Kind StmtKind
	Expr *Expr
	Line int
	Raw  string
}

// ExprKind classifies expressions.
type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprMethodCall
	ExprCall
	ExprPath
	ExprString
)

// Expr is the subset of Rust expressions route registration is built from.
type Expr struct {
	Kind ExprKind

	// Receiver and Method are set for ExprMethodCall
	Receiver *Expr
	Method   string

	// Callee is set for ExprCall
	Callee *Expr

	// Args are the call arguments of ExprMethodCall and ExprCall
	Args []*Expr

	// Segments is the identifier path of an ExprPath
	Segments []string

	// Value is the unquoted content of an ExprString
	Value string

	Raw  string
	Line int
}

// LastSegment returns the final identifier of an ExprPath.
func (e *Expr) LastSegment() string {
	if e == nil || e.Kind != ExprPath || len(e.Segments) == 0 {
		return ""
	}
	return e.Segments[len(e.Segments)-1]
}
