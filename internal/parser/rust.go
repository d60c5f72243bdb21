// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser turns Rust source into the declaration model consumed by the
// route and schema resolvers.
package parser

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// RustParser provides Rust AST parsing capabilities using tree-sitter.
// A RustParser is not safe for concurrent use.
type RustParser struct {
	parser *sitter.Parser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() *RustParser {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	return &RustParser{
		parser: parser,
	}
}

// ParseSource parses Rust source code from a string.
func (p *RustParser) ParseSource(filename string, source string) (*File, error) {
	return p.Parse(context.Background(), filename, []byte(source))
}

// Parse parses Rust source code from bytes.
func (p *RustParser) Parse(ctx context.Context, filename string, content []byte) (*File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Rust: %w", err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("failed to get root node")
	}

	f := &File{
		Path:      filename,
		HasErrors: rootNode.HasError(),
		Items:     []Item{},
	}
	if f.HasErrors {
		f.ErrorLine = firstErrorLine(rootNode)
	}

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		item := p.parseItem(rootNode.NamedChild(i), content)
		if item.Kind == ItemOther && item.Line == 0 {
			continue
		}
		f.Items = append(f.Items, item)
	}

	return f, nil
}

// ParseFile parses a Rust source file from disk.
func (p *RustParser) ParseFile(ctx context.Context, path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(ctx, path, content)
}

// Close cleans up parser resources.
func (p *RustParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// parseItem converts a top-level declaration node.
func (p *RustParser) parseItem(node *sitter.Node, content []byte) Item {
	line := lineOf(node)

	switch node.Type() {
	case "struct_item":
		if s := p.parseStruct(node, content); s != nil {
			return Item{Kind: ItemRecord, Line: line, Record: s}
		}
	case "function_item":
		if fn := p.parseFunction(node, content); fn != nil {
			return Item{Kind: ItemFunction, Line: line, Function: fn}
		}
	case "use_declaration":
		return Item{Kind: ItemUse, Line: line, Use: p.parseUseDeclaration(node, content)}
	case "line_comment", "block_comment", "attribute_item", "inner_attribute_item":
		return Item{}
	}

	return Item{Kind: ItemOther, Line: line, Raw: node.Type()}
}

// parseUseDeclaration parses a use declaration.
func (p *RustParser) parseUseDeclaration(node *sitter.Node, content []byte) *RustUse {
	use := &RustUse{
		Line: lineOf(node),
	}
	if arg := node.ChildByFieldName("argument"); arg != nil {
		use.Path = arg.Content(content)
	}
	return use
}

// parseFunction parses a function definition.
func (p *RustParser) parseFunction(node *sitter.Node, content []byte) *RustFunction {
	fn := &RustFunction{
		Line:       lineOf(node),
		Parameters: []RustParameter{},
		Body:       []Stmt{},
	}

	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = name.Content(content)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Parameters = p.parseParameters(params, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Body = p.parseBlock(body, content)
	}

	if fn.Name == "" {
		return nil
	}

	return fn
}

// parseParameters parses function parameters.
func (p *RustParser) parseParameters(node *sitter.Node, content []byte) []RustParameter {
	var params []RustParameter

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "parameter":
			params = append(params, p.parseParameter(child, content))
		case "self_parameter":
			params = append(params, RustParameter{
				Name:    "self",
				IsSelf:  true,
				Pattern: Pattern{Kind: PatOther, Raw: child.Content(content)},
				Line:    lineOf(child),
			})
		}
	}

	return params
}

// parseParameter parses a single function parameter.
func (p *RustParser) parseParameter(node *sitter.Node, content []byte) RustParameter {
	param := RustParameter{
		Line: lineOf(node),
	}

	if pat := node.ChildByFieldName("pattern"); pat != nil {
		param.Pattern = p.parsePattern(pat, content)
		param.Name = param.Pattern.BindingName()
	}
	if ty := node.ChildByFieldName("type"); ty != nil {
		param.Type = p.parseType(ty, content)
	}

	return param
}

// parsePattern parses a binding pattern.
func (p *RustParser) parsePattern(node *sitter.Node, content []byte) Pattern {
	switch node.Type() {
	case "identifier":
		return Pattern{Kind: PatIdent, Name: node.Content(content), Raw: node.Content(content)}
	case "mut_pattern":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() != "mutable_specifier" {
				return p.parsePattern(child, content)
			}
		}
	case "tuple_struct_pattern":
		pat := Pattern{Kind: PatTupleStruct, Raw: node.Content(content)}
		typeNode := node.ChildByFieldName("type")
		if typeNode != nil {
			pat.Path = p.flattenPath(typeNode, content)
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if typeNode != nil && child.Equal(typeNode) || isComment(child) {
				continue
			}
			pat.Elems = append(pat.Elems, p.parsePattern(child, content))
		}
		return pat
	}

	return Pattern{Kind: PatOther, Raw: node.Content(content)}
}

// parseStruct parses a struct definition.
func (p *RustParser) parseStruct(node *sitter.Node, content []byte) *RustStruct {
	s := &RustStruct{
		Line:   lineOf(node),
		Fields: []RustField{},
	}

	if name := node.ChildByFieldName("name"); name != nil {
		s.Name = name.Content(content)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		switch body.Type() {
		case "field_declaration_list":
			s.Fields = p.parseFields(body, content)
		case "ordered_field_declaration_list":
			s.IsTuple = true
			s.Fields = p.parseOrderedFields(body, content)
		}
	}

	if s.Name == "" {
		return nil
	}

	return s
}

// parseFields parses named struct fields.
func (p *RustParser) parseFields(node *sitter.Node, content []byte) []RustField {
	var fields []RustField

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "field_declaration" {
			continue
		}

		field := RustField{Line: lineOf(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			field.Name = name.Content(content)
		}
		if ty := child.ChildByFieldName("type"); ty != nil {
			field.Type = p.parseType(ty, content)
		}
		if field.Name != "" {
			fields = append(fields, field)
		}
	}

	return fields
}

// parseOrderedFields parses the positional fields of a tuple struct. Fields
// are named by their index.
func (p *RustParser) parseOrderedFields(node *sitter.Node, content []byte) []RustField {
	var fields []RustField

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "visibility_modifier", "attribute_item", "line_comment", "block_comment":
			continue
		}
		fields = append(fields, RustField{
			Name: strconv.Itoa(len(fields)),
			Type: p.parseType(child, content),
			Line: lineOf(child),
		})
	}

	return fields
}

// parseBlock parses the statements of a block.
func (p *RustParser) parseBlock(node *sitter.Node, content []byte) []Stmt {
	stmts := []Stmt{}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		line := lineOf(child)
		kind := child.Type()

		switch {
		case isComment(child) || kind == "empty_statement":
			continue
		case kind == "expression_statement":
			stmt := Stmt{Kind: StmtExpr, Line: line}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); !isComment(inner) {
					stmt.Expr = p.parseExpr(inner, content)
					break
				}
			}
			stmts = append(stmts, stmt)
		case kind == "let_declaration":
			stmt := Stmt{Kind: StmtLocal, Line: line}
			if value := child.ChildByFieldName("value"); value != nil {
				stmt.Expr = p.parseExpr(value, content)
			}
			stmts = append(stmts, stmt)
		case strings.HasSuffix(kind, "_item") || kind == "use_declaration" ||
			kind == "macro_definition" || kind == "attribute_item":
			stmts = append(stmts, Stmt{Kind: StmtItem, Line: line, Raw: kind})
		default:
			// tail expression of the block
			stmts = append(stmts, Stmt{Kind: StmtExpr, Line: line, Expr: p.parseExpr(child, content)})
		}
	}

	return stmts
}

// parseExpr parses the expression shapes relevant to route registration.
func (p *RustParser) parseExpr(node *sitter.Node, content []byte) *Expr {
	expr := &Expr{
		Line: lineOf(node),
		Raw:  node.Content(content),
	}

	switch node.Type() {
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Type() == "generic_function" {
			if inner := fn.ChildByFieldName("function"); inner != nil {
				fn = inner
			}
		}
		if args := node.ChildByFieldName("arguments"); args != nil {
			expr.Args = p.parseArguments(args, content)
		}
		if fn != nil && fn.Type() == "field_expression" {
			expr.Kind = ExprMethodCall
			if value := fn.ChildByFieldName("value"); value != nil {
				expr.Receiver = p.parseExpr(value, content)
			}
			if field := fn.ChildByFieldName("field"); field != nil {
				expr.Method = field.Content(content)
			}
			return expr
		}
		expr.Kind = ExprCall
		if fn != nil {
			expr.Callee = p.parseExpr(fn, content)
		}
	case "identifier", "scoped_identifier", "self", "crate", "super":
		expr.Kind = ExprPath
		expr.Segments = p.flattenPath(node, content)
	case "string_literal":
		expr.Kind = ExprString
		expr.Value = unquoteString(node.Content(content))
	case "raw_string_literal":
		expr.Kind = ExprString
		expr.Value = unquoteRawString(node.Content(content))
	default:
		expr.Kind = ExprOther
	}

	return expr
}

// parseArguments parses call arguments.
func (p *RustParser) parseArguments(node *sitter.Node, content []byte) []*Expr {
	var args []*Expr
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if isComment(child) || child.Type() == "attribute_item" {
			continue
		}
		args = append(args, p.parseExpr(child, content))
	}
	return args
}

// parseType converts a type node into a TypeExpr.
func (p *RustParser) parseType(node *sitter.Node, content []byte) TypeExpr {
	t := TypeExpr{Raw: node.Content(content)}

	switch node.Type() {
	case "type_identifier", "primitive_type", "identifier":
		t.Kind = TypePath
		t.Path = []string{node.Content(content)}
	case "scoped_type_identifier", "scoped_identifier":
		t.Kind = TypePath
		t.Path = p.flattenPath(node, content)
	case "generic_type":
		t.Kind = TypePath
		if base := node.ChildByFieldName("type"); base != nil {
			t.Path = p.flattenPath(base, content)
		}
		if args := node.ChildByFieldName("type_arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg := args.NamedChild(i)
				switch arg.Type() {
				case "lifetime", "type_binding", "line_comment", "block_comment":
					continue
				}
				t.Args = append(t.Args, p.parseType(arg, content))
			}
		}
	case "tuple_type":
		t.Kind = TypeTuple
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); !isComment(child) {
				t.Elems = append(t.Elems, p.parseType(child, content))
			}
		}
	case "unit_type":
		t.Kind = TypeUnit
	case "reference_type":
		t.Kind = TypeReference
		if inner := node.ChildByFieldName("type"); inner != nil {
			elem := p.parseType(inner, content)
			t.Elem = &elem
		}
	case "pointer_type":
		t.Kind = TypePointer
		if inner := node.ChildByFieldName("type"); inner != nil {
			elem := p.parseType(inner, content)
			t.Elem = &elem
		}
	case "array_type":
		t.Kind = TypeSlice
		if node.ChildByFieldName("length") != nil {
			t.Kind = TypeArray
		}
		if inner := node.ChildByFieldName("element"); inner != nil {
			elem := p.parseType(inner, content)
			t.Elem = &elem
		}
	case "function_type":
		t.Kind = TypeFunction
	case "abstract_type":
		t.Kind = TypeImplTrait
	case "dynamic_type", "bounded_type":
		t.Kind = TypeDynTrait
	case "never_type":
		t.Kind = TypeNever
	default:
		t.Kind = TypeUnknown
	}

	return t
}

// flattenPath returns the identifier segments of a (possibly scoped) path.
func (p *RustParser) flattenPath(node *sitter.Node, content []byte) []string {
	switch node.Type() {
	case "scoped_identifier", "scoped_type_identifier":
		var segments []string
		if path := node.ChildByFieldName("path"); path != nil {
			segments = append(segments, p.flattenPath(path, content)...)
		}
		if name := node.ChildByFieldName("name"); name != nil {
			segments = append(segments, name.Content(content))
		}
		return segments
	case "generic_type":
		if base := node.ChildByFieldName("type"); base != nil {
			return p.flattenPath(base, content)
		}
	}
	return []string{node.Content(content)}
}

// firstErrorLine returns the line of the first error or missing node in
// document order.
func firstErrorLine(root *sitter.Node) int {
	line := 0
	WalkNodes(root, func(node *sitter.Node) bool {
		if line != 0 {
			return false
		}
		if node.Type() == "ERROR" || node.IsMissing() {
			line = int(node.StartPoint().Row) + 1
			return false
		}
		return node.HasError()
	})
	return line
}

// WalkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func WalkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkNodes(node.Child(i), fn)
	}
}

// Extensions returns the file extensions of Rust source files.
func Extensions() []string {
	return []string{".rs"}
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func isComment(node *sitter.Node) bool {
	return node.Type() == "line_comment" || node.Type() == "block_comment"
}

// unquoteString decodes a Rust string literal, falling back to stripping the
// quotes when the escapes are not Go-compatible.
func unquoteString(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
}

// unquoteRawString decodes r"..." and r#"..."# literals.
func unquoteRawString(lit string) string {
	lit = strings.TrimPrefix(lit, "r")
	hashes := 0
	for hashes < len(lit) && lit[hashes] == '#' {
		hashes++
	}
	lit = lit[hashes : len(lit)-hashes]
	return strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
}
