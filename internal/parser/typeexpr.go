// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"strings"
)

// TypeKind classifies Rust type expressions.
type TypeKind int

const (
	// TypeUnknown is a type shape outside the supported set.
	TypeUnknown TypeKind = iota
	TypePath
	TypeTuple
	TypeReference
	TypeUnit
	TypeArray
	TypeSlice
	TypeFunction
	TypeImplTrait
	TypeDynTrait
	TypePointer
	TypeNever
)

var typeKindNames = map[TypeKind]string{
	TypeUnknown:   "unknown",
	TypePath:      "path",
	TypeTuple:     "tuple",
	TypeReference: "reference",
	TypeUnit:      "unit",
	TypeArray:     "array",
	TypeSlice:     "slice",
	TypeFunction:  "function",
	TypeImplTrait: "impl trait",
	TypeDynTrait:  "dyn trait",
	TypePointer:   "pointer",
	TypeNever:     "never",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TypeExpr is the structured form of a Rust type expression.
type TypeExpr struct {
	// Kind classifies the expression
	Kind TypeKind

	// Path holds the path segments of a TypePath (e.g., ["std", "option", "Option"])
	Path []string

	// Args holds the generic type arguments of the last path segment, lifetimes excluded
	Args []TypeExpr

	// Elems holds tuple elements
	Elems []TypeExpr

	// Elem is the referent of a reference, pointer, array or slice
	Elem *TypeExpr

	// Raw is the source text of the expression
	Raw string
}

// Base returns the outermost identifier of a path type, or "" for other kinds.
func (t TypeExpr) Base() string {
	if t.Kind != TypePath || len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// PathString returns the identifier path joined with "::". References
// resolve to their referent; other kinds fall back to the raw text.
func (t TypeExpr) PathString() string {
	switch t.Kind {
	case TypePath:
		return strings.Join(t.Path, "::")
	case TypeReference:
		if t.Elem != nil {
			return t.Elem.PathString()
		}
	}
	return strings.TrimSpace(t.Raw)
}

// LastArg returns the last generic argument, if any.
func (t TypeExpr) LastArg() (TypeExpr, bool) {
	if len(t.Args) == 0 {
		return TypeExpr{}, false
	}
	return t.Args[len(t.Args)-1], true
}

// Canonical returns the canonical type reference: the base identifier plus,
// when generic arguments are present, the identifier path of the last one.
//
//	Foo                      -> Foo
//	models::Foo              -> Foo
//	Option<String>           -> Option<String>
//	HashMap<String, x::User> -> HashMap<x::User>
func (t TypeExpr) Canonical() string {
	if t.Kind == TypeReference && t.Elem != nil {
		return t.Elem.Canonical()
	}
	if t.Kind != TypePath {
		return strings.TrimSpace(t.Raw)
	}
	base := t.Base()
	arg, ok := t.LastArg()
	if !ok {
		return base
	}
	return base + "<" + arg.PathString() + ">"
}

// Unwrap reports whether t is the generic wrapper named wrapper (e.g.,
// "Option" or "Query") and returns its last generic argument.
func (t TypeExpr) Unwrap(wrapper string) (TypeExpr, bool) {
	if t.Kind == TypeReference && t.Elem != nil {
		return t.Elem.Unwrap(wrapper)
	}
	if t.Base() != wrapper {
		return TypeExpr{}, false
	}
	return t.LastArg()
}

// String returns the raw text when known, otherwise the canonical form.
func (t TypeExpr) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Canonical()
}

// ParseTypeString parses a textual type such as "Option<models::User>" into a
// TypeExpr. It understands paths with generic arguments, references, tuples
// and slices; anything else becomes TypeUnknown.
func ParseTypeString(s string) TypeExpr {
	tp := &typeStringParser{src: s}
	t := tp.parse()
	tp.skipSpace()
	if tp.pos != len(tp.src) {
		return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(s)}
	}
	return t
}

type typeStringParser struct {
	src string
	pos int
}

func (p *typeStringParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeStringParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeStringParser) parse() TypeExpr {
	p.skipSpace()
	start := p.pos

	switch p.peek() {
	case '&':
		p.pos++
		p.skipSpace()
		if p.peek() == '\'' {
			p.pos++
			p.ident()
			p.skipSpace()
		}
		if strings.HasPrefix(p.src[p.pos:], "mut ") {
			p.pos += len("mut ")
		}
		elem := p.parse()
		return TypeExpr{Kind: TypeReference, Elem: &elem, Raw: strings.TrimSpace(p.src[start:p.pos])}
	case '(':
		p.pos++
		var elems []TypeExpr
		for {
			p.skipSpace()
			if p.peek() == ')' {
				p.pos++
				break
			}
			if p.peek() == 0 {
				return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(p.src[start:])}
			}
			elem := p.parse()
			if elem.Kind == TypeUnknown {
				return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(p.src[start:])}
			}
			elems = append(elems, elem)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
			}
		}
		raw := strings.TrimSpace(p.src[start:p.pos])
		if len(elems) == 0 {
			return TypeExpr{Kind: TypeUnit, Raw: raw}
		}
		return TypeExpr{Kind: TypeTuple, Elems: elems, Raw: raw}
	case '[':
		p.pos++
		elem := p.parse()
		kind := TypeSlice
		depth := 1
		for p.pos < len(p.src) && depth > 0 {
			switch p.src[p.pos] {
			case '[':
				depth++
			case ']':
				depth--
			case ';':
				kind = TypeArray
			}
			p.pos++
		}
		return TypeExpr{Kind: kind, Elem: &elem, Raw: strings.TrimSpace(p.src[start:p.pos])}
	}

	var path []string
	for {
		p.skipSpace()
		ident := p.ident()
		if ident == "" {
			return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(p.src[start:p.pos])}
		}
		path = append(path, ident)
		p.skipSpace()
		if strings.HasPrefix(p.src[p.pos:], "::") {
			p.pos += 2
			continue
		}
		break
	}

	t := TypeExpr{Kind: TypePath, Path: path}
	if p.peek() == '<' {
		p.pos++
		for {
			p.skipSpace()
			if p.peek() == '>' {
				p.pos++
				break
			}
			if p.peek() == 0 {
				return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(p.src[start:])}
			}
			if p.peek() == '\'' {
				// lifetimes carry no type information
				p.pos++
				p.ident()
			} else {
				arg := p.parse()
				if arg.Kind == TypeUnknown {
					return TypeExpr{Kind: TypeUnknown, Raw: strings.TrimSpace(p.src[start:])}
				}
				t.Args = append(t.Args, arg)
			}
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
			}
		}
	}
	t.Raw = strings.TrimSpace(p.src[start:p.pos])
	return t
}

func (p *typeStringParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
