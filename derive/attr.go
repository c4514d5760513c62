package derive

import (
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/teranos/partialdefault/decl"
)

// AttrKind is the closed set of annotation forms.
type AttrKind int

const (
	// Marker is the bare form, valid only on union variants: //partialdefault
	Marker AttrKind = iota
	// BoundOverride is valid only on types: //partialdefault(bound = "T any")
	BoundOverride
	// ValueOverride is valid only on fields: //partialdefault(value = "10")
	ValueOverride
)

func (k AttrKind) String() string {
	switch k {
	case Marker:
		return "marker"
	case BoundOverride:
		return "bound"
	case ValueOverride:
		return "value"
	default:
		return "unknown"
	}
}

// Attr is a parsed //partialdefault annotation.
type Attr struct {
	Kind AttrKind

	// Text is the unquoted payload of bound or value; empty for Marker
	Text string

	// Loc is the directive; TextLoc is the string literal holding Text
	Loc     token.Position
	TextLoc token.Position
}

const (
	msgMultipleAttrs = "cannot have multiple //partialdefault annotations on the same item"
	msgInvalidSyntax = "invalid syntax for partialdefault"
)

// FindAttr locates and parses the annotation among attrs.
// It returns nil, nil when the item carries no annotation.
func FindAttr(attrs []decl.Attribute) (*Attr, error) {
	raw, ok, err := FindOnly(attrs, msgMultipleAttrs, func(a decl.Attribute) (bool, error) {
		return a.Is(), nil
	})
	if err != nil || !ok {
		return nil, err
	}
	return parseAttr(raw)
}

type attrToken struct {
	off int
	tok token.Token
	lit string
}

// parseAttr parses the payload following the annotation name.
func parseAttr(raw decl.Attribute) (*Attr, error) {
	base := len(decl.AttrName)
	toks, err := scanPayload(raw, base)
	if err != nil {
		return nil, err
	}

	errAt := func(off int, format string, args ...any) error {
		return newDiagnostic(ErrInvalidAnnotationSyntax, raw.PosAt(base+off), format, args...)
	}
	end := len(raw.Text) - base

	if len(toks) == 0 {
		return &Attr{Kind: Marker, Loc: raw.Loc}, nil
	}
	if toks[0].tok != token.LPAREN {
		// Covers the unparenthesized name = "value" form as well
		return nil, errAt(toks[0].off, msgInvalidSyntax)
	}

	var result *Attr
	i := 1
	next := func() attrToken {
		if i < len(toks) {
			return toks[i]
		}
		return attrToken{off: end, tok: token.EOF}
	}

	if next().tok == token.RPAREN {
		return nil, errAt(next().off, "%s: expected bound or value", msgInvalidSyntax)
	}

	for {
		key := next()
		if result != nil || key.tok != token.IDENT {
			return nil, errAt(key.off, msgInvalidSyntax)
		}
		var kind AttrKind
		switch key.lit {
		case "bound":
			kind = BoundOverride
		case "value":
			kind = ValueOverride
		default:
			return nil, errAt(key.off, msgInvalidSyntax)
		}
		i++

		if t := next(); t.tok != token.ASSIGN {
			return nil, errAt(t.off, "%s: expected = after %s", msgInvalidSyntax, key.lit)
		}
		i++

		lit := next()
		if lit.tok != token.STRING {
			return nil, errAt(lit.off, "%s: expected string literal after %s =", msgInvalidSyntax, key.lit)
		}
		text, err := strconv.Unquote(lit.lit)
		if err != nil {
			return nil, errAt(lit.off, "%s: %v", msgInvalidSyntax, err)
		}
		i++
		result = &Attr{Kind: kind, Text: text, Loc: raw.Loc, TextLoc: raw.PosAt(base + lit.off)}

		switch t := next(); t.tok {
		case token.COMMA:
			i++
			if next().tok != token.RPAREN {
				continue
			}
		case token.RPAREN:
		default:
			return nil, errAt(t.off, "%s: expected , or )", msgInvalidSyntax)
		}
		i++
		break
	}

	if i < len(toks) {
		return nil, errAt(toks[i].off, "%s: unexpected %s after annotation", msgInvalidSyntax, toks[i].tok)
	}
	return result, nil
}

// scanPayload tokenizes the directive text after the annotation name.
// Offsets are relative to the payload start.
func scanPayload(raw decl.Attribute, base int) ([]attrToken, error) {
	src := []byte(raw.Text[base:])
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var firstErr error
	var s scanner.Scanner
	s.Init(file, src, func(pos token.Position, msg string) {
		if firstErr == nil {
			firstErr = newDiagnostic(ErrInvalidAnnotationSyntax, raw.PosAt(base+pos.Offset), "%s: %s", msgInvalidSyntax, msg)
		}
	}, 0)

	var toks []attrToken
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// Automatic semicolons are inserted at the end of input
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, attrToken{off: file.Offset(pos), tok: tok, lit: lit})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return toks, nil
}
