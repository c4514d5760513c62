package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/partialdefault/decl"
	"github.com/teranos/partialdefault/errors"
)

func TestFindAttr_Forms(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind AttrKind
		wantText string
	}{
		{"marker", "partialdefault", Marker, ""},
		{"bound", `partialdefault(bound = "T any")`, BoundOverride, "T any"},
		{"empty bound", `partialdefault(bound = "")`, BoundOverride, ""},
		{"value", `partialdefault(value = "10")`, ValueOverride, "10"},
		{"raw string value", "partialdefault(value = `\"four\"`)", ValueOverride, `"four"`},
		{"escaped quotes", `partialdefault(value = "[]string{\"a\"}")`, ValueOverride, `[]string{"a"}`},
		{"trailing comma", `partialdefault(value = "x",)`, ValueOverride, "x"},
		{"space before list", `partialdefault (value = "x")`, ValueOverride, "x"},
		{"no spaces", `partialdefault(value="x")`, ValueOverride, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := FindAttr([]decl.Attribute{attrAt(1, tt.text)})
			require.NoError(t, err)
			require.NotNil(t, attr)
			assert.Equal(t, tt.wantKind, attr.Kind)
			assert.Equal(t, tt.wantText, attr.Text)
			assert.Equal(t, 1, attr.Loc.Line)
		})
	}
}

func TestFindAttr_TextLocPointsAtLiteral(t *testing.T) {
	attr, err := FindAttr([]decl.Attribute{attrAt(4, `partialdefault(value = "10")`)})
	require.NoError(t, err)

	// "partialdefault" is 14 bytes, the literal starts 9 bytes into the payload
	assert.Equal(t, 4, attr.TextLoc.Line)
	assert.Equal(t, 3+14+9, attr.TextLoc.Column)
}

func TestFindAttr_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantCol int
		wantMsg string
	}{
		{"name value form", `partialdefault = "10"`, 18, "invalid syntax for partialdefault"},
		{"unknown key", `partialdefault(default = "1")`, 18, "invalid syntax for partialdefault"},
		{"second key", `partialdefault(value = "1", bound = "")`, 31, "invalid syntax for partialdefault"},
		{"missing assign", `partialdefault(value)`, 23, "expected = after value"},
		{"non string value", `partialdefault(value = 10)`, 26, "expected string literal"},
		{"empty list", `partialdefault()`, 18, "expected bound or value"},
		{"missing paren", `partialdefault(value = "1"`, 29, "expected , or )"},
		{"trailing tokens", `partialdefault(value = "1") extra`, 31, "unexpected IDENT"},
		{"unterminated string", `partialdefault(value = "1)`, 26, "string literal not terminated"},
		{"bare words", `partialdefault garbage`, 18, "invalid syntax for partialdefault"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := FindAttr([]decl.Attribute{attrAt(2, tt.text)})
			require.Error(t, err)
			assert.Nil(t, attr)
			assert.True(t, errors.Is(err, ErrInvalidAnnotationSyntax))

			d, ok := AsDiagnostic(err)
			require.True(t, ok)
			assert.Equal(t, 2, d.Pos.Line)
			assert.Equal(t, tt.wantCol, d.Pos.Column)
			assert.Contains(t, d.Msg, tt.wantMsg)
		})
	}
}

func TestFindAttr_Absent(t *testing.T) {
	attr, err := FindAttr(nil)
	require.NoError(t, err)
	assert.Nil(t, attr)

	// Tool directives and ordinary comments are not annotations
	attr, err = FindAttr([]decl.Attribute{
		attrAt(1, "partialdefault:derive"),
		attrAt(2, " partialdefault is great"),
		attrAt(3, "go:generate partialdefault"),
	})
	require.NoError(t, err)
	assert.Nil(t, attr)
}

func TestFindAttr_IgnoresOtherDirectives(t *testing.T) {
	attr, err := FindAttr([]decl.Attribute{
		attrAt(1, "partialdefault:derive"),
		attrAt(2, "partialdefault"),
	})
	require.NoError(t, err)
	require.NotNil(t, attr)
	assert.Equal(t, Marker, attr.Kind)
	assert.Equal(t, 2, attr.Loc.Line)
}

func TestFindAttr_Duplicate(t *testing.T) {
	_, err := FindAttr([]decl.Attribute{
		attrAt(1, `partialdefault(value = "1")`),
		attrAt(2, "nolint"),
		attrAt(3, `partialdefault(value = "2")`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateAnnotation))

	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, 3, d.Pos.Line)
	assert.Equal(t, msgMultipleAttrs, d.Msg)
}

func TestFindAttr_DuplicateCheckedBeforeSyntax(t *testing.T) {
	// Both annotations are malformed; the duplicate is reported first
	_, err := FindAttr([]decl.Attribute{
		attrAt(1, `partialdefault = "1"`),
		attrAt(2, `partialdefault = "2"`),
	})
	assert.True(t, errors.Is(err, ErrDuplicateAnnotation))
}
