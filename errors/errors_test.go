package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrOutOfDate, "package %s", "shapes")

	assert.Equal(t, "package shapes: generated code is out of date", wrapped.Error())
	assert.True(t, Is(wrapped, ErrOutOfDate))
	assert.False(t, Is(wrapped, ErrNoTypes))
}

type positionError struct {
	line int
}

func (e *positionError) Error() string { return fmt.Sprintf("line %d", e.line) }

func TestAs(t *testing.T) {
	err := Wrap(&positionError{line: 12}, "generate")

	var pe *positionError
	require.True(t, As(err, &pe))
	assert.Equal(t, 12, pe.line)
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("load failed"), "run go mod tidy")

	assert.Equal(t, "load failed", err.Error())
	assert.Equal(t, []string{"run go mod tidy"}, GetAllHints(err))
	assert.Equal(t, "run go mod tidy", FlattenHints(err))
}

func TestJoin(t *testing.T) {
	err := Join(ErrNoTypes, ErrDiagnostics)

	assert.True(t, Is(err, ErrNoTypes))
	assert.True(t, Is(err, ErrDiagnostics))
	assert.Nil(t, Join())
}
