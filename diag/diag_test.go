package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailsift/mailsift/diag"
)

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := diag.New(diag.BoundaryError, "no boundary found in %q", "multipart/mixed")
	assert.Equal(t, `BOUNDARY_ERROR: no boundary found in "multipart/mixed"`, d.String())
}

func TestList_Order(t *testing.T) {
	t.Parallel()

	var l diag.List
	l.Add(diag.InvalidHeader, "first")
	l.Add(diag.DecodeError, "second")
	l.Append(diag.New(diag.CharsetError, "third"))

	ds := l.All()
	assert.Len(t, ds, 3)
	assert.Equal(t, diag.InvalidHeader, ds[0].Kind)
	assert.Equal(t, diag.DecodeError, ds[1].Kind)
	assert.Equal(t, diag.CharsetError, ds[2].Kind)

	assert.True(t, l.Has(diag.DecodeError))
	assert.False(t, l.Has(diag.BoundaryError))
	assert.Equal(t, 3, l.Len())
}

func TestList_Zero(t *testing.T) {
	t.Parallel()

	var l diag.List
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.All())
	assert.False(t, l.Has(diag.InvalidHeader))
}
