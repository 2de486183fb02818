package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainDisplay_Show(t *testing.T) {
	var out bytes.Buffer
	d := NewPlainDisplay(&out)

	require.NoError(t, d.Show("# Weekly report\n\n- item"))
	require.NoError(t, d.Show("done\n"))

	assert.Equal(t, "# Weekly report\n\n- item\ndone\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed pipe") }

func TestPlainDisplay_WriteError(t *testing.T) {
	err := NewPlainDisplay(failingWriter{}).Show("x")
	assert.ErrorContains(t, err, "closed pipe")
}

func TestMockDisplay(t *testing.T) {
	d := &MockDisplay{}
	require.NoError(t, d.Show("a"))
	require.NoError(t, d.Show("b"))
	assert.Equal(t, []string{"a", "b"}, d.Shown())
}
