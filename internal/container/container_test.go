package container

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/internal/config"
	apperrors "goeda/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "ERROR"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c.Service)
	assert.NotNil(t, c.Workspace)
	assert.NotNil(t, c.Server)

	raw, err := c.Reader.ReadCSV(strings.NewReader("a;b\n1;2,5\n3;4,5\n"))
	require.NoError(t, err)
	snap := c.Workspace.Load(raw)

	var buf bytes.Buffer
	require.NoError(t, c.Workspace.Download(c.Writer, &buf))
	assert.Equal(t, "a;b\n1;2,5\n3;4,5\n", buf.String())
	assert.Len(t, snap.Types, 2)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(nil)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	cfg := config.Default()
	cfg.Input.ColumnSeparator = ","
	cfg.Input.DecimalSeparator = ","
	_, err = New(cfg)
	assert.Error(t, err)
}
