package zipstore

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_AddAndClose(t *testing.T) {
	a := NewArchiver()
	ctx := t.Context()

	require.NoError(t, a.AddFile(ctx, "one.png", bytes.NewReader([]byte("first"))))
	require.NoError(t, a.AddFile(ctx, "two.png", bytes.NewReader([]byte("second"))))

	reader, err := a.Close()
	require.NoError(t, err)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, r.File, 2)
	assert.Equal(t, "one.png", r.File[0].Name)
	assert.Equal(t, "two.png", r.File[1].Name)
}

func TestArchiver_CancelledContext(t *testing.T) {
	a := NewArchiver()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := a.AddFile(ctx, "late.png", bytes.NewReader([]byte("data")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestArchiver_ClosedBehaviour(t *testing.T) {
	a := NewArchiver()
	ctx := t.Context()

	require.NoError(t, a.AddFile(ctx, "a.png", bytes.NewReader([]byte("a"))))

	_, err := a.Close()
	require.NoError(t, err)

	assert.Error(t, a.AddFile(ctx, "b.png", bytes.NewReader([]byte("b"))))

	_, err = a.Close()
	assert.Error(t, err)
}

func TestArchiver_CloseEmpty(t *testing.T) {
	a := NewArchiver()
	_, err := a.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestArchiver_Extension(t *testing.T) {
	assert.Equal(t, ".zip", NewArchiver().Extension())
}
