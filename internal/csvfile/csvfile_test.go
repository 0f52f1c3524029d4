package csvfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Missing(t *testing.T) {
	called := false
	found, err := Read(filepath.Join(t.TempDir(), "nope.csv"), func(io.Reader) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, called)
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.csv")

	err := Write(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n1,2\n")
		return err
	})
	require.NoError(t, err)

	var got string
	found, err := Read(path, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		got = string(b)
		return err
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a,b\n1,2\n", got)
}

func TestWrite_FailureKeepsOldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := Write(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("boom")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}
