package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rules.txt")
	s := Parse(sample)

	require.NoError(t, SaveFile(path, s))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("X=1,2\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *Session, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s *Session) { updates <- s })
	}()

	select {
	case s := <-updates:
		assert.Equal(t, 1.0, s.Weights["X"].First)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial parse")
	}

	require.NoError(t, os.WriteFile(path, []byte("X=3,4\n"), 0o644))

	select {
	case s := <-updates:
		assert.Equal(t, 3.0, s.Weights["X"].First)
	case <-time.After(5 * time.Second):
		t.Fatal("change not observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), func(*Session) {})
	assert.Error(t, err)
}
