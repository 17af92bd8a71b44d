package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocal(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := NewLocal(root, "uploads/")
	require.NoError(t, err)
	assert.DirExists(t, root)
	assert.Equal(t, root, s.Root())

	_, err = NewLocal("", "uploads/")
	assert.Error(t, err)

	_, err = NewLocal(root, "../outside/")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	info, err := s.Put(ctx, "uploads/a.pdf", strings.NewReader("0123456789"), PutObjectOptions{
		Size:        10,
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size)
	assert.Equal(t, "uploads/a.pdf", info.Key)
	assert.FileExists(t, filepath.Join(s.Root(), "uploads", "a.pdf"))

	rc, got, err := s.Get(ctx, "uploads/a.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "0123456789", string(body))
	assert.Equal(t, int64(10), got.Size)

	require.NoError(t, s.Delete(ctx, "uploads/a.pdf"))
	assert.NoFileExists(t, filepath.Join(s.Root(), "uploads", "a.pdf"))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "uploads/a.pdf"))
}

func TestLocalStorage_PutExistingKey(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	_, err = s.Put(ctx, "a.pdf", strings.NewReader("one"), PutObjectOptions{})
	require.NoError(t, err)

	_, err = s.Put(ctx, "a.pdf", strings.NewReader("two"), PutObjectOptions{})
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestLocalStorage_PutReaderError(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	_, err = s.Put(ctx, "a.pdf", failingReader{}, PutObjectOptions{})
	assert.ErrorContains(t, err, "client went away")
	assert.NoFileExists(t, filepath.Join(s.Root(), "a.pdf"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	for _, key := range []string{"../evil.pdf", "/etc/passwd", "uploads/../../x", ""} {
		_, err := s.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{})
		assert.ErrorIs(t, err, ErrInvalidKey, key)

		_, _, err = s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalStorage_Prune(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	_, err = s.Put(ctx, "uploads/old.pdf", strings.NewReader("old"), PutObjectOptions{})
	require.NoError(t, err)
	_, err = s.Put(ctx, "uploads/new.pdf", strings.NewReader("new"), PutObjectOptions{})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Root(), "uploads", "old.pdf"), past, past))

	n, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, filepath.Join(s.Root(), "uploads", "old.pdf"))
	assert.FileExists(t, filepath.Join(s.Root(), "uploads", "new.pdf"))
}

func TestLocalStorage_PruneLeavesFilesOutsidePrefix(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocal(root, "uploads/")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	foreign := filepath.Join(root, "unrelated.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("not ours"), 0o644))
	require.NoError(t, os.Chtimes(foreign, past, past))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "other"), 0o755))
	nested := filepath.Join(root, "other", "keep.pdf")
	require.NoError(t, os.WriteFile(nested, []byte("not ours"), 0o644))
	require.NoError(t, os.Chtimes(nested, past, past))

	_, err = s.Put(ctx, "uploads/old.pdf", strings.NewReader("old"), PutObjectOptions{})
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(filepath.Join(root, "uploads", "old.pdf"), past, past))

	n, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, foreign)
	assert.FileExists(t, nested)
	assert.NoFileExists(t, filepath.Join(root, "uploads", "old.pdf"))
}

func TestLocalStorage_GetMissingObject(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "uploads/")
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), "uploads/expired.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_PruneMissingRoot(t *testing.T) {
	s, err := NewLocal(filepath.Join(t.TempDir(), "gone"), "uploads/")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(s.Root()))

	n, err := s.Prune(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
