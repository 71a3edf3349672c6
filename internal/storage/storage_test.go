package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-booking/internal/config"
)

func TestLocal_Put(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads/")

	url, err := l.Put(context.Background(), "users/user-1.webp", "image/webp", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/users/user-1.webp", url)

	b, err := os.ReadFile(filepath.Join(dir, "users", "user-1.webp"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))
}

func TestLocal_PutStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads")

	url, err := l.Put(context.Background(), "../../escape.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.txt", url)
	assert.FileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestNew_PicksBackend(t *testing.T) {
	assert.IsType(t, &Local{}, New(&config.Config{UploadDir: t.TempDir()}))

	s := New(&config.Config{S3Bucket: "natours", S3Region: "sa-east-1"})
	require.IsType(t, &S3{}, s)
	assert.Equal(t, "https://natours.s3.sa-east-1.amazonaws.com", s.(*S3).publicURL)
}
