package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_SendFile(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(&Config{SavePath: dir, CustomPath: "media"})
	require.NoError(t, err)

	key, err := client.SendFile(context.Background(), "202401/01/a.png", strings.NewReader("hello world"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "media/202401/01/a.png", key)

	got, err := os.ReadFile(filepath.Join(dir, "media", "202401", "01", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestLocalFS_SendContentAndDelete(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(&Config{SavePath: dir})
	require.NoError(t, err)

	key, err := client.SendContent(context.Background(), "subdir/c.txt", []byte("hello content"))
	require.NoError(t, err)
	assert.Equal(t, "subdir/c.txt", key)
	assert.FileExists(t, filepath.Join(dir, "subdir", "c.txt"))

	require.NoError(t, client.Delete(context.Background(), key))
	assert.NoFileExists(t, filepath.Join(dir, "subdir", "c.txt"))

	// 重复删除不报错
	require.NoError(t, client.Delete(context.Background(), key))
}

func TestLocalFS_RejectsEscapingKey(t *testing.T) {
	client, err := NewClient(&Config{SavePath: t.TempDir()})
	require.NoError(t, err)

	_, err = client.SendContent(context.Background(), "../../etc/passwd", []byte("x"))
	assert.Error(t, err)
	assert.Error(t, client.Delete(context.Background(), "../outside"))
}

func TestLocalFS_CancelledContext(t *testing.T) {
	client, err := NewClient(&Config{SavePath: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.SendContent(ctx, "a.txt", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_EmptyPath(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
