package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.Database.Type)
	assert.Equal(t, ":9000", c.Server.HttpPort)
	assert.True(t, c.App.SeedDemoData)
	assert.Equal(t, time.Second, c.GetStoreConfig().SignInDelay)
	assert.Equal(t, 7*24*time.Hour, c.GetTokenExpiry())
	assert.Equal(t, int64(20<<20), c.GetUploadMaxSize())
	assert.Equal(t, 10*time.Minute, c.GetStatsInterval())
	assert.Contains(t, c.Media.ImageExts, ".png")
	assert.Contains(t, c.Media.VideoExts, ".mp4")
	assert.True(t, c.IsDefaultSecret())
}

// 文件中显式写出的 false 不会被默认值覆盖
func TestParseConfigExplicitFalseWins(t *testing.T) {
	c, err := ParseConfig([]byte("app:\n  seed-demo-data: false\n  sign-in-delay: 0s\nlog:\n  production: false\n"))
	require.NoError(t, err)

	assert.False(t, c.App.SeedDemoData)
	assert.False(t, c.Log.Production)
	assert.Equal(t, time.Duration(0), c.GetStoreConfig().SignInDelay)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"duration": "app:\n  sign-in-delay: soon\n",
		"stats":    "app:\n  stats-interval: often\n",
		"size":     "media:\n  upload-max-size: huge\n",
		"database": "database:\n  type: oracle\n",
		"storage":  "storage:\n  type: ftp\n",
		"yaml":     "app: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEmbeddedDefaultConfigParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	c, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, "localfs", c.Storage.Type)
	assert.Equal(t, "fast-note-pad", c.Tracer.ServiceName)
}

func TestLoadConfigAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http-port: \":9100\"\n"), 0o644))

	c, real, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, real)
	assert.Equal(t, ":9100", c.Server.HttpPort)

	c.Security.AuthTokenKey = "changed"
	require.NoError(t, c.Save())

	again, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Security.AuthTokenKey)
	assert.False(t, again.IsDefaultSecret())

	_, _, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
