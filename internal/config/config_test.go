package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, port string) {
	t.Helper()
	content := fmt.Sprintf(`server:
  port: "%s"
  mode: debug
jwt:
  secret: test-secret
  expire_hours: 1
`, port)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
}

func TestLoadConfigPublishesLiveSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "8080")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Same(t, cfg, Live())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Persistence.Driver)
	assert.Equal(t, 8, cfg.Supervisor.SessionHours)

	// A reload swaps in a whole new snapshot; the old one is untouched.
	writeConfig(t, dir, "9090")
	reloaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Same(t, reloaded, Live())
	assert.Equal(t, "9090", Live().Server.Port)
	assert.Equal(t, "8080", cfg.Server.Port)
}
