package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snag-dl/snag/internal/utils"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snag.yaml")
	content := "default_connections: 4\nmax_connections: 12\noutput_dir: /tmp/downloads\nbandwidth_limit_kbps: 2048\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.DefaultConnections)
	assert.Equal(t, 12, s.MaxConnections)
	assert.Equal(t, "/tmp/downloads", s.OutputDir)
	assert.Equal(t, 2048, s.BandwidthLimitKBps)
}

func TestLoadNormalizesOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snag.yaml")
	content := "default_connections: 50\nmax_connections: 99\nbandwidth_limit_kbps: -5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, utils.MaxConnections, s.MaxConnections)
	assert.Equal(t, s.MaxConnections, s.DefaultConnections, "default clamps to max")
	assert.Equal(t, ".", s.OutputDir)
	assert.Equal(t, 0, s.BandwidthLimitKBps)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	s, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, Default(), s, "malformed settings fall back to defaults")
}
