package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDestination(t *testing.T) {
	cases := []struct {
		name string
		url  string
		dir  string
		want string
	}{
		{"plain path", "https://example.com/files/archive.tar.gz", "/dl", "/dl/archive.tar.gz"},
		{"query ignored", "https://example.com/files/data.bin?token=abc", "/dl", "/dl/data.bin"},
		{"no path", "https://example.com", ".", "download"},
		{"trailing slash", "https://example.com/files/", "/dl", "/dl/download"},
		{"root path", "https://example.com/", "/dl", "/dl/download"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, filepath.Clean(tc.want), filepath.Clean(ResolveDestination(tc.url, tc.dir)))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 KB", FormatBytes(1024))
	assert.Equal(t, "2.50 MB", FormatBytes(2621440))
	assert.Equal(t, "1.00 GB", FormatBytes(1024*1024*1024))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0 B/s", FormatRate(0))
	assert.Equal(t, "0 B/s", FormatRate(-10))
	assert.Equal(t, "1.00 MB/s", FormatRate(1024*1024))
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "0 B/s", FormatSpeed(12345, 0))
	assert.Equal(t, "1.00 KB/s", FormatSpeed(2048, 2))
}

func TestParseHeaderArgs(t *testing.T) {
	headers := ParseHeaderArgs([]string{"Authorization: Bearer abc", "X-Thing:v", "malformed"})
	assert.Equal(t, map[string]string{
		"Authorization": "Bearer abc",
		"X-Thing":       "v",
	}, headers)
}

func TestReadTransferList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.yaml")
	content := "- link: https://example.com/a.bin\n  dir: /tmp\n- link: https://example.com/b.bin\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := ReadTransferList(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://example.com/a.bin", entries[0].URL)
	assert.Equal(t, "/tmp", entries[0].OutputDir)
	assert.Equal(t, "", entries[1].OutputDir)
}

func TestReadTransferListRejectsMissingLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- dir: /tmp\n"), 0644))

	_, err := ReadTransferList(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no link")
}

func TestReadTransferListMissingFile(t *testing.T) {
	_, err := ReadTransferList(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
