package utils

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func GetRandomUserAgent() string {
	return userAgents[time.Now().UnixNano()%int64(len(userAgents))]
}

// ResolveDestination derives the output file path for a URL: the last element
// of the URL path joined onto the destination directory, or "download" when
// the URL has no usable path component.
func ResolveDestination(rawURL, dir string) string {
	name := "download"
	if parsed, err := url.Parse(rawURL); err == nil {
		if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	return filepath.Join(dir, name)
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatRate renders an instantaneous rate in bytes per second.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		bytesPerSec = 0
	}
	formatted := FormatBytes(uint64(bytesPerSec))
	return formatted + "/s"
}

// FormatSpeed renders an average rate over an elapsed duration in seconds.
func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed == 0 {
		return "0 B/s"
	}
	return FormatRate(float64(bytes) / elapsed)
}

// TransferEntry is one item of a YAML batch list.
type TransferEntry struct {
	URL       string `yaml:"link"`
	OutputDir string `yaml:"dir"`
}

// ReadTransferList parses a YAML file containing a list of transfer entries.
func ReadTransferList(listPath string) ([]TransferEntry, error) {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("error reading transfer list: %w", err)
	}
	var entries []TransferEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing transfer list: %w", err)
	}
	for i, entry := range entries {
		if entry.URL == "" {
			return nil, fmt.Errorf("transfer list entry %d has no link", i)
		}
	}
	return entries, nil
}
