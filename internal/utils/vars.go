package utils

import (
	"errors"
	"time"
)

const (
	// DefaultConnections is the segment count used when the caller does not
	// ask for a specific one.
	DefaultConnections = 8
	// MaxConnections caps the segment count for a single transfer.
	MaxConnections = 16
	// MinSegmentSize is the floor below which a file is not split further.
	MinSegmentSize = 1024 * 1024 // 1 MiB
	// ReadBufferSize is the increment in which workers drain response bodies.
	ReadBufferSize = 64 * 1024
	// ProgressInterval is the cadence for progress reports and emissions.
	ProgressInterval = 500 * time.Millisecond
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second
)

const ToolUserAgent = "snag/1.0"

var ErrSizeUnknown = errors.New("could not determine file size")

// Local-only User-Agent list
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15",
	"curl/7.88.1",
	"Wget/1.21.4",
}
