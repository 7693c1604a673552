package transfer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/snag-dl/snag/internal/utils"
)

type probeResult struct {
	size           int64
	rangeSupported bool
}

// probe asks the server for the file size and range-request support via a
// header-only request. A missing or non-positive content length is fatal for
// the transfer; there is no fallback to unbounded streaming.
func probe(ctx context.Context, client utils.HTTPDoer, link string) (probeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return probeResult{}, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return probeResult{}, fmt.Errorf("error checking URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return probeResult{}, fmt.Errorf("server returned error: %d", resp.StatusCode)
	}

	result := probeResult{
		rangeSupported: resp.Header.Get("Accept-Ranges") == "bytes",
	}
	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return probeResult{}, utils.ErrSizeUnknown
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil || size <= 0 {
		return probeResult{}, utils.ErrSizeUnknown
	}
	result.size = size
	return result, nil
}
