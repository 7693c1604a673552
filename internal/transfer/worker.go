package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/snag-dl/snag/internal/utils"
)

// segmentResult is the single terminal outcome a worker posts for its
// segment. err carries a human-readable reason on failure; workers never
// retry on their own.
type segmentResult struct {
	index int
	err   error
}

// downloadSegment fetches one byte range into its part file. It reports
// incremental progress into the tracker on the shared cadence and posts one
// absolute reconciliation report at stream end so the aggregate total lands
// exactly on the segment size.
func downloadSegment(ctx context.Context, client utils.HTTPDoer, link, partPath string, seg segment, track *tracker, g *gate) error {
	partFile, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening part file: %w", err)
	}
	defer partFile.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", seg.start, seg.end))
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return asCancelled(ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	buffer := make([]byte, utils.ReadBufferSize)
	var bytesSinceLast int64
	lastReport := time.Now()
	for {
		// Pause blocks here without consuming CPU; cancel wakes it.
		if err := g.wait(); err != nil {
			return err
		}
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := partFile.Write(buffer[:bytesRead]); writeErr != nil {
				return fmt.Errorf("error writing part file: %w", writeErr)
			}
			bytesSinceLast += int64(bytesRead)
			if elapsed := time.Since(lastReport); elapsed >= utils.ProgressInterval {
				track.ReportIncrement(seg.index, bytesSinceLast, float64(bytesSinceLast)/elapsed.Seconds())
				lastReport = time.Now()
				bytesSinceLast = 0
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return asCancelled(ctx, readErr)
		}
	}

	track.ReportAbsolute(seg.index, seg.size())
	return nil
}

// asCancelled folds request errors caused by cancellation into errCancelled
// so they surface as a cancel, not a network failure.
func asCancelled(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return errCancelled
	}
	return err
}
