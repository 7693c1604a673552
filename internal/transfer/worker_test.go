package transfer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func rangeServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "payload.bin", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownloadSegmentWritesExactRange(t *testing.T) {
	data := testPayload(256 * 1024)
	server := rangeServer(t, data)
	partPath := filepath.Join(t.TempDir(), "payload.bin.part0")
	seg := segment{index: 0, start: 100, end: 200*1024 - 1}
	track := newTracker(1)

	err := downloadSegment(context.Background(), probeClient(), server.URL, partPath, seg, track, newGate())
	require.NoError(t, err)

	written, err := os.ReadFile(partPath)
	require.NoError(t, err)
	assert.Equal(t, data[seg.start:seg.end+1], written)

	downloaded, rate := track.Snapshot()
	assert.Equal(t, seg.size(), downloaded)
	assert.Equal(t, 0.0, rate)
}

func TestDownloadSegmentRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	partPath := filepath.Join(t.TempDir(), "x.part0")

	err := downloadSegment(context.Background(), probeClient(), server.URL, partPath, segment{0, 0, 99}, newTracker(1), newGate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestDownloadSegmentCancelledWhilePaused(t *testing.T) {
	data := testPayload(512 * 1024)
	server := rangeServer(t, data)
	partPath := filepath.Join(t.TempDir(), "payload.bin.part0")
	g := newGate()
	g.pause()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := make(chan error, 1)
	go func() {
		result <- downloadSegment(ctx, probeClient(), server.URL, partPath, segment{0, 0, int64(len(data) - 1)}, newTracker(1), g)
	}()

	select {
	case err := <-result:
		t.Fatalf("worker finished while paused: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	g.cancel()
	cancel()
	select {
	case err := <-result:
		assert.ErrorIs(t, err, errCancelled)
	case <-time.After(time.Second):
		t.Fatal("worker did not unwind after cancel")
	}
}
