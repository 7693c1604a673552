package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snag-dl/snag/internal/utils"
)

// Request describes one transfer. It is immutable once Start is called.
type Request struct {
	URL         string
	OutputDir   string
	Connections int // requested segment count; 0 means the default
}

// Config carries collaborator-supplied knobs for a transfer.
type Config struct {
	Client         utils.HTTPClientConfig
	MaxConnections int // 0 means the built-in maximum
}

// Transfer coordinates one download: probe, segment plan, workers, progress
// emission, merge or cleanup. Pause, Resume and Cancel are idempotent and
// safe to call from any goroutine while the transfer is active.
type Transfer struct {
	ID string

	req      Request
	destPath string
	client   *utils.Client
	maxConns int
	log      zerolog.Logger

	gate      *gate
	ctx       context.Context
	cancelCtx context.CancelFunc

	events    chan Event
	eventsMu  sync.Mutex
	closed    bool
	done      chan struct{}
	outcomeMu sync.Mutex
	outcome   Outcome
	startOnce sync.Once
	startTime time.Time
}

func New(req Request, cfg Config) *Transfer {
	maxConns := cfg.MaxConnections
	if maxConns < 1 || maxConns > utils.MaxConnections {
		maxConns = utils.MaxConnections
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transfer{
		ID:        uuid.New().String(),
		req:       req,
		destPath:  utils.ResolveDestination(req.URL, req.OutputDir),
		client:    utils.NewClient(cfg.Client),
		maxConns:  maxConns,
		log:       utils.GetLogger("transfer"),
		gate:      newGate(),
		ctx:       ctx,
		cancelCtx: cancel,
		events:    make(chan Event, 256),
		done:      make(chan struct{}),
	}
}

// Destination is the resolved output file path.
func (t *Transfer) Destination() string {
	return t.destPath
}

// Events returns the channel carrying progress, status and completion events.
// It is closed when the transfer reaches a terminal outcome.
func (t *Transfer) Events() <-chan Event {
	return t.events
}

// Start launches the transfer. Subsequent calls are no-ops.
func (t *Transfer) Start() {
	t.startOnce.Do(func() {
		t.startTime = time.Now()
		go t.run()
	})
}

// Wait blocks until the transfer ends and returns its outcome.
func (t *Transfer) Wait() Outcome {
	<-t.done
	return t.Outcome()
}

func (t *Transfer) Outcome() Outcome {
	t.outcomeMu.Lock()
	defer t.outcomeMu.Unlock()
	return t.outcome
}

// Pause suspends every worker at its next read boundary. A no-op when
// already paused, cancelled or finished.
func (t *Transfer) Pause() {
	if t.gate.pause() {
		t.emit(StatusEvent{TransferID: t.ID, Message: "Paused"})
	}
}

// Resume wakes paused workers. A no-op unless currently paused.
func (t *Transfer) Resume() {
	if t.gate.resume() {
		t.emit(StatusEvent{TransferID: t.ID, Message: "Resumed"})
	}
}

// Cancel requests cooperative cancellation: the worker contexts are
// cancelled and paused workers are woken so they can unwind.
func (t *Transfer) Cancel() {
	t.gate.cancel()
	t.cancelCtx()
}

func (t *Transfer) run() {
	t.emit(StatusEvent{TransferID: t.ID, Message: "Checking file info..."})
	probed, err := probe(t.ctx, t.client, t.req.URL)
	if err != nil {
		if t.gate.isCancelled() {
			t.finish(StateCancelled, "")
			return
		}
		t.emit(StatusEvent{TransferID: t.ID, Message: fmt.Sprintf("Error: %v", err)})
		t.finish(StateFailed, err.Error())
		return
	}
	t.log.Debug().Str("id", t.ID).Int64("size", probed.size).Bool("ranges", probed.rangeSupported).Msg("probe complete")

	// Same-size destination short-circuit. Size is the only check; content
	// is not verified.
	if existing, err := os.Stat(t.destPath); err == nil && existing.Size() == probed.size {
		t.emit(StatusEvent{TransferID: t.ID, Message: "File already downloaded"})
		t.emitProgress(probed.size, probed.size, "0 B/s")
		t.emit(CompletionEvent{TransferID: t.ID})
		t.finish(StateCompleted, "")
		return
	}

	connections := t.req.Connections
	if connections < 1 {
		connections = utils.DefaultConnections
	}
	if connections > t.maxConns {
		connections = t.maxConns
	}
	if !probed.rangeSupported {
		t.emit(StatusEvent{TransferID: t.ID, Message: "Server doesn't support multi-connection downloads, using single connection"})
		connections = 1
	}
	plan := buildPlan(probed.size, connections)
	segments := len(plan)
	t.emit(StatusEvent{TransferID: t.ID, Message: fmt.Sprintf("Starting download with %d connections...", segments)})

	track := newTracker(segments)
	results := make(chan segmentResult, segments)
	for _, seg := range plan {
		go func(seg segment) {
			err := downloadSegment(t.ctx, t.client, t.req.URL, partFilePath(t.destPath, seg.index), seg, track, t.gate)
			results <- segmentResult{index: seg.index, err: err}
		}(seg)
	}

	ticker := time.NewTicker(utils.ProgressInterval)
	defer ticker.Stop()
	completed := 0
	cancelled := false
	ctxDone := t.ctx.Done()
	var failures []segmentResult
	// Waiting for every worker's terminal result is the barrier that makes
	// merge and cleanup safe: no part file has a live writer past this loop.
	for completed+len(failures) < segments {
		select {
		case res := <-results:
			if res.err == nil {
				completed++
			} else {
				failures = append(failures, res)
				if !errors.Is(res.err, errCancelled) {
					t.emit(StatusEvent{TransferID: t.ID, Message: fmt.Sprintf("Segment %d failed: %v", res.index, res.err)})
				}
			}
		case <-ticker.C:
			if !cancelled {
				downloaded, rate := track.Snapshot()
				t.emitProgress(downloaded, probed.size, utils.FormatRate(rate))
			}
		case <-ctxDone:
			// Workers unwind quickly: the context aborts in-flight reads and
			// the gate wakes paused ones. Keep draining their results.
			cancelled = true
			ctxDone = nil
			t.emit(StatusEvent{TransferID: t.ID, Message: "Cancelled"})
		}
	}

	if cancelled || t.gate.isCancelled() {
		if !cancelled {
			t.emit(StatusEvent{TransferID: t.ID, Message: "Cancelled"})
		}
		cleanupParts(t.destPath, segments)
		t.finish(StateCancelled, "")
		return
	}
	if len(failures) > 0 {
		reason := fmt.Sprintf("%d segment(s) could not be downloaded", len(failures))
		t.emit(StatusEvent{TransferID: t.ID, Message: "Download failed: " + reason})
		cleanupParts(t.destPath, segments)
		t.finish(StateFailed, reason)
		return
	}

	t.emit(StatusEvent{TransferID: t.ID, Message: "Merging downloaded segments..."})
	if err := mergeParts(t.destPath, segments); err != nil {
		t.emit(StatusEvent{TransferID: t.ID, Message: fmt.Sprintf("Error: %v", err)})
		cleanupParts(t.destPath, segments)
		t.finish(StateFailed, err.Error())
		return
	}

	elapsed := time.Since(t.startTime).Seconds()
	t.emitProgress(probed.size, probed.size, utils.FormatSpeed(probed.size, elapsed))
	t.emit(StatusEvent{TransferID: t.ID, Message: "Completed"})
	t.emit(CompletionEvent{TransferID: t.ID})
	t.finish(StateCompleted, "")
}

func (t *Transfer) emitProgress(downloaded, total int64, rate string) {
	percent := 0
	if total > 0 {
		percent = int(downloaded * 100 / total)
	}
	t.emit(ProgressEvent{
		TransferID:  t.ID,
		Percent:     percent,
		Rate:        rate,
		Transferred: fmt.Sprintf("%s / %s", utils.FormatBytes(uint64(downloaded)), utils.FormatBytes(uint64(total))),
	})
}

// emit delivers an event without ever blocking the coordinator. Progress
// events are lossy: when the consumer lags behind the buffer, they are
// dropped. Status and completion events always land; if the buffer is full,
// older queued events are evicted to make room.
func (t *Transfer) emit(e Event) {
	t.eventsMu.Lock()
	defer t.eventsMu.Unlock()
	if t.closed {
		return
	}
	if _, lossy := e.(ProgressEvent); lossy {
		select {
		case t.events <- e:
		default:
		}
		return
	}
	for {
		select {
		case t.events <- e:
			return
		default:
			// emit is the only sender and holds the lock, so evicting the
			// oldest queued event frees a slot for this one.
			select {
			case <-t.events:
			default:
			}
		}
	}
}

func (t *Transfer) finish(state State, reason string) {
	t.outcomeMu.Lock()
	if t.outcome.State == StatePending {
		t.outcome = Outcome{State: state, Reason: reason}
	}
	t.outcomeMu.Unlock()
	t.eventsMu.Lock()
	t.closed = true
	close(t.events)
	t.eventsMu.Unlock()
	t.log.Debug().Str("id", t.ID).Str("state", state.String()).Msg("transfer finished")
	close(t.done)
}
