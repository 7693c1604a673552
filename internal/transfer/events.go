package transfer

// State is the terminal state of a transfer.
type State int

const (
	StatePending State = iota
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Outcome is set exactly once, when a transfer ends.
type Outcome struct {
	State  State
	Reason string // populated for StateFailed
}

// Event is delivered on a transfer's event channel. The channel is closed
// once the transfer reaches a terminal outcome; no events follow it.
type Event interface {
	isEvent()
}

// ProgressEvent is emitted on a fixed cadence while segments are downloading,
// plus once at 100% on completion.
type ProgressEvent struct {
	TransferID  string
	Percent     int // 0-100, truncated
	Rate        string
	Transferred string // "downloaded / total"
}

// StatusEvent marks a phase transition or a failure notice.
type StatusEvent struct {
	TransferID string
	Message    string
}

// CompletionEvent is emitted exactly once, only on success.
type CompletionEvent struct {
	TransferID string
}

func (ProgressEvent) isEvent()   {}
func (StatusEvent) isEvent()     {}
func (CompletionEvent) isEvent() {}
