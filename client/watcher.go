package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/designgenie/internal/observability"
	"github.com/hrygo/designgenie/store"
)

// WatcherState is the lifecycle state of the polling loop.
type WatcherState int

const (
	// StateIdle means the watcher has not started yet.
	StateIdle WatcherState = iota
	// StateLoading means the initial fetch is in flight.
	StateLoading
	// StateReady means polling is active with a loaded document.
	StateReady
	// StateError means the initial fetch failed; terminal until a new
	// watcher is started.
	StateError
	// StateDegraded means polling stopped after repeated consecutive
	// failures; terminal until a new watcher is started.
	StateDegraded
)

func (s WatcherState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

const (
	// DefaultPollInterval is how often the authoritative document is
	// fetched.
	DefaultPollInterval = 5 * time.Second
	// DefaultFailureThreshold is how many consecutive failed polls
	// stop the loop.
	DefaultFailureThreshold = 5
)

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WithInterval overrides the polling interval.
func WithInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = interval
	}
}

// WithFailureThreshold overrides the consecutive-failure cutoff.
func WithFailureThreshold(threshold int) WatcherOption {
	return func(w *Watcher) {
		w.failureThreshold = threshold
	}
}

// WithStrictCompare makes any inequality in the tracked counters adopt
// the server's copy, instead of only strict growth. Wizard dashboards
// that must also observe resets use this.
func WithStrictCompare() WatcherOption {
	return func(w *Watcher) {
		w.strict = true
	}
}

// WithOnUpdate registers a callback invoked with the adopted document
// after each wholesale replacement.
func WithOnUpdate(fn func(*store.Session)) WatcherOption {
	return func(w *Watcher) {
		w.onUpdate = fn
	}
}

// Watcher periodically fetches the authoritative session document and
// replaces the local state wholesale when a divergence heuristic
// fires. This is conflict-free only because all mutation is
// append-only or single-field overwrite by construction.
type Watcher struct {
	client    *Client
	sessionID string
	session   *Session

	interval         time.Duration
	failureThreshold int
	strict           bool
	onUpdate         func(*store.Session)

	mu       sync.Mutex
	state    WatcherState
	failures int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for the given session id, feeding the
// given local session state.
func NewWatcher(c *Client, sessionID string, session *Session, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		client:           c,
		sessionID:        sessionID,
		session:          session,
		interval:         DefaultPollInterval,
		failureThreshold: DefaultFailureThreshold,
		state:            StateIdle,
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current lifecycle state.
func (w *Watcher) State() WatcherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start performs the initial fetch synchronously, then launches the
// polling loop. A failed initial fetch leaves the watcher in
// StateError and returns the error.
func (w *Watcher) Start(ctx context.Context) error {
	w.setState(StateLoading)

	doc, err := w.client.GetSession(ctx, w.sessionID)
	if err != nil {
		w.setState(StateError)
		close(w.done)
		return err
	}
	w.session.Replace(doc)
	w.setState(StateReady)

	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
	return nil
}

// Stop cancels the polling loop and waits for it to exit. Calling
// Stop on a watcher that never started is a no-op.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// Done is closed when the polling loop has exited, either by Stop or
// by the consecutive-failure cutoff.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.poll(ctx) {
				return
			}
		}
	}
}

// poll performs one fetch-and-compare tick. It returns false when the
// loop must stop.
func (w *Watcher) poll(ctx context.Context) bool {
	fetched, err := w.client.GetSession(ctx, w.sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		w.mu.Lock()
		w.failures++
		failures := w.failures
		w.mu.Unlock()
		slog.Warn("session poll failed",
			observability.LogFieldSessionID, w.sessionID,
			"consecutive_failures", failures, "error", err)
		if failures >= w.failureThreshold {
			// Stop rather than retry forever against a degraded
			// store; resuming requires a fresh watcher.
			slog.Error("session polling stopped after repeated failures",
				observability.LogFieldSessionID, w.sessionID,
				"failures", failures)
			w.setState(StateDegraded)
			return false
		}
		return true
	}

	w.mu.Lock()
	w.failures = 0
	w.mu.Unlock()

	if w.diverged(w.session.Document(), fetched) {
		w.session.Replace(fetched)
		if w.onUpdate != nil {
			w.onUpdate(fetched)
		}
	}
	return true
}

// diverged compares the tracked counters of the fetched document
// against local state: feedback, moodboard and recommendation list
// lengths plus the number of recommendations carrying an image.
func (w *Watcher) diverged(local, remote *store.Session) bool {
	if w.strict {
		return len(remote.Feedback) != len(local.Feedback) ||
			len(remote.Moodboards) != len(local.Moodboards) ||
			len(remote.Recommendations) != len(local.Recommendations) ||
			imageCount(remote) != imageCount(local)
	}
	return len(remote.Feedback) > len(local.Feedback) ||
		len(remote.Moodboards) > len(local.Moodboards) ||
		len(remote.Recommendations) > len(local.Recommendations) ||
		imageCount(remote) > imageCount(local)
}

func imageCount(doc *store.Session) int {
	count := 0
	for _, rec := range doc.Recommendations {
		if rec.ImageURL != "" {
			count++
		}
	}
	return count
}

func (w *Watcher) setState(state WatcherState) {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
}
