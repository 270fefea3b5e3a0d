package selfupdate

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// eventBufferSize holds every event of a session: one per percent and one per state
const eventBufferSize = 128

// Event is sent on the session stream every time the state or the progress changes.
type Event struct {
	State    State
	Progress int
	Message  string
	// Err is only set with the Failed state
	Err *ErrorDetail
}

// Snapshot is the current status of a session.
type Snapshot struct {
	ID         string
	State      State
	Progress   int
	Message    string
	Err        *ErrorDetail
	Stats      InstallStats
	ScratchDir string
}

// Session is one download and installation of a release.
// It runs on its own goroutine; the caller follows it with Events or Wait.
type Session struct {
	id     string
	info   *ReleaseInfo
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}

	mu         sync.Mutex
	state      State
	progress   int
	message    string
	detail     *ErrorDetail
	err        error
	stats      InstallStats
	scratchDir string
}

func newSession(info *ReleaseInfo, cancel context.CancelFunc) *Session {
	return &Session{
		id:      uuid.NewString(),
		info:    info,
		cancel:  cancel,
		events:  make(chan Event, eventBufferSize),
		done:    make(chan struct{}),
		state:   UpdateAvailable,
		message: "Update available",
	}
}

// ID returns the unique identifier of the session
func (s *Session) ID() string {
	return s.id
}

// Release returns the release being installed
func (s *Session) Release() *ReleaseInfo {
	return s.info
}

// Snapshot returns the current status of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		State:      s.state,
		Progress:   s.progress,
		Message:    s.message,
		Err:        s.detail,
		Stats:      s.stats,
		ScratchDir: s.scratchDir,
	}
}

// Events returns the stream of state and progress changes.
// It is closed once the session reaches a terminal state.
// Events are dropped when nobody drains the stream: Snapshot always has the latest status.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done is closed when the session is over
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session is over. It returns ErrCancelled when the session was cancelled,
// and the *ErrorDetail of the failure when it failed.
func (s *Session) Wait() (InstallStats, error) {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, s.err
}

// Cancel requests the session to stop at the next checkpoint.
// Files already copied into the installation are not restored.
func (s *Session) Cancel() {
	s.cancel()
}

// shortID is used in log lines and in the name of the scratch directory
func (s *Session) shortID() string {
	return s.id[:8]
}

func (s *Session) setScratchDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scratchDir = dir
}

func (s *Session) setStats(stats InstallStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// update records the new status. Progress never goes down within a session.
// An event is only emitted when the state or the percentage changes.
func (s *Session) update(state State, percent int, message string) {
	s.mu.Lock()
	percent = min(max(percent, s.progress), 100)
	changed := state != s.state || percent != s.progress
	s.state = state
	s.progress = percent
	s.message = message
	event := Event{State: state, Progress: percent, Message: message, Err: s.detail}
	s.mu.Unlock()

	if changed {
		s.emit(event)
	}
}

// report is the ProgressFunc of the running phase
func (s *Session) report(percent int, message string) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	s.update(state, percent, message)
}

// finish moves the session to its terminal state and closes the event stream.
// detail is only given with the Failed state.
func (s *Session) finish(state State, message string, err error, detail *ErrorDetail) {
	s.mu.Lock()
	s.err = err
	s.detail = detail
	s.mu.Unlock()

	percent := 0
	if state == Completed {
		percent = 100
	}
	s.update(state, percent, message)
	close(s.events)
	close(s.done)
}

func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		log.Printf("Update session %s: event stream full, dropping %s %d%%", s.shortID(), event.State, event.Progress)
	}
}
