package segue

import (
	"sync"
	"time"
)

// Protocol stages reported in Failure records and metrics.
const (
	// StageMutation covers errors from the mutation pipeline during render.
	StageMutation = "mutation"

	// StageAnimation covers a platform finished signal that settles in
	// failure.
	StageAnimation = "animation"

	// StageSettle covers a finished signal that never settles before the
	// settle timeout.
	StageSettle = "settle"
)

// Failure records one failed transition. The mutation may still have been
// applied; check Stage to see which step failed.
type Failure struct {
	// Seq is the frame sequence number.
	Seq uint64

	// Stage names the protocol step that failed.
	Stage string

	// Err is the underlying error.
	Err error

	// At is when the failure was recorded.
	At time.Time
}

// failureRing keeps the most recent transition failures in a fixed ring.
// A nil ring discards everything.
type failureRing struct {
	mu   sync.Mutex
	buf  []Failure
	next int
	full bool
}

func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{buf: make([]Failure, size)}
}

func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = f
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// all returns recorded failures oldest first.
func (r *failureRing) all() []Failure {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next == 0 && !r.full {
		return nil
	}
	if !r.full {
		out := make([]Failure, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Failure, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

func (r *failureRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = 0
	r.full = false
}
