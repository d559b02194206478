package testutil

import (
	"errors"
	"sync"

	"github.com/roach88/cilsym/internal/ir"
)

// ErrRejected is returned by a Recorder configured with FailAt.
var ErrRejected = errors.New("recorder: rejected")

// Recorder is a Processor that keeps every record it receives.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu     sync.Mutex
	ops    []ir.OperationInfo
	failAt int
}

// NewRecorder creates an empty recorder that accepts every record.
func NewRecorder() *Recorder {
	return &Recorder{failAt: -1}
}

// FailAt makes the recorder reject the n-th record (0-based) with
// ErrRejected. Records before it are kept.
func (r *Recorder) FailAt(n int) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAt = n
	return r
}

// Process implements engine.Processor.
func (r *Recorder) Process(op ir.OperationInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt == len(r.ops) {
		return ErrRejected
	}
	r.ops = append(r.ops, op)
	return nil
}

// Operations returns a copy of the recorded stream.
func (r *Recorder) Operations() []ir.OperationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ir.OperationInfo, len(r.ops))
	copy(out, r.ops)
	return out
}

// Len returns the number of recorded records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// Reset discards all recorded records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
