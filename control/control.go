// control.go — Global control flags and progress tracking for sieve workers
// ============================================================================
// SIEVE CONTROL ORCHESTRATION
// ============================================================================
//
// Control package provides lightweight global signaling infrastructure for
// coordinating cancellation and progress reporting across sieve workers.
//
// Architecture overview:
//   • Global abort flag for lock-free cross-worker cancellation
//   • Atomic progress counter updated once per segment per worker
//   • Zero-allocation flag access for segment-boundary polling
//
// Threading model:
//   • The caller (CLI signal handler, library user) raises Abort()
//   • Workers poll Aborted() at segment boundaries only — never inside
//     crossing loops — and exit cleanly with partial state discarded
//   • Progress is advisory: correctness never depends on it
//
// Safety guarantees:
//   • Race-free flag access with atomic memory ordering
//   • Deterministic shutdown behavior across all workers

package control

import "sync/atomic"

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	// abort signals cancellation: 1 = stop at the next segment boundary.
	abort atomic.Uint32

	// progressed counts numbers processed across all workers of the
	// current sieve call. Reset by the dispatcher before workers start.
	progressed atomic.Uint64
)

// ============================================================================
// CANCELLATION SIGNALING
// ============================================================================

// Abort requests cancellation of the running sieve. Workers observe the
// flag at their next segment boundary and terminate with partial state
// discarded.
//
//go:inline
func Abort() {
	abort.Store(1)
}

// ResetAbort clears the cancellation flag. Called by the dispatcher at
// the start of every public sieve call.
//
//go:inline
func ResetAbort() {
	abort.Store(0)
}

// Aborted reports whether cancellation has been requested.
//
//go:inline
func Aborted() bool {
	return abort.Load() != 0
}

// ============================================================================
// PROGRESS TRACKING (STATUS REPORTING)
// ============================================================================

// ResetProgress zeroes the shared progress counter.
//
//go:inline
func ResetProgress() {
	progressed.Store(0)
}

// AddProgress accumulates n processed numbers and returns the new total.
// Called once per finished segment per worker; the single atomic add is
// the only cross-worker write on the sieving path.
//
//go:inline
func AddProgress(n uint64) uint64 {
	return progressed.Add(n)
}

// Progress returns the numbers processed so far by the current call.
//
//go:inline
func Progress() uint64 {
	return progressed.Load()
}
