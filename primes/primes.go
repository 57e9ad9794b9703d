// ═══════════════════════════════════════════════════════════════════════════
// PUBLIC SIEVE API
// ═══════════════════════════════════════════════════════════════════════════
//
// Thin stateless wrappers over soe.ParallelSieve. The two process-wide
// user settings — sieve size and thread count — live in atomic cells
// here and are applied to a fresh dispatcher per call, so concurrent
// callers never share mutable sieve state.
//
// ═══════════════════════════════════════════════════════════════════════════

package primes

import (
	"sync/atomic"

	"main/constants"
	"main/control"
	"main/cpuinfo"
	"main/soe"
	"main/utils"
)

// Version of the sieve engine.
const Version = "1.0.0"

// Re-exported so callers need only this package.
type Iterator = soe.Iterator

var (
	ErrOutOfRange         = soe.ErrOutOfRange
	ErrInvalidSieveSize   = soe.ErrInvalidSieveSize
	ErrInvalidThreadCount = soe.ErrInvalidThreadCount
	ErrNthPrimeOutOfRange = soe.ErrNthPrimeOutOfRange
	ErrAborted            = soe.ErrAborted
)

var (
	sieveSizeKiB atomic.Int32 // 0 = derive from CPU caches
	numThreads   atomic.Int32 // 0 = hardware thread count
)

// MaxStop returns the largest valid stop value.
func MaxStop() uint64 {
	return constants.MaxStop - 1
}

// SetSieveSize selects the segment size in KiB for subsequent calls.
// Requests outside [1, 8192] are rejected; accepted values clamp to
// [8, 4096] and round down to a power of two.
func SetSieveSize(kib int) error {
	if kib < constants.MinUserSieveKiB || kib > constants.MaxUserSieveKiB {
		return ErrInvalidSieveSize
	}
	kib = utils.InBetween(constants.MinSieveSize>>10, kib, constants.MaxSieveSize>>10)
	kib = int(utils.FloorPow2(uint64(kib)))
	sieveSizeKiB.Store(int32(kib))
	return nil
}

// SieveSize returns the segment size in KiB that the next call will
// use: the user selection, or the cache-derived default.
func SieveSize() int {
	if kib := sieveSizeKiB.Load(); kib != 0 {
		return int(kib)
	}
	return int(soe.DefaultSieveSize() >> 10)
}

// SetNumThreads selects the worker count for subsequent calls,
// clamped to [1, hardware threads]. Values < 1 clamp to 1.
func SetNumThreads(n int) {
	numThreads.Store(int32(utils.InBetween(1, n, cpuinfo.MaxThreads())))
}

// NumThreads returns the worker count the next call will use.
func NumThreads() int {
	if n := numThreads.Load(); n != 0 {
		return int(n)
	}
	return cpuinfo.MaxThreads()
}

// NewSieve returns a dispatcher configured with the process-wide
// defaults. Callers needing status callbacks, printing to a custom
// writer or per-call settings use this directly.
func NewSieve() *soe.ParallelSieve {
	ps := soe.NewParallelSieve()
	if kib := sieveSizeKiB.Load(); kib != 0 {
		_ = ps.SetSieveSize(int(kib))
	}
	if n := numThreads.Load(); n != 0 {
		_ = ps.SetNumThreads(int(n))
	}
	return ps
}

func count(start, stop uint64, k int) (uint64, error) {
	ps := NewSieve()
	if err := ps.Sieve(start, stop, soe.CountFlag(k)); err != nil {
		return 0, err
	}
	return ps.Count(k), nil
}

// CountPrimes returns the number of primes in [start, stop].
func CountPrimes(start, stop uint64) (uint64, error) {
	return count(start, stop, 0)
}

// CountTwins returns the number of twin-prime pairs fully inside
// [start, stop].
func CountTwins(start, stop uint64) (uint64, error) {
	return count(start, stop, 1)
}

// CountTriplets returns the number of prime triplets in [start, stop].
func CountTriplets(start, stop uint64) (uint64, error) {
	return count(start, stop, 2)
}

// CountQuadruplets returns the number of prime quadruplets in
// [start, stop].
func CountQuadruplets(start, stop uint64) (uint64, error) {
	return count(start, stop, 3)
}

// CountQuintuplets returns the number of prime quintuplets in
// [start, stop].
func CountQuintuplets(start, stop uint64) (uint64, error) {
	return count(start, stop, 4)
}

// CountSextuplets returns the number of prime sextuplets in
// [start, stop].
func CountSextuplets(start, stop uint64) (uint64, error) {
	return count(start, stop, 5)
}

// CountSeptuplets returns the number of prime septuplets in
// [start, stop].
func CountSeptuplets(start, stop uint64) (uint64, error) {
	return count(start, stop, 6)
}

// CountTuplets returns the number of prime k-tuplets in [start, stop]
// for k in 1..7 (k = 1 counts primes).
func CountTuplets(k int, start, stop uint64) (uint64, error) {
	if k < 1 || k > 7 {
		return 0, ErrOutOfRange
	}
	return count(start, stop, k-1)
}

func emit(start, stop uint64, k int) error {
	ps := NewSieve()
	return ps.Sieve(start, stop, soe.PrintFlag(k))
}

// PrintPrimes writes the primes in [start, stop] to stdout, one per
// line.
func PrintPrimes(start, stop uint64) error {
	return emit(start, stop, 0)
}

// PrintTwins writes the twin-prime pairs in [start, stop] to stdout as
// "(p1, p2)" lines.
func PrintTwins(start, stop uint64) error {
	return emit(start, stop, 1)
}

// PrintTriplets writes the prime triplets in [start, stop] to stdout.
func PrintTriplets(start, stop uint64) error {
	return emit(start, stop, 2)
}

// PrintQuadruplets writes the prime quadruplets in [start, stop].
func PrintQuadruplets(start, stop uint64) error {
	return emit(start, stop, 3)
}

// PrintQuintuplets writes the prime quintuplets in [start, stop].
func PrintQuintuplets(start, stop uint64) error {
	return emit(start, stop, 4)
}

// PrintSextuplets writes the prime sextuplets in [start, stop].
func PrintSextuplets(start, stop uint64) error {
	return emit(start, stop, 5)
}

// PrintSeptuplets writes the prime septuplets in [start, stop].
func PrintSeptuplets(start, stop uint64) error {
	return emit(start, stop, 6)
}

// PrintTuplets writes the prime k-tuplets in [start, stop] for k in
// 1..7 (k = 1 prints primes).
func PrintTuplets(k int, start, stop uint64) error {
	if k < 1 || k > 7 {
		return ErrOutOfRange
	}
	return emit(start, stop, k-1)
}

// NthPrime returns the n-th prime > start for n > 0, or the |n|-th
// prime < start for n < 0.
func NthPrime(n int64, start uint64) (uint64, error) {
	return NewSieve().NthPrime(n, start)
}

// NewIterator returns a forward/backward iterator positioned at 0.
func NewIterator() *Iterator {
	return soe.NewIterator()
}

// Abort requests cancellation of running sieve calls; they stop at
// their next segment boundary and return ErrAborted.
func Abort() {
	control.Abort()
}
