// ════════════════════════════════════════════════════════════════════════════
// PRIME SIEVE SESSION (tier F orchestration)
// ════════════════════════════════════════════════════════════════════════════
//
// PrimeSieve is one single-threaded sieve session: range validation,
// the manual sub-7 specials, generator + finder wiring and the counts
// vector. ParallelSieve composes several of these; the iterator and
// the nth-prime search sit on top.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"io"
	"os"
	"time"

	"main/constants"
	"main/control"
	"main/cpuinfo"
	"main/utils"
)

// StatusFunc receives (processed, total) integer spans after every
// finished segment. In parallel runs it may be called from several
// workers concurrently; implementations must tolerate that.
type StatusFunc func(processed, total uint64)

type PrimeSieve struct {
	sieveSize uint64 // segment bytes, power of two
	out       io.Writer
	callback  func(uint64)
	status    StatusFunc
	counts    [7]uint64
	seconds   float64
	total     uint64 // span for status reporting; a parallel parent
	// overrides this with the full interval
}

// NewPrimeSieve returns a session with the cache-derived segment size
// and stdout printing.
func NewPrimeSieve() *PrimeSieve {
	return &PrimeSieve{
		sieveSize: DefaultSieveSize(),
		out:       os.Stdout,
	}
}

// DefaultSieveSize picks the segment size from the CPU cache shape:
// the private-L2 size when each core owns its L2 slice, the L1d size
// otherwise, both clamped to the valid window and floored to a power
// of two.
func DefaultSieveSize() uint64 {
	l1 := cpuinfo.L1CacheSize()
	l2 := cpuinfo.L2CacheSize()
	if cpuinfo.HasL2Cache() && cpuinfo.HasPrivateL2Cache() && l2 > l1 {
		return clampPow2(l2, 32<<10, constants.MaxSieveSize)
	}
	return clampPow2(l1, constants.MinSieveSize, constants.MaxSieveSize)
}

func clampPow2(v, lo, hi uint64) uint64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return utils.FloorPow2(v)
}

// SetSieveSize requests a segment size in KiB. Requests outside
// [1, 8192] are rejected; accepted values clamp to [8, 4096] KiB and
// round down to a power of two.
func (ps *PrimeSieve) SetSieveSize(kib int) error {
	if kib < constants.MinUserSieveKiB || kib > constants.MaxUserSieveKiB {
		return ErrInvalidSieveSize
	}
	kib = utils.InBetween(constants.MinSieveSize>>10, kib, constants.MaxSieveSize>>10)
	ps.sieveSize = utils.FloorPow2(uint64(kib)) << 10
	return nil
}

// SieveSize returns the segment size in KiB.
func (ps *PrimeSieve) SieveSize() int {
	return int(ps.sieveSize >> 10)
}

// SetOutput redirects the print flags' output (default os.Stdout).
func (ps *PrimeSieve) SetOutput(w io.Writer) {
	ps.out = w
}

// SetCallback installs the CallbackPrimes receiver. Primes arrive in
// strictly ascending order.
func (ps *PrimeSieve) SetCallback(fn func(uint64)) {
	ps.callback = fn
}

// SetStatus installs the per-segment progress callback.
func (ps *PrimeSieve) SetStatus(fn StatusFunc) {
	ps.status = fn
}

// Count returns counts vector entry k (0 primes .. 6 septuplets) of
// the last Sieve call.
func (ps *PrimeSieve) Count(k int) uint64 {
	return ps.counts[k]
}

// Counts returns the whole counts vector of the last Sieve call.
func (ps *PrimeSieve) Counts() [7]uint64 {
	return ps.counts
}

// Seconds returns the elapsed time of the last Sieve call.
func (ps *PrimeSieve) Seconds() float64 {
	return ps.seconds
}

// smallSpecial describes one manually emitted sub-wheel prime or
// tuplet: the wheel bitmap cannot carry 2, 3 or 5, so the tuplets
// containing them are listed here verbatim.
type smallSpecial struct {
	low, high uint64
	k         int
	text      string
}

var smallSpecials = [8]smallSpecial{
	{2, 2, 0, "2"},
	{3, 3, 0, "3"},
	{5, 5, 0, "5"},
	{3, 5, 1, "(3, 5)"},
	{5, 7, 1, "(5, 7)"},
	{5, 11, 2, "(5, 7, 11)"},
	{5, 13, 3, "(5, 7, 11, 13)"},
	{5, 17, 4, "(5, 7, 11, 13, 17)"},
}

// Sieve processes [start, stop] under flags, accumulating counts and
// driving the print/callback paths. It runs in the calling goroutine.
func (ps *PrimeSieve) Sieve(start, stop uint64, flags Flags) error {
	if start > stop ||
		start >= constants.MaxStop || stop >= constants.MaxStop {
		return ErrOutOfRange
	}
	if ps.callback == nil {
		flags &^= CallbackPrimes
	}
	t0 := time.Now()
	ps.counts = [7]uint64{}
	if ps.total == 0 {
		control.ResetAbort()
		control.ResetProgress()
		ps.total = stop - start + 1
		defer func() { ps.total = 0 }()
	}

	if start <= 5 {
		ps.doSmallSpecials(start, stop, flags)
	}
	if stop >= 7 {
		e := newErat(maxU64(start, 7), stop, ps.sieveSize)
		f := &finder{
			e:        e,
			gen:      newGenerator(e.sqrtStop),
			flags:    flags,
			counts:   &ps.counts,
			callback: ps.callback,
			status:   ps.status,
			out:      ps.out,
			next:     start,
			total:    ps.total,
		}
		if err := f.run(); err != nil {
			return err
		}
	} else {
		// nothing to sieve, but the span still counts as processed
		processed := control.AddProgress(stop - start + 1)
		if ps.status != nil {
			ps.status(processed, ps.total)
		}
	}
	ps.seconds = time.Since(t0).Seconds()
	return nil
}

// doSmallSpecials emits the primes 2, 3, 5 and their tuplets when the
// interval contains them entirely.
func (ps *PrimeSieve) doSmallSpecials(start, stop uint64, flags Flags) {
	for _, s := range smallSpecials {
		if start > s.low || stop < s.high {
			continue
		}
		if flags&CountFlag(s.k) != 0 {
			ps.counts[s.k]++
		}
		if flags&PrintFlag(s.k) != 0 && ps.out != nil {
			_, _ = ps.out.Write(append([]byte(s.text), '\n'))
		}
		if flags&CallbackPrimes != 0 && s.k == 0 && ps.callback != nil {
			ps.callback(s.low)
		}
	}
}

// setShared lets the parallel dispatcher hand its full-interval span
// to worker sessions so their status math lines up.
func (ps *PrimeSieve) setShared(total uint64) {
	ps.total = total
}

//go:inline
func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
