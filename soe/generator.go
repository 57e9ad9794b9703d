// ════════════════════════════════════════════════════════════════════════════
// SIEVING-PRIME GENERATOR (tier G)
// ════════════════════════════════════════════════════════════════════════════
//
// The finder needs every prime p <= sqrt(stop), delivered no later
// than the first segment whose top reaches p*p. The generator is the
// same segmented sieve one level down: a fixed L1-sized sub-sieve over
// [7, sqrt(stop)] whose primes land in a buffer drained on demand.
// With a 32 KiB segment its sieving primes never exceed the small
// tier, so the sub-sieve carries no bucket scheduler.
//
// The recursion grounds out in a bootstrap bit sieve over the odd
// numbers up to sqrt(sqrt(stop)) <= 2^16.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"math/bits"

	"main/constants"
	"main/wheel"
)

type generator struct {
	e    *erat
	buf  []uint32 // primes of the last scanned sub-segment
	pos  int      // next undelivered buffer index
	done bool     // sub-sieve exhausted
}

// newGenerator builds the sub-sieve for primes in [7, sqrtStop].
// Returns nil when no sieving primes exist (sqrtStop < 7).
func newGenerator(sqrtStop uint64) *generator {
	if sqrtStop < 7 {
		return nil
	}
	g := &generator{
		e: newErat(7, sqrtStop, constants.GeneratorSieveSize),
	}
	// bootstrap: the sub-sieve's own sieving primes come from a
	// straightforward odd-number bit sieve (the classifier drops
	// the ones the pre-sieve already covers)
	for _, p := range tinyPrimes(isqrt32(sqrtStop)) {
		g.e.addSievingPrime(uint64(p))
	}
	return g
}

// produce delivers every not-yet-delivered prime p <= limit to emit,
// in ascending order. The caller raises limit monotonically (the
// sqrt of each successive segment top).
func (g *generator) produce(limit uint64, emit func(uint64)) {
	for {
		for g.pos < len(g.buf) {
			p := uint64(g.buf[g.pos])
			if p > limit {
				return
			}
			g.pos++
			emit(p)
		}
		if g.done {
			return
		}
		g.scanSubSegment()
	}
}

// scanSubSegment sieves the next sub-segment and collects its primes
// into the delivery buffer.
func (g *generator) scanSubSegment() {
	e := g.e
	e.crossSegment()
	e.maskEnds()
	g.buf = g.buf[:0]
	g.pos = 0
	low := e.low()
	for k, b := range e.buf8() {
		for b != 0 {
			bit := bits.TrailingZeros8(b)
			g.buf = append(g.buf, uint32(low+uint64(k)*30+uint64(wheel.BitValues[bit])))
			b &= b - 1
		}
	}
	if e.finished() {
		g.done = true
		return
	}
	e.nextSegment()
}

// buf8 exposes the sub-sieve bitmap for scanning.
//
//go:inline
func (e *erat) buf8() []byte {
	return e.buf
}

// ════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP SIEVE
// ════════════════════════════════════════════════════════════════════════════

// tinyPrimes returns the odd primes in [3, limit] from a classic
// packed odd-number sieve. limit <= 2^16, so the bitmap is at most
// 4 KiB and the whole bootstrap is microseconds.
func tinyPrimes(limit uint32) []uint32 {
	if limit < 3 {
		return nil
	}
	n := (limit - 1) / 2 // odd numbers 3, 5, ..., <= limit
	composite := make([]byte, n/8+1)
	for i := uint32(0); ; i++ {
		p := 2*i + 3
		if uint64(p)*uint64(p) > uint64(limit) {
			break
		}
		if composite[i/8]&(1<<(i%8)) != 0 {
			continue
		}
		// first composite is p*p = 2*(2i^2+6i+3)+3
		for j := 2*i*i + 6*i + 3; j < n; j += p {
			composite[j/8] |= 1 << (j % 8)
		}
	}
	primes := make([]uint32, 0, n/2)
	for i := uint32(0); i < n; i++ {
		if composite[i/8]&(1<<(i%8)) == 0 {
			primes = append(primes, 2*i+3)
		}
	}
	return primes
}

// isqrt32 is ISqrt narrowed to the bootstrap's 32-bit domain.
//
//go:inline
func isqrt32(n uint64) uint32 {
	r := uint64(0)
	for (r+1)*(r+1) <= n {
		r++
	}
	return uint32(r)
}
