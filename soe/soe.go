// ═══════════════════════════════════════════════════════════════════════════
// SEGMENTED SIEVE CORE
// ═══════════════════════════════════════════════════════════════════════════
//
// erat owns one segment bitmap and the three crossing tiers. Per
// segment it copies the pre-sieve cycle, then crosses off multiples of
// the small, medium and big sieving primes, in that order. The bitmap
// is mod-30 packed: byte k holds the eight coprime values
// base + 30k + {7, 11, 13, 17, 19, 23, 29, 31}, see package wheel.
//
// Tier thresholds (S = segment bytes, one byte spans 30 integers):
//   small  : p <= 3*S      — unrolled full-revolution loop, many hits
//   medium : p <= 30*S     — table-driven stepping, few hits
//   big    : p >  30*S     — bucket scheduler, at most one hit per
//                            several segments
//
// Segment numbering is global: segment s covers bitmap bytes
// [s*S, (s+1)*S). Descriptors of the small and medium tiers carry byte
// offsets relative to the current segment; big descriptors carry their
// offset inside their scheduled segment.
//
// ═══════════════════════════════════════════════════════════════════════════

package soe

import (
	"errors"
	"math/bits"

	"main/constants"
	"main/control"
	"main/presieve"
	"main/utils"
	"main/wheel"
)

// ════════════════════════════════════════════════════════════════════════════
// ERROR VALUES
// ════════════════════════════════════════════════════════════════════════════

var (
	ErrOutOfRange         = errors.New("soe: start and stop must be < 2^64 - 10*(2^32-1) and start <= stop")
	ErrInvalidSieveSize   = errors.New("soe: sieve size must be >= 1 and <= 8192 KiB")
	ErrInvalidThreadCount = errors.New("soe: thread count must be >= 0 (0 = hardware default)")
	ErrNthPrimeOutOfRange = errors.New("soe: nth prime search exceeds the maximum stop")
	ErrNthPrimeZero       = errors.New("soe: nth prime index must be != 0")
	ErrAborted            = errors.New("soe: sieving aborted")
)

// ════════════════════════════════════════════════════════════════════════════
// SIEVING-PRIME DESCRIPTORS
// ════════════════════════════════════════════════════════════════════════════

// smallPrime / mediumPrime descriptors: q = p/30, idx = byte offset of
// the next multiple relative to the current segment, wheel = packed
// residue class and wheel index (wheel.Position).
type smallPrime struct {
	q     uint32
	idx   uint32
	wheel uint8
}

type mediumPrime struct {
	q     uint32
	idx   uint32
	wheel uint8
}

// ════════════════════════════════════════════════════════════════════════════
// SEGMENT MACHINERY
// ════════════════════════════════════════════════════════════════════════════

type erat struct {
	base  uint64 // bitmap origin, multiple of 30
	start uint64 // lowest integer to report
	stop  uint64

	segBytes uint64 // segment size S (power of two)
	log2Seg  uint
	segOff   uint64 // byte offset of the current segment (multiple of S)
	buf      []byte

	small  []smallPrime
	medium []mediumPrime
	big    *eratBig

	smallLimit  uint64 // tier thresholds on p
	mediumLimit uint64
	sqrtStop    uint64
}

// newErat sets up the bitmap for reporting [start, stop], start >= 7.
// The base drops one byte below the 30-aligned start when start mod 30
// is 0 or 1: the numbers start and start+1 of those alignments live in
// the byte below (residue 1 is carried as 31 of the previous block).
func newErat(start, stop uint64, segBytes uint64) *erat {
	base := start - start%30
	if start%30 <= 1 {
		base -= 30
	}
	e := &erat{
		base:        base,
		start:       start,
		stop:        stop,
		segBytes:    segBytes,
		log2Seg:     uint(bits.TrailingZeros64(segBytes)),
		buf:         make([]byte, segBytes),
		smallLimit:  segBytes * constants.EratSmallFactor,
		mediumLimit: segBytes * 30,
		sqrtStop:    utils.ISqrt(stop),
	}
	return e
}

// low returns the first integer of the current segment's span.
//
//go:inline
func (e *erat) low() uint64 {
	return e.base + e.segOff*30
}

// high returns the highest integer representable by the current
// segment's bytes (bit 7 of the last byte).
//
//go:inline
func (e *erat) high() uint64 {
	return e.base + (e.segOff+e.segBytes)*30 + 1
}

// finished reports whether the current segment reaches stop.
//
//go:inline
func (e *erat) finished() bool {
	return e.high() >= e.stop
}

// nextSegment advances the window by one segment.
func (e *erat) nextSegment() {
	e.segOff += e.segBytes
}

// addSievingPrime classifies a freshly generated prime into its
// crossing tier. Primes at or below the pre-sieve limit are already
// baked into the segment initialization and are dropped here.
func (e *erat) addSievingPrime(p uint64) {
	if p <= presieve.Limit() {
		return
	}
	byteIdx, pos, ok := wheel.FirstMultiple(p, e.start, e.stop, e.base)
	if !ok {
		return // first multiple beyond stop: retired unborn
	}
	switch {
	case p <= e.smallLimit:
		e.small = append(e.small, smallPrime{
			q:     uint32(p / 30),
			idx:   uint32(byteIdx - e.segOff),
			wheel: pos,
		})
	case p <= e.mediumLimit:
		e.medium = append(e.medium, mediumPrime{
			q:     uint32(p / 30),
			idx:   uint32(byteIdx - e.segOff),
			wheel: pos,
		})
	default:
		if e.big == nil {
			e.big = newEratBig(e.segBytes, e.log2Seg, e.sqrtStop)
		}
		e.big.add(uint32(p/30), byteIdx, pos)
	}
}

// crossSegment produces the fully sieved bitmap for the current
// segment: pre-sieve copy, prime-bit restore on the base segment, then
// the three tiers. The order B, C, D, E is fixed; B must come first
// because it overwrites the whole buffer.
func (e *erat) crossSegment() {
	presieve.Copy(e.buf, e.low())
	if e.base == 0 && e.segOff == 0 {
		// the cycle clears the pre-sieved primes' own bits;
		// 7, 11, 13, 17, 19 all sit in byte 0
		e.buf[0] |= 0x1f
	}
	e.crossSmall()
	e.crossMedium()
	if e.big != nil {
		e.big.crossSegment(e.buf, e.segOff>>e.log2Seg)
	}
}

// maskEnds clears the bits outside [start, stop]: the sub-start front
// of the first segment and the beyond-stop tail of the last.
func (e *erat) maskEnds() {
	if e.segOff == 0 && e.start > e.base+7 {
		e.maskFront()
	}
	if e.high() > e.stop {
		e.maskBack()
	}
}

func (e *erat) maskFront() {
	low := e.low()
	for k := uint64(0); k < e.segBytes; k++ {
		byteLow := low + k*30
		if byteLow+7 >= e.start {
			return
		}
		for b, bv := range wheel.BitValues {
			if byteLow+uint64(bv) < e.start {
				e.buf[k] &^= 1 << b
			}
		}
	}
}

func (e *erat) maskBack() {
	low := e.low()
	for k := uint64(0); k < e.segBytes; k++ {
		byteLow := low + k*30
		if byteLow+7 > e.stop {
			for z := k; z < e.segBytes; z++ {
				e.buf[z] = 0
			}
			return
		}
		if byteLow+31 > e.stop {
			for b, bv := range wheel.BitValues {
				if byteLow+uint64(bv) > e.stop {
					e.buf[k] &^= 1 << b
				}
			}
		}
	}
}

// aborted polls the global cancellation flag. Checked once per segment
// only; the crossing loops never branch on it.
//
//go:inline
func (e *erat) aborted() bool {
	return control.Aborted()
}
