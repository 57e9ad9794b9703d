// ════════════════════════════════════════════════════════════════════════════
// PRIME FINDER / K-TUPLET SCANNER (tier H)
// ════════════════════════════════════════════════════════════════════════════
//
// The finder owns the segment loop: it pulls sieving primes from the
// generator just in time, lets the crossers clear the segment, masks
// the interval ends, then harvests the surviving bits.
//
// Harvesting runs off the byte values alone. Primes are counted eight
// bytes per popcount; k-tuplets are counted through 256-entry tables
// derived from the constellation bitmasks. With the bit values
// {7,11,13,17,19,23,29,31} each constellation below falls inside a
// single byte, one mask per admissible alignment:
//
//	twins       (p, p+2)                      0x06 0x18 0xc0
//	triplets    (p, p+2|4, p+6)               0x07 0x0e 0x1c 0x38
//	quadruplets (p, p+2, p+6, p+8)            0x1e
//	quintuplets (p, .., p+12)                 0x1f 0x3e
//	sextuplets  (p, p+4, .., p+16)            0x3f
//	septuplets  (p, p+2, .., p+20)            0xfe
//
// Only these in-byte alignments are counted and printed. The second
// septuplet pattern (p, p+2, p+8, p+12, p+14, p+18, p+20) starts at
// p ≡ 29 (mod 30) and spans two bytes; it is not counted or printed.
//
// End masking doubles as containment: a constellation leaking past
// start or stop loses a bit and stops matching its mask.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"io"
	"math/bits"

	"main/control"
	"main/utils"
	"main/wheel"
)

// ════════════════════════════════════════════════════════════════════════════
// FLAGS
// ════════════════════════════════════════════════════════════════════════════

// Flags select what the sieve does with each surviving bit.
type Flags uint32

const (
	CountPrimes Flags = 1 << iota
	CountTwins
	CountTriplets
	CountQuadruplets
	CountQuintuplets
	CountSextuplets
	CountSeptuplets
	PrintPrimes
	PrintTwins
	PrintTriplets
	PrintQuadruplets
	PrintQuintuplets
	PrintSextuplets
	PrintSeptuplets
	CallbackPrimes
)

const (
	countMask Flags = CountPrimes | CountTwins | CountTriplets |
		CountQuadruplets | CountQuintuplets | CountSextuplets | CountSeptuplets
	printMask Flags = PrintPrimes | PrintTwins | PrintTriplets |
		PrintQuadruplets | PrintQuintuplets | PrintSextuplets | PrintSeptuplets
)

// CountFlag returns the count flag for counts index k
// (0 primes, 1 twins, .., 6 septuplets).
//
//go:inline
func CountFlag(k int) Flags {
	return CountPrimes << k
}

// PrintFlag returns the print flag for counts index k.
//
//go:inline
func PrintFlag(k int) Flags {
	return PrintPrimes << k
}

// ════════════════════════════════════════════════════════════════════════════
// CONSTELLATION TABLES
// ════════════════════════════════════════════════════════════════════════════

// tupletMasks[k] lists the in-byte bitmasks of the (k+1)-constellation
// alignments, k = 1..6; for k = 6 only the single-byte septuplet
// pattern has a mask.
var tupletMasks = [7][]uint8{
	1: {0x06, 0x18, 0xc0},
	2: {0x07, 0x0e, 0x1c, 0x38},
	3: {0x1e},
	4: {0x1f, 0x3e},
	5: {0x3f},
	6: {0xfe},
}

// kCounts[k][v] is the number of (k+1)-constellations fully present in
// a byte of value v.
var kCounts [7][256]uint8

func init() {
	for k := 1; k <= 6; k++ {
		for v := 0; v < 256; v++ {
			n := uint8(0)
			for _, m := range tupletMasks[k] {
				if uint8(v)&m == m {
					n++
				}
			}
			kCounts[k][v] = n
		}
	}
}

// ════════════════════════════════════════════════════════════════════════════
// FINDER
// ════════════════════════════════════════════════════════════════════════════

type finder struct {
	e        *erat
	gen      *generator
	flags    Flags
	counts   *[7]uint64
	callback func(uint64)
	status   StatusFunc
	out      io.Writer
	line     []byte // per-segment print buffer, reused
	next     uint64 // lowest integer not yet reported to status
	total    uint64 // full span of the owning (possibly parallel) call
}

// run drives the segment loop to stop or abort.
func (f *finder) run() error {
	e := f.e
	for {
		if e.aborted() {
			return ErrAborted
		}
		limit := utils.ISqrt(minU64(e.high(), e.stop))
		if f.gen != nil {
			f.gen.produce(limit, e.addSievingPrime)
		}
		e.crossSegment()
		e.maskEnds()
		f.scan()
		f.progress()
		if e.finished() {
			return nil
		}
		e.nextSegment()
	}
}

// scan harvests the cleared bitmap of the current segment.
func (f *finder) scan() {
	buf := f.e.buf
	if f.flags&CountPrimes != 0 {
		f.counts[0] += popcount(buf)
	}
	for k := 1; k <= 6; k++ {
		if f.flags&CountFlag(k) == 0 {
			continue
		}
		table := &kCounts[k]
		n := uint64(0)
		for _, b := range buf {
			n += uint64(table[b])
		}
		f.counts[k] += n
	}
	if f.flags&(printMask|CallbackPrimes) != 0 {
		f.emit()
	}
}

// popcount counts the set bits of the bitmap, eight bytes at a time.
func popcount(buf []byte) uint64 {
	n := uint64(0)
	k := 0
	for ; k+8 <= len(buf); k += 8 {
		n += uint64(bits.OnesCount64(utils.Load64(buf[k:])))
	}
	for ; k < len(buf); k++ {
		n += uint64(bits.OnesCount8(buf[k]))
	}
	return n
}

// emit walks the segment byte-wise for the slow output paths: prime
// printing, tuplet printing and the per-prime callback.
func (f *finder) emit() {
	low := f.e.low()
	f.line = f.line[:0]
	for k, b := range f.e.buf {
		if b == 0 {
			continue
		}
		byteLow := low + uint64(k)*30
		if f.flags&(PrintPrimes|CallbackPrimes) != 0 {
			v := b
			for v != 0 {
				bit := bits.TrailingZeros8(v)
				p := byteLow + uint64(wheel.BitValues[bit])
				if f.flags&CallbackPrimes != 0 {
					f.callback(p)
				}
				if f.flags&PrintPrimes != 0 {
					f.line = utils.AppendU64(f.line, p)
					f.line = append(f.line, '\n')
				}
				v &= v - 1
			}
		}
		for k2 := 1; k2 <= 6; k2++ {
			if f.flags&PrintFlag(k2) == 0 {
				continue
			}
			for _, m := range tupletMasks[k2] {
				if b&m == m {
					f.line = appendTuplet(f.line, byteLow, m)
				}
			}
		}
	}
	if len(f.line) > 0 && f.out != nil {
		_, _ = f.out.Write(f.line)
	}
}

// appendTuplet formats "(p1, p2, .., pk)\n" for the constellation at
// mask m of the byte covering byteLow.
func appendTuplet(line []byte, byteLow uint64, m uint8) []byte {
	line = append(line, '(')
	first := true
	for v := m; v != 0; v &= v - 1 {
		bit := bits.TrailingZeros8(v)
		if !first {
			line = append(line, ',', ' ')
		}
		first = false
		line = utils.AppendU64(line, byteLow+uint64(wheel.BitValues[bit]))
	}
	return append(line, ')', '\n')
}

// progress advances the shared counter by the freshly processed span
// and fires the optional status callback.
func (f *finder) progress() {
	top := minU64(f.e.high(), f.e.stop)
	if top < f.next {
		return
	}
	processed := control.AddProgress(top - f.next + 1)
	f.next = top + 1
	if f.status != nil {
		f.status(processed, f.total)
	}
}

//go:inline
func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
