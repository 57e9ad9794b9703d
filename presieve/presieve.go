// ═══════════════════════════════════════════════════════════════════════════
// PRE-SIEVE CYCLE
// ═══════════════════════════════════════════════════════════════════════════
//
// Multiples of the primes 7..19 repeat with period 7*11*13*17*19 bytes
// on the mod-30 bitmap (the byte span 30 and each prime divide the
// cycle). Crossing them once into a static buffer turns per-segment
// work for the five densest sieving primes into a plain copy.
//
// Contract: after Copy, every bit whose integer is divisible by one of
// 7, 11, 13, 17, 19 is cleared; no coprime bit is cleared. The bits of
// the primes themselves are cleared too (they sit on multiple positions
// of the repeating cycle); the segment driver restores them on the
// bitmap's base segment.
//
// ═══════════════════════════════════════════════════════════════════════════

package presieve

import (
	"sync"

	"main/constants"
	"main/wheel"
)

var (
	once  sync.Once
	cycle []byte
)

// Limit returns the largest pre-sieved prime. Sieving primes at or
// below it must never be handed to the crossers.
//
//go:inline
func Limit() uint64 {
	return constants.PreSieveLimit
}

// build crosses the five cycle primes off a fresh all-set buffer by
// walking the wheel from m = 1, so the primes' own bits are cleared
// along with every composite multiple.
func build() {
	cycle = make([]byte, constants.PreSieveCycle)
	for i := range cycle {
		cycle[i] = 0xff
	}
	for _, p := range [5]uint64{7, 11, 13, 17, 19} {
		class := wheel.Class(p)
		q := p / 30
		idx := p / 30 // first multiple is p itself: byte p/30, factor 1
		j := uint8(0)
		for idx < uint64(len(cycle)) {
			e := wheel.Table[class][j]
			cycle[idx] &= e.UnsetBit
			idx += q*uint64(e.Factor) + uint64(e.Correct)
			j = e.Next
		}
	}
}

// Copy fills buf with the slice of the cycle aligned to low.
// low must be a multiple of 30; buf is overwritten entirely.
func Copy(buf []byte, low uint64) {
	once.Do(build)
	pos := int((low / 30) % uint64(len(cycle)))
	for filled := 0; filled < len(buf); {
		n := copy(buf[filled:], cycle[pos:])
		filled += n
		pos = 0
	}
}
