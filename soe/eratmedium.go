// eratmedium.go — medium-prime crosser (tier D)
//
// Medium primes cross a segment at most a bounded handful of times, so
// the unrolled revolution of the small tier would never complete one
// iteration. Each descriptor runs the plain compute-clear-advance
// sequence off the shared wheel tables instead, with the identical
// carry-over of the offset into the next segment.

package soe

import "main/wheel"

// crossMedium clears every multiple of the medium-tier primes inside
// the current segment.
func (e *erat) crossMedium() {
	size := e.segBytes
	buf := e.buf
	for t := range e.medium {
		d := &e.medium[t]
		q := uint64(d.q)
		class := d.wheel >> 3
		j := d.wheel & 7
		idx := uint64(d.idx)
		tbl := &wheel.Table[class]
		for idx < size {
			s := tbl[j]
			buf[idx] &= s.UnsetBit
			idx += q*uint64(s.Factor) + uint64(s.Correct)
			j = s.Next
		}
		d.idx = uint32(idx - size)
		d.wheel = wheel.Position(class, j)
	}
}
