// eratsmall.go — small-prime crosser (tier C)
//
// Small primes hit a segment at least ten times, so the per-step table
// dispatch is worth amortizing: each prime is first aligned to wheel
// index 0, then a full wheel revolution (eight clears, byte stride
// exactly p) runs per loop iteration with the eight masks and offsets
// hoisted out, and a table-driven remainder finishes the segment.

package soe

import "main/wheel"

// crossSmall clears every multiple of the small-tier primes inside the
// current segment. On exit each descriptor's offset points into the
// next segment.
func (e *erat) crossSmall() {
	size := e.segBytes
	buf := e.buf
	for t := range e.small {
		d := &e.small[t]
		q := uint64(d.q)
		class := d.wheel >> 3
		j := d.wheel & 7
		idx := uint64(d.idx)
		tbl := &wheel.Table[class]

		// align to wheel index 0 so the revolution loop can use
		// fixed in-revolution offsets
		for j != 0 && idx < size {
			s := tbl[j]
			buf[idx] &= s.UnsetBit
			idx += q*uint64(s.Factor) + uint64(s.Correct)
			j = s.Next
		}

		if j == 0 && idx < size {
			// hoist the eight cumulative offsets; their sum is p
			var off [8]uint64
			acc := uint64(0)
			for s := 0; s < 8; s++ {
				off[s] = acc
				acc += q*uint64(tbl[s].Factor) + uint64(tbl[s].Correct)
			}
			p := acc
			for idx+off[7] < size {
				buf[idx] &= tbl[0].UnsetBit
				buf[idx+off[1]] &= tbl[1].UnsetBit
				buf[idx+off[2]] &= tbl[2].UnsetBit
				buf[idx+off[3]] &= tbl[3].UnsetBit
				buf[idx+off[4]] &= tbl[4].UnsetBit
				buf[idx+off[5]] &= tbl[5].UnsetBit
				buf[idx+off[6]] &= tbl[6].UnsetBit
				buf[idx+off[7]] &= tbl[7].UnsetBit
				idx += p
			}
			for idx < size {
				s := tbl[j]
				buf[idx] &= s.UnsetBit
				idx += q*uint64(s.Factor) + uint64(s.Correct)
				j = s.Next
			}
		}

		d.idx = uint32(idx - size)
		d.wheel = wheel.Position(class, j)
	}
}
