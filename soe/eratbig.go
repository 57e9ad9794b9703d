// ============================================================================
// BIG-PRIME BUCKET SCHEDULER (tier E)
// ============================================================================
//
// A big prime (p > 30*S) hits at most once every couple of segments;
// walking the whole descriptor vector per segment would dominate the
// runtime. Instead every descriptor lives in the bucket list of the
// segment holding its next multiple. Processing a segment drains its
// list: one bit clear per descriptor, then re-enqueue into the list of
// the segment the following multiple lands in.
//
// The lists form a power-of-two ring indexed by segment number. The
// ring must out-span the largest single advance: one wheel step of a
// prime p moves at most 6*(p/30)+6 bytes, so with p <= sqrt(stop) the
// ring size derives from sqrt(stop)/S. A descriptor therefore never
// laps the ring and never re-enters the list being drained.
//
// Buckets are fixed-capacity arrays recycled through a free list; the
// backing arena grows in chunks and is never returned until the sieve
// session ends. Descriptors pack the in-segment byte offset and the
// 6-bit wheel position into one word next to p/30.
//
// ============================================================================

package soe

import (
	"main/constants"
	"main/utils"
	"main/wheel"
)

const (
	// idxBits is the width of the in-segment offset field; segments
	// cap at 4 MiB = 2^22 bytes, leaving the top 6 bits of the packed
	// word for the wheel position.
	idxBits = 26
	idxMask = 1<<idxBits - 1
)

// bigPrime is one scheduled crossing: q = p/30, packed = byte offset
// inside the scheduled segment | wheel position << idxBits.
type bigPrime struct {
	q      uint32
	packed uint32
}

// bucket is a fixed-capacity slab of descriptors, chained per segment.
type bucket struct {
	next  *bucket
	n     int32
	items [constants.BucketCapacity]bigPrime
}

type eratBig struct {
	lists    []*bucket // ring of per-segment bucket chains
	ringMask uint64
	segBytes uint64
	log2Seg  uint
	free     *bucket // recycled empty buckets
}

// newEratBig sizes the ring from the largest possible single advance.
func newEratBig(segBytes uint64, log2Seg uint, sqrtStop uint64) *eratBig {
	maxDelta := 6*(sqrtStop/30) + 6
	ring := utils.CeilPow2(maxDelta/segBytes + 2)
	b := &eratBig{
		lists:    make([]*bucket, ring),
		ringMask: ring - 1,
		segBytes: segBytes,
		log2Seg:  log2Seg,
	}
	return b
}

// add schedules a new big prime whose next multiple lies at the global
// bitmap byte byteIdx.
func (b *eratBig) add(q uint32, byteIdx uint64, pos uint8) {
	seg := byteIdx >> b.log2Seg
	packed := uint32(byteIdx&(b.segBytes-1)) | uint32(pos)<<idxBits
	b.push(seg&b.ringMask, bigPrime{q: q, packed: packed})
}

// push appends a descriptor to a ring slot, pulling a fresh bucket
// from the pool when the head bucket is full.
//
//go:inline
func (b *eratBig) push(slot uint64, d bigPrime) {
	head := b.lists[slot]
	if head == nil || head.n == constants.BucketCapacity {
		head = b.getBucket()
		head.next = b.lists[slot]
		b.lists[slot] = head
	}
	head.items[head.n] = d
	head.n++
}

func (b *eratBig) getBucket() *bucket {
	if b.free == nil {
		// grow the arena by one chunk and thread it onto the
		// free list
		chunk := make([]bucket, constants.BucketPoolChunk)
		for i := range chunk {
			chunk[i].next = b.free
			b.free = &chunk[i]
		}
	}
	bk := b.free
	b.free = bk.next
	bk.next = nil
	bk.n = 0
	return bk
}

// crossSegment drains the bucket list of segment curSeg: every
// descriptor clears exactly one bit, then re-enqueues for the segment
// of its next multiple. Drained buckets return to the pool.
func (b *eratBig) crossSegment(buf []byte, curSeg uint64) {
	slot := curSeg & b.ringMask
	bk := b.lists[slot]
	b.lists[slot] = nil
	for bk != nil {
		items := bk.items[:bk.n]
		for t := range items {
			d := &items[t]
			idx := uint64(d.packed & idxMask)
			pos := uint8(d.packed >> idxBits)
			s := wheel.Table[pos>>3][pos&7]
			buf[idx] &= s.UnsetBit
			idx += uint64(d.q)*uint64(s.Factor) + uint64(s.Correct)
			// p > 30*S guarantees idx crossed at least one
			// segment boundary here
			jump := idx >> b.log2Seg
			packed := uint32(idx&(b.segBytes-1)) |
				uint32(wheel.Position(pos>>3, s.Next))<<idxBits
			b.push((curSeg+jump)&b.ringMask, bigPrime{q: d.q, packed: packed})
		}
		next := bk.next
		bk.next = b.free
		b.free = bk
		bk = next
	}
}
