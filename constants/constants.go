// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global Sieve Tunables & Hard Limits
//
// Purpose:
//   - Defines process-wide constants for segment sizing, crosser tier
//     thresholds, bucket geometry and nth-prime search margins.
//
// Notes:
//   - Segment sizes are byte counts of the mod-30 bitmap: one byte covers
//     30 integers, so a 32 KiB segment spans 983040 numbers.
//   - All values must be compile-time resolvable.
//
// ⚠️ No runtime logic here.
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Range Limits ────────────────────────────────

const (
	// MaxStop is the highest admissible stop value. Above this the medium
	// and big crossers could overflow their 32-bit descriptor arithmetic
	// while advancing a multiple past the final segment.
	MaxStop = ^uint64(0) - 10*uint64(^uint32(0))
)

// ─────────────────────────── Segment Geometry ──────────────────────────────

const (
	// MinSieveSize / MaxSieveSize bound the segment bitmap in bytes after
	// clamping. Both are powers of two; the bucket ring arithmetic relies
	// on the segment size being a power of two.
	MinSieveSize = 8 << 10    // 8 KiB
	MaxSieveSize = 4096 << 10 // 4 MiB

	// MinUserSieveKiB / MaxUserSieveKiB bound the *requested* sieve size
	// in KiB before clamping. Requests outside this window are rejected,
	// requests inside are clamped to [8, 4096] KiB and floored to a
	// power of two.
	MinUserSieveKiB = 1
	MaxUserSieveKiB = 8192

	// DefaultL1Size is assumed when CPU cache probing yields nothing.
	DefaultL1Size = 32 << 10

	// GeneratorSieveSize is the fixed segment size of the sieving-prime
	// generator sub-sieve. L1-resident: the generator's working set must
	// stay cache-hot while the finder streams its own segments.
	GeneratorSieveSize = 32 << 10

	// NumbersPerByte is the span of one bitmap byte on the number line.
	NumbersPerByte = 30
)

// ──────────────────────────── Crosser Tiers ─────────────────────────────────

const (
	// EratSmallFactor selects the small tier: primes p with
	// p <= segmentBytes * EratSmallFactor are crossed off by the
	// unrolled full-revolution loop (>= 10 hits per segment).
	EratSmallFactor = 3
)

// ──────────────────────────── Bucket Scheduler ──────────────────────────────

const (
	// BucketCapacity is the number of big-prime descriptors per bucket.
	// 1024 descriptors * 8 bytes = 8 KiB.
	BucketCapacity = 1024

	// BucketPoolChunk is how many buckets one arena allocation carries.
	// Buckets recycle through a free list; the arena grows only when the
	// free list runs dry.
	BucketPoolChunk = 64
)

// ───────────────────────────── Pre-Sieve ────────────────────────────────────

const (
	// PreSieveLimit is the largest prime whose multiples are baked into
	// the pre-sieve cycle.
	PreSieveLimit = 19

	// PreSieveCycle is the cycle length in bytes: the product of the odd
	// primes 7..PreSieveLimit. The cycle repeats every PreSieveCycle*30
	// integers.
	PreSieveCycle = 7 * 11 * 13 * 17 * 19
)

// ──────────────────────────── Nth-Prime Search ──────────────────────────────

const (
	// NthPrimeMarginFactor scales the prime-counting density estimate of
	// the search stride. A stride that falls short of the target only
	// costs another counting pass; see DESIGN.md for the choice of 1.10.
	NthPrimeMarginFactor = 1.10

	// NthPrimeMarginFloor is the flat addend of the stride estimate so
	// tiny n still land inside the first window.
	NthPrimeMarginFloor = 10000
)

// ───────────────────────────── Iterator ─────────────────────────────────────

const (
	// IteratorFirstDist is the span of the first sieved window.
	IteratorFirstDist = 1 << 16

	// IteratorGrowthShift grows the window span x4 per refill until the
	// cap is reached.
	IteratorGrowthShift = 2

	// IteratorMaxDistFactor caps the window span at
	// sqrt(position) * IteratorMaxDistFactor.
	IteratorMaxDistFactor = 64

	// IteratorMaxDist is the absolute window-span ceiling; it bounds
	// the prime buffer to a few megabytes at any position.
	IteratorMaxDist = 1 << 24
)

// ───────────────────────────── Parallel Sieve ───────────────────────────────

const (
	// MinThreadDistance is the smallest per-worker sub-interval span.
	// Below this thread spawn overhead dominates the sieve time.
	MinThreadDistance = 10_000_000

	// MaxThreadsCap bounds the worker count regardless of hardware.
	MaxThreadsCap = 1024
)
