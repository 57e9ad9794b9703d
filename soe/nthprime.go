// ════════════════════════════════════════════════════════════════════════════
// NTH-PRIME SEARCH (tier J)
// ════════════════════════════════════════════════════════════════════════════
//
// Finds the n-th prime after (n > 0) or before (n < 0) a reference
// point. Strides are sized from the prime-counting asymptotic: the
// average gap near x is ln x, so n primes span about n*ln(x + n*ln x).
// The stride carries a margin (constants.NthPrimeMarginFactor plus a
// flat floor); an undershoot merely costs another stride, an overshoot
// only widens the final window, so correctness never depends on the
// margin. Once the target is bracketed the window is bisected with
// parallel counts down to walking distance, then a single-threaded
// callback sieve lands on the exact prime.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"math"

	"main/constants"
)

// nthWalkDistance is the widest window handed to the final per-prime
// callback walk; anything wider keeps bisecting with counts first.
const nthWalkDistance = 1 << 24

// NthPrime returns the n-th prime > start for n > 0, or the |n|-th
// prime < start for n < 0. n must be non-zero.
func (ps *ParallelSieve) NthPrime(n int64, start uint64) (uint64, error) {
	if n == 0 {
		return 0, ErrNthPrimeZero
	}
	if start >= constants.MaxStop {
		return 0, ErrOutOfRange
	}
	if n > 0 {
		return ps.nthForward(uint64(n), start)
	}
	return ps.nthBackward(uint64(-n), start)
}

// searchDist estimates the span holding the next k primes above pos,
// margin included.
func searchDist(pos, k uint64) uint64 {
	x := float64(pos)
	if x < 10 {
		x = 10
	}
	gap := math.Log(x + float64(k)*math.Log(x))
	return uint64(float64(k)*gap*constants.NthPrimeMarginFactor) +
		constants.NthPrimeMarginFloor
}

// counter returns a fresh dispatcher sharing this one's configuration,
// so search counting neither clobbers ps.counts nor fights its flags.
func (ps *ParallelSieve) counter() *ParallelSieve {
	c := &ParallelSieve{numThreads: ps.numThreads}
	c.sieveSize = ps.sieveSize
	return c
}

func (ps *ParallelSieve) nthForward(n, start uint64) (uint64, error) {
	c := ps.counter()
	count := uint64(0)
	lo := start // target is strictly greater
	for {
		dist := searchDist(lo, n-count)
		hi := lo + dist
		if hi >= constants.MaxStop || hi < lo {
			hi = constants.MaxStop - 1
		}
		got, err := c.CountPrimes(lo+1, hi)
		if err != nil {
			return 0, err
		}
		if count+got < n {
			if hi == constants.MaxStop-1 {
				return 0, ErrNthPrimeOutOfRange
			}
			count += got
			lo = hi
			continue
		}
		return ps.walkForward(lo, hi, n-count)
	}
}

// walkForward pins down the remaining-th prime in (lo, hi]: bisect by
// counting until the window is walkable, then iterate.
func (ps *ParallelSieve) walkForward(lo, hi, remaining uint64) (uint64, error) {
	c := ps.counter()
	for hi-lo > nthWalkDistance {
		mid := lo + (hi-lo)/2
		got, err := c.CountPrimes(lo+1, mid)
		if err != nil {
			return 0, err
		}
		if got >= remaining {
			hi = mid
		} else {
			remaining -= got
			lo = mid
		}
	}
	var result uint64
	seen := uint64(0)
	walker := NewPrimeSieve()
	walker.sieveSize = ps.sieveSize
	walker.SetCallback(func(p uint64) {
		seen++
		if seen == remaining {
			result = p
		}
	})
	if err := walker.Sieve(lo+1, hi, CallbackPrimes); err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, ErrNthPrimeOutOfRange
	}
	return result, nil
}

func (ps *ParallelSieve) nthBackward(n, start uint64) (uint64, error) {
	c := ps.counter()
	count := uint64(0)
	hi := start // target is strictly smaller
	for {
		if hi <= 2 {
			return 0, ErrNthPrimeOutOfRange
		}
		dist := searchDist(hi, n-count)
		lo := uint64(0)
		if hi > dist {
			lo = hi - dist
		}
		got, err := c.CountPrimes(lo, hi-1)
		if err != nil {
			return 0, err
		}
		if count+got < n {
			if lo == 0 {
				return 0, ErrNthPrimeOutOfRange
			}
			count += got
			hi = lo
			continue
		}
		return ps.walkBackward(lo, hi, n-count)
	}
}

// walkBackward pins down the remaining-th prime below hi inside
// [lo, hi): bisect, then collect the final window and index it from
// the top.
func (ps *ParallelSieve) walkBackward(lo, hi, remaining uint64) (uint64, error) {
	c := ps.counter()
	for hi-lo > nthWalkDistance {
		mid := lo + (hi-lo)/2
		got, err := c.CountPrimes(mid, hi-1)
		if err != nil {
			return 0, err
		}
		if got >= remaining {
			lo = mid
		} else {
			remaining -= got
			hi = mid
		}
	}
	var window []uint64
	walker := NewPrimeSieve()
	walker.sieveSize = ps.sieveSize
	walker.SetCallback(func(p uint64) {
		window = append(window, p)
	})
	if err := walker.Sieve(lo, hi-1, CallbackPrimes); err != nil {
		return 0, err
	}
	if uint64(len(window)) < remaining {
		return 0, ErrNthPrimeOutOfRange
	}
	return window[uint64(len(window))-remaining], nil
}
