// ════════════════════════════════════════════════════════════════════════════
// PARALLEL DISPATCHER (tier I)
// ════════════════════════════════════════════════════════════════════════════
//
// Splits [start, stop] into contiguous per-worker sub-intervals cut at
// segment-span multiples. Every worker owns a full private session —
// generator, crossers, buckets, counts — so nothing mutable is shared
// on the hot path; the only cross-worker traffic is the atomic
// progress counter and the abort flag, both polled at segment
// boundaries. Counts merge by summation, making results independent
// of the worker count.
//
// Print and callback runs stay single-threaded: emission order is part
// of their contract and workers finish out of order.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"sync"
	"time"

	"main/constants"
	"main/control"
	"main/cpuinfo"
	"main/utils"
)

type ParallelSieve struct {
	PrimeSieve
	numThreads int // 0 = hardware thread count
}

// NewParallelSieve returns a dispatcher with hardware threading and
// the cache-derived segment size.
func NewParallelSieve() *ParallelSieve {
	return &ParallelSieve{PrimeSieve: *NewPrimeSieve()}
}

// SetNumThreads clamps n to [1, hardware threads]. Zero restores the
// hardware default; negative is rejected.
func (ps *ParallelSieve) SetNumThreads(n int) error {
	if n < 0 {
		return ErrInvalidThreadCount
	}
	if n != 0 {
		n = utils.InBetween(1, n, maxThreads())
	}
	ps.numThreads = n
	return nil
}

// NumThreads returns the resolved worker count.
func (ps *ParallelSieve) NumThreads() int {
	if ps.numThreads != 0 {
		return ps.numThreads
	}
	return maxThreads()
}

func maxThreads() int {
	return utils.InBetween(1, cpuinfo.MaxThreads(), constants.MaxThreadsCap)
}

// idealThreads shrinks the worker count for short intervals so every
// worker keeps at least MinThreadDistance numbers to chew on.
func (ps *ParallelSieve) idealThreads(start, stop uint64) int {
	threads := ps.NumThreads()
	dist := stop - start
	if limit := dist/constants.MinThreadDistance + 1; uint64(threads) > limit {
		threads = int(limit)
	}
	return threads
}

// Sieve processes [start, stop] under flags across the configured
// workers and merges their counts. Ordered output (print, callback)
// forces a single worker.
func (ps *ParallelSieve) Sieve(start, stop uint64, flags Flags) error {
	if start > stop ||
		start >= constants.MaxStop || stop >= constants.MaxStop {
		return ErrOutOfRange
	}
	threads := ps.idealThreads(start, stop)
	if flags&(printMask|CallbackPrimes) != 0 {
		threads = 1
	}
	if threads <= 1 {
		return ps.PrimeSieve.Sieve(start, stop, flags)
	}

	t0 := time.Now()
	control.ResetAbort()
	control.ResetProgress()
	total := stop - start + 1
	ps.counts = [7]uint64{}

	// per-worker chunk, rounded up to the segment span; every cut
	// then retreats to a value ≡ 1 (mod 30), the top of a bitmap
	// byte, so no k-constellation can straddle two workers
	span := ps.sieveSize * constants.NumbersPerByte
	chunk := (stop - start) / uint64(threads)
	chunk = (chunk/span + 1) * span

	type job struct{ lo, hi uint64 }
	jobs := make([]job, 0, threads+1)
	for lo := start; ; {
		hi := stop
		if stop-lo >= chunk {
			hi = lo + chunk - 1
			hi -= (hi - 1) % 30
		}
		jobs = append(jobs, job{lo, hi})
		if hi == stop {
			break
		}
		lo = hi + 1
	}

	type worker struct {
		sieve PrimeSieve
		err   error
	}
	workers := make([]worker, len(jobs))
	var wg sync.WaitGroup
	for i := range workers {
		w := &workers[i]
		w.sieve.sieveSize = ps.sieveSize
		w.sieve.status = ps.status
		w.sieve.setShared(total)
		wg.Add(1)
		go func(w *worker, j job) {
			defer wg.Done()
			w.err = w.sieve.Sieve(j.lo, j.hi, flags)
		}(w, jobs[i])
	}
	wg.Wait()

	for i := range workers {
		if err := workers[i].err; err != nil {
			return err
		}
	}
	for i := range workers {
		for k := range ps.counts {
			ps.counts[k] += workers[i].sieve.counts[k]
		}
	}
	ps.seconds = time.Since(t0).Seconds()
	return nil
}

// CountPrimes is the one-call convenience for the most common query.
func (ps *ParallelSieve) CountPrimes(start, stop uint64) (uint64, error) {
	if err := ps.Sieve(start, stop, CountPrimes); err != nil {
		return 0, err
	}
	return ps.counts[0], nil
}
