// ════════════════════════════════════════════════════════════════════════════
// FORWARD/BACKWARD PRIME ITERATOR (tier K)
// ════════════════════════════════════════════════════════════════════════════
//
// A restartable cursor over the primes. The iterator keeps the primes
// of one sieved window in a buffer and walks it by index; hitting
// either end sieves the adjacent window. Window spans grow x4 per
// refill up to a cap tied to sqrt(position) and an absolute ceiling
// that bounds the buffer to a few megabytes.
//
// Iteration is not thread-safe; each goroutine owns its iterator.
//
// ════════════════════════════════════════════════════════════════════════════

package soe

import (
	"main/constants"
	"main/utils"
)

type Iterator struct {
	primes []uint64
	i      int // index of the current prime within primes

	// low/high are the integer bounds of the sieved window the
	// buffer holds; [start+1, start] before the first fill
	low, high uint64

	dist     uint64 // next window span
	stopHint uint64

	sieve *PrimeSieve
}

// NewIterator returns an iterator positioned at 0: the first NextPrime
// yields 2.
func NewIterator() *Iterator {
	it := &Iterator{}
	_ = it.Skipto(0, constants.MaxStop-1)
	return it
}

// Skipto repositions the iterator at start: the next NextPrime yields
// the first prime > start, the next PrevPrime the last prime <= start.
// stopHint trims the first window when the caller knows where
// iteration will end; pass MaxStop-1 when unknown.
func (it *Iterator) Skipto(start, stopHint uint64) error {
	if start >= constants.MaxStop {
		return ErrOutOfRange
	}
	it.primes = it.primes[:0]
	it.i = -1
	it.low = start + 1
	it.high = start
	it.dist = constants.IteratorFirstDist
	it.stopHint = stopHint
	if it.sieve == nil {
		it.sieve = NewPrimeSieve()
		it.sieve.SetOutput(nil)
	}
	return nil
}

// NextPrime returns the next prime above the current position.
func (it *Iterator) NextPrime() (uint64, error) {
	if it.i+1 < len(it.primes) {
		it.i++
		return it.primes[it.i], nil
	}
	for {
		if err := it.fillForward(); err != nil {
			return 0, err
		}
		if len(it.primes) > 0 {
			it.i = 0
			return it.primes[0], nil
		}
	}
}

// PrevPrime returns the next prime below the current position, or 0
// when no smaller prime exists.
func (it *Iterator) PrevPrime() (uint64, error) {
	if it.i > 0 {
		it.i--
		return it.primes[it.i], nil
	}
	for {
		empty, err := it.fillBackward()
		if err != nil {
			return 0, err
		}
		if empty {
			return 0, nil
		}
		if len(it.primes) > 0 {
			it.i = len(it.primes) - 1
			return it.primes[it.i], nil
		}
	}
}

// fillForward sieves the window above the buffered one.
func (it *Iterator) fillForward() error {
	low := it.high + 1
	if low >= constants.MaxStop {
		return ErrOutOfRange
	}
	dist := it.nextDist(low)
	if it.stopHint >= low {
		// a credible hint trims the window; the gap margin keeps
		// the hinted prime inside it
		if hinted := it.stopHint - low + 1000; hinted < dist {
			dist = hinted
		}
	}
	high := low + dist
	if high >= constants.MaxStop || high < low {
		high = constants.MaxStop - 1
	}
	it.collect(low, high)
	it.low, it.high = low, high
	return nil
}

// fillBackward sieves the window below the buffered one. empty is true
// when the number line is exhausted downward.
func (it *Iterator) fillBackward() (empty bool, err error) {
	if it.low <= 2 {
		return true, nil
	}
	high := it.low - 1
	dist := it.nextDist(high)
	low := uint64(0)
	if high > dist {
		low = high - dist
	}
	it.collect(low, high)
	it.low, it.high = low, high
	return false, nil
}

// nextDist grows the window span geometrically under the caps.
func (it *Iterator) nextDist(pos uint64) uint64 {
	dist := it.dist
	cap64 := utils.ISqrt(pos) * constants.IteratorMaxDistFactor
	if cap64 < constants.IteratorFirstDist {
		cap64 = constants.IteratorFirstDist
	}
	if cap64 > constants.IteratorMaxDist {
		cap64 = constants.IteratorMaxDist
	}
	if dist > cap64 {
		dist = cap64
	}
	it.dist = minU64(dist<<constants.IteratorGrowthShift, cap64)
	return dist
}

// collect sieves [low, high] into the buffer.
func (it *Iterator) collect(low, high uint64) {
	it.primes = it.primes[:0]
	it.i = -1
	it.sieve.SetCallback(func(p uint64) {
		it.primes = append(it.primes, p)
	})
	// the range was validated by the caller; a sieve error here
	// would mean a bug, not bad input
	_ = it.sieve.Sieve(low, high, CallbackPrimes)
}
