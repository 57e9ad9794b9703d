package primes

import (
	"testing"

	"main/constants"
)

func TestCountPrimesAPI(t *testing.T) {
	SetNumThreads(2)
	defer SetNumThreads(0)
	n, err := CountPrimes(0, 100)
	if err != nil || n != 25 {
		t.Fatalf("CountPrimes(0, 100) = %d, %v", n, err)
	}
	n, err = CountTwins(0, 100)
	if err != nil || n != 8 {
		t.Fatalf("CountTwins(0, 100) = %d, %v", n, err)
	}
}

func TestCountTupletsDispatch(t *testing.T) {
	// k = 1 is plain prime counting
	n, err := CountTuplets(1, 0, 1000)
	if err != nil || n != 168 {
		t.Fatalf("CountTuplets(1) = %d, %v", n, err)
	}
	if _, err := CountTuplets(0, 0, 10); err == nil {
		t.Fatal("k=0 accepted")
	}
	if _, err := CountTuplets(8, 0, 10); err == nil {
		t.Fatal("k=8 accepted")
	}
}

func TestSieveSizeAccessors(t *testing.T) {
	defer sieveSizeKiB.Store(0)
	if err := SetSieveSize(0); err != ErrInvalidSieveSize {
		t.Fatalf("size 0: %v", err)
	}
	if err := SetSieveSize(9000); err != ErrInvalidSieveSize {
		t.Fatalf("size 9000: %v", err)
	}
	if err := SetSieveSize(100); err != nil {
		t.Fatalf("size 100: %v", err)
	}
	if got := SieveSize(); got != 64 {
		t.Fatalf("SieveSize = %d, want 64", got)
	}
	if err := SetSieveSize(3); err != nil {
		t.Fatalf("size 3: %v", err)
	}
	if got := SieveSize(); got != 8 {
		t.Fatalf("SieveSize = %d, want 8", got)
	}
}

func TestThreadAccessors(t *testing.T) {
	defer numThreads.Store(0)
	SetNumThreads(-3)
	if NumThreads() != 1 {
		t.Fatalf("NumThreads after -3 = %d", NumThreads())
	}
	SetNumThreads(1 << 20)
	if NumThreads() < 1 {
		t.Fatal("NumThreads < 1")
	}
}

func TestMaxStop(t *testing.T) {
	if MaxStop() != constants.MaxStop-1 {
		t.Fatalf("MaxStop = %d", MaxStop())
	}
	if _, err := CountPrimes(0, MaxStop()+1); err != ErrOutOfRange {
		t.Fatalf("beyond MaxStop: %v", err)
	}
}

func TestNthPrimeAPI(t *testing.T) {
	p, err := NthPrime(6, 0)
	if err != nil || p != 13 {
		t.Fatalf("NthPrime(6, 0) = %d, %v", p, err)
	}
}

func TestIteratorAPI(t *testing.T) {
	it := NewIterator()
	p, err := it.NextPrime()
	if err != nil || p != 2 {
		t.Fatalf("first prime = %d, %v", p, err)
	}
}
