package wheel

import (
	"math/bits"
	"testing"
)

var testPrimes = []uint64{7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 149, 211, 499}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func TestTableInvariants(t *testing.T) {
	for i := 0; i < 8; i++ {
		factorSum, correctSum := 0, 0
		var cleared uint8
		for j := 0; j < 8; j++ {
			e := Table[i][j]
			factorSum += int(e.Factor)
			correctSum += int(e.Correct)
			cleared |= ^e.UnsetBit
			if e.Next != uint8((j+1)%8) {
				t.Fatalf("class %d index %d: next = %d", i, j, e.Next)
			}
		}
		// one wheel revolution advances the factor by 30 and the
		// byte offset by exactly p = 30*(p/30) + residue
		if factorSum != 30 {
			t.Fatalf("class %d: factor sum = %d", i, factorSum)
		}
		if correctSum != int(Residue(uint8(i))) {
			t.Fatalf("class %d: correct sum = %d, want %d", i, correctSum, Residue(uint8(i)))
		}
		if cleared != 0xff {
			t.Fatalf("class %d: cleared bits %08b", i, cleared)
		}
		for j := 0; j < 8; j++ {
			if bits.OnesCount8(^Table[i][j].UnsetBit) != 1 {
				t.Fatalf("class %d index %d: mask clears multiple bits", i, j)
			}
		}
	}
}

// bitPos returns (byte, bit) of a number coprime to 30 over a bitmap
// based at base.
func bitPos(t *testing.T, n, base uint64) (uint64, int) {
	t.Helper()
	v := n % 30
	if v == 1 {
		v = 31
	}
	for b, bv := range BitValues {
		if uint64(bv) == v {
			return (n - v - base) / 30, b
		}
	}
	t.Fatalf("%d not coprime to 30", n)
	return 0, 0
}

// TestCrossingWalk drives the wheel state machine for each test prime
// and checks that the visited (byte, bit) positions are exactly the
// coprime-to-30 multiples of p in range.
func TestCrossingWalk(t *testing.T) {
	const base, low, stop = 0, 7, 50000
	for _, p := range testPrimes {
		want := map[uint64]bool{}
		for m := uint64(1); m*p <= stop; m++ {
			n := m * p
			if n < low || n < p*p || gcd(m, 30) != 1 {
				continue
			}
			byteIdx, bit := bitPos(t, n, base)
			want[byteIdx*8+uint64(bit)] = true
		}

		got := map[uint64]bool{}
		byteIdx, pos, ok := FirstMultiple(p, low, stop, base)
		if !ok {
			if len(want) != 0 {
				t.Fatalf("p=%d: FirstMultiple retired a live prime", p)
			}
			continue
		}
		class, j := pos>>3, pos&7
		q := p / 30
		// walk until the position leaves the range
		for {
			e := Table[class][j]
			bit := bits.TrailingZeros8(^e.UnsetBit)
			val := base + byteIdx*30 + uint64(BitValues[bit])
			if val > stop {
				break
			}
			got[byteIdx*8+uint64(bit)] = true
			byteIdx += q*uint64(e.Factor) + uint64(e.Correct)
			j = e.Next
		}

		if len(got) != len(want) {
			t.Fatalf("p=%d: crossed %d positions, want %d", p, len(got), len(want))
		}
		for key := range want {
			if !got[key] {
				t.Fatalf("p=%d: position %d not crossed", p, key)
			}
		}
	}
}

// TestFirstMultipleMidRange starts crossing in the middle of the
// number line, where the first multiple of the primes below 101 is not
// p*p. stop lies above 499^2, so no test prime is retired.
func TestFirstMultipleMidRange(t *testing.T) {
	const start, stop = 10007, 300000
	base := uint64(start - start%30)
	for _, p := range testPrimes {
		byteIdx, pos, ok := FirstMultiple(p, start, stop, base)
		if !ok {
			t.Fatalf("p=%d: retired", p)
		}
		e := Table[pos>>3][pos&7]
		bit := bits.TrailingZeros8(^e.UnsetBit)
		val := base + byteIdx*30 + uint64(BitValues[bit])
		if val%p != 0 {
			t.Fatalf("p=%d: first multiple %d not a multiple", p, val)
		}
		if val < start || val < p*p {
			t.Fatalf("p=%d: first multiple %d below range", p, val)
		}
		// no coprime multiple of p may lie between the range start
		// and the reported first multiple
		for n := val - p; n >= start && n >= p*p && n >= p; n -= p {
			if gcd(n/p, 30) == 1 {
				t.Fatalf("p=%d: skipped multiple %d < %d", p, n, val)
			}
		}
	}
}

func TestFirstMultipleRetires(t *testing.T) {
	// 499^2 = 249001 exceeds stop, and no smaller multiple is in range
	if _, _, ok := FirstMultiple(499, 0, 200000, 0); ok {
		t.Fatal("expected retirement for first multiple beyond stop")
	}
}

func TestClassRoundTrip(t *testing.T) {
	for i := uint8(0); i < 8; i++ {
		if Class(uint64(Residue(i))) != i {
			t.Fatalf("class %d round trip failed", i)
		}
	}
}
