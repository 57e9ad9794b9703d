package soe

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/sha3"
)

// ════════════════════════════════════════════════════════════════════════════
// K-Tuplet Counting
// ════════════════════════════════════════════════════════════════════════════

// constellation offset patterns per counts index, mirroring the dense
// admissible patterns; used to build an independent reference count.
var refPatterns = [7][][]uint64{
	1: {{0, 2}},
	2: {{0, 2, 6}, {0, 4, 6}},
	3: {{0, 2, 6, 8}},
	4: {{0, 2, 6, 8, 12}, {0, 4, 6, 10, 12}},
	5: {{0, 4, 6, 10, 12, 16}},
	6: {{0, 2, 6, 8, 12, 18, 20}},
}

// refSpecials are the constellations containing 3 or 5 that the wheel
// cannot carry.
var refSpecials = [7][][]uint64{
	1: {{3, 5}, {5, 7}},
	2: {{5, 7, 11}},
	3: {{5, 7, 11, 13}},
	4: {{5, 7, 11, 13, 17}},
}

func countTupletsRef(k int, start, stop uint64) uint64 {
	n := uint64(0)
	for _, s := range refSpecials[k] {
		if start <= s[0] && s[len(s)-1] <= stop {
			n++
		}
	}
	lo := start
	if lo < 7 {
		lo = 7
	}
	for p := lo; p+20 >= p && p <= stop; p++ {
	patterns:
		for _, pat := range refPatterns[k] {
			if p+pat[len(pat)-1] > stop {
				continue
			}
			for _, off := range pat {
				if !isPrimeRef(p + off) {
					continue patterns
				}
			}
			n++
		}
	}
	return n
}

func tupletCount(t *testing.T, ps *ParallelSieve, k int, start, stop uint64) uint64 {
	t.Helper()
	if err := ps.Sieve(start, stop, CountFlag(k)); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	return ps.Count(k)
}

func TestTupletCountsAgainstReference(t *testing.T) {
	ps := newTestSieve(t, 1, 0)
	ranges := [][2]uint64{
		{0, 1000}, {0, 20000}, {3, 5}, {5, 17}, {100, 2000},
		{999000, 1001000},
	}
	for k := 1; k <= 6; k++ {
		for _, r := range ranges {
			got := tupletCount(t, ps, k, r[0], r[1])
			want := countTupletsRef(k, r[0], r[1])
			if got != want {
				t.Fatalf("k=%d [%d, %d]: got %d, want %d", k+1, r[0], r[1], got, want)
			}
		}
	}
}

func TestTwinsKnown(t *testing.T) {
	ps := newTestSieve(t, 1, 0)
	if got := tupletCount(t, ps, 1, 0, 1000000); got != 8169 {
		t.Fatalf("pi2(1e6) = %d, want 8169", got)
	}
}

func TestSextupletsContainFirst(t *testing.T) {
	// (7, 11, 13, 17, 19, 23) is the first sextuplet
	ps := newTestSieve(t, 1, 0)
	if got := tupletCount(t, ps, 5, 7, 23); got != 1 {
		t.Fatalf("sextuplet at 7: got %d", got)
	}
	if got := tupletCount(t, ps, 5, 8, 23); got != 0 {
		t.Fatalf("clipped sextuplet counted: %d", got)
	}
}

func TestTwinsBillion(t *testing.T) {
	if testing.Short() {
		t.Skip("long test")
	}
	ps := newTestSieve(t, 0, 0)
	if got := tupletCount(t, ps, 1, 0, 1000000000); got != 3424506 {
		t.Fatalf("pi2(1e9) = %d, want 3424506", got)
	}
}

func TestSextupletsHundredBillion(t *testing.T) {
	if testing.Short() {
		t.Skip("long test")
	}
	ps := newTestSieve(t, 0, 0)
	if got := tupletCount(t, ps, 5, 0, 100000000000); got != 1259 {
		t.Fatalf("pi6(1e11) = %d, want 1259", got)
	}
}

// ════════════════════════════════════════════════════════════════════════════
// Printing
// ════════════════════════════════════════════════════════════════════════════

func TestPrintPrimesFormat(t *testing.T) {
	ps := newTestSieve(t, 1, 0)
	var buf bytes.Buffer
	ps.SetOutput(&buf)
	if err := ps.Sieve(0, 100, PrintPrimes); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	want := "2\n3\n5\n7\n11\n13\n17\n19\n23\n29\n31\n37\n41\n43\n47\n53\n59\n61\n67\n71\n73\n79\n83\n89\n97\n"
	if buf.String() != want {
		t.Fatalf("print output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrintTwinsFormat(t *testing.T) {
	ps := newTestSieve(t, 1, 0)
	var buf bytes.Buffer
	ps.SetOutput(&buf)
	if err := ps.Sieve(0, 75, PrintTwins); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	want := "(3, 5)\n(5, 7)\n(11, 13)\n(17, 19)\n(29, 31)\n(41, 43)\n(59, 61)\n(71, 73)\n"
	if buf.String() != want {
		t.Fatalf("twin output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrintedStreamMatchesCallbackDigest(t *testing.T) {
	const stop = 200000
	ps := newTestSieve(t, 1, 0)
	var buf bytes.Buffer
	ps.SetOutput(&buf)
	if err := ps.Sieve(0, stop, PrintPrimes); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	printed := sha3.Sum256(buf.Bytes())

	var lines strings.Builder
	cb := newTestSieve(t, 1, 0)
	cb.SetCallback(func(p uint64) {
		lines.WriteString(strconv.FormatUint(p, 10))
		lines.WriteByte('\n')
	})
	if err := cb.Sieve(0, stop, CallbackPrimes); err != nil {
		t.Fatalf("Sieve: %v", err)
	}
	rebuilt := sha3.Sum256([]byte(lines.String()))

	if printed != rebuilt {
		t.Fatal("printed stream and callback stream digests differ")
	}
}
