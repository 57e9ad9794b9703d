package presieve

import (
	"testing"

	"main/constants"
	"main/wheel"
)

// expectWindow checks the pre-sieve contract over one copied buffer:
// a bit is cleared iff its integer is divisible by a cycle prime.
func expectWindow(t *testing.T, low uint64, size int) {
	t.Helper()
	buf := make([]byte, size)
	Copy(buf, low)
	for k := 0; k < size; k++ {
		for b, bv := range wheel.BitValues {
			n := low + uint64(k)*30 + uint64(bv)
			divisible := n%7 == 0 || n%11 == 0 || n%13 == 0 || n%17 == 0 || n%19 == 0
			set := buf[k]&(1<<b) != 0
			if set == divisible {
				t.Fatalf("low=%d n=%d: bit set=%v divisible=%v", low, n, set, divisible)
			}
		}
	}
}

func TestCopyFromZero(t *testing.T) {
	expectWindow(t, 0, 4096)
}

func TestCopyUnalignedToCycle(t *testing.T) {
	// lows that land mid-cycle, including one beyond a full cycle
	lows := []uint64{30, 990, 255240 * 30, uint64(constants.PreSieveCycle)*30 + 600}
	for _, low := range lows {
		expectWindow(t, low, 2048)
	}
}

func TestCopyWrapsCycle(t *testing.T) {
	// a buffer larger than the remaining cycle tail must wrap
	low := uint64(constants.PreSieveCycle-100) * 30
	expectWindow(t, low, 8192)
}

func TestCopyHighRange(t *testing.T) {
	low := uint64(1_000_000_000_020) // multiple of 30
	expectWindow(t, low, 1024)
}

func TestLimit(t *testing.T) {
	if Limit() != 19 {
		t.Fatalf("Limit() = %d", Limit())
	}
}
