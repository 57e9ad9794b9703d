package utils

import (
	"math"
	"strconv"
	"testing"
)

// Shared Test Helpers
func expectU64(t *testing.T, got, want uint64) {
	t.Helper()
	if got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}

func parseOrFatal(t *testing.T, s string) uint64 {
	t.Helper()
	v, ok := ParseU64([]byte(s))
	if !ok {
		t.Fatalf("ParseU64(%q) failed", s)
	}
	return v
}

func TestUtoaMatchesStrconv(t *testing.T) {
	cases := []uint64{0, 1, 9, 10, 99, 12345, math.MaxUint64, math.MaxUint64 - 1, 1 << 63}
	for _, u := range cases {
		if got, want := Utoa(u), strconv.FormatUint(u, 10); got != want {
			t.Fatalf("Utoa(%d) = %q, want %q", u, got, want)
		}
	}
}

func TestItoaNegative(t *testing.T) {
	if got := Itoa(-12345); got != "-12345" {
		t.Fatalf("Itoa(-12345) = %q", got)
	}
	if got := Itoa(0); got != "0" {
		t.Fatalf("Itoa(0) = %q", got)
	}
}

func TestAppendU64Grows(t *testing.T) {
	b := AppendU64(nil, 7)
	b = append(b, ' ')
	b = AppendU64(b, 184467)
	if string(b) != "7 184467" {
		t.Fatalf("got %q", string(b))
	}
}

func TestParseU64Grammar(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"12345", 12345},
		{"1_000_000", 1000000},
		{"1e9", 1000000000},
		{"2E15", 2000000000000000},
		{"1e19", 10000000000000000000},
		{"4K", 4000},
		{"16M", 16000000},
		{"1G", 1000000000},
		{"1T", 1000000000000},
		{"18446744073709551615", math.MaxUint64},
	}
	for _, c := range cases {
		expectU64(t, parseOrFatal(t, c.in), c.want)
	}
}

func TestParseU64Rejects(t *testing.T) {
	bad := []string{
		"", "x", "-1", "1e20", "99e18", "18446744073709551616",
		"1KM", "e9", "_", "1.5", "10 ", "0x10",
	}
	for _, s := range bad {
		if v, ok := ParseU64([]byte(s)); ok {
			t.Fatalf("ParseU64(%q) accepted as %d", s, v)
		}
	}
}

func TestParseI64(t *testing.T) {
	v, ok := ParseI64([]byte("-12"))
	if !ok || v != -12 {
		t.Fatalf("ParseI64(-12) = %d, %v", v, ok)
	}
	v, ok = ParseI64([]byte("+1e6"))
	if !ok || v != 1000000 {
		t.Fatalf("ParseI64(+1e6) = %d, %v", v, ok)
	}
	if _, ok := ParseI64([]byte("9223372036854775808")); ok {
		t.Fatal("accepted int64 overflow")
	}
}

func TestISqrtExact(t *testing.T) {
	var two32 uint64 = 1 << 32
	cases := []uint64{0, 1, 2, 3, 4, 8, 9, 10, 1 << 32, math.MaxUint64,
		two32 * two32, 999999999999999999}
	for _, n := range cases {
		r := ISqrt(n)
		if r != 0 && r > n/r {
			t.Fatalf("ISqrt(%d) = %d too large", n, r)
		}
		if (r+1) != 0 && (r+1) <= n/(r+1) {
			t.Fatalf("ISqrt(%d) = %d too small", n, r)
		}
	}
	// perfect squares near the float64 precision edge
	for _, r := range []uint64{4294967295, 3037000499, 1 << 31} {
		expectU64(t, ISqrt(r*r), r)
		expectU64(t, ISqrt(r*r-1), r-1)
	}
}

func TestPow2Helpers(t *testing.T) {
	expectU64(t, FloorPow2(1), 1)
	expectU64(t, FloorPow2(3), 2)
	expectU64(t, FloorPow2(4096), 4096)
	expectU64(t, FloorPow2(4097), 4096)
	expectU64(t, CeilPow2(0), 1)
	expectU64(t, CeilPow2(1), 1)
	expectU64(t, CeilPow2(3), 4)
	expectU64(t, CeilPow2(4096), 4096)
}

func TestInBetween(t *testing.T) {
	if InBetween(1, 0, 8) != 1 || InBetween(1, 9, 8) != 8 || InBetween(1, 5, 8) != 5 {
		t.Fatal("InBetween clamp broken")
	}
}
