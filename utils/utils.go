package utils

import (
	"math"
	"os"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

///////////////////////////////////////////////////////////////////////////////
// Direct-FD Printing — No fmt, No Buffering Layers
///////////////////////////////////////////////////////////////////////////////

// PrintString writes s to stdout (file descriptor 1) in a single write call.
//
//go:nosplit
//go:inline
func PrintString(s string) {
	_, _ = os.Stdout.WriteString(s)
}

// PrintBytes writes b to stdout without conversions or copies.
//
//go:nosplit
//go:inline
func PrintBytes(b []byte) {
	_, _ = os.Stdout.Write(b)
}

// PrintWarning writes s to stderr (file descriptor 2), bypassing stdout
// so diagnostics never interleave with the prime stream.
//
//go:nosplit
//go:inline
func PrintWarning(s string) {
	_, _ = os.Stderr.WriteString(s)
}

///////////////////////////////////////////////////////////////////////////////
// Decimal Formatters — Append-Style, Zero Intermediate Allocations
///////////////////////////////////////////////////////////////////////////////

// AppendU64 appends the ASCII decimal digits of u to dst and returns the
// extended slice. The hot print path calls this once per prime, so it
// formats into a stack scratch array and copies the final digits only.
//
//go:nosplit
//go:inline
func AppendU64(dst []byte, u uint64) []byte {
	var scratch [20]byte // max uint64 = 20 digits
	i := len(scratch)
	for u >= 10 {
		i--
		scratch[i] = byte('0' + u%10)
		u /= 10
	}
	i--
	scratch[i] = byte('0' + u)
	return append(dst, scratch[i:]...)
}

// Utoa converts a uint64 to its ASCII decimal representation.
func Utoa(u uint64) string {
	return string(AppendU64(nil, u))
}

// Itoa converts an int to its ASCII decimal representation.
// Negative values get a leading '-'.
func Itoa(v int) string {
	if v < 0 {
		return "-" + Utoa(uint64(-v))
	}
	return Utoa(uint64(v))
}

///////////////////////////////////////////////////////////////////////////////
// Decimal Parsers — CLI Number Grammar (Plain, 1e9, Suffixed)
///////////////////////////////////////////////////////////////////////////////

// ParseU64 parses b as an unsigned number using the CLI grammar:
//
//	12345            plain decimal (underscores ignored: 1_000_000)
//	1e9, 2E15        scientific with integral mantissa
//	4K, 16M, 1G, 1T, 1P  binary-free power-of-ten suffixes (10^3 .. 10^15)
//
// Returns (value, true) on success. Overflow or trailing garbage fails.
//
//go:nosplit
func ParseU64(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var u uint64
	i := 0
	digits := 0
	for ; i < len(b); i++ {
		c := b[i]
		if c == '_' {
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		if u > (^uint64(0)-uint64(c-'0'))/10 {
			return 0, false // overflow
		}
		u = u*10 + uint64(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if i == len(b) {
		return u, true
	}
	switch c := b[i] | 0x20; c {
	case 'e':
		// integral scientific notation: mantissa * 10^exp
		i++
		exp, ok := parseSmallUint(b[i:])
		if !ok {
			return 0, false
		}
		for ; exp > 0; exp-- {
			if u > ^uint64(0)/10 {
				return 0, false
			}
			u *= 10
		}
		return u, true
	case 'k', 'm', 'g', 't', 'p':
		if i != len(b)-1 {
			return 0, false
		}
		mult := uint64(1000)
		switch c {
		case 'm':
			mult = 1_000_000
		case 'g':
			mult = 1_000_000_000
		case 't':
			mult = 1_000_000_000_000
		case 'p':
			mult = 1_000_000_000_000_000
		}
		if u > ^uint64(0)/mult {
			return 0, false
		}
		return u * mult, true
	}
	return 0, false
}

// parseSmallUint parses a bare decimal exponent (<= 19 meaningful).
//
//go:nosplit
//go:inline
func parseSmallUint(b []byte) (int, bool) {
	if len(b) == 0 || len(b) > 2 {
		return 0, false
	}
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

// ParseI64 parses an optionally '-'-prefixed number with the ParseU64
// grammar. Used for the nth-prime CLI argument where n may be negative.
func ParseI64(b []byte) (int64, bool) {
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	u, ok := ParseU64(b)
	if !ok || u > 1<<63 {
		return 0, false
	}
	if neg {
		return -int64(u), true
	}
	if u == 1<<63 {
		return 0, false
	}
	return int64(u), true
}

///////////////////////////////////////////////////////////////////////////////
// Integer Math — Exact Square Roots & Power-of-2 Helpers
///////////////////////////////////////////////////////////////////////////////

// ISqrt returns floor(sqrt(n)) exactly for the full uint64 range.
// The float64 seed is within ±1 of the true root; the correction loop
// repairs the rounding without any 128-bit arithmetic.
//
//go:nosplit
func ISqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for (r+1) != 0 && (r+1) <= n/(r+1) {
		r++
	}
	return r
}

// FloorPow2 returns the largest power of two <= n (n >= 1).
//
//go:nosplit
//go:inline
func FloorPow2(n uint64) uint64 {
	for n&(n-1) != 0 {
		n &= n - 1
	}
	return n
}

// CeilPow2 returns the smallest power of two >= n.
//
//go:nosplit
//go:inline
func CeilPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// InBetween clamps v to [lo, hi].
//
//go:nosplit
//go:inline
func InBetween(lo, v, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned 64-bit word from a byte slice. The finder
// counts primes eight bitmap bytes at a time through this.
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}
