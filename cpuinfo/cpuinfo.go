// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: cpuinfo.go — CPU cache & topology probe (portable core)
//
// Purpose:
//   - Feeds exactly two signals into the sieve core: the L1 data-cache
//     size and the L2 size/sharing, which select the segment size.
//   - Reports the usable hardware thread count for the dispatcher.
//
// Notes:
//   - Probing never fails into the engine: any field that cannot be read
//     stays zero and the accessors fall back to safe defaults
//     (32 KiB L1, L2 absent, runtime.NumCPU threads).
//   - All probing happens once, at package init, on the cold path.
// ─────────────────────────────────────────────────────────────────────────────

package cpuinfo

import (
	"runtime"

	"main/constants"
)

// ═══════════════════════════════════════════════════════════════════════════
// PROBED STATE
// ═══════════════════════════════════════════════════════════════════════════

// info holds the raw probe results. Zero values mean "unknown".
type info struct {
	l1CacheSize    uint64 // L1 data cache bytes
	l2CacheSize    uint64 // L2 cache bytes
	l2Sharing      int    // hw threads sharing one L2 slice
	threadsPerCore int    // SMT siblings per physical core
	cpuThreads     int    // usable hardware threads
}

var cpu info

func init() {
	probe(&cpu)
}

// ═══════════════════════════════════════════════════════════════════════════
// ACCESSORS (SAFE-DEFAULT CONTRACT)
// ═══════════════════════════════════════════════════════════════════════════

// L1CacheSize returns the L1 data-cache size in bytes, or the 32 KiB
// default when probing found nothing plausible.
func L1CacheSize() uint64 {
	if hasL1() {
		return cpu.l1CacheSize
	}
	return constants.DefaultL1Size
}

// HasL2Cache reports whether a plausible L2 cache size was probed.
func HasL2Cache() bool {
	return cpu.l2CacheSize >= 1<<12 && cpu.l2CacheSize <= 1<<40
}

// L2CacheSize returns the probed L2 size in bytes (0 when absent).
func L2CacheSize() uint64 {
	if HasL2Cache() {
		return cpu.l2CacheSize
	}
	return 0
}

// HasPrivateL2Cache reports whether each physical core owns its L2 slice.
// Shared L2 (sharing > SMT siblings) disqualifies L2-sized segments: the
// per-worker bitmaps would thrash a cache they do not own.
func HasPrivateL2Cache() bool {
	return HasL2Cache() &&
		cpu.l2Sharing >= 1 && cpu.l2Sharing <= 1<<20 &&
		cpu.threadsPerCore >= 1 &&
		cpu.l2Sharing <= cpu.threadsPerCore
}

// ThreadsPerCore returns the SMT sibling count (1 when unknown).
func ThreadsPerCore() int {
	if cpu.threadsPerCore >= 1 && cpu.threadsPerCore <= 1<<10 {
		return cpu.threadsPerCore
	}
	return 1
}

// MaxThreads returns the number of usable hardware threads.
func MaxThreads() int {
	if cpu.cpuThreads >= 1 && cpu.cpuThreads <= 1<<20 {
		return cpu.cpuThreads
	}
	return runtime.NumCPU()
}

func hasL1() bool {
	return cpu.l1CacheSize >= 1<<12 && cpu.l1CacheSize <= 1<<30
}
