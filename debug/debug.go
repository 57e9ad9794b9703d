// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostic logging helper (fmt-free)
//
// Purpose:
//   - Logs infrequent error and progress paths with one string
//     concatenation and one write.
//   - Used only in cold paths: CLI phases, cache probe fallbacks,
//     allocation failures.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Writes to stderr so diagnostics never mix with the prime stream
//     on stdout.
//
// ⚠️ Never invoke inside segment crossing loops.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "main/utils"

// DropError logs error messages without fmt: one concatenation, one write.
// It writes directly to stderr, bypassing any buffering layers.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs debug messages without fmt: one concatenation, one write.
// Used for cold-path diagnostics: CLI phase transitions, cache probe
// results, result-store hits.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}
