// ════════════════════════════════════════════════════════════════════════════════════════════════
// Prime Sieve - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Segmented Sieve of Eratosthenes Engine
// Component: Command-Line Front-End
//
// Description:
//   Argument parsing and query orchestration over the sieve engine.
//   Parse → Configure → Sieve → Report, with an optional sqlite result
//   cache short-circuiting repeated count queries.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"main/debug"
	"main/primes"
	"main/soe"
	"main/store"
	"main/utils"

	"github.com/sugawarayuuta/sonnet"
)

// query is the fully parsed command line.
type query struct {
	start, stop uint64
	numbers     int   // positional numbers seen
	kind        int   // counts index 0..6
	print       bool  // print instead of count
	nth         int64 // != 0: nth-prime mode
	sizeKiB     int   // 0 = auto
	threads     int   // 0 = auto
	quiet       bool
	json        bool
	status      bool
	dbPath      string
}

// result is the JSON report of one run.
type result struct {
	Kind    string  `json:"kind"`
	Start   uint64  `json:"start"`
	Stop    uint64  `json:"stop"`
	Nth     int64   `json:"nth,omitempty"`
	Value   uint64  `json:"value"`
	Seconds float64 `json:"seconds"`
	Threads int     `json:"threads"`
	SizeKiB int     `json:"sieve_size_kib"`
	Cached  bool    `json:"cached,omitempty"`
}

func main() {
	defer func() {
		// allocation failure surfaces as a runtime panic; every
		// other failure path exits through fail()
		if r := recover(); r != nil {
			debug.DropMessage("FATAL", "allocation failure or internal fault")
			os.Exit(2)
		}
	}()

	q := parseArgs(os.Args[1:])

	// PHASE 0: engine configuration
	if q.sizeKiB != 0 {
		if err := primes.SetSieveSize(q.sizeKiB); err != nil {
			fail(err.Error())
		}
	}
	if q.threads != 0 {
		primes.SetNumThreads(q.threads)
	}
	setupSignalHandling()

	// PHASE 1: consult the result cache
	var db *store.Store
	if q.dbPath != "" && !q.print && q.nth == 0 {
		var err error
		db, err = store.Open(q.dbPath)
		if err != nil {
			debug.DropError("STORE", err)
		} else {
			defer db.Close()
			if v, ok, err := db.Lookup(store.Kinds[q.kind], q.start, q.stop); err == nil && ok {
				if !q.quiet {
					debug.DropMessage("CACHE", "hit for "+store.Kinds[q.kind])
				}
				report(q, v, 0, true)
				return
			}
		}
	}

	// PHASE 2: sieve
	ps := primes.NewSieve()
	if q.status {
		ps.SetStatus(statusLine())
	}
	switch {
	case q.nth != 0:
		t0 := time.Now()
		v, err := ps.NthPrime(q.nth, q.start)
		if err != nil {
			fail(err.Error())
		}
		report(q, v, time.Since(t0).Seconds(), false)
	case q.print:
		if err := ps.Sieve(q.start, q.stop, soe.PrintFlag(q.kind)); err != nil {
			fail(err.Error())
		}
	default:
		if err := ps.Sieve(q.start, q.stop, soe.CountFlag(q.kind)); err != nil {
			fail(err.Error())
		}
		v := ps.Count(q.kind)
		if db != nil {
			if err := db.Record(store.Kinds[q.kind], q.start, q.stop, v, ps.Seconds()); err != nil {
				debug.DropError("STORE", err)
			}
		}
		report(q, v, ps.Seconds(), false)
	}
}

// report prints the run outcome in text or JSON form.
func report(q query, value uint64, seconds float64, cached bool) {
	if q.json {
		r := result{
			Kind:    store.Kinds[q.kind],
			Start:   q.start,
			Stop:    q.stop,
			Nth:     q.nth,
			Value:   value,
			Seconds: seconds,
			Threads: primes.NumThreads(),
			SizeKiB: primes.SieveSize(),
			Cached:  cached,
		}
		out, err := sonnet.Marshal(&r)
		if err != nil {
			fail(err.Error())
		}
		utils.PrintBytes(append(out, '\n'))
		return
	}
	if !q.quiet {
		if q.nth != 0 {
			utils.PrintString("nth prime: ")
		} else {
			utils.PrintString(store.Kinds[q.kind] + ": ")
		}
	}
	utils.PrintString(utils.Utoa(value) + "\n")
}

// statusLine returns a StatusFunc printing whole-percent progress to
// stderr; concurrent workers dedupe through the atomic last-percent.
func statusLine() func(processed, total uint64) {
	var last atomic.Int64
	return func(processed, total uint64) {
		if total == 0 {
			return
		}
		pct := int64(processed / (total/100 + 1))
		if pct > 100 {
			pct = 100
		}
		if prev := last.Load(); pct > prev && last.CompareAndSwap(prev, pct) {
			utils.PrintWarning("\r" + utils.Itoa(int(pct)) + "%")
		}
	}
}

// setupSignalHandling aborts the running sieve on the first SIGINT or
// SIGTERM; a second signal exits immediately.
func setupSignalHandling() {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		debug.DropMessage("SIGNAL", "aborting at next segment boundary")
		primes.Abort()
		<-ch
		os.Exit(1)
	}()
}

// ════════════════════════════════════════════════════════════════════════════
// ARGUMENT PARSING
// ════════════════════════════════════════════════════════════════════════════

func parseArgs(args []string) query {
	q := query{stop: primes.MaxStop()}
	for _, arg := range args {
		b := []byte(arg)
		switch {
		case arg == "-h" || arg == "--help":
			usage()
			os.Exit(0)
		case arg == "--version":
			utils.PrintString("primesieve " + primes.Version + "\n")
			os.Exit(0)
		case arg == "-q" || arg == "--quiet":
			q.quiet = true
		case arg == "--json":
			q.json = true
		case arg == "--status":
			q.status = true
		case hasPrefix(arg, "--db="):
			q.dbPath = arg[5:]
		case arg == "-c" || arg == "--count":
			q.kind = 0
		case hasPrefix(arg, "-c") && len(arg) == 3:
			q.kind = tupletKind(b[2])
		case hasPrefix(arg, "--count="):
			q.kind = tupletKind(b[len(b)-1])
		case arg == "-p" || arg == "--print":
			q.print = true
		case hasPrefix(arg, "-p") && len(arg) == 3:
			q.kind = tupletKind(b[2])
			q.print = true
		case hasPrefix(arg, "--print="):
			q.kind = tupletKind(b[len(b)-1])
			q.print = true
		case hasPrefix(arg, "-n=") || hasPrefix(arg, "--nth="):
			v, ok := utils.ParseI64(b[indexByte(b, '=')+1:])
			if !ok || v == 0 {
				fail("invalid nth-prime index: " + arg)
			}
			q.nth = v
		case hasPrefix(arg, "-s=") || hasPrefix(arg, "--size="):
			v, ok := utils.ParseU64(b[indexByte(b, '=')+1:])
			if !ok {
				fail("invalid sieve size: " + arg)
			}
			q.sizeKiB = int(v)
		case hasPrefix(arg, "-t=") || hasPrefix(arg, "--threads="):
			v, ok := utils.ParseU64(b[indexByte(b, '=')+1:])
			if !ok || v == 0 {
				fail("invalid thread count: " + arg)
			}
			q.threads = int(v)
		case len(arg) > 0 && arg[0] == '-':
			fail("unknown option: " + arg)
		default:
			v, ok := utils.ParseU64(b)
			if !ok {
				fail("invalid number: " + arg)
			}
			switch q.numbers {
			case 0:
				q.start, q.stop = 0, v
			case 1:
				q.start, q.stop = q.stop, v
			default:
				fail("too many numbers: " + arg)
			}
			q.numbers++
		}
	}
	if q.numbers == 0 && q.nth == 0 {
		usage()
		os.Exit(1)
	}
	if q.nth != 0 {
		// in nth mode the single positional number is the start
		q.start = q.stop
		if q.numbers == 0 {
			q.start = 0
		}
	}
	return q
}

// tupletKind maps an option digit '1'..'7' to a counts index.
func tupletKind(c byte) int {
	if c < '1' || c > '7' {
		fail("tuplet size must be 1..7")
	}
	return int(c - '1')
}

//go:inline
func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

//go:inline
func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func fail(msg string) {
	debug.DropMessage("ERROR", msg)
	os.Exit(1)
}

func usage() {
	utils.PrintString(`Usage: primesieve [START] STOP [options]
Count or print the primes and prime k-tuplets in [START, STOP].
Numbers accept 1e9 notation, K/M/G/T suffixes and '_' separators.

Options:
  -c, -cK, --count=K    count primes (K=1) or prime k-tuplets, K = 1..7
  -p, -pK, --print=K    print primes or prime k-tuplets, one per line
  -n=N,    --nth=N      print the N-th prime after START (N < 0: before)
  -s=SIZE, --size=SIZE  sieve size in KiB, clamped to [8, 4096]
  -t=N,    --threads=N  worker threads, clamped to [1, hardware]
  -q,      --quiet      print only the result value
           --json       report the result as JSON
           --db=PATH    cache count results in a sqlite database
           --status     progress percentage on stderr
           --version    print version and exit
  -h,      --help       this help
`)
}
