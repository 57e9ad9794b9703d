// ════════════════════════════════════════════════════════════════════════════
// RESULT STORE — SQLITE CACHE OF COMPLETED COUNT RUNS
// ════════════════════════════════════════════════════════════════════════════
//
// Counting a wide interval is expensive and exactly reproducible, so
// finished results are worth keeping. The store is a single sqlite
// table keyed by (kind, start, stop); the CLI consults it before
// sieving and records fresh results afterwards. Exact-match lookup
// only: no interval algebra, a near-miss range is recomputed.
//
// ════════════════════════════════════════════════════════════════════════════

package store

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kinds names the seven counts-vector entries for keying and display.
var Kinds = [7]string{
	"primes", "twins", "triplets", "quadruplets",
	"quintuplets", "sextuplets", "septuplets",
}

var ErrBadKind = errors.New("store: unknown count kind")

type Store struct {
	db *sql.DB
}

// Result is one cached row.
type Result struct {
	Kind    string  `json:"kind"`
	Start   uint64  `json:"start"`
	Stop    uint64  `json:"stop"`
	Value   uint64  `json:"value"`
	Seconds float64 `json:"seconds"`
	Created int64   `json:"created"`
}

// Open opens (creating if needed) a result store. Pass ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// start/stop exceed sqlite's signed integer range for the top of
	// the 64-bit domain, so bounds are stored as fixed-width decimal
	// text; exact-match lookups never compare them numerically
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS results (
		kind    TEXT NOT NULL,
		start   TEXT NOT NULL,
		stop    TEXT NOT NULL,
		value   TEXT NOT NULL,
		seconds REAL NOT NULL,
		created INTEGER NOT NULL,
		PRIMARY KEY (kind, start, stop)
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached count for (kind, start, stop) when one
// exists.
func (s *Store) Lookup(kind string, start, stop uint64) (value uint64, ok bool, err error) {
	if !validKind(kind) {
		return 0, false, ErrBadKind
	}
	var text string
	err = s.db.QueryRow(
		`SELECT value FROM results WHERE kind = ? AND start = ? AND stop = ?`,
		kind, dec(start), dec(stop)).Scan(&text)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return undec(text), true, nil
}

// Record upserts a completed count result.
func (s *Store) Record(kind string, start, stop, value uint64, seconds float64) error {
	if !validKind(kind) {
		return ErrBadKind
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO results (kind, start, stop, value, seconds, created)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		kind, dec(start), dec(stop), dec(value), seconds, time.Now().Unix())
	return err
}

// Results returns every cached row, newest first.
func (s *Store) Results() ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT kind, start, stop, value, seconds, created
		 FROM results ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		var start, stop, value string
		if err := rows.Scan(&r.Kind, &start, &stop, &value, &r.Seconds, &r.Created); err != nil {
			return nil, err
		}
		r.Start, r.Stop, r.Value = undec(start), undec(stop), undec(value)
		out = append(out, r)
	}
	return out, rows.Err()
}

func validKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// dec renders u as 20 zero-padded decimal digits so the TEXT primary
// key sorts numerically.
func dec(u uint64) string {
	var b [20]byte
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte('0' + u%10)
		u /= 10
	}
	return string(b[:])
}

func undec(s string) uint64 {
	var u uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		u = u*10 + uint64(c-'0')
	}
	return u
}
