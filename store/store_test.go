package store

import (
	"testing"

	"github.com/sugawarayuuta/sonnet"
)

func openOrFatal(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordLookupRoundTrip(t *testing.T) {
	s := openOrFatal(t)
	if err := s.Record("primes", 0, 1000000000, 50847534, 1.25); err != nil {
		t.Fatalf("Record: %v", err)
	}
	v, ok, err := s.Lookup("primes", 0, 1000000000)
	if err != nil || !ok || v != 50847534 {
		t.Fatalf("Lookup: v=%d ok=%v err=%v", v, ok, err)
	}
}

func TestLookupMiss(t *testing.T) {
	s := openOrFatal(t)
	_, ok, err := s.Lookup("twins", 0, 100)
	if err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}
}

func TestRecordReplaces(t *testing.T) {
	s := openOrFatal(t)
	if err := s.Record("twins", 10, 20, 1, 0.1); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record("twins", 10, 20, 2, 0.2); err != nil {
		t.Fatalf("Record replace: %v", err)
	}
	v, ok, _ := s.Lookup("twins", 10, 20)
	if !ok || v != 2 {
		t.Fatalf("after replace: v=%d ok=%v", v, ok)
	}
}

func TestFullRangeBounds(t *testing.T) {
	// values near 2^64 exceed sqlite's signed integers; the decimal
	// text encoding must carry them unharmed
	s := openOrFatal(t)
	const start, stop = ^uint64(0) - 100, ^uint64(0) - 50
	if err := s.Record("septuplets", start, stop, ^uint64(0)-1, 0); err != nil {
		t.Fatalf("Record: %v", err)
	}
	v, ok, err := s.Lookup("septuplets", start, stop)
	if err != nil || !ok || v != ^uint64(0)-1 {
		t.Fatalf("Lookup: v=%d ok=%v err=%v", v, ok, err)
	}
}

func TestBadKind(t *testing.T) {
	s := openOrFatal(t)
	if err := s.Record("octuplets", 0, 1, 0, 0); err != ErrBadKind {
		t.Fatalf("Record bad kind: %v", err)
	}
	if _, _, err := s.Lookup("octuplets", 0, 1); err != ErrBadKind {
		t.Fatalf("Lookup bad kind: %v", err)
	}
}

func TestResultsListing(t *testing.T) {
	s := openOrFatal(t)
	for i, kind := range Kinds {
		if err := s.Record(kind, uint64(i), uint64(i)+100, uint64(i*7), 0.5); err != nil {
			t.Fatalf("Record %s: %v", kind, err)
		}
	}
	rows, err := s.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(rows) != len(Kinds) {
		t.Fatalf("rows = %d, want %d", len(rows), len(Kinds))
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	in := Result{Kind: "primes", Start: 7, Stop: ^uint64(0) - 50, Value: 42, Seconds: 0.5, Created: 1700000000}
	data, err := sonnet.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Result
	if err := sonnet.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip: %+v != %+v", out, in)
	}
}
