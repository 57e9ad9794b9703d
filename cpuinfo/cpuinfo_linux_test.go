package cpuinfo

import (
	"os"
	"testing"
)

func TestParseThreadList(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"0-7", 8},
		{"0", 1},
		{"0-8,18-26", 18},
		{"0,2,4", 3},
		{"", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := parseThreadList(c.in); got != c.want {
			t.Fatalf("parseThreadList(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseThreadMap(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00000000,07fc01ff", 18},
		{"ff", 8},
		{"0", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := parseThreadMap(c.in); got != c.want {
			t.Fatalf("parseThreadMap(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestReadValueSuffixes(t *testing.T) {
	// readValue parses file contents; exercise the suffix logic via a
	// temp file
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := dir + "/" + name
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}
	if v := readValue(write("k", "32K\n")); v != 32<<10 {
		t.Fatalf("32K = %d", v)
	}
	if v := readValue(write("m", "1M\n")); v != 1<<20 {
		t.Fatalf("1M = %d", v)
	}
	if v := readValue(write("plain", "512\n")); v != 512 {
		t.Fatalf("512 = %d", v)
	}
	if v := readValue(dir + "/missing"); v != 0 {
		t.Fatalf("missing = %d", v)
	}
}

func TestProbeDefaultsSane(t *testing.T) {
	if MaxThreads() < 1 {
		t.Fatal("MaxThreads < 1")
	}
	if ThreadsPerCore() < 1 {
		t.Fatal("ThreadsPerCore < 1")
	}
	if L1CacheSize() < 1<<12 {
		t.Fatalf("L1CacheSize = %d", L1CacheSize())
	}
	if HasPrivateL2Cache() && !HasL2Cache() {
		t.Fatal("private L2 without L2")
	}
}
