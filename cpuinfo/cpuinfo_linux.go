// cpuinfo_linux.go — sysfs cache probing + affinity-aware thread count
//
// Reads the cpu0 cache hierarchy from sysfs the same way the kernel
// documents it (Documentation/cputopology.txt): levels from
// cache/index*/level, sizes with K/M/G suffixes, sharing from
// shared_cpu_list (falling back to the shared_cpu_map bitmap). The
// usable thread count honors the process affinity mask, so a sieve
// pinned into a cgroup slice does not oversubscribe itself.

package cpuinfo

import (
	"os"

	"golang.org/x/sys/unix"
)

const sysCPU = "/sys/devices/system/cpu"

func probe(c *info) {
	c.cpuThreads = affinityThreads()
	c.threadsPerCore = readThreads(
		sysCPU+"/cpu0/topology/thread_siblings_list",
		sysCPU+"/cpu0/topology/thread_siblings")

	// cpu0's cache indexes cover level 1..3; only Data/Unified slices
	// qualify (index0 may be the L1 instruction cache on some layouts).
	for i := 0; i <= 3; i++ {
		path := sysCPU + "/cpu0/cache/index" + string(rune('0'+i))
		level := readValue(path + "/level")
		if level < 1 || level > 3 {
			continue
		}
		typ := readString(path + "/type")
		if typ != "Data" && typ != "Unified" {
			continue
		}
		size := readValue(path + "/size")
		sharing := readThreads(path+"/shared_cpu_list", path+"/shared_cpu_map")
		switch level {
		case 1:
			c.l1CacheSize = size
		case 2:
			c.l2CacheSize = size
			c.l2Sharing = sharing
		}
	}
}

// affinityThreads counts the CPUs this process may run on. Falls back
// to the online CPU list when the affinity syscall is unavailable.
func affinityThreads() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return readThreads(sysCPU+"/online", "")
}

// readString returns the file content with all whitespace removed.
func readString(filename string) string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return ""
	}
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b > ' ' {
			out = append(out, b)
		}
	}
	return string(out)
}

// readValue parses a sysfs numeric file. The last character may be a
// 'K', 'M' or 'G' binary-unit suffix (cache size files use "32K").
func readValue(filename string) uint64 {
	s := readString(filename)
	if s == "" {
		return 0
	}
	var v uint64
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		v = v*10 + uint64(s[i]-'0')
	}
	if i == 0 {
		return 0
	}
	if i < len(s) {
		switch s[i] {
		case 'K':
			v <<= 10
		case 'M':
			v <<= 20
		case 'G':
			v <<= 30
		}
	}
	return v
}

// readThreads counts hardware threads named by a thread-list file
// ("0-8,18-26") or, failing that, set in a thread-map bitmap file
// ("00000000,07fc01ff").
func readThreads(listFile, mapFile string) int {
	if n := parseThreadList(readString(listFile)); n > 0 {
		return n
	}
	if mapFile == "" {
		return 0
	}
	return parseThreadMap(readString(mapFile))
}

func parseThreadList(s string) int {
	if s == "" {
		return 0
	}
	threads := 0
	lo, hi, inRange, have := 0, 0, false, false
	flush := func() {
		if !have {
			return
		}
		if inRange {
			threads += hi - lo + 1
		} else {
			threads++
		}
		lo, hi, inRange, have = 0, 0, false, false
	}
	cur := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			cur = cur*10 + int(c-'0')
			have = true
			if inRange {
				hi = cur
			} else {
				lo = cur
			}
		case c == '-':
			inRange = true
			cur = 0
		case c == ',':
			flush()
			cur = 0
		default:
			return 0
		}
	}
	flush()
	return threads
}

func parseThreadMap(s string) int {
	threads := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var nibble int
		switch {
		case c >= '0' && c <= '9':
			nibble = int(c - '0')
		case c >= 'a' && c <= 'f':
			nibble = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			nibble = int(c-'A') + 10
		default:
			continue
		}
		for ; nibble > 0; threads++ {
			nibble &= nibble - 1
		}
	}
	return threads
}
