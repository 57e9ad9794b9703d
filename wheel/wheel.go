// ═══════════════════════════════════════════════════════════════════════════
// MOD-30 WHEEL TABLES
// ═══════════════════════════════════════════════════════════════════════════
//
// One bitmap byte covers 30 integers: bit b of byte k represents the
// number base + k*30 + BitValues[b]. The residue 1 of a block is carried
// as 31 of the previous block, so the eight bit values are
// {7, 11, 13, 17, 19, 23, 29, 31} and every integer coprime to 30 has
// exactly one (byte, bit) representation.
//
// Multiples of a sieving prime p that are coprime to 30 are p*m with
// m ≡ {1, 7, 11, 13, 17, 19, 23, 29} (mod 30). Walking m through that
// cycle advances the multiple's byte index by
//
//	delta = (p/30)*gap + correct
//
// where gap is the factor-residue step and correct repairs the
// sub-byte remainder. Both depend only on (p mod 30, m mod 30), so the
// whole crossing state machine compresses into an 8x8 table built once
// at package init. Entries are derived, not hand-typed: the derivation
// is forced by the identity n = base + 30*byte + bitValue and checked
// by the package tests against direct multiplication.
//
// ═══════════════════════════════════════════════════════════════════════════

package wheel

// BitValues maps bit number 0..7 to the residue carried by that bit.
var BitValues = [8]uint32{7, 11, 13, 17, 19, 23, 29, 31}

// factors is the ascending cycle of multiple-factor residues mod 30.
// Wheel index j means the current factor m ≡ factors[j] (mod 30).
var factors = [8]uint32{1, 7, 11, 13, 17, 19, 23, 29}

// gaps[j] is the factor increment from factors[j] to the next cycle
// position (wrapping 29 → 31).
var gaps = [8]uint32{6, 4, 2, 4, 2, 4, 6, 2}

// Entry drives one crossing step of the wheel state machine.
type Entry struct {
	UnsetBit uint8 // AND-mask clearing the bit of the current multiple
	Correct  uint8 // byte advance beyond gap*(p/30)
	Factor   uint8 // gap added to the multiple factor
	Next     uint8 // next wheel index 0..7
}

// Table[i][j] is the step for a prime of residue class i at wheel
// index j. i is the class of p mod 30, j the class of the current
// multiple factor mod 30.
var Table [8][8]Entry

// classOf maps a residue mod 30 to its class 0..7, or 0xff when the
// residue is not coprime to 30.
var classOf [30]uint8

// distToCoprime[r] is the smallest d >= 0 with gcd(r+d, 30) = 1.
var distToCoprime [30]uint8

func init() {
	for r := range classOf {
		classOf[r] = 0xff
	}
	for i, f := range factors {
		classOf[f] = uint8(i)
	}
	for r := 0; r < 30; r++ {
		d := 0
		for classOf[(r+d)%30] == 0xff {
			d++
		}
		distToCoprime[r] = uint8(d)
	}
	for i, r := range factors {
		for j, f := range factors {
			g := gaps[j]
			v := byteValue(r * f % 30)
			vNext := byteValue(r * factors[(j+1)%8] % 30)
			// byte advance of p*m for m += g, less the (p/30)*g
			// whole-byte part; exact by construction
			correct := (int(r*g) + int(v) - int(vNext)) / 30
			Table[i][j] = Entry{
				UnsetBit: ^uint8(1 << bitOf(v)),
				Correct:  uint8(correct),
				Factor:   uint8(g),
				Next:     uint8((j + 1) % 8),
			}
		}
	}
}

// byteValue maps a coprime residue to its in-byte value, folding the
// residue 1 onto the 31 of the previous block.
func byteValue(residue uint32) uint32 {
	if residue == 1 {
		return 31
	}
	return residue
}

// bitOf returns the bit number of an in-byte value 7..31.
func bitOf(v uint32) uint32 {
	for b, bv := range BitValues {
		if bv == v {
			return uint32(b)
		}
	}
	panic("wheel: value not coprime to 30")
}

// Class returns the residue class 0..7 of a prime p > 5.
//
//go:inline
func Class(p uint64) uint8 {
	return classOf[p%30]
}

// Residue returns the mod-30 residue of a residue class.
//
//go:inline
func Residue(class uint8) uint32 {
	return factors[class]
}

// Position packs a residue class and wheel index into the 6-bit wheel
// position carried by sieving-prime descriptors.
//
//go:inline
func Position(class, index uint8) uint8 {
	return class<<3 | index
}

// FirstMultiple locates the first multiple of p that must be crossed
// off when sieving [low, stop] over a bitmap based at base (base is a
// multiple of 30, base <= low). It returns the multiple's byte offset
// relative to base and the packed wheel position.
//
// The first crossed multiple is the smallest p*m >= max(p*p, low) with
// m coprime to 30. ok is false when that multiple exceeds stop, in
// which case p never hits the range and its descriptor is retired
// before it is born.
func FirstMultiple(p, low, stop, base uint64) (byteIndex uint64, pos uint8, ok bool) {
	m := low / p
	if low%p != 0 {
		m++
	}
	if m < p {
		m = p // crossing starts at p*p; smaller multiples have a
		// smaller prime factor and are crossed by it
	}
	m += uint64(distToCoprime[m%30])
	if m > stop/p {
		return 0, 0, false
	}
	n := p * m
	v := uint64(byteValue(uint32(n % 30)))
	byteIndex = (n - v - base) / 30
	pos = Position(classOf[p%30], classOf[m%30])
	return byteIndex, pos, true
}
