// Package arith implements the finite-precision binary arithmetic coder
// shared by a DMC encoder and decoder: a lower/upper bound pair over a
// 31-bit range, a split-point computation driven by a Markov state's
// transition counts, and the bound-normalization routine both directions
// of the coder share.
//
// This mirrors the renormalization idiom of an MQ-style arithmetic coder
// (shift bounds until their leading bits agree, emitting each shared bit)
// but, unlike a fixed-probability-table coder, derives its split point
// from live, per-state transition counts rather than a state-machine
// lookup table.
package arith

// N is the bit width of the coder's interval. 31 keeps every intermediate
// value comfortably inside 32-bit unsigned arithmetic.
const N = 31

const (
	msMask = (uint32(1) << N) - 1
	msBit  = uint32(1) << (N - 1)
)

// Counts is the minimal view of a Markov state's transition counts the
// coder needs to compute a split point.
type Counts interface {
	Count(bit int) uint64
	Total() uint64
}

// Bounds holds the coder's lower/upper bound pair. Both encoder and
// decoder embed one; the invariant lower < upper holds at every quiescent
// point between bits.
type Bounds struct {
	Lower, Upper uint32
}

// NewBounds returns a Bounds spanning the full N-bit range.
func NewBounds() Bounds {
	return Bounds{Lower: 0, Upper: msMask}
}

// SplitPoint computes mp, the integer dividing [Lower, Upper] between
// source bit 0 (below mp) and source bit 1 (at or above mp), from the
// given state's Laplace-smoothed transition counts (spec.md 4.2).
func SplitPoint(b Bounds, c Counts) uint32 {
	total := c.Total()
	p0 := (float64(c.Count(0)) + 1) / (float64(total) + 2)
	p1 := (float64(c.Count(1)) + 1) / (float64(total) + 2)

	mp := uint32((p1*float64(b.Lower) + p0*float64(b.Upper)) / (p0 + p1))
	if mp <= b.Lower {
		mp = b.Lower + 1
	}
	mp |= 1
	if mp > b.Upper {
		mp = b.Upper
	}
	return mp
}

// ApplyBit narrows the bounds for the given decided/source bit against a
// split point already computed from the pre-narrowing bounds.
func (b *Bounds) ApplyBit(bit int, mp uint32) {
	if bit == 1 {
		b.Lower = mp
	} else {
		b.Upper = mp - 1
	}
}

// Normalize shifts Lower and Upper left while their top bit agrees,
// calling emit for each bit shifted out (in encoder order: most
// significant first). It returns the number of bits emitted.
func (b *Bounds) Normalize(emit func(bit int)) int {
	n := 0
	for (b.Lower & msBit) == (b.Upper & msBit) {
		top := int(b.Lower >> (N - 1))
		if emit != nil {
			emit(top)
		}
		b.Lower = (b.Lower << 1) & msMask
		b.Upper = ((b.Upper << 1) & msMask) | 1
		n++
	}
	return n
}

// TopBit returns bit N-1 of v.
func TopBit(v uint32) uint32 {
	return v & msBit
}

// MSBit and MSMask expose the package's top-bit and full-range masks for
// callers that need to reason about raw bound values (e.g. termination
// flush and the decoder's ambiguity-window arithmetic).
func MSBit() uint32  { return msBit }
func MSMask() uint32 { return msMask }
