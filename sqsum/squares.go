package sqsum

import "math/bits"

// Isqrt returns the integer square root of x: the largest r such that r*r <= x.
//
// Newton's method seeded from the bit length; exact for all uint64 values,
// no floating point.
func Isqrt(x uint64) uint64 {
	if x < 2 {
		return x
	}

	// Initial guess is a power of two >= sqrt(x)
	r := uint64(1) << ((bits.Len64(x) >> 1) + 1)
	for {
		q := (r + x/r) >> 1
		if q >= r {
			return r
		}
		r = q
	}
}

// IsPerfectSquare returns whether x is a perfect square.
func IsPerfectSquare(x uint64) bool {
	r := Isqrt(x)
	return r*r == x
}

// SumsToSquare returns whether a + b is a perfect square.
//
// This is the connectivity test of the square-sum problem: two vertices are
// adjacent iff their labels sum to a perfect square.  Symmetric and total.
func SumsToSquare(a, b VtxID) bool {
	return IsPerfectSquare(uint64(a) + uint64(b))
}

// ConnectionsBelow returns the set of all vertices in 1..v-1 connected to v.
//
// For v == 1 there are no prior vertices and the empty set is returned.
func ConnectionsBelow(v VtxID) VtxSet {
	conns := VtxSet(0)
	for i := VtxID(1); i < v; i++ {
		if SumsToSquare(i, v) {
			conns = conns.Add(i)
		}
	}
	return conns
}
