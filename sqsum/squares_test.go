package sqsum

import (
	"testing"
)

func TestIsqrt(t *testing.T) {
	spot := [][2]uint64{
		{0, 0}, {1, 1}, {2, 1}, {3, 1}, {4, 2},
		{8, 2}, {9, 3}, {15, 3}, {16, 4}, {24, 4}, {25, 5}, {26, 5},
		{99, 9}, {100, 10},
	}
	for _, c := range spot {
		if got := Isqrt(c[0]); got != c[1] {
			t.Fatalf("Isqrt(%d): got %d, want %d", c[0], got, c[1])
		}
	}

	// Exactness at square boundaries, up to the top of the uint64 range
	for _, k := range []uint64{7, 10, 127, 1 << 16, 1<<31 - 1, 1 << 31, 3037000499, 1<<32 - 1} {
		sq := k * k
		if got := Isqrt(sq); got != k {
			t.Fatalf("Isqrt(%d): got %d, want %d", sq, got, k)
		}
		if got := Isqrt(sq - 1); got != k-1 {
			t.Fatalf("Isqrt(%d): got %d, want %d", sq-1, got, k-1)
		}
		if got := Isqrt(sq + 1); got != k {
			t.Fatalf("Isqrt(%d): got %d, want %d", sq+1, got, k)
		}
	}
}

func TestIsPerfectSquare(t *testing.T) {
	squares := map[uint64]bool{}
	for k := uint64(0); k*k <= 2*MaxVtxID; k++ {
		squares[k*k] = true
	}
	for x := uint64(0); x <= 2*MaxVtxID; x++ {
		if IsPerfectSquare(x) != squares[x] {
			t.Fatalf("IsPerfectSquare(%d): got %v", x, !squares[x])
		}
	}
}

func TestSumsToSquare(t *testing.T) {
	for a := VtxID(1); a <= MaxVtxID; a++ {
		for b := VtxID(1); b <= MaxVtxID; b++ {
			got := SumsToSquare(a, b)
			if got != SumsToSquare(b, a) {
				t.Fatalf("SumsToSquare(%d,%d) not symmetric", a, b)
			}
			if got != IsPerfectSquare(uint64(a)+uint64(b)) {
				t.Fatalf("SumsToSquare(%d,%d): got %v", a, b, got)
			}
		}
	}
}

func TestConnectionsBelow(t *testing.T) {
	if !ConnectionsBelow(1).IsEmpty() {
		t.Fatal("vertex 1 has no prior connections")
	}
	if !ConnectionsBelow(2).IsEmpty() {
		t.Fatal("1+2 is not a square")
	}

	// 15 connects below to 1 (16) and 10 (25)
	conns := ConnectionsBelow(15)
	want := VtxSet(0).Add(1).Add(10)
	if conns != want {
		t.Fatalf("ConnectionsBelow(15): got %b, want %b", conns, want)
	}

	for v := VtxID(1); v <= MaxVtxID; v++ {
		conns := ConnectionsBelow(v)
		for i := VtxID(1); i <= MaxVtxID; i++ {
			inSet := conns.Has(i)
			if i >= v {
				if inSet {
					t.Fatalf("ConnectionsBelow(%d) contains %d", v, i)
				}
				continue
			}
			if inSet != SumsToSquare(i, v) {
				t.Fatalf("ConnectionsBelow(%d): membership of %d is %v", v, i, inSet)
			}
		}
	}
}
