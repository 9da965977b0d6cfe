package sqsum

import (
	"io"
	"strconv"
	"strings"
)

// Path is an ordered, loop-free sequence of distinct vertices.
//
// A Path is immutable once constructed: Append and Merge return new Path
// instances with freshly allocated backing arrays, so no Path ever shares
// mutable state with a path derived from it.
type Path struct {
	seq     []VtxID
	members VtxSet
}

// NewPath returns the singleton path [v].
func NewPath(v VtxID) (*Path, error) {
	if v < 1 || v > MaxVtxID {
		return nil, ErrBadVtxID
	}
	return &Path{
		seq:     []VtxID{v},
		members: VtxSet(0).Add(v),
	}, nil
}

// NewPathFromSeq returns a path visiting the given vertices in order.
//
// The sequence is copied. Each ID must be in 1..MaxVtxID and appear only once;
// adjacency is not checked here (see CheckConnected).
func NewPathFromSeq(seq []VtxID) (*Path, error) {
	if len(seq) == 0 {
		return nil, ErrNilPath
	}
	members := VtxSet(0)
	for _, v := range seq {
		if v < 1 || v > MaxVtxID {
			return nil, ErrBadVtxID
		}
		if members.Has(v) {
			return nil, ErrDupeVtx
		}
		members = members.Add(v)
	}
	return &Path{
		seq:     append([]VtxID{}, seq...),
		members: members,
	}, nil
}

// NewPathFromEncoding decodes a path previously encoded with AppendEncoding.
func NewPathFromEncoding(enc []byte) (*Path, error) {
	if len(enc) == 0 || len(enc) > MaxSeqLen {
		return nil, ErrBadEncoding
	}
	seq := make([]VtxID, len(enc))
	for i, b := range enc {
		seq[i] = VtxID(b)
	}
	return NewPathFromSeq(seq)
}

// Start returns the first vertex of this path.
func (p *Path) Start() VtxID {
	return p.seq[0]
}

// End returns the last vertex of this path.
func (p *Path) End() VtxID {
	return p.seq[len(p.seq)-1]
}

// Len returns the number of edges in this path (number of vertices minus one).
func (p *Path) Len() int {
	return len(p.seq) - 1
}

// VtxCount returns the number of vertices this path visits.
func (p *Path) VtxCount() int {
	return len(p.seq)
}

// Has returns whether v appears in this path.
func (p *Path) Has(v VtxID) bool {
	return p.members.Has(v)
}

// Members returns the set of vertices this path visits.
func (p *Path) Members() VtxSet {
	return p.members
}

// Overlaps returns whether the two paths share any vertex.
func (p *Path) Overlaps(q *Path) bool {
	return p.members.Overlaps(q.members)
}

// Vertices returns this path's vertex sequence.
//
// Warning: the returned slice is the path's backing array -- callers must not
// modify it.
func (p *Path) Vertices() []VtxID {
	return p.seq
}

// Append returns a new path visiting p's vertices then v.
func (p *Path) Append(v VtxID) (*Path, error) {
	if v < 1 || v > MaxVtxID {
		return nil, ErrBadVtxID
	}
	if p.members.Has(v) {
		return nil, ErrDupeVtx
	}
	seq := make([]VtxID, len(p.seq)+1)
	copy(seq, p.seq)
	seq[len(p.seq)] = v
	return &Path{
		seq:     seq,
		members: p.members.Add(v),
	}, nil
}

// Merge returns a new path visiting p's vertices then q's vertices.
//
// The operands must be vertex-disjoint; neither operand is touched and the
// result shares no storage with either.  The merged path starts at p.Start()
// and ends at q.End(); its member set is the union of the operands'.
func (p *Path) Merge(q *Path) (*Path, error) {
	if q == nil {
		return nil, ErrNilPath
	}
	if p.members.Overlaps(q.members) {
		return nil, ErrPathsOverlap
	}
	seq := make([]VtxID, 0, len(p.seq)+len(q.seq))
	seq = append(seq, p.seq...)
	seq = append(seq, q.seq...)
	return &Path{
		seq:     seq,
		members: p.members.Union(q.members),
	}, nil
}

// IsSolutionFor returns whether this path visits every vertex of 1..n exactly once.
func (p *Path) IsSolutionFor(n int) bool {
	return p.Len() == n-1 && p.members == FullRange(n)
}

// CheckConnected verifies that every adjacent pair of vertices sums to a
// perfect square.
func (p *Path) CheckConnected() error {
	for i := 1; i < len(p.seq); i++ {
		if !SumsToSquare(p.seq[i-1], p.seq[i]) {
			return ErrNotSquareSum
		}
	}
	return nil
}

// IsEqual returns whether the two paths visit the same vertices in the same order.
func (p *Path) IsEqual(q *Path) bool {
	if q == nil || p.members != q.members || len(p.seq) != len(q.seq) {
		return false
	}
	for i, v := range p.seq {
		if q.seq[i] != v {
			return false
		}
	}
	return true
}

// AppendEncoding appends this path's canonical byte encoding to out.
//
// The encoding is simply the vertex sequence, one byte per vertex, which keeps
// catalog keys ordered first by sequence prefix.
func (p *Path) AppendEncoding(out []byte) []byte {
	for _, v := range p.seq {
		out = append(out, byte(v))
	}
	return out
}

// WriteAsString writes this path in its display form: |8->1->15|
func (p *Path) WriteAsString(out io.Writer) {
	var scrap [4]byte
	io.WriteString(out, "|")
	for i, v := range p.seq {
		if i > 0 {
			io.WriteString(out, "->")
		}
		out.Write(strconv.AppendUint(scrap[:0], uint64(v), 10))
	}
	io.WriteString(out, "|")
}

func (p *Path) String() string {
	b := strings.Builder{}
	b.Grow(4 * len(p.seq))
	p.WriteAsString(&b)
	return b.String()
}
