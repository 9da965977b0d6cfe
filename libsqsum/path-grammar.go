package libsqsum

import (
	"github.com/alecthomas/participle/v2"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

// pathExpr is the grammar for a path literal as the reporter prints it:
//
//	|8->1->15->10|
//
// The enclosing bars are optional so hand-typed expressions like "8->1->15"
// also parse.
type pathExpr struct {
	Verts []int64 `"|"? @Int ( "-" ">" @Int )* "|"?`
}

var parsePathExpr = participle.MustBuild[pathExpr]()

// ParsePathExpr parses a path literal and validates it as a square-sum path:
// vertex IDs in range, no vertex repeated, every adjacent pair summing to a
// perfect square.
func ParsePathExpr(expr string) (*sqsum.Path, error) {
	pe, err := parsePathExpr.ParseString("", expr)
	if err != nil {
		return nil, err
	}

	seq := make([]sqsum.VtxID, len(pe.Verts))
	for i, id := range pe.Verts {
		if id < 1 || id > sqsum.MaxVtxID {
			return nil, sqsum.ErrBadVtxID
		}
		seq[i] = sqsum.VtxID(id)
	}

	p, err := sqsum.NewPathFromSeq(seq)
	if err != nil {
		return nil, err
	}
	if err := p.CheckConnected(); err != nil {
		return nil, err
	}
	return p, nil
}
