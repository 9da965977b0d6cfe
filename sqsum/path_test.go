package sqsum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

func TestVtxSet(t *testing.T) {
	set := sqsum.VtxSet(0)
	require.True(t, set.IsEmpty())

	set = set.Add(1).Add(15).Add(sqsum.MaxVtxID)
	require.True(t, set.Has(1))
	require.True(t, set.Has(15))
	require.True(t, set.Has(sqsum.MaxVtxID))
	require.False(t, set.Has(2))

	other := sqsum.VtxSet(0).Add(2).Add(15)
	require.True(t, set.Overlaps(other))
	require.False(t, set.Overlaps(sqsum.VtxSet(0).Add(3)))

	union := set.Union(other)
	for _, v := range []sqsum.VtxID{1, 2, 15, sqsum.MaxVtxID} {
		require.True(t, union.Has(v))
	}

	require.Equal(t, sqsum.VtxSet(0b111), sqsum.FullRange(3))
	require.Equal(t, ^sqsum.VtxSet(0), sqsum.FullRange(sqsum.MaxVtxID))
	require.True(t, sqsum.FullRange(0).IsEmpty())
}

func TestPathConstruction(t *testing.T) {
	_, err := sqsum.NewPath(0)
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)
	_, err = sqsum.NewPath(sqsum.MaxVtxID + 1)
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)

	p, err := sqsum.NewPath(8)
	require.NoError(t, err)
	require.Equal(t, sqsum.VtxID(8), p.Start())
	require.Equal(t, sqsum.VtxID(8), p.End())
	require.Equal(t, 0, p.Len())
	require.Equal(t, 1, p.VtxCount())

	_, err = sqsum.NewPathFromSeq(nil)
	require.ErrorIs(t, err, sqsum.ErrNilPath)
	_, err = sqsum.NewPathFromSeq([]sqsum.VtxID{3, 1, 3})
	require.ErrorIs(t, err, sqsum.ErrDupeVtx)
	_, err = sqsum.NewPathFromSeq([]sqsum.VtxID{1, 0})
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)

	seq := []sqsum.VtxID{8, 1, 15}
	p, err = sqsum.NewPathFromSeq(seq)
	require.NoError(t, err)

	// The input sequence is copied, not retained
	seq[0] = 2
	require.Equal(t, sqsum.VtxID(8), p.Start())
	require.Equal(t, "|8->1->15|", p.String())
	require.NoError(t, p.CheckConnected())
}

func TestPathAppend(t *testing.T) {
	p, err := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1})
	require.NoError(t, err)

	ext, err := p.Append(15)
	require.NoError(t, err)
	require.Equal(t, "|8->1->15|", ext.String())
	require.Equal(t, 2, ext.Len())

	// The operand is untouched and shares no storage with the result
	require.Equal(t, "|8->1|", p.String())
	ext2, err := p.Append(3)
	require.NoError(t, err)
	require.Equal(t, "|8->1->3|", ext2.String())
	require.Equal(t, "|8->1->15|", ext.String())

	_, err = p.Append(8)
	require.ErrorIs(t, err, sqsum.ErrDupeVtx)
	_, err = p.Append(0)
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)
}

func TestPathMerge(t *testing.T) {
	p, err := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1, 15})
	require.NoError(t, err)
	q, err := sqsum.NewPathFromSeq([]sqsum.VtxID{10, 6})
	require.NoError(t, err)

	m, err := p.Merge(q)
	require.NoError(t, err)
	require.Equal(t, "|8->1->15->10->6|", m.String())
	require.Equal(t, sqsum.VtxID(8), m.Start())
	require.Equal(t, sqsum.VtxID(6), m.End())
	require.Equal(t, p.Members().Union(q.Members()), m.Members())

	// Operands survive the merge unchanged
	require.Equal(t, "|8->1->15|", p.String())
	require.Equal(t, "|10->6|", q.String())

	_, err = p.Merge(nil)
	require.ErrorIs(t, err, sqsum.ErrNilPath)

	overlap, err := sqsum.NewPathFromSeq([]sqsum.VtxID{15, 10})
	require.NoError(t, err)
	_, err = p.Merge(overlap)
	require.ErrorIs(t, err, sqsum.ErrPathsOverlap)
}

func TestPathEncoding(t *testing.T) {
	p, err := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1, 15, 10, 6})
	require.NoError(t, err)

	enc := p.AppendEncoding(nil)
	require.Equal(t, []byte{8, 1, 15, 10, 6}, enc)

	dec, err := sqsum.NewPathFromEncoding(enc)
	require.NoError(t, err)
	require.True(t, p.IsEqual(dec))

	_, err = sqsum.NewPathFromEncoding(nil)
	require.ErrorIs(t, err, sqsum.ErrBadEncoding)
	_, err = sqsum.NewPathFromEncoding(make([]byte, sqsum.MaxSeqLen+1))
	require.ErrorIs(t, err, sqsum.ErrBadEncoding)
}

func TestIsSolutionFor(t *testing.T) {
	p, err := sqsum.NewPath(1)
	require.NoError(t, err)
	require.True(t, p.IsSolutionFor(1))
	require.False(t, p.IsSolutionFor(2))

	known, err := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1, 15, 10, 6, 3, 13, 12, 4, 5, 11, 14, 2, 7, 9})
	require.NoError(t, err)
	require.NoError(t, known.CheckConnected())
	require.True(t, known.IsSolutionFor(15))
	require.False(t, known.IsSolutionFor(14))
	require.False(t, known.IsSolutionFor(16))

	// Right length, wrong coverage
	gap, err := sqsum.NewPathFromSeq([]sqsum.VtxID{1, 3, 6})
	require.NoError(t, err)
	require.False(t, gap.IsSolutionFor(3))
	require.ErrorIs(t, gap.CheckConnected(), sqsum.ErrNotSquareSum)
}

func TestPathIsEqual(t *testing.T) {
	p, _ := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1, 15})
	same, _ := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1, 15})
	reversed, _ := sqsum.NewPathFromSeq([]sqsum.VtxID{15, 1, 8})
	shorter, _ := sqsum.NewPathFromSeq([]sqsum.VtxID{8, 1})

	require.True(t, p.IsEqual(same))
	require.False(t, p.IsEqual(reversed))
	require.False(t, p.IsEqual(shorter))
	require.False(t, p.IsEqual(nil))
}
