package libsqsum

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

// pathStore accumulates every path discovered across all completed runs.
//
// The store is strictly append-only: entries are never mutated or evicted, so
// a path valid for run 1..k remains a legitimate partial path for every later
// run.  This unbounded retention is the engine's fundamental scalability limit
// and is deliberate -- see MaxPaths in SolverOpts for the escape hatch.
//
// Two merge indexes ride along with the flat insertion-order list:
//   - byEnd buckets paths by their end vertex (direct-extension scans)
//   - byStart orders paths by (start, length, ordinal) so the bridging scan
//     can walk only candidates under its length bound
type pathStore struct {
	paths   []*sqsum.Path
	byEnd   map[sqsum.VtxID][]*sqsum.Path
	byStart *redblacktree.Tree // mergeKey -> *sqsum.Path
}

// mergeKey orders the byStart index.  The store ordinal disambiguates paths
// sharing (start, length) and keeps tree iteration deterministic.
type mergeKey struct {
	start  sqsum.VtxID
	length int
	ord    int
}

func compareMergeKeys(a, b interface{}) int {
	ka := a.(mergeKey)
	kb := b.(mergeKey)

	if d := int(ka.start) - int(kb.start); d != 0 {
		return d
	}
	if d := ka.length - kb.length; d != 0 {
		return d
	}
	return ka.ord - kb.ord
}

func newPathStore() *pathStore {
	return &pathStore{
		byEnd: make(map[sqsum.VtxID][]*sqsum.Path),
		byStart: &redblacktree.Tree{
			Comparator: compareMergeKeys,
		},
	}
}

func (st *pathStore) NumPaths() int64 {
	return int64(len(st.paths))
}

// commit appends a batch to the store and indexes it.  Existing entries are
// untouched; a batch is only ever committed after the whole step succeeded.
func (st *pathStore) commit(batch []*sqsum.Path) {
	for _, p := range batch {
		ord := len(st.paths)
		st.paths = append(st.paths, p)
		st.byEnd[p.End()] = append(st.byEnd[p.End()], p)
		st.byStart.Put(mergeKey{
			start:  p.Start(),
			length: p.Len(),
			ord:    ord,
		}, p)
	}
}

// visitEndingIn calls visit for every stored path whose end vertex is in
// conns, in ascending end-vertex order then store order.
func (st *pathStore) visitEndingIn(conns sqsum.VtxSet, visit func(p *sqsum.Path)) {
	for v := sqsum.VtxID(1); v <= sqsum.MaxVtxID; v++ {
		if !conns.Has(v) {
			continue
		}
		for _, p := range st.byEnd[v] {
			visit(p)
		}
	}
}

// visitMergeable calls visit for every stored path q whose start vertex is in
// conns and whose edge length does not exceed maxLen.  Disjointness against
// the path being bridged is the caller's concern.
//
// Read-only over the tree, so concurrent scans from one step are safe.
func (st *pathStore) visitMergeable(conns sqsum.VtxSet, maxLen int, visit func(q *sqsum.Path)) {
	if maxLen < 0 {
		return
	}
	for v := sqsum.VtxID(1); v <= sqsum.MaxVtxID; v++ {
		if !conns.Has(v) {
			continue
		}

		node, found := st.byStart.Ceiling(mergeKey{start: v})
		if !found {
			continue
		}

		it := st.byStart.IteratorAt(node)
		for {
			key := it.Key().(mergeKey)
			if key.start != v || key.length > maxLen {
				break
			}
			visit(it.Value().(*sqsum.Path))
			if !it.Next() {
				break
			}
		}
	}
}

// solutionsFor scans the whole store for paths visiting all of 1..n, in store
// insertion order.  Solutions are identified at report time, never stored
// separately.
func (st *pathStore) solutionsFor(n int) []*sqsum.Path {
	var solutions []*sqsum.Path
	for _, p := range st.paths {
		if p.Len() == n-1 {
			solutions = append(solutions, p)
		}
	}
	return solutions
}
