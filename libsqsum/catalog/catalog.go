package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	[N (byte)], [vertex sequence (byte per vertex)] => NUL

Each non-state entry records one solution for run 1..N; per-run counts and the
highest completed run live in CatalogState.  The state key starts with a NUL,
which no valid run size uses, so it sorts before every solution entry.

The layout allows to:
	1) enumerate all solutions (in sequence order) for a given N
	2) check whether a given solution has been recorded
	3) answer OK/FAIL per completed run without touching solution entries

***/

var gCatalogStateKey = []byte{0x00, 0x00, 0x01}

// runCatalog is a db wrapper for a square-sum run catalog
type runCatalog struct {
	ctx        sqsum.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

func OpenCatalog(ctx sqsum.CatalogContext, opts sqsum.CatalogOpts) (sqsum.Catalog, error) {
	cat := &runCatalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(sqsum.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = 2024
		cat.state.MinorVers = 1
	}

	if err == nil && (cat.state.MajorVers != 2024 || cat.state.MinorVers != 1) {
		err = errors.New("catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	if len(cat.state.NumSolutions) < sqsum.MaxVtxID+1 {
		counts := make([]int64, sqsum.MaxVtxID+1)
		copy(counts, cat.state.NumSolutions)
		cat.state.NumSolutions = counts
	}

	return cat, nil
}

func (cat *runCatalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return proto.Unmarshal(val, &cat.state)
			})
		}
		return err
	})
	return err
}

func (cat *runCatalog) flushState() error {
	if !cat.stateDirty || cat.readOnly {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := proto.Marshal(&cat.state)
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err != nil {
		return errors.Wrap(err, "flush catalog state")
	}
	cat.stateDirty = false
	return nil
}

func (cat *runCatalog) Close() error {
	err := cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return err
}

func (cat *runCatalog) IsReadOnly() bool {
	return cat.readOnly
}

// LastCompleted returns the highest run size with a recorded outcome.
func (cat *runCatalog) LastCompleted() int {
	return int(cat.state.Completed)
}

func (cat *runCatalog) NumSolutions(forVtxCount int) int64 {
	if forVtxCount < 1 || forVtxCount >= len(cat.state.NumSolutions) {
		return 0
	}
	return cat.state.NumSolutions[forVtxCount]
}

// solutionKey forms the db key for one solution: run size byte, then the
// vertex sequence.  Allocates, since badger retains key bufs until commit.
func solutionKey(n int, sol *sqsum.Path) []byte {
	key := make([]byte, 1, 1+sol.VtxCount())
	key[0] = byte(n)
	return sol.AppendEncoding(key)
}

// RecordCase stores the outcome of a completed run, OK or FAIL.
//
// A FAIL case writes no solution entries but still advances the completed
// watermark, so reopening the catalog can answer FAIL without recomputing.
func (cat *runCatalog) RecordCase(res *sqsum.CaseResult) error {
	if cat.readOnly {
		return sqsum.ErrCatalogReadOnly
	}
	if res == nil || res.N < 1 || res.N > sqsum.MaxVtxID {
		return sqsum.ErrBadCatalogParam
	}

	err := cat.db.Update(func(txn *badger.Txn) error {
		for _, sol := range res.Solutions {
			if err := txn.Set(solutionKey(res.N, sol), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "record case 1-%d", res.N)
	}

	if int(cat.state.Completed) < res.N {
		cat.state.Completed = int32(res.N)
	}
	cat.state.NumSolutions[res.N] = int64(len(res.Solutions))
	cat.stateDirty = true
	return cat.flushState()
}

// TryAddPath records the given path as a solution if it isn't one already.
//
// Only full-coverage paths qualify: p must visit every vertex of 1..VtxCount()
// exactly once.  Anything else is refused, as is a write to a read-only
// catalog.
func (cat *runCatalog) TryAddPath(p *sqsum.Path) bool {
	if p == nil || cat.readOnly {
		return false
	}
	n := p.VtxCount()
	if !p.IsSolutionFor(n) {
		return false
	}

	key := solutionKey(n, p)
	wasAdded := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			wasAdded = true
			return txn.Set(key, nil)
		}
		return err
	})
	if err != nil {
		return false
	}

	if wasAdded {
		cat.state.NumSolutions[n]++
		cat.stateDirty = true
		cat.flushState()
	}
	return wasAdded
}

// Select pushes every recorded solution within the selector's run-size bounds
// to onHit, ordered by run size then sequence.  The channel is not closed.
func (cat *runCatalog) Select(sel sqsum.CaseSelector, onHit sqsum.OnPathHit) {
	lo := sel.MinVtx
	if lo < 1 {
		lo = 1
	}
	hi := sel.MaxVtx
	if hi > sqsum.MaxVtxID {
		hi = sqsum.MaxVtxID
	}
	if lo > hi {
		return
	}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
	})
	defer it.Close()

	minKey := [1]byte{byte(lo)}
	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		curKey := it.Item().Key()

		// Stop once the run size is over the max
		if int(curKey[0]) > hi {
			break
		}

		p, err := sqsum.NewPathFromEncoding(curKey[1:])
		if err != nil {
			panic(errors.Wrap(err, "corrupt solution entry"))
		}
		onHit <- p
	}
}
