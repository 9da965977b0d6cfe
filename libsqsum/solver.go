package libsqsum

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

// Banner matches the original solver's opening lines.
const Banner = "The Square-Sum Problem Solver - All Paths"

const caseSeparator = "-----------------------------------------"

// SolverOpts configures a Solver.
type SolverOpts struct {

	// MaxVtx is the highest run size to attempt (0 denotes sqsum.MaxVtxID).
	// SolveNext returns sqsum.ErrMaxVtx once the limit is reached.
	MaxVtx int

	// MaxPaths caps the path store size (0 denotes unbounded).  A step that
	// would grow the store past the cap aborts with sqsum.ErrPathLimit,
	// leaving the store as of the last completed run.  The cap counts the
	// step's paths before any duplicate suppression.
	MaxPaths int64

	// Workers fans the bridging-merge scan out over this many goroutines.
	// Values <= 1 run the step fully sequential.  The scan is read-only over
	// the prior store and each worker collects into its own batch, so the
	// committed store sequence is identical either way.
	Workers int

	// DropDupes suppresses structurally identical paths from being retained.
	// The original tracker keeps every merge product, including duplicates
	// produced via different merge orders; enabling this changes store
	// cardinality but never the solution set.
	DropDupes bool
}

// Solver holds the accumulated path store and the current run size, extending
// both one vertex at a time.
//
// Steps are strictly sequential: the store for run 1..n must be complete
// before expansion for 1..n+1 begins, so a Solver must not be shared across
// goroutines.
type Solver struct {
	opts  SolverOpts
	store *pathStore
	dupes sqsum.PathAdder
	n     int
}

func NewSolver(opts SolverOpts) *Solver {
	if opts.MaxVtx <= 0 || opts.MaxVtx > sqsum.MaxVtxID {
		opts.MaxVtx = sqsum.MaxVtxID
	}
	sv := &Solver{
		opts:  opts,
		store: newPathStore(),
	}
	if opts.DropDupes {
		sv.dupes = NewDropDupes(DropDupeOpts{})
	}
	return sv
}

// N returns the last fully completed run size (0 before the first step).
func (sv *Solver) N() int {
	return sv.n
}

// NumPaths returns the current path store size.
func (sv *Solver) NumPaths() int64 {
	return sv.store.NumPaths()
}

// Step is the outcome of one completed SolveNext.
type Step struct {
	sqsum.CaseResult

	NewPaths int           // paths this step added to the store
	NumPaths int64         // store size after the step
	Elapsed  time.Duration // wall time the step took
}

// SolveNext extends the search from run 1..n to run 1..n+1 and reports the
// outcome for the new run.
//
// The new vertex v = n+1 is worked in through two phases over the store as it
// stood after run 1..n:
//
//  1. direct extensions: the singleton [v], plus p++[v] for every stored p
//     whose end connects to v;
//  2. bridging merges: for each path p from phase 1 and each stored q whose
//     start connects to v, with p and q vertex-disjoint and q short enough
//     that p++q could still grow into a full solution, emit p++q.
//
// Both batches commit to the store only after the whole step succeeded, so a
// cancelled or aborted step never invalidates the results for smaller runs.
func (sv *Solver) SolveNext(ctx context.Context) (*Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sv.n >= sv.opts.MaxVtx {
		return nil, sqsum.ErrMaxVtx
	}

	startAt := time.Now()
	n := sv.n + 1
	v := sqsum.VtxID(n)
	conns := sqsum.ConnectionsBelow(v)

	appended := sv.appendExisting(v, conns)

	bridged, err := sv.bridgeAppended(ctx, n, conns, appended)
	if err != nil {
		return nil, err
	}

	// The cap is gated before duplicate suppression: an aborted step must not
	// touch the dedupe tracker, or a retry would see its own paths as dupes.
	newPaths := len(appended) + len(bridged)
	if sv.opts.MaxPaths > 0 && sv.store.NumPaths()+int64(newPaths) > sv.opts.MaxPaths {
		return nil, errors.Wrapf(sqsum.ErrPathLimit,
			"step aborted: run 1-%d would grow the store to %d paths (cap %d)",
			n, sv.store.NumPaths()+int64(newPaths), sv.opts.MaxPaths)
	}

	if sv.dupes != nil {
		appended = filterDupes(sv.dupes, appended)
		bridged = filterDupes(sv.dupes, bridged)
		newPaths = len(appended) + len(bridged)
	}

	// Appended paths land before bridged ones, mirroring discovery order.
	sv.store.commit(appended)
	sv.store.commit(bridged)
	sv.n = n

	step := &Step{
		CaseResult: sqsum.CaseResult{
			N:         n,
			Solutions: sv.store.solutionsFor(n),
		},
		NewPaths: newPaths,
		NumPaths: sv.store.NumPaths(),
		Elapsed:  time.Since(startAt),
	}

	klog.V(2).Infof("case 1-%d: %d new paths, %d total, %d solutions (%v)",
		n, step.NewPaths, step.NumPaths, len(step.Solutions), step.Elapsed)

	return step, nil
}

// appendExisting produces this step's appended paths: the unconditional
// singleton [v] first, then every direct extension p++[v].
func (sv *Solver) appendExisting(v sqsum.VtxID, conns sqsum.VtxSet) []*sqsum.Path {
	seed, err := sqsum.NewPath(v)
	if err != nil {
		panic(err) // v was gated by MaxVtx
	}
	appended := []*sqsum.Path{seed}

	sv.store.visitEndingIn(conns, func(p *sqsum.Path) {
		ext, err := p.Append(v)
		if err != nil {
			panic(err) // stored paths predate v and cannot contain it
		}
		appended = append(appended, ext)
	})

	return appended
}

// bridgeAppended produces this step's bridging merges.  Candidates q come from
// the store as it stood before this step; q.Len() is bounded so the combined
// path cannot exceed the n vertices processed so far.
func (sv *Solver) bridgeAppended(
	ctx context.Context,
	n int,
	conns sqsum.VtxSet,
	appended []*sqsum.Path,
) ([]*sqsum.Path, error) {

	if conns.IsEmpty() {
		return nil, nil
	}

	batches := make([][]*sqsum.Path, len(appended))
	bridgeOne := func(i int) {
		p := appended[i]
		maxLen := n - p.Len() - 2

		var batch []*sqsum.Path
		sv.store.visitMergeable(conns, maxLen, func(q *sqsum.Path) {
			if p.Overlaps(q) {
				return
			}
			merged, err := p.Merge(q)
			if err != nil {
				panic(err) // disjointness was just checked
			}
			batch = append(batch, merged)
		})
		batches[i] = batch
	}

	if sv.opts.Workers <= 1 {
		for i := range appended {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			bridgeOne(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(sv.opts.Workers)
		for i := range appended {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				bridgeOne(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Concatenating per-path batches in appended order keeps the committed
	// sequence independent of worker scheduling.
	var bridged []*sqsum.Path
	for _, batch := range batches {
		bridged = append(bridged, batch...)
	}
	return bridged, nil
}

func filterDupes(dupes sqsum.PathAdder, batch []*sqsum.Path) []*sqsum.Path {
	kept := batch[:0]
	for _, p := range batch {
		if dupes.TryAddPath(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// WriteBanner writes the opening lines of a run report.
func WriteBanner(out io.Writer) {
	io.WriteString(out, Banner+"\n")
	io.WriteString(out, caseSeparator+"\n")
}

// WriteAsString writes this step's case block:
//
//	Case 1-<n>:
//	<OK|FAIL>
//	|<v1>-><v2>-> ... -><vk>|     (one line per solution, when OK)
//	-----------------------------------------
func (step *Step) WriteAsString(out io.Writer) {
	fmt.Fprintf(out, "Case 1-%d:\n", step.N)
	if step.OK() {
		io.WriteString(out, "OK\n")
		for _, sol := range step.Solutions {
			sol.WriteAsString(out)
			io.WriteString(out, "\n")
		}
	} else {
		io.WriteString(out, "FAIL\n")
	}
	io.WriteString(out, caseSeparator+"\n")
}
