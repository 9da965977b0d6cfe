package sqsum

const (

	// MaxVtxID is the max possible value of a VtxID (a one-based index).
	//
	// Path membership is tracked with a VtxSet bitset, so a run cannot grow
	// past this many vertices.  In practice the all-paths store explodes long
	// before (around run 1-27), so 64 is not the binding limit.
	MaxVtxID = 64

	// MaxSeqLen is the longest possible vertex sequence of a single Path.
	MaxSeqLen = MaxVtxID
)

// VtxID is a one-based integer label identifying a vertex in a run (1..MaxVtxID).
//
// Vertex k stands for the integer k itself; two vertices are connected when
// their sum is a perfect square.
type VtxID byte

// VtxSet is a bitset over VtxIDs 1..MaxVtxID.
type VtxSet uint64

// Has returns whether v is a member of this set.
func (set VtxSet) Has(v VtxID) bool {
	return set&(VtxSet(1)<<(v-1)) != 0
}

// Add returns the set with v included.
func (set VtxSet) Add(v VtxID) VtxSet {
	return set | VtxSet(1)<<(v-1)
}

// Overlaps returns whether the two sets share any vertex.
func (set VtxSet) Overlaps(other VtxSet) bool {
	return set&other != 0
}

// Union returns the union of the two sets.
func (set VtxSet) Union(other VtxSet) VtxSet {
	return set | other
}

// IsEmpty returns whether no vertex is in the set.
func (set VtxSet) IsEmpty() bool {
	return set == 0
}

// FullRange returns the set {1..n}.
func FullRange(n int) VtxSet {
	if n <= 0 {
		return 0
	}
	if n >= MaxVtxID {
		return ^VtxSet(0)
	}
	return (VtxSet(1) << n) - 1
}

// PathAdder accepts discovered paths, typically at the end of a PathStream.
type PathAdder interface {

	// Tries to add the given path to this adder's collection.
	// If true is returned, p was not present and was added.
	TryAddPath(p *Path) bool
}

// OnPathHit is a callback channel used to return Paths meeting a set of selection criteria.
// Ownership of a Path also travels through the channel.
type OnPathHit chan<- *Path

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Signals all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a run Catalog
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// CaseResult is the outcome of one fully completed run 1..N.
type CaseResult struct {
	N         int     // the completed range 1..N
	Solutions []*Path // every full-coverage path found for N, in store order
}

// OK returns whether at least one solution exists for this case.
func (res *CaseResult) OK() bool {
	return len(res.Solutions) > 0
}

// CaseSelector bounds a Select over recorded cases.
type CaseSelector struct {
	MinVtx int // lowest run size to select (one-based)
	MaxVtx int // highest run size to select, inclusive
}

// DefaultCaseSelector selects every recorded case.
var DefaultCaseSelector = CaseSelector{
	MinVtx: 1,
	MaxVtx: MaxVtxID,
}

// Catalog wraps a database of completed square-sum cases and their solutions.
//
// A catalog is a record of results only; it is never read back into a live
// path store, so a fresh run always rebuilds its state from 1.
type Catalog interface {
	PathAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// RecordCase stores the outcome of a completed case, OK or FAIL.
	RecordCase(res *CaseResult) error

	// LastCompleted returns the highest N with a recorded outcome (0 if none).
	LastCompleted() int

	// NumSolutions returns the number of recorded solutions for a given run size.
	// An out of bounds or unrecorded run size returns 0.
	NumSolutions(forVtxCount int) int64

	// Select fires the given channel with each recorded solution that meets
	// the selection criteria.  The channel is not closed by Select.
	Select(sel CaseSelector, onHit OnPathHit)

	Close() error
}

// PrintOpts specifies what is printed when writing paths a stream emits.
type PrintOpts struct {
	Label string // Prefix label
}
