// Package pysqsum exposes the square-sum engine to gpython scripts as the
// "_pysqsum" module, so runs can be driven, printed, and cataloged from
// python the same way the CLI drives them natively.
package pysqsum

import (
	"context"
	"os"

	"github.com/go-python/gpython/py"

	"github.com/sqsum-systems/go-sqsum/libsqsum"
	"github.com/sqsum-systems/go-sqsum/libsqsum/catalog"
	"github.com/sqsum-systems/go-sqsum/sqsum"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pySolverType     = py.NewType("Solver", "incremental square-sum all-paths solver")
	pyCatalogType    = py.NewType("Catalog", "sqsum.Catalog")
	pyPathStreamType = py.NewType("PathStream", "sqsum.PathStream")
	pyWorkspaceType  = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type pySolver struct {
	solver   *libsqsum.Solver
	lastStep *libsqsum.Step
}

func (s *pySolver) Type() *py.Type {
	return pySolverType
}

type pyCatalog struct {
	cat sqsum.Catalog
}

func (c *pyCatalog) Type() *py.Type {
	return pyCatalogType
}

type pyPathStream struct {
	stream *sqsum.PathStream
}

func (s *pyPathStream) Type() *py.Type {
	return pyPathStreamType
}

type pyWorkspace struct {
	CatalogCtx sqsum.CatalogContext
}

func (ws *pyWorkspace) Type() *py.Type {
	return pyWorkspaceType
}

func (ws *pyWorkspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

// Arg 1 (int, optional): max paths the store may grow to (0 = unbounded)
// Arg 2 (int, optional): bridging scan workers (0/1 = sequential)
func ph_NewSolver(module py.Object, args py.Tuple) (py.Object, error) {
	opts := libsqsum.SolverOpts{}
	if len(args) > 0 {
		maxPaths, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		opts.MaxPaths = int64(maxPaths)
	}
	if len(args) > 1 {
		workers, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		opts.Workers = int(workers)
	}
	return py.Object(&pySolver{
		solver: libsqsum.NewSolver(opts),
	}), nil
}

func ph_Solver_SolveNext(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pySolver)
	step, err := s.solver.SolveNext(context.Background())
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	s.lastStep = step
	return py.Int(len(step.Solutions)), nil
}

func ph_Solver_N(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pySolver)
	return py.Int(s.solver.N()), nil
}

func ph_Solver_NumPaths(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pySolver)
	return py.Int(s.solver.NumPaths()), nil
}

func ph_Solver_PrintCase(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pySolver)
	if s.lastStep == nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "no case solved yet")
	}
	s.lastStep.WriteAsString(os.Stdout)
	return py.None, nil
}

func ph_Solver_Solutions(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pySolver)
	var solutions []*sqsum.Path
	if s.lastStep != nil {
		solutions = s.lastStep.Solutions
	}
	return py.Object(&pyPathStream{
		stream: sqsum.StreamPaths(solutions),
	}), nil
}

func ph_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &pyWorkspace{
			CatalogCtx: sqsum.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func ph_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*pyWorkspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

func ph_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*pyWorkspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := sqsum.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return py.Object(&pyCatalog{cat: cat}), nil
}

func ph_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	c := self.(*pyCatalog)
	if c.cat != nil {
		c.cat.Close()
		c.cat = nil
	}
	return py.None, nil
}

func ph_Catalog_NumSolutions(self py.Object, args py.Tuple) (py.Object, error) {
	c := self.(*pyCatalog)

	n, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}

	return py.Int(c.cat.NumSolutions(int(n))), nil
}

func ph_Catalog_LastCompleted(self py.Object, args py.Tuple) (py.Object, error) {
	c := self.(*pyCatalog)
	return py.Int(c.cat.LastCompleted()), nil
}

// Arg 1 (int, optional): min run size
// Arg 2 (int, optional): max run size
func ph_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	c := self.(*pyCatalog)

	sel := sqsum.DefaultCaseSelector
	if len(args) > 0 {
		lo, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		sel.MinVtx = int(lo)
	}
	if len(args) > 1 {
		hi, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		sel.MaxVtx = int(hi)
	}

	return py.Object(&pyPathStream{
		stream: sqsum.SelectFromCatalog(c.cat, sel),
	}), nil
}

func ph_PathStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pyPathStream)
	count := s.stream.PullAll()
	return py.Int(count), nil
}

// stdoutWriter adapts os.Stdout to the WriteCloser a stream Print stage wants.
type stdoutWriter struct{}

func (stdoutWriter) Write(buf []byte) (int, error) {
	return os.Stdout.Write(buf)
}

func (stdoutWriter) Close() error {
	return nil
}

func ph_PathStream_Print(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pyPathStream)

	opts := sqsum.PrintOpts{}
	py.LoadTuple(args, []interface{}{&opts.Label})

	next := s.stream.Print(stdoutWriter{}, opts)
	return py.Object(&pyPathStream{stream: next}), nil
}

func ph_PathStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pyPathStream)
	c, ok := args[0].(*pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if c.cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", sqsum.ErrCatalogReadOnly)
	}

	next := s.stream.AddTo(c.cat)
	return py.Object(&pyPathStream{stream: next}), nil
}

func ph_PathStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(*pyPathStream)
	next := s.stream.AddTo(libsqsum.NewDropDupes(libsqsum.DropDupeOpts{}))
	return py.Object(&pyPathStream{stream: next}), nil
}

func init() {

	/////////////////////////////////
	// Solver
	{
		pySolverType.Dict["SolveNext"] = py.MustNewMethod("SolveNext", ph_Solver_SolveNext, 0, "extends the search by one vertex, returning the new run's solution count")
		pySolverType.Dict["N"] = py.MustNewMethod("N", ph_Solver_N, 0, "")
		pySolverType.Dict["NumPaths"] = py.MustNewMethod("NumPaths", ph_Solver_NumPaths, 0, "")
		pySolverType.Dict["PrintCase"] = py.MustNewMethod("PrintCase", ph_Solver_PrintCase, 0, "prints the last completed case block")
		pySolverType.Dict["Solutions"] = py.MustNewMethod("Solutions", ph_Solver_Solutions, 0, "streams the last completed case's solutions")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", ph_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumSolutions"] = py.MustNewMethod("NumSolutions", ph_Catalog_NumSolutions, 0, "")
		pyCatalogType.Dict["LastCompleted"] = py.MustNewMethod("LastCompleted", ph_Catalog_LastCompleted, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", ph_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", ph_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", ph_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// PathStream
	{
		pyPathStreamType.Dict["Go"] = py.MustNewMethod("Go", ph_PathStream_Go, 0, "counts the number of paths output from the PathStream")
		pyPathStreamType.Dict["Print"] = py.MustNewMethod("Print", ph_PathStream_Print, 0, "prints each path from the PathStream")
		pyPathStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", ph_PathStream_AddTo, 0, "")
		pyPathStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", ph_PathStream_DropDupes, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewSolver", ph_NewSolver, 0, ""),
			py.MustNewMethod("GetWorkspace", ph_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_VTX":     py.Int(sqsum.MaxVtxID),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pysqsum",
				Doc:  "square-sum all-paths solver gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*pyWorkspace).Close()
				}
			},
		})
	}
}
