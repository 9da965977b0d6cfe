package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plan-systems/klog"

	"github.com/sqsum-systems/go-sqsum/libsqsum"
	"github.com/sqsum-systems/go-sqsum/libsqsum/catalog"
	"github.com/sqsum-systems/go-sqsum/sqsum"
)

func main() {

	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	maxN := flag.Int("max-n", 0, "stop after completing run 1-N (0 runs until another limit hits)")
	maxPaths := flag.Int64("max-paths", 0, "abort when the path store would exceed this many paths (0 = unbounded)")
	workers := flag.Int("workers", 0, "bridging scan workers per step (<= 1 runs sequential)")
	dropDupes := flag.Bool("drop-dupes", false, "suppress structurally duplicate paths (changes store size, never solutions)")
	timeout := flag.Duration("timeout", 0, "wall-clock limit for the whole run (0 = none)")
	dbPath := flag.String("db", "", "record case outcomes into a run catalog at this path")
	verify := flag.String("verify", "", "verify a path expression such as '|8->1->15->10|' and exit")
	runREPL := flag.Bool("repl", false, "start a python REPL with the _pysqsum module loaded")

	flag.Parse()

	switch {
	case *verify != "":
		runVerify(*verify)

	case *runREPL:
		runScript("")

	case flag.Arg(0) != "":
		runScript(flag.Arg(0))

	default:
		runSolve(solveConfig{
			opts: libsqsum.SolverOpts{
				MaxVtx:    *maxN,
				MaxPaths:  *maxPaths,
				Workers:   *workers,
				DropDupes: *dropDupes,
			},
			timeout: *timeout,
			dbPath:  *dbPath,
		})
	}

	klog.Flush()
}

func runVerify(expr string) {
	p, err := libsqsum.ParsePathExpr(expr)
	if err != nil {
		fmt.Printf("BAD: %v\n", err)
		return
	}
	if p.IsSolutionFor(p.VtxCount()) {
		fmt.Printf("OK: %s solves the run 1-%d\n", p, p.VtxCount())
	} else {
		fmt.Printf("OK: %s is a partial path on %d vertices\n", p, p.VtxCount())
	}
}

type solveConfig struct {
	opts    libsqsum.SolverOpts
	timeout time.Duration
	dbPath  string
}

func runSolve(cfg solveConfig) {
	ctx := context.Background()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cat sqsum.Catalog
	if cfg.dbPath != "" {
		catCtx := sqsum.NewCatalogContext()
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()

		var err error
		cat, err = catalog.OpenCatalog(catCtx, sqsum.CatalogOpts{
			DbPathName: cfg.dbPath,
		})
		if err != nil {
			klog.Errorf("open catalog: %v", err)
			return
		}
	}

	sv := libsqsum.NewSolver(cfg.opts)
	libsqsum.WriteBanner(os.Stdout)

	for {
		step, err := sv.SolveNext(ctx)
		if err != nil {
			switch {
			case errors.Is(err, sqsum.ErrMaxVtx):
				klog.Infof("vertex limit reached; last completed run: 1-%d", sv.N())
			case errors.Is(err, sqsum.ErrPathLimit):
				klog.Warningf("%v; last completed run: 1-%d", err, sv.N())
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				klog.Warningf("run stopped (%v); last completed run: 1-%d", err, sv.N())
			default:
				klog.Errorf("run failed: %v", err)
			}
			return
		}

		step.WriteAsString(os.Stdout)

		if cat != nil {
			if err := cat.RecordCase(&step.CaseResult); err != nil {
				klog.Errorf("record case 1-%d: %v", step.N, err)
				return
			}
		}
	}
}
