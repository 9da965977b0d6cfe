package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/plan-systems/klog"

	_ "github.com/go-python/gpython/stdlib"
	_ "github.com/sqsum-systems/go-sqsum/pysqsum"
)

// runScript executes a python script (or an interactive REPL when pathname is
// empty) with the _pysqsum module available for import.
func runScript(pathname string) {
	ctx := py.NewContext(py.DefaultContextOpts())

	var err error
	if len(pathname) == 0 {
		cli.RunREPL(repl.New(ctx))
	} else {
		startAt := time.Now()
		klog.Infof("running '%s'", pathname)

		_, err = py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
		if err == nil {
			klog.Infof("'%s' completed in %v", pathname, time.Since(startAt))
		}
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
		klog.Fatal(err)
	}
}
