package sqsum

import (
	"fmt"
	"io"
	"strings"
)

// PathStream is a pipeline stage conveying a sequence of Paths.
//
// Paths are immutable, so ownership through the stream is by reference; no
// copies are made between stages.
type PathStream struct {
	Outlet chan *Path
}

func NewPathStream() *PathStream {
	stream := &PathStream{
		Outlet: make(chan *Path),
	}
	return stream
}

// StreamPath returns a stream that emits the single given path and closes.
func StreamPath(p *Path) *PathStream {
	next := NewPathStream()

	go func() {
		next.Outlet <- p
		next.Close()
	}()

	return next
}

// StreamPaths returns a stream that emits the given paths in order and closes.
func StreamPaths(paths []*Path) *PathStream {
	next := &PathStream{
		Outlet: make(chan *Path, 1),
	}

	go func() {
		for _, p := range paths {
			next.Outlet <- p
		}
		next.Close()
	}()

	return next
}

func (stream *PathStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *PathStream) PushPath(p *Path) {
	stream.Outlet <- p
}

func (stream *PathStream) PullPath() *Path {
	p := <-stream.Outlet
	return p
}

// PullAll drains this stream, returning the number of paths pulled.
func (stream *PathStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Print writes each path that passes through, one per line, then forwards it.
func (stream *PathStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *PathStream {

	next := &PathStream{
		Outlet: make(chan *Path, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for p := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			p.WriteAsString(&buf)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- p
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo offers each path to the given adder, forwarding only paths the adder
// accepted as new.
func (stream *PathStream) AddTo(target PathAdder) *PathStream {
	next := &PathStream{
		Outlet: make(chan *Path, 1),
	}

	go func() {
		for p := range stream.Outlet {
			wasAdded := target.TryAddPath(p)
			if wasAdded {
				next.Outlet <- p
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromStream filters this stream by run size.
func (stream *PathStream) SelectFromStream(sel CaseSelector) *PathStream {
	next := &PathStream{
		Outlet: make(chan *Path, 1),
	}

	go func() {
		for p := range stream.Outlet {
			n := p.VtxCount()
			if n >= sel.MinVtx && n <= sel.MaxVtx {
				next.Outlet <- p
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams every recorded solution matching the selector.
func SelectFromCatalog(cat Catalog, sel CaseSelector) *PathStream {
	next := &PathStream{
		Outlet: make(chan *Path, 1),
	}

	onHit := make(chan *Path, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for p := range onHit {
			next.Outlet <- p
		}
		next.Close()
	}()

	return next
}
