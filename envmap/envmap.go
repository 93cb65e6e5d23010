// Package envmap decodes high dynamic range environment maps on a
// background goroutine and hands the result to the render loop
// through a poll-once, consume-once handle.
package envmap

import (
	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/prism-engine/prism/log"
)

var logger = log.New("envmap")

// Result holds decoded environment map texels in RGBA order, four
// float32 components per pixel. The zero value (nil pixels, 0x0
// dimensions) is the decode-failure sentinel.
type Result struct {
	Pix    []float32
	Width  int
	Height int
}

// Failed reports whether this result is the failure sentinel.
func (r Result) Failed() bool {
	return r.Pix == nil
}

// Loader is a one-shot handle to an in-flight environment map decode.
// It is polled from the render thread only; the decoded buffer is
// handed over at most once across the process lifetime.
type Loader struct {
	resolved chan Result
	consumed bool
}

// Load starts decoding the EXR file at path on a background goroutine
// and returns a pollable handle. A decode failure is logged and
// resolves the handle with the failure sentinel; it never aborts the
// caller's frame loop.
func Load(path string) *Loader {
	l := &Loader{resolved: make(chan Result, 1)}

	go func() {
		img, err := exr.DecodeFile(path)
		if err != nil {
			logger.Errorf("error loading environment map %q: %v", path, err)
			l.resolved <- Result{}
			return
		}

		bounds := img.Bounds()
		logger.Noticef("loaded environment map %q: %d x %d", path, bounds.Dx(), bounds.Dy())
		l.resolved <- Result{Pix: img.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
	}()

	return l
}

// Poll performs a non-blocking readiness check. The result is
// delivered exactly once; after that first delivery (success or
// failure sentinel) the handle is exhausted and Poll always reports
// false.
func (l *Loader) Poll() (Result, bool) {
	if l.consumed {
		return Result{}, false
	}

	select {
	case res := <-l.resolved:
		l.consumed = true
		return res, true
	default:
		return Result{}, false
	}
}
