// Package probe implements the directory-change probe: it changes into a
// fixed directory, asserts that the change succeeded, then queries and
// prints the new working directory.
package probe

import (
	"context"
	"fmt"
	"io"

	"oscomp.dev/chdirprobe/pkg/logutil"
	"oscomp.dev/chdirprobe/pkg/oscall"
)

var logger = logutil.GetLogger("[probe] ")

// Probe is a directory-change probe. The working-directory buffer is allocated
// once and overwritten by every run.
type Probe struct {
	Name    string
	Target  string
	Surface oscall.Surface
	Markers Markers

	buf []byte
}

// New creates a Probe whose working-directory buffer has the given capacity.
func New(name, target string, capacity int, s oscall.Surface) *Probe {
	return &Probe{Name: name, Target: target, Surface: s, buf: make([]byte, capacity)}
}

// Capacity returns the capacity of the working-directory buffer.
func (p *Probe) Capacity() int { return len(p.buf) }

// Result describes a run.
type Result struct {
	Name     string
	Target   string
	ChdirRet int
	// Working directory after the change; empty if the query didn't run or
	// failed.
	Cwd string
}

// Run runs the probe, writing its report to w. The returned error is an
// *AssertionError if the directory change failed, a *QueryError if the
// working directory could not be queried, or the error of ctx if it was
// canceled before a step started. The Result is filled up to the step that
// failed.
func (p *Probe) Run(ctx context.Context, w io.Writer) (Result, error) {
	res := Result{Name: p.Name, Target: p.Target, ChdirRet: oscall.Failed}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	p.Markers.Start(w, p.Name)

	ret, errno := p.Surface.Chdir(p.Target)
	res.ChdirRet = ret
	logger.Printf("chdir(%q) = %d, errno %v", p.Target, ret, errno)
	fmt.Fprintf(w, "chdir ret: %d\n", ret)
	if ret != oscall.OK {
		return res, &AssertionError{Expr: "ret == 0", Path: p.Target, Ret: ret, Errno: errno}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	n, errno := p.Surface.Getcwd(p.buf)
	logger.Printf("getcwd(buf, %d) = %d, errno %v", len(p.buf), n, errno)
	if n < 0 {
		return res, &QueryError{Capacity: len(p.buf), Errno: errno}
	}
	res.Cwd = oscall.CString(p.buf)
	fmt.Fprintf(w, "  current working dir : %s\n", res.Cwd)

	p.Markers.End(w, p.Name)
	return res, nil
}
