package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"oscomp.dev/chdirprobe/pkg/config"
	"oscomp.dev/chdirprobe/pkg/must"
	"oscomp.dev/chdirprobe/pkg/oscall"
	"oscomp.dev/chdirprobe/pkg/prog"
	"oscomp.dev/chdirprobe/pkg/store"
	"oscomp.dev/chdirprobe/pkg/sys"
)

// Exit statuses of the probe subprogram.
const (
	// ExitAssertion is the status of a process killed by SIGABRT, which is how
	// a failed assertion ends a C test program.
	ExitAssertion = 134
	ExitQuery     = 1
)

// Program is the probe subprogram. It is always suitable, so it should be the
// last subprogram of a composite.
type Program struct {
	// Surface, if not nil, is probed instead of the one named by the
	// configuration.
	Surface oscall.Surface

	settings *config.Overrides
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.settings = fs.Settings()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("unexpected arguments: " + strings.Join(args, " "))
	}
	cfg, err := config.Resolve(*p.settings, os.LookupEnv)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	logger.Printf("resolved config %+v", cfg)

	s := p.Surface
	if s == nil {
		s = surfaceFor(cfg)
	}
	probe := New(cfg.Name, cfg.Target, cfg.BufferSize, s)
	probe.Markers.Bold = sys.IsFileATTY(fds[1])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, runErr := probe.Run(ctx, fds[1])

	if cfg.DB != "" {
		if err := record(cfg.DB, res, runErr); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot record run:", err)
		}
	}

	var assertErr *AssertionError
	var queryErr *QueryError
	switch {
	case runErr == nil:
		return nil
	case errors.As(runErr, &assertErr):
		return prog.Fail(ExitAssertion, runErr)
	case errors.As(runErr, &queryErr):
		return prog.Fail(ExitQuery, runErr)
	default:
		return runErr
	}
}

func surfaceFor(cfg config.Config) oscall.Surface {
	if cfg.Surface == config.SurfaceMem {
		return SuiteMem(cfg.Target)
	}
	return oscall.Host{}
}

// SuiteMem returns an in-memory surface laid out like the environment the
// probe runs in as part of its test suite: the working directory is /root,
// and the target directory exists.
func SuiteMem(target string) *oscall.Mem {
	m := oscall.NewMem()
	must.OK(m.MkdirAll("/root"))
	must.OK1(m.Chdir("/root"))
	// Targets that cannot be created, for example ones going through a file,
	// are left missing; the probe reports the failure.
	m.MkdirAll(target)
	return m
}

func record(dbname string, res Result, runErr error) error {
	st, err := store.NewStore(dbname)
	if err != nil {
		return err
	}
	defer st.Close()
	r := store.Run{Name: res.Name, Target: res.Target, ChdirRet: res.ChdirRet, Cwd: res.Cwd}
	if runErr != nil {
		r.Err = runErr.Error()
	}
	_, err = st.AddRun(r)
	return err
}
