// Package history implements the subprogram that lists the run ledger.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"oscomp.dev/chdirprobe/pkg/config"
	"oscomp.dev/chdirprobe/pkg/prog"
	"oscomp.dev/chdirprobe/pkg/store"
)

// DefaultLimit is the default number of runs listed.
const DefaultLimit = 10

// Program is the history subprogram, run when -history is given.
type Program struct {
	history bool
	limit   int
	json    *bool

	settings *config.Overrides
	// Now returns the time that relative times are computed against. If nil,
	// time.Now is used.
	Now func() time.Time
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.history, "history", false, "List recorded runs from the ledger and quit")
	fs.IntVar(&p.limit, "history-limit", DefaultLimit, "Maximum number of runs listed by -history")
	p.json = fs.JSON()
	p.settings = fs.Settings()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.history {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("-history doesn't take arguments")
	}
	cfg, err := config.Resolve(*p.settings, os.LookupEnv)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	if cfg.DB == "" {
		return prog.BadUsage("-history requires a ledger; use -db or $CHDIRPROBE_DB")
	}
	if p.limit <= 0 {
		return prog.BadUsage("-history-limit must be positive")
	}

	st, err := store.NewStore(cfg.DB)
	if err != nil {
		return fmt.Errorf("cannot open ledger: %w", err)
	}
	defer st.Close()
	runs, err := st.Runs(p.limit)
	if err != nil {
		return err
	}
	if *p.json {
		return writeJSON(fds[1], runs)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	writeText(fds[1], runs, now())
	return nil
}

func writeText(w io.Writer, runs []store.Run, now time.Time) {
	for _, r := range runs {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}
		when := humanize.RelTime(r.Time, now, "ago", "from now")
		fmt.Fprintf(w, "#%d %s %s %s chdir(%q) = %d", r.Seq, status, when, r.Name, r.Target, r.ChdirRet)
		if r.Err != "" {
			fmt.Fprintf(w, ": %s\n", r.Err)
		} else {
			fmt.Fprintf(w, ", cwd %s\n", r.Cwd)
		}
	}
}

type jsonRun struct {
	Seq int `json:"seq"`
	store.Run
}

func writeJSON(w io.Writer, runs []store.Run) error {
	enc := json.NewEncoder(w)
	for _, r := range runs {
		if err := enc.Encode(jsonRun{r.Seq, r}); err != nil {
			return err
		}
	}
	return nil
}
