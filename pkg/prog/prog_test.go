package prog_test

import (
	"errors"
	"os"
	"testing"

	"oscomp.dev/chdirprobe/pkg/config"
	"oscomp.dev/chdirprobe/pkg/env"
	"oscomp.dev/chdirprobe/pkg/logutil"
	. "oscomp.dev/chdirprobe/pkg/prog"
	"oscomp.dev/chdirprobe/pkg/prog/progtest"
	"oscomp.dev/chdirprobe/pkg/testutil"
)

var (
	Test      = progtest.Test
	ThatProbe = progtest.ThatProbe
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)
	t.Cleanup(func() { logutil.SetOutputFile("") })

	Test(t, testProgram{},
		ThatProbe("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatProbe("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatProbe("-help").
			WritesStdoutContaining("Usage: chdirprobe [flags]"),

		ThatProbe("-cpuprofile", "cpuprof").DoesNothing(),
		ThatProbe("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),

		ThatProbe("-log", "log").DoesNothing(),
	)

	// Check for the effect of -cpuprofile. There isn't much to test beyond a
	// sanity check that the profile file now exists.
	if _, err := os.Stat("cpuprof"); err != nil {
		t.Errorf("CPU profile file does not exist: %v", err)
	}
	if _, err := os.Stat("log"); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	Test(t, &flagProgram{},
		ThatProbe().WritesStdout(""),
	)

	// Test unsets the environment, so call Run directly.
	testutil.Setenv(t, env.CHDIRPROBE_FLAGS, "-name 'from env'")
	exit, stdout, _ := progtest.Run(&flagProgram{}, "chdirprobe")
	if exit != 0 || stdout != "from env" {
		t.Errorf("got (%d, %q), want (0, %q)", exit, stdout, "from env")
	}

	// Flags on the command line win over flags from the environment.
	exit, stdout, _ = progtest.Run(&flagProgram{}, "chdirprobe", "-name", "from args")
	if exit != 0 || stdout != "from args" {
		t.Errorf("got (%d, %q), want (0, %q)", exit, stdout, "from args")
	}

	testutil.Setenv(t, env.CHDIRPROBE_FLAGS, "-name 'unterminated")
	exit, _, stderr := progtest.Run(&flagProgram{}, "chdirprobe")
	if exit != 2 || stderr == "" {
		t.Errorf("got (%d, %q), want exit 2 and an error", exit, stderr)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatProbe().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatProbe().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatProbe().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatProbe().WritesStdout("program 1"),
	)
}

func TestComposite_SharedFlagsRegisteredOnce(t *testing.T) {
	Test(t,
		Composite(&flagProgram{}, &flagProgram{}),
		ThatProbe("-name", "shared").WritesStdout("shared"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatProbe().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatProbe().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatProbe().ExitsWith(0),
	)
}

func TestFail(t *testing.T) {
	Test(t, testProgram{returnErr: Fail(134, errors.New("Assertion failed"))},
		ThatProbe().ExitsWith(134).WritesStderr("Assertion failed\n"),
	)
}

func TestOtherError(t *testing.T) {
	Test(t, testProgram{returnErr: errors.New("something broke")},
		ThatProbe().ExitsWith(2).WritesStderr("something broke\n"),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(f *FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

// flagProgram writes the value of -name.
type flagProgram struct{ settings *config.Overrides }

func (p *flagProgram) RegisterFlags(f *FlagSet) { p.settings = f.Settings() }

func (p *flagProgram) Run(fds [3]*os.File, args []string) error {
	fds[1].WriteString(p.settings.Name)
	return nil
}
