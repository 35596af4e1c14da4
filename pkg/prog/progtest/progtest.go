// Package progtest provides a framework for testing subprograms.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T, the Program implementation under test, and any number of test
// cases.
//
// Test cases are constructed using the ThatProbe function, followed by method
// calls that add additional information to it.
//
// Example:
//
//	Test(t, someProgram,
//		ThatProbe("-target", "foo").WritesStdoutContaining("chdir ret: 0"),
//		ThatProbe("-buffer-size", "-1").ExitsWith(2).WritesStderrContaining("buffer size"))
package progtest

import (
	"os"
	"strings"
	"testing"

	"oscomp.dev/chdirprobe/pkg/env"
	"oscomp.dev/chdirprobe/pkg/must"
	"oscomp.dev/chdirprobe/pkg/prog"
	"oscomp.dev/chdirprobe/pkg/testutil"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	stdout   output
	stderr   output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + quote(o.content)
	}
	return quote(o.content)
}

// ThatProbe returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "chdirprobe -bad-flag" exits with 2
// is written as:
//
//	ThatProbe("-bad-flag").ExitsWith(2)
func ThatProbe(args ...string) Case {
	return Case{args: append([]string{"chdirprobe"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatProbe("-version", "-log", "x").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to return with
// the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program. CHDIRPROBE_* environment
// variables are unset for the duration of the test.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	testutil.Unsetenv(t, env.Probe...)
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !matchOutput(r.stdout, c.want.stdout) {
				t.Errorf("got stdout %v, want %v", r.stdout, c.want.stdout)
			}
			if !matchOutput(r.stderr, c.want.stderr) {
				t.Errorf("got stderr %v, want %v", r.stderr, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments, and returns its exit code,
// stdout and stderr. The first argument is the program name.
func Run(p prog.Program, args ...string) (exit int, stdout, stderr string) {
	r := run(p, args, "")
	return r.exitCode, r.stdout.content, r.stderr.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	// write to stdin before calling prog.Run so that the data is available
	// to read.
	must.OK1(w0.WriteString(stdin))
	must.OK(w0.Close())
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	// Read stdout and stderr concurrently to avoid deadlock when the program
	// writes more than a pipe can buffer.
	outCh := make(chan string, 1)
	errCh := make(chan string, 1)
	go func() { outCh <- string(must.ReadAllAndClose(r1)) }()
	go func() { errCh <- string(must.ReadAllAndClose(r2)) }()

	exitCode := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	must.OK(r0.Close())
	must.OK(w1.Close())
	must.OK(w2.Close())
	return result{exitCode, output{content: <-outCh}, output{content: <-errCh}}
}

func matchOutput(got, want output) bool {
	if want.partial {
		return strings.Contains(got.content, want.content)
	}
	return got.content == want.content
}

func quote(s string) string {
	if len(s) == 0 {
		return "empty output"
	}
	return "\"" + strings.ReplaceAll(s, "\n", `\n`) + "\""
}
