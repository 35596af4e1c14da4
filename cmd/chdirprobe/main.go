// Chdirprobe is the directory-change probe of a userland syscall test suite. It
// changes into the test_chdir directory, asserts that the change succeeded,
// then queries and prints the new working directory between the suite's start
// and end markers.
//
// It can also print its build information and list the ledger of recorded
// runs.
package main

import (
	"os"

	"oscomp.dev/chdirprobe/pkg/buildinfo"
	"oscomp.dev/chdirprobe/pkg/history"
	"oscomp.dev/chdirprobe/pkg/probe"
	"oscomp.dev/chdirprobe/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &history.Program{}, &probe.Program{})))
}
