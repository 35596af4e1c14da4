// Package oscall provides the syscall surface that probes exercise.
//
// A Surface follows the conventions of the C library wrappers a userland test
// suite calls: each operation returns a status, which is OK (0) or Failed (-1)
// for Chdir and the path length or Failed for Getcwd, with the errno carried
// separately as a syscall.Errno.
package oscall

import (
	"bytes"
	"syscall"
)

// Status values shared by all surfaces.
const (
	OK     = 0
	Failed = -1
)

// Surface is the set of directory syscalls used by probes.
type Surface interface {
	// Chdir changes the working directory to path, which may be relative to
	// the current working directory. It returns OK, or Failed and the errno.
	Chdir(path string) (int, error)
	// Getcwd writes the working directory into buf, followed by a NUL byte,
	// and returns the length of the path without the terminator. It fails
	// with EINVAL if buf is empty and ERANGE if buf cannot hold the path and
	// its terminator. On failure the content of buf is unspecified.
	Getcwd(buf []byte) (int, error)
}

// CString returns the content of buf up to the first NUL byte, or all of buf
// if there is none.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// fillCwd implements the buffer contract of Getcwd for surfaces that know the
// working directory as a string.
func fillCwd(buf []byte, cwd string) (int, error) {
	if len(buf) == 0 {
		return Failed, syscall.EINVAL
	}
	if len(cwd)+1 > len(buf) {
		return Failed, syscall.ERANGE
	}
	n := copy(buf, cwd)
	buf[n] = 0
	return n, nil
}
