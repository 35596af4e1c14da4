package oscall

import (
	"golang.org/x/sys/unix"
)

// Host is the Surface of the host kernel.
type Host struct{}

// Chdir calls chdir(2).
func (Host) Chdir(path string) (int, error) {
	if err := unix.Chdir(path); err != nil {
		return Failed, err
	}
	return OK, nil
}

// Getcwd calls getcwd(2) directly, so that the kernel's own bound check on
// the buffer applies.
func (Host) Getcwd(buf []byte) (int, error) {
	if len(buf) == 0 {
		return Failed, unix.EINVAL
	}
	n, err := unix.Getcwd(buf)
	if err != nil {
		return Failed, err
	}
	// The kernel counts the terminator. A path that doesn't start with "/"
	// is "(unreachable)/...", reported when the cwd is outside the current
	// root.
	if n < 1 || n > len(buf) || buf[n-1] != 0 {
		return Failed, unix.EINVAL
	}
	if buf[0] != '/' {
		return Failed, unix.ENOENT
	}
	return n - 1, nil
}
