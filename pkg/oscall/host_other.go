//go:build !linux

package oscall

import (
	"errors"
	"io/fs"
	"os"
)

// Host is the Surface of the host kernel. On this platform it goes through the
// os package, and applies the buffer contract of Getcwd itself.
type Host struct{}

// Chdir wraps os.Chdir.
func (Host) Chdir(path string) (int, error) {
	if err := os.Chdir(path); err != nil {
		return Failed, unwrapPathError(err)
	}
	return OK, nil
}

// Getcwd wraps os.Getwd.
func (Host) Getcwd(buf []byte) (int, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Failed, unwrapPathError(err)
	}
	return fillCwd(buf, wd)
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
