package store

import (
	"path/filepath"

	"oscomp.dev/chdirprobe/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file. The Store is
// closed and the file removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) Store {
	dir := testutil.TempDir(c)
	st, err := NewStore(filepath.Join(dir, "db"))
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() { st.Close() })
	return st
}
