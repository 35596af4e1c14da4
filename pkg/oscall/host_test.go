package oscall

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"oscomp.dev/chdirprobe/pkg/testutil"
)

func TestHost_ChdirAndGetcwd(t *testing.T) {
	dir := testutil.InTempDir(t)
	testutil.ApplyDir(testutil.Dir{"test_chdir": testutil.Dir{}})

	ret, err := Host{}.Chdir("test_chdir")
	if ret != OK || err != nil {
		t.Fatalf("Chdir returned (%d, %v), want (0, nil)", ret, err)
	}

	buf := make([]byte, 4096)
	n, err := Host{}.Getcwd(buf)
	if err != nil {
		t.Fatalf("Getcwd returned error %v", err)
	}
	got := CString(buf)
	if n != len(got) {
		t.Errorf("Getcwd returned length %d for path %q", n, got)
	}
	want := filepath.Join(dir, "test_chdir")
	if got != want {
		t.Errorf("Getcwd wrote %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, string(os.PathSeparator)+"test_chdir") {
		t.Errorf("Getcwd wrote %q, want suffix test_chdir", got)
	}
}

func TestHost_ChdirMissingDirectory(t *testing.T) {
	dir := testutil.InTempDir(t)

	ret, err := Host{}.Chdir("test_chdir")
	if ret != Failed {
		t.Errorf("Chdir returned %d, want %d", ret, Failed)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Chdir returned error %v, want ENOENT", err)
	}
	if wd, _ := os.Getwd(); wd != dir {
		t.Errorf("working directory changed to %q after failed Chdir", wd)
	}
}

func TestHost_GetcwdSmallBuffer(t *testing.T) {
	testutil.InTempDir(t)

	n, err := Host{}.Getcwd(make([]byte, 2))
	if n != Failed || err != syscall.ERANGE {
		t.Errorf("Getcwd returned (%d, %v), want (-1, ERANGE)", n, err)
	}
}

func TestHost_GetcwdEmptyBuffer(t *testing.T) {
	n, err := Host{}.Getcwd(nil)
	if n != Failed || err != syscall.EINVAL {
		t.Errorf("Getcwd returned (%d, %v), want (-1, EINVAL)", n, err)
	}
}
