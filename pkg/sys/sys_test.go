package sys

import (
	"os"
	"testing"

	"oscomp.dev/chdirprobe/pkg/must"
)

func TestIsFileATTY_Pipe(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if IsFileATTY(r) || IsFileATTY(w) {
		t.Errorf("pipe reported as a terminal")
	}
}

func TestIsFileATTY_RegularFile(t *testing.T) {
	f := must.OK1(os.CreateTemp(t.TempDir(), "sys"))
	defer f.Close()
	if IsFileATTY(f) {
		t.Errorf("regular file reported as a terminal")
	}
}

func TestIsFileATTY_Nil(t *testing.T) {
	if IsFileATTY(nil) {
		t.Errorf("nil file reported as a terminal")
	}
}
