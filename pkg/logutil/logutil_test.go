package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oscomp.dev/chdirprobe/pkg/must"
)

func TestSetOutput_RedirectsExistingLoggers(t *testing.T) {
	logger := GetLogger("[test] ")
	var sb strings.Builder
	SetOutput(&sb)
	t.Cleanup(func() { SetOutputFile("") })

	logger.Println("hello")
	if !strings.Contains(sb.String(), "[test] ") || !strings.Contains(sb.String(), "hello\n") {
		t.Errorf("got %q, want prefixed hello", sb.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log")
	logger := GetLogger("[file] ")
	must.OK(SetOutputFile(fname))
	logger.Println("to file")
	must.OK(SetOutputFile(""))

	content := string(must.OK1(os.ReadFile(fname)))
	if !strings.Contains(content, "[file] ") || !strings.Contains(content, "to file") {
		t.Errorf("log file contains %q", content)
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("want error for log file in missing directory")
	}
}
