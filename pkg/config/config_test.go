package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"oscomp.dev/chdirprobe/pkg/env"
	"oscomp.dev/chdirprobe/pkg/must"
	"oscomp.dev/chdirprobe/pkg/tt"
)

var (
	It   = tt.It
	Args = tt.Args
)

func lookupIn(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(Overrides{}, lookupIn(nil))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Name: "test_chdir", Target: "test_chdir", BufferSize: 30, Surface: "host"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Resolve (-want +got):\n%s", diff)
	}
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "probe.yaml")
	must.WriteFile(fname, "name: from_file\ntarget: file_target\nbuffer_size: 64\ndb: file.db\n")

	cfg, err := Resolve(
		Overrides{File: fname, Target: "flag_target"},
		lookupIn(map[string]string{
			env.CHDIRPROBE_BUFFER_SIZE: "128",
			env.CHDIRPROBE_TARGET:      "env_target",
			env.CHDIRPROBE_SURFACE:     "mem",
		}))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Name:       "from_file",
		Target:     "flag_target",
		BufferSize: 128,
		Surface:    "mem",
		DB:         "file.db",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Resolve (-want +got):\n%s", diff)
	}
}

func TestResolve_ConfigFileFromEnv(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "probe.yaml")
	must.WriteFile(fname, "target: elsewhere\n")

	cfg, err := Resolve(Overrides{}, lookupIn(map[string]string{env.CHDIRPROBE_CONFIG: fname}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Target != "elsewhere" {
		t.Errorf("Target = %q, want elsewhere", cfg.Target)
	}
}

func TestResolve_Errors(t *testing.T) {
	resolveErr := func(o Overrides, vars map[string]string) string {
		_, err := Resolve(o, lookupIn(vars))
		if err == nil {
			return ""
		}
		return err.Error()
	}
	tt.Test(t, tt.Fn(resolveErr).Named("resolveErr"),
		It("rejects a bad buffer size in the environment").
			Args(Overrides{}, map[string]string{env.CHDIRPROBE_BUFFER_SIZE: "lots"}).
			Rets(`bad $CHDIRPROBE_BUFFER_SIZE: strconv.Atoi: parsing "lots": invalid syntax`),
		It("rejects a negative buffer size").
			Args(Overrides{BufferSize: -1}, map[string]string(nil)).
			Rets(ErrBadBufferSize.Error()),
		It("rejects an unknown surface").
			Args(Overrides{Surface: "qemu"}, map[string]string(nil)).
			Rets(`unknown surface "qemu", want "host" or "mem"`),
	)

	msg := resolveErr(Overrides{File: filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	if !strings.HasPrefix(msg, "cannot read config: ") {
		t.Errorf("got error %q for a missing config file", msg)
	}
}

func TestLoad(t *testing.T) {
	load := func(s string) (Config, error) {
		cfg := Default()
		err := cfg.Load(strings.NewReader(s))
		return cfg, err
	}
	tt.Test(t, tt.Fn(load).Named("load"),
		It("accepts an empty document").Args("").Rets(Default(), nil),
		It("overrides present keys").Args("buffer_size: 4096\n").
			Rets(Config{Name: "test_chdir", Target: "test_chdir", BufferSize: 4096, Surface: "host"}, nil),
	)

	cfg := Default()
	if err := cfg.Load(strings.NewReader("bogus: 1\n")); err == nil {
		t.Errorf("Load accepted an unknown key")
	}
}

func TestValidate(t *testing.T) {
	validate := func(c Config) error { return c.Validate() }
	tt.Test(t, tt.Fn(validate).Named("validate"),
		Args(Default()).Rets(nil),
		Args(Config{Target: "t", BufferSize: 1, Surface: "mem"}).Rets(ErrEmptyName),
		Args(Config{Name: "n", BufferSize: 1, Surface: "mem"}).Rets(ErrEmptyTarget),
		Args(Config{Name: "n", Target: "t", Surface: "mem"}).Rets(ErrBadBufferSize),
	)
}
