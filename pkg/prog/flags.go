package prog

import (
	"flag"

	"oscomp.dev/chdirprobe/pkg/config"
)

// FlagSet wraps a [flag.FlagSet] to provide methods to register flags shared
// by multiple subprograms. Calling one of them more than once registers the
// flags only once.
type FlagSet struct {
	*flag.FlagSet
	settings *config.Overrides
	json     *bool
}

// Settings registers flags that override the configuration of a probe run.
func (fs *FlagSet) Settings() *config.Overrides {
	if fs.settings == nil {
		var o config.Overrides
		fs.StringVar(&o.File, "config", "",
			"Path to the YAML configuration file")
		fs.StringVar(&o.Name, "name", "",
			"Name of the probe in the start and end markers (default "+config.DefaultName+")")
		fs.StringVar(&o.Target, "target", "",
			"Directory to change into (default "+config.DefaultTarget+")")
		fs.IntVar(&o.BufferSize, "buffer-size", 0,
			"Capacity of the working directory buffer (default 30)")
		fs.StringVar(&o.Surface, "surface", "",
			"Syscall surface to probe, host or mem (default host)")
		fs.StringVar(&o.DB, "db", "",
			"Path to the run ledger database; runs are not recorded if empty")
		fs.settings = &o
	}
	return fs.settings
}

// JSON registers the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -version or -history in JSON")
		fs.json = &json
	}
	return fs.json
}
