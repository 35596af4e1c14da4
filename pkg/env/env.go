// Package env keeps names of environment variables with special significance to
// chdirprobe.
package env

// Environment variables read by chdirprobe. The CHDIRPROBE_* variables override
// the corresponding keys of the configuration file, and are in turn overridden
// by command-line flags.
const (
	CHDIRPROBE_BUFFER_SIZE = "CHDIRPROBE_BUFFER_SIZE"
	CHDIRPROBE_CONFIG      = "CHDIRPROBE_CONFIG"
	CHDIRPROBE_DB          = "CHDIRPROBE_DB"
	CHDIRPROBE_FLAGS       = "CHDIRPROBE_FLAGS"
	CHDIRPROBE_LOG         = "CHDIRPROBE_LOG"
	CHDIRPROBE_NAME        = "CHDIRPROBE_NAME"
	CHDIRPROBE_SURFACE     = "CHDIRPROBE_SURFACE"
	CHDIRPROBE_TARGET      = "CHDIRPROBE_TARGET"
	HOME                   = "HOME"
	PWD                    = "PWD"
)

// Probe lists all CHDIRPROBE_* variables that affect a probe run. Tests use it
// to start from a clean environment.
var Probe = []string{
	CHDIRPROBE_BUFFER_SIZE, CHDIRPROBE_CONFIG, CHDIRPROBE_DB, CHDIRPROBE_FLAGS,
	CHDIRPROBE_LOG, CHDIRPROBE_NAME, CHDIRPROBE_SURFACE, CHDIRPROBE_TARGET,
}
