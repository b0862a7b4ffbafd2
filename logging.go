package molt

import "github.com/juju/loggo"

var logger = loggo.GetLogger("molt")

// SetDebug raises or lowers the package logger's level. The CLI wires
// this to --debug / MOLT_DEBUG so the interpreter's call/return trace and
// the run built-in's re-entry messages can be turned on without
// recompiling.
func SetDebug(enabled bool) {
	if enabled {
		logger.SetLogLevel(loggo.DEBUG)
	} else {
		logger.SetLogLevel(loggo.INFO)
	}
}
