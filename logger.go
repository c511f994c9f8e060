// logger: Package-Scoped Diagnostics
// 01   Aug.  6, 2026   Initial version

// A swappable, component-scoped logger for the solver, following the
// pattern of gnark's logger package: a console writer by default,
// overridable by the embedding application.

package lposolve

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var pkgLogger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	pkgLogger = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		pkgLogger = zerolog.Nop()
	}
}

// SetOutput changes the output of the package logger.
func SetOutput(w io.Writer) {
	pkgLogger = pkgLogger.Output(w)
}

// SetLogger lets an embedding application override the package logger
// entirely, e.g. to route solver diagnostics into its own structured log.
func SetLogger(l zerolog.Logger) {
	pkgLogger = l
}

// DisableLogging silences all solver diagnostics.
func DisableLogging() {
	pkgLogger = zerolog.Nop()
}

// Logger returns a sub-logger scoped to component, e.g. "simplex" or
// "branchbound".
func Logger(component string) zerolog.Logger {
	return pkgLogger.With().Str("component", component).Logger()
}
