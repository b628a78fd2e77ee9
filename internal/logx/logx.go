// Package logx centralizes structured logging for the decoder core.
//
// The reference project (Dire Wolf) prints color-coded lines through a
// small dw_color_e enum: info (black), error (red), rec (green),
// decoded (blue), debug (dark green). We keep the same severity
// classes but express them as charmbracelet/log levels plus a "stage"
// field, so a consumer can filter/grep structured output instead of
// parsing ANSI escapes.
package logx

import (
	"os"

	"github.com/charmbracelet/log"
)

// Class mirrors the reference project's dw_color_e severity classes.
type Class int

const (
	ClassInfo Class = iota
	ClassError
	ClassRec
	ClassDecoded
	ClassDebug
)

var base = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// L returns the shared logger instance.
func L() *log.Logger { return base }

// SetLevel adjusts verbosity; level 0 is quiet (errors only), higher
// numbers enable rec/decoded/debug lines, matching the reference
// project's -d<n>/-q<n> verbosity knobs.
func SetLevel(verbosity int) {
	switch {
	case verbosity <= 0:
		base.SetLevel(log.WarnLevel)
	case verbosity == 1:
		base.SetLevel(log.InfoLevel)
	default:
		base.SetLevel(log.DebugLevel)
	}
}

// Stage logs one pipeline event under the given severity class and
// stage name, with optional key/value pairs.
func Stage(c Class, stage string, msg string, kv ...interface{}) {
	args := append([]interface{}{"stage", stage}, kv...)
	switch c {
	case ClassError:
		base.Error(msg, args...)
	case ClassRec, ClassDebug:
		base.Debug(msg, args...)
	case ClassDecoded, ClassInfo:
		base.Info(msg, args...)
	}
}
