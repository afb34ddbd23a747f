// Package errutil carries the invariant-check helpers used across the
// engine. Checks are compiled in but inert unless DEBUG=1 is set in the
// environment.
package errutil

import (
	"fmt"
	"log"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") == "1"
}

// Debug reports whether debug checks and logging are enabled.
func Debug() bool { return debug }

// Debugf logs via the standard logger when DEBUG=1.
func Debugf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func FatalIf(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("FATAL: %v", err))
}

func Bug(format string, msg ...any) {
	if debug {
		panic(fmt.Sprintf(format, msg...))
	}
}

func BugOn(cond bool, format string, msg ...any) {
	if debug && cond {
		Bug(format, msg...)
	}
}
