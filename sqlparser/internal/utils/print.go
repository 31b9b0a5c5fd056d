package utils

import (
	"fmt"
	"os"
)

var _, enableDebug = os.LookupEnv("SQLSCRIPT_DEBUG")

// DPrint traces to stderr when SQLSCRIPT_DEBUG is set. Statement output
// goes to stdout, so the two never mix.
func DPrint(format string, a ...any) {
	if !enableDebug {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[0;31mDEBUG:\033[0m")
	fmt.Fprintf(os.Stderr, format, a...)
}
