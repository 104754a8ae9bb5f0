// Package version contains information on the current version of the
// module. It is split out for easy use by cmd/lazylrdemo's -version flag.
package version

// Current is the string representing the current version of lazylr.
const Current = "0.1.0"
