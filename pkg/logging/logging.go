// Package logging centralizes the glog calls used across the compiler and
// runtime, grounded on jyane-jnes's direct glog.Infof/Fatalf usage in its
// bus and UI code.
package logging

import "github.com/golang/glog"

// Infof logs at the info level.
func Infof(format string, args ...any) {
	glog.Infof(format, args...)
}

// Warningf logs at the warning level.
func Warningf(format string, args ...any) {
	glog.Warningf(format, args...)
}

// Fatalf logs at the fatal level and terminates the process, matching
// glog.Fatalf's own behavior.
func Fatalf(format string, args ...any) {
	glog.Fatalf(format, args...)
}
