//go:build !debug
// +build !debug

package lasercavity

func DebugLog(format string, args ...interface{}) {}

func DebugLogOnce(format string, args ...interface{}) {}
