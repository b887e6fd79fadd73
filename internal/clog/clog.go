// Package clog centralizes the structured-logging calling convention over
// github.com/mudler/xlog; pkg/chatparser's handler registry is its caller.
package clog

import "github.com/mudler/xlog"

func Debug(msg string, args ...any) {
	xlog.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	xlog.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	xlog.Error(msg, args...)
}
