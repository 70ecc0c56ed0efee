// Package ui renders command and task lifecycle events as short console messages.
//
// It is selected for the console log format; the structured format keeps using
// the zap observers in execshell and taskrun.
package ui
