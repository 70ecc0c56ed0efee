// Package tasks provides the Cobra commands that list and run chores tasks.
package tasks
