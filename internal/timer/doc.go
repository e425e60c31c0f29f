// Package timer implements the countdown state machine of the Pomodoro widget:
// a remaining-seconds counter with a running flag, duration validation and the
// pure progress/label derivations used for rendering.
package timer
