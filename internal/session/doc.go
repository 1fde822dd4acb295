// Package session holds the state of one CLI run: the active submission's
// cancel handle, its latest progress, and the finished subtitle result with
// its save and copy actions.
//
// The command layer passes a *Session explicitly instead of sharing package
// globals. Starting a submission cancels whatever submission came before.
package session
