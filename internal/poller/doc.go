// Package poller drives a backend job to a terminal state.
//
// A Poller fetches job status on an adaptive cadence until the job completes,
// fails, runs out of ticks, exhausts its consecutive-error budget, or the
// context is canceled. Fetches are strictly sequential: the next timer is
// armed only after the previous fetch returns.
package poller
