// Package gtimer implements a per-strand deadline timer service for an
// actor/coroutine runtime.
//
// A TimerCore is bound to exactly one Strand (a serial execution context,
// e.g. one actor's own goroutine loop). Actors running on that strand call
// Schedule to request a deadline-driven wakeup and Cancel to withdraw one in
// O(1). The core drives a single underlying OS timer, rearming it only when
// the earliest pending deadline shrinks, and fires expired handlers in a
// single sweep per wakeup to minimize OS-timer churn.
//
// gtimer does not implement an actor runtime itself; Strand, OSTimer and
// Handler are the three contracts an embedding runtime must satisfy (this
// package ships working default implementations of Strand and OSTimer so it
// is usable and testable standalone).
package gtimer
