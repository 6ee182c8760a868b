// Package ports defines the interfaces (driven and driving ports)
// for somatic following hexagonal architecture principles.
// These interfaces define the contracts between the services layer and
// the terminal, the clock and other infrastructure.
package ports

import "time"

// Clock schedules callbacks on the single event loop that owns all
// controller state. This is a driven port (implemented by adapters).
//
// Implementations must run fn on the loop goroutine, never concurrently with
// another callback or with a controller call made from the loop.
type Clock interface {
	// AfterFunc schedules fn to run once after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending callback scheduled on a Clock.
type Timer interface {
	// Stop cancels the callback. After Stop returns the callback will not run,
	// even if its deadline already passed and it is waiting on the loop.
	// It reports whether the call prevented the callback from running.
	Stop() bool
}
