// Package simstack implements thread.Stack in process.
//
// The simulated stack behaves like a single Thread node that forms or joins
// a network on its own: after Attach and Start it reports the detached role,
// and once the configured attach delay has elapsed it settles into child or
// leader depending on its device type. Role notifications are delivered
// from a timer goroutine, the way a native stack calls back from its own
// thread.
//
// Non-volatile settings (active dataset, device type, extended address, SRP
// host and services) are kept in a persistence.NetworkStateStore when one
// is configured. SRP client registrations can be mirrored onto the host LAN
// through a discovery.Mirror, which is active exactly while the node is
// attached and its SRP client runs.
//
// Any call can be made to fail once with FailNext, which is how the CLI and
// tests exercise the manager's error paths.
package simstack
