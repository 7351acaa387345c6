// Package persistence stores the non-volatile settings of a simulated Thread
// device (the KVS of a real radio stack) as a JSON file: the active
// operational dataset, the device type, the extended address and the SRP
// host and service registrations, so they survive restarts.
package persistence
