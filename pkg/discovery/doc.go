// Package discovery mirrors SRP service registrations of a Thread device
// onto the host LAN using mDNS/DNS-SD.
//
// A Thread device registers its services with the mesh's SRP server. On a
// simulated or host-attached stack there is no border router to proxy those
// registrations, so this package advertises them directly with multicast
// DNS. Services are only on the air while the device is attached: the
// Mirror publishes everything it holds when activated and withdraws
// everything when deactivated, mirroring how SRP registrations disappear
// when a device leaves the mesh.
//
// # Service types
//
// Service types use the DNS-SD form "_<name>._<proto>" where proto is tcp
// or udp, e.g. "_ipp._tcp". Subtypes are advertised alongside the base
// type.
//
// # TXT records
//
// TXT entries are "key=value" strings. A single value is limited to 255
// bytes, the size of a DNS character-string.
package discovery
