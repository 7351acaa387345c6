// Package dataset implements the Thread operational dataset.
//
// An operational dataset is the TLV-encoded blob of network parameters a
// device needs to join a specific Thread network: channel, PAN IDs, network
// name, network key, mesh-local prefix and the active timestamp. The dataset
// travels as opaque bytes between the commissioning layer and the native
// Thread stack; this package validates those bytes and provides typed
// accessors for diagnostics.
//
// # TLV Format
//
// Each TLV is a one-byte type, a one-byte length and the value:
//
//	+------+--------+-----------------+
//	| Type | Length | Value (Length)  |
//	+------+--------+-----------------+
//
// A dataset is at most 254 bytes. Known TLV types must carry the length the
// Thread specification assigns to them; unknown types are skipped.
//
// # Usage
//
//	ds, err := dataset.New(tlvs)
//	if err != nil {
//	    return err
//	}
//	if ds.IsCommissioned() {
//	    name, _ := ds.NetworkName()
//	    fmt.Println("joining", name)
//	}
package dataset
