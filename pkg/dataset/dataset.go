package dataset

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// commissionedTLVs must all be present for a dataset to be usable for attach.
var commissionedTLVs = []TLVType{
	TLVChannel,
	TLVPanID,
	TLVExtendedPanID,
	TLVNetworkKey,
}

// OperationalDataset holds a validated, TLV-encoded Thread operational dataset.
// The zero value is an empty (uncommissioned) dataset.
type OperationalDataset struct {
	data []byte
}

// New creates a dataset from data. The bytes are copied.
func New(data []byte) (OperationalDataset, error) {
	var ds OperationalDataset
	if err := ds.Init(data); err != nil {
		return OperationalDataset{}, err
	}
	return ds, nil
}

// ParseHex creates a dataset from its hex encoding, as printed by
// "ot-ctl dataset active -x".
func ParseHex(s string) (OperationalDataset, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return OperationalDataset{}, fmt.Errorf("invalid dataset hex: %w", err)
	}
	return New(b)
}

// Init replaces the dataset contents with a copy of data.
// On error the dataset is left unchanged.
func (d *OperationalDataset) Init(data []byte) error {
	if err := Validate(data); err != nil {
		return err
	}
	d.data = append(d.data[:0:0], data...)
	return nil
}

// Clear empties the dataset.
func (d *OperationalDataset) Clear() {
	d.data = nil
}

// Bytes returns a copy of the encoded dataset.
func (d OperationalDataset) Bytes() []byte {
	if len(d.data) == 0 {
		return nil
	}
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// Hex returns the hex encoding of the dataset.
func (d OperationalDataset) Hex() string {
	return hex.EncodeToString(d.data)
}

// Len returns the encoded size in bytes.
func (d OperationalDataset) Len() int {
	return len(d.data)
}

// IsEmpty reports whether the dataset holds no TLVs.
func (d OperationalDataset) IsEmpty() bool {
	return len(d.data) == 0
}

// Has reports whether a TLV of type t is present.
func (d OperationalDataset) Has(t TLVType) bool {
	_, err := d.lookup(t)
	return err == nil
}

// IsCommissioned reports whether the dataset carries the parameters needed to
// attach: channel, PAN ID, extended PAN ID and network key.
func (d OperationalDataset) IsCommissioned() bool {
	for _, t := range commissionedTLVs {
		if !d.Has(t) {
			return false
		}
	}
	return true
}

// lookup returns the value of the first TLV of type t.
func (d OperationalDataset) lookup(t TLVType) ([]byte, error) {
	var found []byte
	var ok bool
	err := walk(d.data, func(tt TLVType, value []byte) error {
		if !ok && tt == t {
			found, ok = value, true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	return found, nil
}

// Channel returns the channel page and channel number.
func (d OperationalDataset) Channel() (page uint8, channel uint16, err error) {
	v, err := d.lookup(TLVChannel)
	if err != nil {
		return 0, 0, err
	}
	return v[0], binary.BigEndian.Uint16(v[1:]), nil
}

// PanID returns the 16-bit PAN ID.
func (d OperationalDataset) PanID() (uint16, error) {
	v, err := d.lookup(TLVPanID)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(v), nil
}

// ExtendedPanID returns the 64-bit extended PAN ID.
func (d OperationalDataset) ExtendedPanID() ([ExtendedPanIDLen]byte, error) {
	var out [ExtendedPanIDLen]byte
	v, err := d.lookup(TLVExtendedPanID)
	if err != nil {
		return out, err
	}
	copy(out[:], v)
	return out, nil
}

// NetworkName returns the network name.
func (d OperationalDataset) NetworkName() (string, error) {
	v, err := d.lookup(TLVNetworkName)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// NetworkKey returns the 128-bit network key.
func (d OperationalDataset) NetworkKey() ([NetworkKeyLen]byte, error) {
	var out [NetworkKeyLen]byte
	v, err := d.lookup(TLVNetworkKey)
	if err != nil {
		return out, err
	}
	copy(out[:], v)
	return out, nil
}

// MeshLocalPrefix returns the 64-bit mesh-local prefix.
func (d OperationalDataset) MeshLocalPrefix() ([MeshLocalPrefixLen]byte, error) {
	var out [MeshLocalPrefixLen]byte
	v, err := d.lookup(TLVMeshLocalPrefix)
	if err != nil {
		return out, err
	}
	copy(out[:], v)
	return out, nil
}

// ActiveTimestamp returns the raw 64-bit active timestamp.
func (d OperationalDataset) ActiveTimestamp() (uint64, error) {
	v, err := d.lookup(TLVActiveTimestamp)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

// String returns a one-line summary without key material.
func (d OperationalDataset) String() string {
	if d.IsEmpty() {
		return "dataset{empty}"
	}
	var parts []string
	if name, err := d.NetworkName(); err == nil {
		parts = append(parts, fmt.Sprintf("name=%q", name))
	}
	if _, ch, err := d.Channel(); err == nil {
		parts = append(parts, fmt.Sprintf("channel=%d", ch))
	}
	if pan, err := d.PanID(); err == nil {
		parts = append(parts, fmt.Sprintf("panid=0x%04x", pan))
	}
	if xpan, err := d.ExtendedPanID(); err == nil {
		parts = append(parts, "xpanid="+hex.EncodeToString(xpan[:]))
	}
	parts = append(parts, fmt.Sprintf("commissioned=%t", d.IsCommissioned()))
	return "dataset{" + strings.Join(parts, " ") + "}"
}
