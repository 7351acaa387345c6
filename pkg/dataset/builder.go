package dataset

import (
	"encoding/binary"
	"fmt"
)

// Builder assembles an operational dataset TLV by TLV.
// Setting a TLV type twice replaces the earlier value.
type Builder struct {
	tlvs []TLV
	err  error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) set(t TLVType, value []byte) *Builder {
	if b.err != nil {
		return b
	}
	if !t.checkLength(len(value)) {
		b.err = fmt.Errorf("%w: %s length %d", ErrInvalidLength, t, len(value))
		return b
	}
	v := make([]byte, len(value))
	copy(v, value)
	for i := range b.tlvs {
		if b.tlvs[i].Type == t {
			b.tlvs[i].Value = v
			return b
		}
	}
	b.tlvs = append(b.tlvs, TLV{Type: t, Value: v})
	return b
}

// ActiveTimestamp sets the active timestamp.
func (b *Builder) ActiveTimestamp(ts uint64) *Builder {
	v := make([]byte, TimestampLen)
	binary.BigEndian.PutUint64(v, ts)
	return b.set(TLVActiveTimestamp, v)
}

// Channel sets page 0 and the given channel.
func (b *Builder) Channel(channel uint16) *Builder {
	if channel < 11 || channel > 26 {
		if b.err == nil {
			b.err = fmt.Errorf("%w: channel %d", ErrInvalidValue, channel)
		}
		return b
	}
	v := []byte{0, 0, 0}
	binary.BigEndian.PutUint16(v[1:], channel)
	return b.set(TLVChannel, v)
}

// PanID sets the PAN ID.
func (b *Builder) PanID(pan uint16) *Builder {
	v := make([]byte, PanIDLen)
	binary.BigEndian.PutUint16(v, pan)
	return b.set(TLVPanID, v)
}

// ExtendedPanID sets the extended PAN ID.
func (b *Builder) ExtendedPanID(xpan [ExtendedPanIDLen]byte) *Builder {
	return b.set(TLVExtendedPanID, xpan[:])
}

// NetworkName sets the network name (1-16 bytes).
func (b *Builder) NetworkName(name string) *Builder {
	return b.set(TLVNetworkName, []byte(name))
}

// NetworkKey sets the network key.
func (b *Builder) NetworkKey(key [NetworkKeyLen]byte) *Builder {
	return b.set(TLVNetworkKey, key[:])
}

// MeshLocalPrefix sets the mesh-local prefix.
func (b *Builder) MeshLocalPrefix(prefix [MeshLocalPrefixLen]byte) *Builder {
	return b.set(TLVMeshLocalPrefix, prefix[:])
}

// PSKc sets the pre-shared commissioner key.
func (b *Builder) PSKc(pskc [PSKcLen]byte) *Builder {
	return b.set(TLVPSKc, pskc[:])
}

// SecurityPolicy sets the rotation time and policy flags.
func (b *Builder) SecurityPolicy(rotationHours uint16, flags uint8) *Builder {
	v := make([]byte, MinSecurityPolicyLen)
	binary.BigEndian.PutUint16(v, rotationHours)
	v[2] = flags
	return b.set(TLVSecurityPolicy, v)
}

// Raw sets an arbitrary TLV.
func (b *Builder) Raw(t TLVType, value []byte) *Builder {
	return b.set(t, value)
}

// Build encodes the TLVs into a validated dataset.
func (b *Builder) Build() (OperationalDataset, error) {
	if b.err != nil {
		return OperationalDataset{}, b.err
	}
	var out []byte
	for _, tlv := range b.tlvs {
		out = append(out, byte(tlv.Type), byte(len(tlv.Value)))
		out = append(out, tlv.Value...)
	}
	return New(out)
}
