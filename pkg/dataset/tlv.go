package dataset

import (
	"errors"
	"fmt"
)

// MaxSize is the maximum encoded size of an operational dataset.
const MaxSize = 254

// TLVType identifies a MeshCoP TLV inside an operational dataset.
type TLVType uint8

// MeshCoP TLV types used in operational datasets.
const (
	TLVChannel            TLVType = 0
	TLVPanID              TLVType = 1
	TLVExtendedPanID      TLVType = 2
	TLVNetworkName        TLVType = 3
	TLVPSKc               TLVType = 4
	TLVNetworkKey         TLVType = 5
	TLVNetworkKeySequence TLVType = 6
	TLVMeshLocalPrefix    TLVType = 7
	TLVSecurityPolicy     TLVType = 12
	TLVActiveTimestamp    TLVType = 14
	TLVPendingTimestamp   TLVType = 51
	TLVDelayTimer         TLVType = 52
	TLVChannelMask        TLVType = 53
)

// Field sizes.
const (
	ChannelLen           = 3 // channel page + 16-bit channel
	PanIDLen             = 2
	ExtendedPanIDLen     = 8
	MaxNetworkNameLen    = 16
	PSKcLen              = 16
	NetworkKeyLen        = 16
	KeySequenceLen       = 4
	MeshLocalPrefixLen   = 8
	MinSecurityPolicyLen = 3
	TimestampLen         = 8
	DelayTimerLen        = 4
)

// Dataset errors.
var (
	ErrTooLarge      = errors.New("dataset exceeds maximum size")
	ErrTruncated     = errors.New("dataset TLV truncated")
	ErrInvalidLength = errors.New("dataset TLV has invalid length")
	ErrNotFound      = errors.New("dataset TLV not present")
	ErrInvalidValue  = errors.New("dataset TLV value out of range")
)

// String returns the TLV type name.
func (t TLVType) String() string {
	switch t {
	case TLVChannel:
		return "CHANNEL"
	case TLVPanID:
		return "PAN_ID"
	case TLVExtendedPanID:
		return "EXTENDED_PAN_ID"
	case TLVNetworkName:
		return "NETWORK_NAME"
	case TLVPSKc:
		return "PSKC"
	case TLVNetworkKey:
		return "NETWORK_KEY"
	case TLVNetworkKeySequence:
		return "NETWORK_KEY_SEQUENCE"
	case TLVMeshLocalPrefix:
		return "MESH_LOCAL_PREFIX"
	case TLVSecurityPolicy:
		return "SECURITY_POLICY"
	case TLVActiveTimestamp:
		return "ACTIVE_TIMESTAMP"
	case TLVPendingTimestamp:
		return "PENDING_TIMESTAMP"
	case TLVDelayTimer:
		return "DELAY_TIMER"
	case TLVChannelMask:
		return "CHANNEL_MASK"
	default:
		return fmt.Sprintf("TLV(%d)", uint8(t))
	}
}

// checkLength reports whether n is an acceptable value length for t.
func (t TLVType) checkLength(n int) bool {
	switch t {
	case TLVChannel:
		return n == ChannelLen
	case TLVPanID:
		return n == PanIDLen
	case TLVExtendedPanID:
		return n == ExtendedPanIDLen
	case TLVNetworkName:
		return n >= 1 && n <= MaxNetworkNameLen
	case TLVPSKc:
		return n == PSKcLen
	case TLVNetworkKey:
		return n == NetworkKeyLen
	case TLVNetworkKeySequence:
		return n == KeySequenceLen
	case TLVMeshLocalPrefix:
		return n == MeshLocalPrefixLen
	case TLVSecurityPolicy:
		return n >= MinSecurityPolicyLen
	case TLVActiveTimestamp, TLVPendingTimestamp:
		return n == TimestampLen
	case TLVDelayTimer:
		return n == DelayTimerLen
	default:
		return true
	}
}

// TLV is a single decoded dataset entry.
type TLV struct {
	Type  TLVType
	Value []byte
}

// walk iterates over the TLVs in data, calling fn for each. The value slice
// aliases data.
func walk(data []byte, fn func(t TLVType, value []byte) error) error {
	if len(data) > MaxSize {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, len(data), MaxSize)
	}
	for off := 0; off < len(data); {
		if off+2 > len(data) {
			return fmt.Errorf("%w: header at offset %d", ErrTruncated, off)
		}
		t := TLVType(data[off])
		n := int(data[off+1])
		end := off + 2 + n
		if end > len(data) {
			return fmt.Errorf("%w: %s needs %d bytes at offset %d", ErrTruncated, t, n, off)
		}
		if !t.checkLength(n) {
			return fmt.Errorf("%w: %s length %d", ErrInvalidLength, t, n)
		}
		if fn != nil {
			if err := fn(t, data[off+2:end]); err != nil {
				return err
			}
		}
		off = end
	}
	return nil
}

// Validate checks the TLV structure of data.
func Validate(data []byte) error {
	return walk(data, nil)
}

// IsValid reports whether data is a structurally valid operational dataset.
// An empty dataset is valid but not commissioned.
func IsValid(data []byte) bool {
	return Validate(data) == nil
}

// Parse decodes data into its TLVs.
func Parse(data []byte) ([]TLV, error) {
	var tlvs []TLV
	err := walk(data, func(t TLVType, value []byte) error {
		v := make([]byte, len(value))
		copy(v, value)
		tlvs = append(tlvs, TLV{Type: t, Value: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tlvs, nil
}
