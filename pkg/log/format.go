package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A capture file is a plain sequence of CBOR data items, one Event each,
// with no header. Appending to an existing file therefore always yields a
// valid capture, and a reader decodes items until EOF.
//
// Events use integer map keys (see the keyasint struct tags) and timestamps
// are RFC 3339 strings with nanoseconds, so ordering survives a round trip.

const maxCaptureNesting = 8

var (
	captureEnc cbor.EncMode
	captureDec cbor.DecMode
)

func init() {
	var err error
	captureEnc, err = cbor.EncOptions{
		Sort:        cbor.SortCoreDeterministic,
		Time:        cbor.TimeRFC3339Nano,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: capture encoding: %v", err))
	}

	// Unknown keys are skipped so newer captures stay readable. Duplicate
	// keys mean a corrupt item.
	captureDec, err = cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		IndefLength:     cbor.IndefLengthForbidden,
		MaxNestedLevels: maxCaptureNesting,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: capture decoding: %v", err))
	}
}

// EncodeEvent returns the capture encoding of event.
func EncodeEvent(event Event) ([]byte, error) {
	return captureEnc.Marshal(event)
}

// DecodeEvent decodes one captured event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := captureDec.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("decode capture event: %w", err)
	}
	return event, nil
}

func newEncoder(w io.Writer) *cbor.Encoder {
	return captureEnc.NewEncoder(w)
}

func newDecoder(r io.Reader) *cbor.Decoder {
	return captureDec.NewDecoder(r)
}
