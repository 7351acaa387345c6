package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantProto string
		wantErr   bool
	}{
		{"_ipp._tcp", "ipp", "tcp", false},
		{"_matter._udp", "matter", "udp", false},
		{"ipp._tcp", "", "", true},
		{"_ipp._sctp", "", "", true},
		{"_ipp", "", "", true},
		{"_._tcp", "", "", true},
		{"_averyveryverylongname._tcp", "", "", true},
		{"_ipp._tcp.local", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, proto, err := ParseServiceType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidServiceType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantProto, proto)
		})
	}
}

func TestServiceInfoValidate(t *testing.T) {
	valid := ServiceInfo{InstanceName: "printer1", ServiceType: "_ipp._tcp", Port: 631, Subtypes: []string{"_universal"}}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "printer1._ipp._tcp", valid.Key())

	bad := valid
	bad.InstanceName = ""
	assert.ErrorIs(t, bad.Validate(), ErrEmptyInstanceName)

	bad = valid
	bad.InstanceName = strings.Repeat("p", MaxInstanceNameLen+1)
	assert.ErrorIs(t, bad.Validate(), ErrInstanceNameTooLong)

	bad = valid
	bad.Subtypes = []string{"universal"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidServiceType)

	bad = valid
	bad.TXT = TXTRecordMap{"big": strings.Repeat("x", MaxTXTValueLen)}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTXTRecord)
}

func TestTXTRecordStrings(t *testing.T) {
	txt := TXTRecordMap{"rp": "ipp/print", "note": "", "ty": "Printer"}

	strs := TXTRecordsToStrings(txt)
	assert.Equal(t, []string{"note", "rp=ipp/print", "ty=Printer"}, strs)
	assert.Equal(t, txt, StringsToTXTRecords(strs))

	parsed := StringsToTXTRecords([]string{"a=b=c", "", "flag"})
	assert.Equal(t, TXTRecordMap{"a": "b=c", "flag": ""}, parsed)
}

func TestValidateTXT(t *testing.T) {
	assert.NoError(t, ValidateTXT(nil))
	assert.ErrorIs(t, ValidateTXT(TXTRecordMap{"": "x"}), ErrInvalidTXTRecord)
	assert.ErrorIs(t, ValidateTXT(TXTRecordMap{"a=b": "x"}), ErrInvalidTXTRecord)

	// key + '=' + value must fit a character-string
	assert.NoError(t, ValidateTXT(TXTRecordMap{"k": strings.Repeat("x", MaxTXTValueLen-2)}))
	assert.Error(t, ValidateTXT(TXTRecordMap{"k": strings.Repeat("x", MaxTXTValueLen-1)}))
}

func TestServiceWithSubtypes(t *testing.T) {
	assert.Equal(t, "_ipp._tcp", serviceWithSubtypes("_ipp._tcp", nil))
	assert.Equal(t, "_ipp._tcp,_universal,_cups", serviceWithSubtypes("_ipp._tcp", []string{"_universal", "_cups"}))
}

func TestMergeAddresses(t *testing.T) {
	got := mergeAddresses([]string{"fd00::1"}, []string{"fd00::1", "192.168.1.4"})
	assert.Equal(t, []string{"fd00::1", "192.168.1.4"}, got)
}
