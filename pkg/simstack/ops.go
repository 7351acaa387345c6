package simstack

import (
	"strings"

	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// Op names a native call for failure injection.
type Op string

// Native calls that can be made to fail.
const (
	OpInitialize         Op = "initialize"
	OpDeinitialize       Op = "deinitialize"
	OpEnable             Op = "enable"
	OpAttach             Op = "attach"
	OpStart              Op = "start"
	OpStop               Op = "stop"
	OpDeviceRole         Op = "device-role"
	OpDeviceType         Op = "device-type"
	OpSetDeviceType      Op = "set-device-type"
	OpActiveDataset      Op = "active-dataset"
	OpSetActiveDataset   Op = "set-active-dataset"
	OpExtendedAddress    Op = "extended-address"
	OpSetRoleCallback    Op = "set-role-callback"
	OpIPAddresses        Op = "ip-addresses"
	OpSRPClientStart     Op = "srp-client-start"
	OpSRPClientStop      Op = "srp-client-stop"
	OpSRPServerStart     Op = "srp-server-start"
	OpSRPServerStop      Op = "srp-server-stop"
	OpSRPRegisterService Op = "srp-register-service"
	OpSRPRemoveService   Op = "srp-remove-service"
	OpSRPSetHostName     Op = "srp-set-host-name"
	OpSRPSetHostAddress  Op = "srp-set-host-address"
)

// Ops lists every injectable call.
var Ops = []Op{
	OpInitialize, OpDeinitialize, OpEnable, OpAttach, OpStart, OpStop,
	OpDeviceRole, OpDeviceType, OpSetDeviceType, OpActiveDataset,
	OpSetActiveDataset, OpExtendedAddress, OpSetRoleCallback, OpIPAddresses,
	OpSRPClientStart, OpSRPClientStop, OpSRPServerStart, OpSRPServerStop,
	OpSRPRegisterService, OpSRPRemoveService, OpSRPSetHostName,
	OpSRPSetHostAddress,
}

// ParseOp returns the Op named s.
func ParseOp(s string) (Op, bool) {
	for _, op := range Ops {
		if string(op) == s {
			return op, true
		}
	}
	return "", false
}

// ParseStatus returns the failure status named s, e.g. "busy" or
// "RESOURCE_BUSY".
func ParseStatus(s string) (thread.Status, bool) {
	name := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	if alias, ok := statusAliases[name]; ok {
		return alias, true
	}
	for st := thread.StatusNotPermitted; st <= thread.StatusNotFound; st++ {
		if st.String() == name {
			return st, true
		}
	}
	return thread.StatusNone, false
}

var statusAliases = map[string]thread.Status{
	"BUSY":        thread.StatusResourceBusy,
	"FAILED":      thread.StatusOperationFailed,
	"INVALID":     thread.StatusInvalidParameter,
	"UNSUPPORTED": thread.StatusNotSupported,
}
