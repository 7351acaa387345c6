package thread

// Status is the result code of a native stack call.
type Status int

const (
	StatusNone Status = iota
	StatusNotPermitted
	StatusOutOfMemory
	StatusPermissionDenied
	StatusResourceBusy
	StatusInvalidParameter
	StatusNotSupported
	StatusNotInitialized
	StatusNotEnabled
	StatusAlreadyDone
	StatusOperationFailed
	StatusNoData
	StatusNotFound
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "NONE"
	case StatusNotPermitted:
		return "NOT_PERMITTED"
	case StatusOutOfMemory:
		return "OUT_OF_MEMORY"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusResourceBusy:
		return "RESOURCE_BUSY"
	case StatusInvalidParameter:
		return "INVALID_PARAMETER"
	case StatusNotSupported:
		return "NOT_SUPPORTED"
	case StatusNotInitialized:
		return "NOT_INITIALIZED"
	case StatusNotEnabled:
		return "NOT_ENABLED"
	case StatusAlreadyDone:
		return "ALREADY_DONE"
	case StatusOperationFailed:
		return "OPERATION_FAILED"
	case StatusNoData:
		return "NO_DATA"
	case StatusNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// IPAddrType selects which unicast addresses IPAddresses reports.
type IPAddrType uint8

const (
	IPAddrAll IPAddrType = iota
	IPAddrLinkLocal
	IPAddrRLOC
	IPAddrMLEID
)

// String returns the address type name.
func (t IPAddrType) String() string {
	switch t {
	case IPAddrAll:
		return "ALL"
	case IPAddrLinkLocal:
		return "LINK_LOCAL"
	case IPAddrRLOC:
		return "RLOC"
	case IPAddrMLEID:
		return "MLEID"
	default:
		return "UNKNOWN"
	}
}

// TxtEntry is a single DNS-SD TXT key/value pair.
type TxtEntry struct {
	Key   string
	Value []byte
}

// ServiceRegistration is passed to the native SRP client.
type ServiceRegistration struct {
	InstanceName string
	Name         string
	Port         uint16
	Priority     uint16
	Weight       uint16
	Subtypes     []string
	TxtEntries   []TxtEntry

	// Lease and KeyLease are in seconds; zero selects the stack default.
	Lease    uint32
	KeyLease uint32
}

// Stack is the synchronous call surface of the native Thread stack.
// Every call returns a Status; StatusNone is success.
type Stack interface {
	Initialize() Status
	Deinitialize() Status

	// Enable brings up the stack instance.
	Enable() Status

	// Attach joins the network described by the active dataset.
	Attach() Status

	// Start and Stop bring the Thread protocol operation up and down.
	Start() Status
	Stop() Status

	DeviceRole() (Role, Status)
	DeviceType() (DeviceType, Status)
	SetDeviceType(t DeviceType) Status

	ActiveDatasetTLVs() ([]byte, Status)
	SetActiveDatasetTLVs(tlvs []byte) Status

	// ExtendedAddress returns the IEEE 802.15.4 extended address in host
	// byte order.
	ExtendedAddress() (uint64, Status)

	// SetRoleChangedCallback registers fn for role notifications. fn may
	// be called from any goroutine.
	SetRoleChangedCallback(fn func(Role)) Status

	// IPAddresses calls fn once for every address of the given type.
	IPAddresses(addrType IPAddrType, fn func(index int, addr string, addrType IPAddrType)) Status

	SRPClientStart() Status
	SRPClientStop() Status
	SRPServerStart() Status
	SRPServerStop() Status
	SRPClientRegisterService(reg ServiceRegistration) Status
	SRPClientRemoveService(instanceName, name string) Status
	SRPClientSetHostName(hostName string) Status
	SRPClientSetHostAddress(addr string) Status
}
