package log

import (
	"time"
)

// Event represents a captured event at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID correlates events of one attach attempt (UUID).
	AttemptID string `cbor:"2,keyasint,omitempty"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// DeviceID is the device's extended address in hex (if known).
	DeviceID string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Role         *RoleEvent         `cbor:"10,keyasint,omitempty"`
	Connectivity *ConnectivityEvent `cbor:"11,keyasint,omitempty"`
	Provisioning *ProvisioningEvent `cbor:"12,keyasint,omitempty"`
	Service      *ServiceEvent      `cbor:"13,keyasint,omitempty"`
	Attach       *AttachEvent       `cbor:"14,keyasint,omitempty"`
	Error        *ErrorEventData    `cbor:"15,keyasint,omitempty"`
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerNative is the native Thread stack call surface.
	LayerNative Layer = 0
	// LayerManager is the stack manager state machine.
	LayerManager Layer = 1
	// LayerDiscovery is the mDNS mirror of SRP services.
	LayerDiscovery Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerNative:
		return "NATIVE"
	case LayerManager:
		return "MANAGER"
	case LayerDiscovery:
		return "DISCOVERY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryRole indicates a device role notification.
	CategoryRole Category = 0
	// CategoryConnectivity indicates an attach/detach edge.
	CategoryConnectivity Category = 1
	// CategoryProvisioning indicates an operational dataset change.
	CategoryProvisioning Category = 2
	// CategoryService indicates an SRP service registry operation.
	CategoryService Category = 3
	// CategoryAttach indicates an attach attempt phase.
	CategoryAttach Category = 4
	// CategoryError indicates an error event.
	CategoryError Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRole:
		return "ROLE"
	case CategoryConnectivity:
		return "CONNECTIVITY"
	case CategoryProvisioning:
		return "PROVISIONING"
	case CategoryService:
		return "SERVICE"
	case CategoryAttach:
		return "ATTACH"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// RoleEvent captures a native device role notification.
type RoleEvent struct {
	// OldRole is the previously reported role label (may be empty).
	OldRole string `cbor:"1,keyasint,omitempty"`

	// NewRole is the reported role label.
	NewRole string `cbor:"2,keyasint"`

	// Attached is the classified attachment state after the notification.
	Attached bool `cbor:"3,keyasint"`

	// SoftFailures counts best-effort SRP toggles that failed.
	SoftFailures int `cbor:"4,keyasint,omitempty"`
}

// ConnectivityResult is the direction of a connectivity edge.
type ConnectivityResult uint8

const (
	// ConnectivityEstablished indicates the device attached.
	ConnectivityEstablished ConnectivityResult = 0
	// ConnectivityLost indicates the device detached.
	ConnectivityLost ConnectivityResult = 1
)

// String returns the result name.
func (r ConnectivityResult) String() string {
	switch r {
	case ConnectivityEstablished:
		return "ESTABLISHED"
	case ConnectivityLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// ConnectivityEvent captures an attach/detach edge.
type ConnectivityEvent struct {
	Result ConnectivityResult `cbor:"1,keyasint"`
}

// ProvisioningEvent captures an operational dataset change.
type ProvisioningEvent struct {
	// Provisioned is true when a dataset was accepted, false when erased.
	Provisioned bool `cbor:"1,keyasint"`

	// Size is the dataset size in bytes.
	Size int `cbor:"2,keyasint,omitempty"`
}

// ServiceOp identifies an SRP registry operation.
type ServiceOp uint8

const (
	// ServiceOpAdd registers a service.
	ServiceOpAdd ServiceOp = 0
	// ServiceOpRemove removes a service from the network.
	ServiceOpRemove ServiceOp = 1
	// ServiceOpInvalidate marks all services invalid.
	ServiceOpInvalidate ServiceOp = 2
	// ServiceOpPrune removes invalid services.
	ServiceOpPrune ServiceOp = 3
	// ServiceOpPublish mirrors a service onto mDNS.
	ServiceOpPublish ServiceOp = 4
	// ServiceOpWithdraw withdraws a service from mDNS.
	ServiceOpWithdraw ServiceOp = 5
)

// String returns the operation name.
func (o ServiceOp) String() string {
	switch o {
	case ServiceOpAdd:
		return "ADD"
	case ServiceOpRemove:
		return "REMOVE"
	case ServiceOpInvalidate:
		return "INVALIDATE"
	case ServiceOpPrune:
		return "PRUNE"
	case ServiceOpPublish:
		return "PUBLISH"
	case ServiceOpWithdraw:
		return "WITHDRAW"
	default:
		return "UNKNOWN"
	}
}

// ServiceEvent captures an SRP registry operation.
type ServiceEvent struct {
	Op           ServiceOp `cbor:"1,keyasint"`
	InstanceName string    `cbor:"2,keyasint,omitempty"`
	ServiceName  string    `cbor:"3,keyasint,omitempty"`
	Port         uint16    `cbor:"4,keyasint,omitempty"`

	// Count is the number of records affected (invalidate/prune).
	Count int `cbor:"5,keyasint,omitempty"`
}

// AttachPhase identifies a step of an attach attempt.
type AttachPhase uint8

const (
	// AttachPhaseStarted marks the beginning of an attempt.
	AttachPhaseStarted AttachPhase = 0
	// AttachPhaseDisabled marks the network disabled.
	AttachPhaseDisabled AttachPhase = 1
	// AttachPhaseProvisioned marks the dataset applied.
	AttachPhaseProvisioned AttachPhase = 2
	// AttachPhaseEnabling marks the native attach/start calls issued.
	AttachPhaseEnabling AttachPhase = 3
	// AttachPhaseReported marks the completion callback invoked.
	AttachPhaseReported AttachPhase = 4
	// AttachPhaseSuperseded marks a pending completion dropped.
	AttachPhaseSuperseded AttachPhase = 5
	// AttachPhaseIdle marks an attempt that ended without enabling.
	AttachPhaseIdle AttachPhase = 6
)

// String returns the phase name.
func (p AttachPhase) String() string {
	switch p {
	case AttachPhaseStarted:
		return "STARTED"
	case AttachPhaseDisabled:
		return "DISABLED"
	case AttachPhaseProvisioned:
		return "PROVISIONED"
	case AttachPhaseEnabling:
		return "ENABLING"
	case AttachPhaseReported:
		return "REPORTED"
	case AttachPhaseSuperseded:
		return "SUPERSEDED"
	case AttachPhaseIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// AttachEvent captures an attach attempt phase.
type AttachEvent struct {
	Phase AttachPhase `cbor:"1,keyasint"`

	// Status is the reported network status (for AttachPhaseReported).
	Status string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the native status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
