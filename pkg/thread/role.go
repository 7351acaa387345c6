package thread

import "fmt"

// Role is the native stack's classification of the device's participation
// in the mesh.
type Role uint8

const (
	// RoleDisabled means the Thread interface is down.
	RoleDisabled Role = 0
	// RoleDetached means the interface is up but not part of a partition.
	RoleDetached Role = 1
	// RoleChild means the device is attached as an end device.
	RoleChild Role = 2
	// RoleRouter means the device is attached as a router.
	RoleRouter Role = 3
	// RoleLeader means the device is the partition leader.
	RoleLeader Role = 4
)

// IsAttached reports whether role counts as attached to a mesh.
// Only RoleDisabled and RoleDetached are unattached; every other value,
// including roles unknown to this package, is attached.
func IsAttached(role Role) bool {
	return role != RoleDisabled && role != RoleDetached
}

// RoleLabel returns the diagnostic label for role. The second result is
// false for values this package does not know.
func RoleLabel(role Role) (string, bool) {
	switch role {
	case RoleDisabled:
		return "disabled", true
	case RoleDetached:
		return "detached", true
	case RoleChild:
		return "child", true
	case RoleRouter:
		return "router", true
	case RoleLeader:
		return "leader", true
	default:
		return "", false
	}
}

// String returns the role label.
func (r Role) String() string {
	if label, ok := RoleLabel(r); ok {
		return label
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
}

// DeviceType is the Thread device type the native stack operates as.
type DeviceType uint8

const (
	DeviceTypeNotSupported     DeviceType = 0
	DeviceTypeRouter           DeviceType = 1
	DeviceTypeFullEndDevice    DeviceType = 2
	DeviceTypeMinimalEndDevice DeviceType = 3
	DeviceTypeSleepyEndDevice  DeviceType = 4
)

// DeviceTypeLabel returns the diagnostic label for t. The second result is
// false for values this package does not know.
func DeviceTypeLabel(t DeviceType) (string, bool) {
	switch t {
	case DeviceTypeNotSupported:
		return "not-supported", true
	case DeviceTypeRouter:
		return "router", true
	case DeviceTypeFullEndDevice:
		return "full-end-device", true
	case DeviceTypeMinimalEndDevice:
		return "minimal-end-device", true
	case DeviceTypeSleepyEndDevice:
		return "sleepy-end-device", true
	default:
		return "", false
	}
}

// String returns the device type label.
func (t DeviceType) String() string {
	if label, ok := DeviceTypeLabel(t); ok {
		return label
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// ParseDeviceType maps a label back to a DeviceType.
func ParseDeviceType(label string) (DeviceType, error) {
	for t := DeviceTypeNotSupported; t <= DeviceTypeSleepyEndDevice; t++ {
		if l, _ := DeviceTypeLabel(t); l == label {
			return t, nil
		}
	}
	return DeviceTypeNotSupported, fmt.Errorf("%w: unknown device type %q", ErrInvalidArgument, label)
}
