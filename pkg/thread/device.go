package thread

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// DeviceType queries the native device type. It returns
// DeviceTypeNotSupported before Init or if the query fails.
func (m *Manager) DeviceType() DeviceType {
	if !m.state.Initialized {
		m.warnLog("DeviceType: thread stack not initialized")
		return DeviceTypeNotSupported
	}
	t, status := m.stack.DeviceType()
	if status != StatusNone {
		m.warnLog("DeviceType: get device type failed", "status", status)
		return DeviceTypeNotSupported
	}
	if _, ok := DeviceTypeLabel(t); !ok {
		return DeviceTypeNotSupported
	}
	m.debugLog("thread device type", "type", t)
	return t
}

// SetDeviceType sets the native device type. Unknown values are sent as
// DeviceTypeNotSupported.
func (m *Manager) SetDeviceType(t DeviceType) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	if _, ok := DeviceTypeLabel(t); !ok {
		t = DeviceTypeNotSupported
	}
	if err := stackErr("set device type", m.stack.SetDeviceType(t), false); err != nil {
		m.captureError(err, "SetDeviceType")
		return fmt.Errorf("failed to set thread device type %s: %w", t, err)
	}
	m.debugLog("thread set device type", "type", t)
	return nil
}

// PrimaryMACAddress returns the IEEE 802.15.4 extended address in network
// byte order.
func (m *Manager) PrimaryMACAddress() ([8]byte, error) {
	var mac [8]byte
	addr, status := m.stack.ExtendedAddress()
	if err := stackErr("get extended address", status, false); err != nil {
		return mac, fmt.Errorf("failed to get primary mac address: %w", err)
	}
	binary.BigEndian.PutUint64(mac[:], addr)
	return mac, nil
}

// HaveRouteToAddress always reports false; routing is not tracked here.
func (m *Manager) HaveRouteToAddress(addr netip.Addr) bool {
	return false
}

// HaveMeshConnectivity always reports false.
func (m *Manager) HaveMeshConnectivity() bool {
	return false
}

// ProcessThreadActivity is a no-op; the native stack runs its own loop.
func (m *Manager) ProcessThreadActivity() {}

// OnPlatformEvent logs a device event seen by the platform.
func (m *Manager) OnPlatformEvent(ev Event) {
	m.debugLog("thread platform event", "type", ev.Type)
}

// ResetNetworkDiagnosticsCounts is a no-op.
func (m *Manager) ResetNetworkDiagnosticsCounts() {}

// LogStatsCounters is not supported on this platform.
func (m *Manager) LogStatsCounters() error {
	m.warnLog("LogStatsCounters: not implemented")
	return ErrNotImplemented
}

// LogTopologyMinimal is not supported on this platform.
func (m *Manager) LogTopologyMinimal() error {
	m.warnLog("LogTopologyMinimal: not implemented")
	return ErrNotImplemented
}

// LogTopologyFull is not supported on this platform.
func (m *Manager) LogTopologyFull() error {
	m.warnLog("LogTopologyFull: not implemented")
	return ErrNotImplemented
}

// ExternalIPv6Address is not supported on this platform.
func (m *Manager) ExternalIPv6Address() (netip.Addr, error) {
	m.warnLog("ExternalIPv6Address: not implemented")
	return netip.Addr{}, ErrNotImplemented
}

// PollPeriod is not supported on this platform.
func (m *Manager) PollPeriod() (uint32, error) {
	m.warnLog("PollPeriod: not implemented")
	return 0, ErrNotImplemented
}

// JoinerStart is not supported on this platform.
func (m *Manager) JoinerStart() error {
	m.warnLog("JoinerStart: not implemented")
	return ErrNotImplemented
}

// StartScan is not supported on this platform.
func (m *Manager) StartScan() error {
	m.warnLog("StartScan: not implemented")
	return ErrNotImplemented
}

// WriteDiagnosticAttribute is not supported on this platform.
func (m *Manager) WriteDiagnosticAttribute(attributeID uint32) error {
	m.warnLog("WriteDiagnosticAttribute: not implemented", "attribute", attributeID)
	return ErrNotImplemented
}
