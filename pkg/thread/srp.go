package thread

import (
	"fmt"
	"math"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

// Name limits for SRP services and hosts (one DNS label).
const (
	MaxInstanceNameLen = 63
	MaxServiceNameLen  = 63
	MaxHostNameLen     = 63
)

// SRPService is a service registered through the native SRP client.
type SRPService struct {
	InstanceName string
	Name         string
	Port         uint16

	// Valid is cleared by InvalidateAllSrpServices and marks the service
	// for removal by RemoveInvalidSrpServices.
	Valid bool
}

func checkServiceNames(instanceName, name string) error {
	if instanceName == "" || name == "" {
		return fmt.Errorf("%w: empty service name", ErrInvalidArgument)
	}
	if len(instanceName) > MaxInstanceNameLen {
		return fmt.Errorf("%w: instance name longer than %d bytes", ErrInvalidArgument, MaxInstanceNameLen)
	}
	if len(name) > MaxServiceNameLen {
		return fmt.Errorf("%w: service name longer than %d bytes", ErrInvalidArgument, MaxServiceNameLen)
	}
	return nil
}

// AddSrpService registers a service with the native SRP client and, on
// success, appends it to the registry as valid. A native "already done"
// counts as success. TXT values and the entry count are limited to 255
// since the native call encodes both in one byte.
//
// A failed native registration leaves the registry unchanged and is not
// rolled back on the native side.
func (m *Manager) AddSrpService(instanceName, name string, port uint16, subtypes []string, txt []TxtEntry, lease, keyLease uint32) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	if err := checkServiceNames(instanceName, name); err != nil {
		return err
	}
	for _, e := range txt {
		if len(e.Value) > math.MaxUint8 {
			return fmt.Errorf("%w: txt entry %q value is %d bytes", ErrInvalidArgument, e.Key, len(e.Value))
		}
	}
	if len(txt) > math.MaxUint8 {
		return fmt.Errorf("%w: %d txt entries", ErrInvalidArgument, len(txt))
	}

	status := m.stack.SRPClientRegisterService(ServiceRegistration{
		InstanceName: instanceName,
		Name:         name,
		Port:         port,
		Subtypes:     subtypes,
		TxtEntries:   txt,
		Lease:        lease,
		KeyLease:     keyLease,
	})
	if err := stackErr("srp client register service", status, true); err != nil {
		m.captureError(err, "AddSrpService")
		return fmt.Errorf("failed to register srp service %s.%s: %w", instanceName, name, err)
	}

	m.services = append(m.services, SRPService{
		InstanceName: instanceName,
		Name:         name,
		Port:         port,
		Valid:        true,
	})
	m.captureService(log.ServiceOpAdd, instanceName, name, port, 1)
	return nil
}

// RemoveSrpService asks the native SRP client to remove a service. The
// registry itself is only changed by RemoveInvalidSrpServices.
func (m *Manager) RemoveSrpService(instanceName, name string) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	if err := checkServiceNames(instanceName, name); err != nil {
		return err
	}

	if err := stackErr("srp client remove service", m.stack.SRPClientRemoveService(instanceName, name), true); err != nil {
		m.captureError(err, "RemoveSrpService")
		return fmt.Errorf("failed to remove srp service %s.%s: %w", instanceName, name, err)
	}
	m.captureService(log.ServiceOpRemove, instanceName, name, 0, 1)
	return nil
}

// InvalidateAllSrpServices marks every registered service invalid.
func (m *Manager) InvalidateAllSrpServices() error {
	for i := range m.services {
		m.services[i].Valid = false
	}
	m.captureService(log.ServiceOpInvalidate, "", "", 0, len(m.services))
	return nil
}

// RemoveInvalidSrpServices removes every invalid service from the network
// and then from the registry. It stops at the first native failure, leaving
// the failing service and all later ones in place, so a retry resumes where
// this call stopped.
func (m *Manager) RemoveInvalidSrpServices() error {
	removed := 0
	defer func() {
		if removed > 0 {
			m.captureService(log.ServiceOpPrune, "", "", 0, removed)
		}
	}()

	for i := 0; i < len(m.services); {
		svc := m.services[i]
		if svc.Valid {
			i++
			continue
		}
		if err := m.RemoveSrpService(svc.InstanceName, svc.Name); err != nil {
			return err
		}
		m.services = append(m.services[:i], m.services[i+1:]...)
		removed++
	}
	return nil
}

// Services returns a copy of the registry in registration order.
func (m *Manager) Services() []SRPService {
	out := make([]SRPService, len(m.services))
	copy(out, m.services)
	return out
}

// SetupSrpHost sets the SRP host name and publishes the mesh-local EID as
// the host address. A host name failure is only logged.
func (m *Manager) SetupSrpHost(hostName string) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	if hostName == "" {
		return fmt.Errorf("%w: empty host name", ErrInvalidArgument)
	}
	if len(hostName) > MaxHostNameLen {
		return fmt.Errorf("%w: host name longer than %d bytes", ErrInvalidArgument, MaxHostNameLen)
	}

	if status := m.stack.SRPClientSetHostName(hostName); stackErr("srp client set host name", status, true) != nil {
		m.warnLog("SetupSrpHost: set host name failed", "host", hostName, "status", status)
	}

	status := m.stack.IPAddresses(IPAddrMLEID, m.setSrpHostAddress)
	if err := stackErr("get ip addresses", status, false); err != nil {
		m.captureError(err, "SetupSrpHost")
		return fmt.Errorf("failed to set up srp host: %w", err)
	}
	return nil
}

// setSrpHostAddress is the IPAddresses callback used by SetupSrpHost.
// Only mesh-local EIDs are published; failures are logged.
func (m *Manager) setSrpHostAddress(index int, addr string, addrType IPAddrType) {
	if len(addr) < 6 {
		m.warnLog("SetupSrpHost: invalid address", "index", index, "addr", addr)
		return
	}
	m.debugLog("SetupSrpHost: address", "index", index, "addr", addr, "type", addrType)
	if addrType != IPAddrMLEID {
		return
	}
	if status := m.stack.SRPClientSetHostAddress(addr); stackErr("srp client set host address", status, true) != nil {
		m.warnLog("SetupSrpHost: set host address failed", "addr", addr, "status", status)
	}
}

// ClearSrpHost is not supported on this platform.
func (m *Manager) ClearSrpHost(hostName string) error {
	m.warnLog("ClearSrpHost: not implemented")
	return ErrNotImplemented
}

// DnsBrowse is not supported on this platform.
func (m *Manager) DnsBrowse(serviceName string) error {
	return ErrNotImplemented
}

// DnsResolve is not supported on this platform.
func (m *Manager) DnsResolve(serviceName, instanceName string) error {
	return ErrNotImplemented
}

func (m *Manager) captureService(op log.ServiceOp, instanceName, name string, port uint16, count int) {
	m.capture(log.Event{
		Category: log.CategoryService,
		Service: &log.ServiceEvent{
			Op:           op,
			InstanceName: instanceName,
			ServiceName:  name,
			Port:         port,
			Count:        count,
		},
	})
}
