package simstack

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/persistence"
	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// DefaultAttachDelay is how long the node stays detached after Start.
const DefaultAttachDelay = 500 * time.Millisecond

// Config configures a simulated stack.
type Config struct {
	// AttachDelay is the time between Start and the attached role.
	// Default: DefaultAttachDelay.
	AttachDelay time.Duration

	// Store keeps non-volatile settings across restarts.
	// If nil, settings are lost on Deinitialize.
	Store *persistence.NetworkStateStore

	// Mirror advertises SRP client services on the host LAN.
	// If nil, registrations stay on the simulated mesh.
	Mirror *discovery.Mirror

	// Logger is used for debug logging.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Stack is a simulated native Thread stack. It is safe for concurrent use.
type Stack struct {
	mu sync.Mutex

	attachDelay time.Duration
	store       *persistence.NetworkStateStore
	mirror      *discovery.Mirror
	logger      *slog.Logger

	initialized bool
	enabled     bool
	attachArmed bool
	started     bool
	role        thread.Role
	rloc16      uint16

	deviceType thread.DeviceType
	dataset    []byte
	extAddr    uint64
	hostName   string
	hostAddrs  []string

	srpClient bool
	srpServer bool
	services  []thread.ServiceRegistration

	roleCallback func(thread.Role)
	timer        *time.Timer
	generation   uint64
	failures     map[Op]thread.Status
}

var _ thread.Stack = (*Stack)(nil)

// New creates a simulated stack. Nothing is loaded until Initialize.
func New(config Config) *Stack {
	delay := config.AttachDelay
	if delay <= 0 {
		delay = DefaultAttachDelay
	}
	return &Stack{
		attachDelay: delay,
		store:       config.Store,
		mirror:      config.Mirror,
		logger:      config.Logger,
		role:        thread.RoleDisabled,
		deviceType:  thread.DeviceTypeMinimalEndDevice,
		failures:    make(map[Op]thread.Status),
	}
}

// FailNext makes the next call of op return status instead of running.
func (s *Stack) FailNext(op Op, status thread.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = status
}

// injected must be called with s.mu held. It consumes a pending failure.
func (s *Stack) injected(op Op) (thread.Status, bool) {
	st, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
		s.debugLog("simstack: injected failure", "op", op, "status", st)
	}
	return st, ok
}

// Initialize loads the persisted settings. The extended address is
// generated on first use and kept.
func (s *Stack) Initialize() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpInitialize); ok {
		s.mu.Unlock()
		return st
	}
	if s.initialized {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}

	if err := s.load(); err != nil {
		s.mu.Unlock()
		s.warnLog("simstack: failed to load state", "error", err)
		return thread.StatusOperationFailed
	}
	if s.extAddr == 0 {
		id := uuid.New()
		s.extAddr = binary.BigEndian.Uint64(id[:8])
		s.saveLocked()
	}
	s.initialized = true
	s.role = thread.RoleDisabled
	restored := append([]thread.ServiceRegistration(nil), s.services...)
	extAddr := s.extAddr
	s.mu.Unlock()

	s.debugLog("simstack: initialized", "extaddr", fmt.Sprintf("%016x", extAddr), "services", len(restored))
	for _, reg := range restored {
		s.mirrorAdd(reg)
	}
	return thread.StatusNone
}

// Deinitialize stops the node and forgets volatile state.
func (s *Stack) Deinitialize() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpDeinitialize); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	s.stopTimer()
	s.initialized = false
	s.enabled = false
	s.attachArmed = false
	s.started = false
	s.srpClient = false
	s.srpServer = false
	s.roleCallback = nil
	s.role = thread.RoleDisabled
	s.mu.Unlock()

	s.syncMirror(false)
	return thread.StatusNone
}

// Enable brings up the instance.
func (s *Stack) Enable() thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpEnable); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if s.enabled {
		return thread.StatusAlreadyDone
	}
	s.enabled = true
	return thread.StatusNone
}

// Attach arms the node to join the network of the active dataset. It
// fails with StatusNoData when the dataset is not commissioned.
func (s *Stack) Attach() thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpAttach); ok {
		return st
	}
	if !s.enabled {
		return thread.StatusNotEnabled
	}
	ds, err := dataset.New(s.dataset)
	if err != nil || !ds.IsCommissioned() {
		return thread.StatusNoData
	}
	s.attachArmed = true
	return thread.StatusNone
}

// Start begins Thread operation. The node reports detached at once and
// attaches after the attach delay.
func (s *Stack) Start() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpStart); ok {
		s.mu.Unlock()
		return st
	}
	if !s.enabled {
		s.mu.Unlock()
		return thread.StatusNotEnabled
	}
	if !s.attachArmed {
		s.mu.Unlock()
		return thread.StatusNotPermitted
	}
	if s.started {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}
	s.started = true
	s.generation++
	gen := s.generation
	s.timer = time.AfterFunc(s.attachDelay, func() { s.settle(gen) })
	s.mu.Unlock()

	s.setRole(thread.RoleDetached)
	return thread.StatusNone
}

// Stop ends Thread operation. The node reports disabled.
func (s *Stack) Stop() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpStop); ok {
		s.mu.Unlock()
		return st
	}
	if !s.started {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}
	s.stopTimer()
	s.started = false
	s.attachArmed = false
	s.mu.Unlock()

	s.setRole(thread.RoleDisabled)
	return thread.StatusNone
}

// settle runs on the attach timer of the Start call numbered gen.
func (s *Stack) settle(gen uint64) {
	s.mu.Lock()
	if !s.started || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	role := thread.RoleChild
	if s.deviceType == thread.DeviceTypeRouter {
		role = thread.RoleLeader
	}
	s.mu.Unlock()

	s.setRole(role)
}

// ForceRole moves a started node to role, e.g. to simulate losing the
// parent or being promoted. It fails with StatusNotPermitted when the node
// is not started and StatusInvalidParameter for RoleDisabled.
func (s *Stack) ForceRole(role thread.Role) thread.Status {
	if _, ok := thread.RoleLabel(role); !ok || role == thread.RoleDisabled {
		return thread.StatusInvalidParameter
	}
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return thread.StatusNotPermitted
	}
	s.stopTimer()
	s.mu.Unlock()

	s.setRole(role)
	return thread.StatusNone
}

// setRole records role and notifies the registered callback. It must be
// called without s.mu held.
func (s *Stack) setRole(role thread.Role) {
	s.mu.Lock()
	old := s.role
	s.role = role
	if thread.IsAttached(role) && !thread.IsAttached(old) {
		s.rloc16 = uint16(s.extAddr)&0xfc00 | 0x0001
	}
	cb := s.roleCallback
	mirror := thread.IsAttached(role) && s.srpClient
	s.mu.Unlock()

	if old == role {
		return
	}
	s.debugLog("simstack: role changed", "from", old, "to", role)
	if cb != nil {
		cb(role)
	}
	s.syncMirror(mirror)
}

// stopTimer must be called with s.mu held.
func (s *Stack) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// DeviceRole returns the current role.
func (s *Stack) DeviceRole() (thread.Role, thread.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpDeviceRole); ok {
		return thread.RoleDisabled, st
	}
	if !s.initialized {
		return thread.RoleDisabled, thread.StatusNotInitialized
	}
	return s.role, thread.StatusNone
}

// DeviceType returns the configured device type.
func (s *Stack) DeviceType() (thread.DeviceType, thread.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpDeviceType); ok {
		return thread.DeviceTypeNotSupported, st
	}
	if !s.initialized {
		return thread.DeviceTypeNotSupported, thread.StatusNotInitialized
	}
	return s.deviceType, thread.StatusNone
}

// SetDeviceType stores the device type. It takes effect on the next attach.
func (s *Stack) SetDeviceType(t thread.DeviceType) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpSetDeviceType); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if _, ok := thread.DeviceTypeLabel(t); !ok || t == thread.DeviceTypeNotSupported {
		return thread.StatusNotSupported
	}
	s.deviceType = t
	s.saveLocked()
	return thread.StatusNone
}

// ActiveDatasetTLVs returns a copy of the active dataset.
func (s *Stack) ActiveDatasetTLVs() ([]byte, thread.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpActiveDataset); ok {
		return nil, st
	}
	if !s.initialized {
		return nil, thread.StatusNotInitialized
	}
	return append([]byte(nil), s.dataset...), thread.StatusNone
}

// SetActiveDatasetTLVs replaces the active dataset.
func (s *Stack) SetActiveDatasetTLVs(tlvs []byte) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpSetActiveDataset); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if !dataset.IsValid(tlvs) {
		return thread.StatusInvalidParameter
	}
	s.dataset = append([]byte(nil), tlvs...)
	s.saveLocked()
	return thread.StatusNone
}

// ExtendedAddress returns the node's extended address.
func (s *Stack) ExtendedAddress() (uint64, thread.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpExtendedAddress); ok {
		return 0, st
	}
	if !s.initialized {
		return 0, thread.StatusNotInitialized
	}
	return s.extAddr, thread.StatusNone
}

// SetRoleChangedCallback registers fn. It replaces any earlier callback.
func (s *Stack) SetRoleChangedCallback(fn func(thread.Role)) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpSetRoleCallback); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	s.roleCallback = fn
	return thread.StatusNone
}

// IPAddresses reports the node's unicast addresses. A started node has a
// link-local address and, with a mesh-local prefix in the dataset, an
// ML-EID. The RLOC exists only while attached.
func (s *Stack) IPAddresses(addrType thread.IPAddrType, fn func(index int, addr string, addrType thread.IPAddrType)) thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpIPAddresses); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	addrs := s.addressesLocked()
	s.mu.Unlock()

	index := 0
	for _, a := range addrs {
		if addrType != thread.IPAddrAll && a.typ != addrType {
			continue
		}
		fn(index, a.addr.String(), a.typ)
		index++
	}
	return thread.StatusNone
}

type typedAddr struct {
	addr netip.Addr
	typ  thread.IPAddrType
}

// addressesLocked must be called with s.mu held.
func (s *Stack) addressesLocked() []typedAddr {
	if !s.started {
		return nil
	}

	var iid [8]byte
	binary.BigEndian.PutUint64(iid[:], s.extAddr)
	iid[0] ^= 0x02

	var ll [16]byte
	ll[0], ll[1] = 0xfe, 0x80
	copy(ll[8:], iid[:])
	out := []typedAddr{{netip.AddrFrom16(ll), thread.IPAddrLinkLocal}}

	ds, err := dataset.New(s.dataset)
	if err != nil {
		return out
	}
	prefix, err := ds.MeshLocalPrefix()
	if err != nil {
		return out
	}
	if thread.IsAttached(s.role) {
		var rloc [16]byte
		copy(rloc[:8], prefix[:])
		rloc[11], rloc[12] = 0xff, 0xfe
		binary.BigEndian.PutUint16(rloc[14:], s.rloc16)
		out = append(out, typedAddr{netip.AddrFrom16(rloc), thread.IPAddrRLOC})
	}

	// ML-EID interface identifiers are random; derive a stable one.
	var mleid [16]byte
	copy(mleid[:8], prefix[:])
	binary.BigEndian.PutUint64(mleid[8:], s.extAddr^0x5a5a5a5a5a5a5a5a)
	out = append(out, typedAddr{netip.AddrFrom16(mleid), thread.IPAddrMLEID})
	return out
}

// SRPClientStart starts the SRP client. Registered services are mirrored
// while the node is attached.
func (s *Stack) SRPClientStart() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpSRPClientStart); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	if s.srpClient {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}
	s.srpClient = true
	active := thread.IsAttached(s.role)
	s.mu.Unlock()

	s.syncMirror(active)
	return thread.StatusNone
}

// SRPClientStop stops the SRP client and withdraws mirrored services.
func (s *Stack) SRPClientStop() thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpSRPClientStop); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	if !s.srpClient {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}
	s.srpClient = false
	s.mu.Unlock()

	s.syncMirror(false)
	return thread.StatusNone
}

// SRPServerStart starts the SRP server.
func (s *Stack) SRPServerStart() thread.Status {
	return s.toggleServer(OpSRPServerStart, true)
}

// SRPServerStop stops the SRP server.
func (s *Stack) SRPServerStop() thread.Status {
	return s.toggleServer(OpSRPServerStop, false)
}

func (s *Stack) toggleServer(op Op, on bool) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(op); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if s.srpServer == on {
		return thread.StatusAlreadyDone
	}
	s.srpServer = on
	return thread.StatusNone
}

// SRPClientRegisterService adds a service. Registering the same instance
// and service name again returns StatusAlreadyDone.
func (s *Stack) SRPClientRegisterService(reg thread.ServiceRegistration) thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpSRPRegisterService); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	if reg.InstanceName == "" || reg.Name == "" {
		s.mu.Unlock()
		return thread.StatusInvalidParameter
	}
	if s.findLocked(reg.InstanceName, reg.Name) >= 0 {
		s.mu.Unlock()
		return thread.StatusAlreadyDone
	}
	reg.Subtypes = append([]string(nil), reg.Subtypes...)
	reg.TxtEntries = append([]thread.TxtEntry(nil), reg.TxtEntries...)
	s.services = append(s.services, reg)
	s.saveLocked()
	s.mu.Unlock()

	s.mirrorAdd(reg)
	return thread.StatusNone
}

// SRPClientRemoveService removes a service. Unknown services return
// StatusNotFound.
func (s *Stack) SRPClientRemoveService(instanceName, name string) thread.Status {
	s.mu.Lock()
	if st, ok := s.injected(OpSRPRemoveService); ok {
		s.mu.Unlock()
		return st
	}
	if !s.initialized {
		s.mu.Unlock()
		return thread.StatusNotInitialized
	}
	i := s.findLocked(instanceName, name)
	if i < 0 {
		s.mu.Unlock()
		return thread.StatusNotFound
	}
	s.services = append(s.services[:i], s.services[i+1:]...)
	s.saveLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Remove(instanceName, name); err != nil {
			s.debugLog("simstack: mirror remove", "instance", instanceName, "error", err)
		}
	}
	return thread.StatusNone
}

// SRPClientSetHostName sets the SRP host name.
func (s *Stack) SRPClientSetHostName(hostName string) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpSRPSetHostName); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if hostName == "" {
		return thread.StatusInvalidParameter
	}
	s.hostName = hostName
	s.saveLocked()
	return thread.StatusNone
}

// SRPClientSetHostAddress adds an SRP host address.
func (s *Stack) SRPClientSetHostAddress(addr string) thread.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.injected(OpSRPSetHostAddress); ok {
		return st
	}
	if !s.initialized {
		return thread.StatusNotInitialized
	}
	if _, err := netip.ParseAddr(addr); err != nil {
		return thread.StatusInvalidParameter
	}
	for _, a := range s.hostAddrs {
		if a == addr {
			return thread.StatusAlreadyDone
		}
	}
	s.hostAddrs = append(s.hostAddrs, addr)
	return thread.StatusNone
}

// findLocked must be called with s.mu held.
func (s *Stack) findLocked(instanceName, name string) int {
	for i, reg := range s.services {
		if reg.InstanceName == instanceName && reg.Name == name {
			return i
		}
	}
	return -1
}

// Snapshot is a read-only view of the simulated node.
type Snapshot struct {
	Initialized bool
	Enabled     bool
	Started     bool
	Role        thread.Role
	DeviceType  thread.DeviceType
	ExtAddr     uint64
	HostName    string
	HostAddrs   []string
	SRPClient   bool
	SRPServer   bool
	Services    []thread.ServiceRegistration
}

// Snapshot returns the current node state.
func (s *Stack) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Initialized: s.initialized,
		Enabled:     s.enabled,
		Started:     s.started,
		Role:        s.role,
		DeviceType:  s.deviceType,
		ExtAddr:     s.extAddr,
		HostName:    s.hostName,
		HostAddrs:   append([]string(nil), s.hostAddrs...),
		SRPClient:   s.srpClient,
		SRPServer:   s.srpServer,
		Services:    append([]thread.ServiceRegistration(nil), s.services...),
	}
}

// syncMirror activates or deactivates the mirror. It must be called without
// s.mu held since the mirror may block on the network.
func (s *Stack) syncMirror(active bool) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.SetActive(context.Background(), active); err != nil {
		s.warnLog("simstack: mirror update failed", "active", active, "error", err)
	}
}

// mirrorAdd must be called without s.mu held.
func (s *Stack) mirrorAdd(reg thread.ServiceRegistration) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Add(context.Background(), registrationToService(reg)); err != nil {
		s.warnLog("simstack: service not mirrored", "instance", reg.InstanceName, "name", reg.Name, "error", err)
	}
}

// registrationToService maps an SRP registration onto an mDNS service. The
// lease becomes the record TTL.
func registrationToService(reg thread.ServiceRegistration) *discovery.ServiceInfo {
	info := &discovery.ServiceInfo{
		InstanceName: reg.InstanceName,
		ServiceType:  reg.Name,
		Port:         reg.Port,
		Subtypes:     reg.Subtypes,
		TTL:          time.Duration(reg.Lease) * time.Second,
	}
	if len(reg.TxtEntries) > 0 {
		info.TXT = make(discovery.TXTRecordMap, len(reg.TxtEntries))
		for _, e := range reg.TxtEntries {
			info.TXT[e.Key] = string(e.Value)
		}
	}
	return info
}

// load must be called with s.mu held.
func (s *Stack) load() error {
	if s.store == nil {
		return nil
	}
	state, err := s.store.Load()
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	if state.ExtendedAddress != "" {
		addr, err := strconv.ParseUint(state.ExtendedAddress, 16, 64)
		if err != nil {
			return fmt.Errorf("invalid extended address %q: %w", state.ExtendedAddress, err)
		}
		s.extAddr = addr
	}
	if state.ActiveDataset != "" {
		tlvs, err := hex.DecodeString(state.ActiveDataset)
		if err != nil || !dataset.IsValid(tlvs) {
			return errors.New("invalid stored dataset")
		}
		s.dataset = tlvs
	}
	if state.DeviceType != "" {
		t, err := thread.ParseDeviceType(state.DeviceType)
		if err != nil {
			return err
		}
		s.deviceType = t
	}
	s.hostName = state.SRPHostName

	s.services = s.services[:0]
	for _, rec := range state.Services {
		reg := thread.ServiceRegistration{
			InstanceName: rec.InstanceName,
			Name:         rec.Name,
			Port:         rec.Port,
			Subtypes:     rec.Subtypes,
			Lease:        rec.Lease,
		}
		for k, v := range rec.Txt {
			reg.TxtEntries = append(reg.TxtEntries, thread.TxtEntry{Key: k, Value: []byte(v)})
		}
		s.services = append(s.services, reg)
	}
	s.debugLog("simstack: loaded state", "path", s.store.Path(), "services", len(s.services))
	return nil
}

// saveLocked must be called with s.mu held.
func (s *Stack) saveLocked() {
	if s.store == nil {
		return
	}
	state := &persistence.NetworkState{
		ExtendedAddress: fmt.Sprintf("%016x", s.extAddr),
		ActiveDataset:   hex.EncodeToString(s.dataset),
		SRPHostName:     s.hostName,
	}
	if label, ok := thread.DeviceTypeLabel(s.deviceType); ok {
		state.DeviceType = label
	}
	now := time.Now()
	for _, reg := range s.services {
		rec := persistence.ServiceRecord{
			InstanceName: reg.InstanceName,
			Name:         reg.Name,
			Port:         reg.Port,
			Subtypes:     reg.Subtypes,
			Lease:        reg.Lease,
			RegisteredAt: now,
		}
		if len(reg.TxtEntries) > 0 {
			rec.Txt = make(map[string]string, len(reg.TxtEntries))
			for _, e := range reg.TxtEntries {
				rec.Txt[e.Key] = string(e.Value)
			}
		}
		state.Services = append(state.Services, rec)
	}
	if err := s.store.Save(state); err != nil {
		s.warnLog("simstack: failed to save state", "error", err)
	}
}

// debugLog logs a debug message if logging is enabled.
func (s *Stack) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// warnLog logs a warning if logging is enabled.
func (s *Stack) warnLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
