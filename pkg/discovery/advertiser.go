package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// Advertise starts advertising a service. An existing advertisement
	// with the same key is replaced.
	Advertise(ctx context.Context, info *ServiceInfo) error

	// UpdateTXT replaces the TXT record of an advertised service.
	UpdateTXT(key string, txt TXTRecordMap) error

	// Withdraw stops advertising the service with the given key.
	Withdraw(key string) error

	// StopAll stops all advertisements.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       DefaultTTL,
	}
}

// MirrorState is whether the mirror's services are on the air.
type MirrorState uint8

const (
	// MirrorInactive - services are held but not advertised.
	MirrorInactive MirrorState = iota

	// MirrorActive - all held services are advertised.
	MirrorActive
)

// String returns the state name.
func (s MirrorState) String() string {
	switch s {
	case MirrorInactive:
		return "INACTIVE"
	case MirrorActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// MirrorConfig configures a Mirror.
type MirrorConfig struct {
	// Logger is used for debug logging.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives publish/withdraw capture events.
	// If nil, capture is disabled.
	EventLogger log.Logger

	// DeviceID tags capture events.
	DeviceID string
}

// Mirror holds the set of services a device has registered and keeps them
// advertised exactly while it is active.
type Mirror struct {
	mu sync.RWMutex

	advertiser Advertiser
	services   map[string]*ServiceInfo
	order      []string
	state      MirrorState

	logger   *slog.Logger
	events   log.Logger
	deviceID string

	onStateChange func(old, new MirrorState)
}

// NewMirror creates an inactive mirror on top of advertiser.
func NewMirror(advertiser Advertiser, config MirrorConfig) *Mirror {
	events := config.EventLogger
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Mirror{
		advertiser: advertiser,
		services:   make(map[string]*ServiceInfo),
		logger:     config.Logger,
		events:     events,
		deviceID:   config.DeviceID,
	}
}

// State returns the current mirror state.
func (m *Mirror) State() MirrorState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnStateChange sets a callback for state changes.
func (m *Mirror) OnStateChange(fn func(old, new MirrorState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// Add stores a service and, if the mirror is active, advertises it. Adding
// a key that is already held replaces it; a change limited to the TXT
// record is applied in place.
func (m *Mirror) Add(ctx context.Context, info *ServiceInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	cp := cloneInfo(info)
	key := cp.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	old, exists := m.services[key]
	m.services[key] = cp
	if !exists {
		m.order = append(m.order, key)
	}

	if m.state != MirrorActive {
		return nil
	}
	if exists && old.Port == cp.Port && slices.Equal(old.Subtypes, cp.Subtypes) {
		if err := m.advertiser.UpdateTXT(key, cp.TXT); err != nil {
			return fmt.Errorf("failed to update %s: %w", key, err)
		}
		m.debugLog("mirror: updated txt", "key", key)
		return nil
	}
	return m.publish(ctx, cp)
}

// Remove drops a service and withdraws it if active.
func (m *Mirror) Remove(instanceName, serviceType string) error {
	key := ServiceKey(instanceName, serviceType)

	m.mu.Lock()
	defer m.mu.Unlock()

	info, exists := m.services[key]
	if !exists {
		return ErrNotFound
	}
	delete(m.services, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if m.state != MirrorActive {
		return nil
	}
	return m.withdraw(info)
}

// Activate advertises every held service. Failures do not stop the
// remaining services from being advertised; they are returned joined.
func (m *Mirror) Activate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == MirrorActive {
		return nil
	}
	m.setState(MirrorActive)

	var errs []error
	for _, key := range m.order {
		if err := m.publish(ctx, m.services[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deactivate withdraws every held service. The services are kept and
// advertised again on the next Activate.
func (m *Mirror) Deactivate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == MirrorInactive {
		return nil
	}
	m.setState(MirrorInactive)

	var errs []error
	for _, key := range m.order {
		if err := m.withdraw(m.services[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetActive activates or deactivates the mirror.
func (m *Mirror) SetActive(ctx context.Context, active bool) error {
	if active {
		return m.Activate(ctx)
	}
	return m.Deactivate()
}

// Services returns copies of the held services in insertion order.
func (m *Mirror) Services() []ServiceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ServiceInfo, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, *cloneInfo(m.services[key]))
	}
	return out
}

// Stop withdraws everything and forgets all services.
func (m *Mirror) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advertiser.StopAll()
	m.services = make(map[string]*ServiceInfo)
	m.order = nil
	m.setState(MirrorInactive)
}

// publish must be called with m.mu held.
func (m *Mirror) publish(ctx context.Context, info *ServiceInfo) error {
	if err := m.advertiser.Advertise(ctx, info); err != nil {
		m.captureError(err, "publish "+info.Key())
		return fmt.Errorf("failed to advertise %s: %w", info.Key(), err)
	}
	m.debugLog("mirror: published", "key", info.Key(), "port", info.Port)
	m.capture(log.ServiceOpPublish, info)
	return nil
}

// withdraw must be called with m.mu held.
func (m *Mirror) withdraw(info *ServiceInfo) error {
	if err := m.advertiser.Withdraw(info.Key()); err != nil && !errors.Is(err, ErrNotFound) {
		m.captureError(err, "withdraw "+info.Key())
		return fmt.Errorf("failed to withdraw %s: %w", info.Key(), err)
	}
	m.debugLog("mirror: withdrawn", "key", info.Key())
	m.capture(log.ServiceOpWithdraw, info)
	return nil
}

// setState must be called with m.mu held.
func (m *Mirror) setState(state MirrorState) {
	old := m.state
	m.state = state
	if m.onStateChange != nil && old != state {
		m.onStateChange(old, state)
	}
}

func (m *Mirror) capture(op log.ServiceOp, info *ServiceInfo) {
	m.events.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryService,
		DeviceID:  m.deviceID,
		Service: &log.ServiceEvent{
			Op:           op,
			InstanceName: info.InstanceName,
			ServiceName:  info.ServiceType,
			Port:         info.Port,
			Count:        1,
		},
	})
}

func (m *Mirror) captureError(err error, context string) {
	m.events.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryError,
		DeviceID:  m.deviceID,
		Error: &log.ErrorEventData{
			Layer:   log.LayerDiscovery,
			Message: err.Error(),
			Context: context,
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (m *Mirror) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func cloneInfo(info *ServiceInfo) *ServiceInfo {
	cp := *info
	cp.Subtypes = append([]string(nil), info.Subtypes...)
	if info.TXT != nil {
		cp.TXT = make(TXTRecordMap, len(info.TXT))
		for k, v := range info.TXT {
			cp.TXT[k] = v
		}
	}
	return &cp
}
