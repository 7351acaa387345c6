package thread

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/log"
)

// Config configures a Manager.
type Config struct {
	// Scheduler is the work queue that owns the Manager. Required.
	Scheduler Scheduler

	// Poster receives device events. If nil, events are discarded.
	Poster EventPoster

	// SRPEnabled turns on SRP client/server toggling on role changes.
	SRPEnabled bool

	// Logger is used for operational logging.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives structured capture events.
	// If nil, capture is disabled.
	EventLogger log.Logger
}

// ConnectivityState is the Manager's view of the native stack.
// Attached implies Initialized.
type ConnectivityState struct {
	Initialized bool
	Attached    bool
}

// Manager drives a native Thread stack. See the package documentation for
// its ownership rules.
type Manager struct {
	stack     Stack
	scheduler Scheduler
	poster    EventPoster
	srp       bool
	logger    *slog.Logger
	events    log.Logger

	state     ConnectivityState
	lastRole  Role
	roleKnown bool
	deviceID  string

	dataset  dataset.OperationalDataset
	services []SRPService

	// pending is the completion of the current attach attempt.
	pending   *Completion
	attemptID string
}

// NewManager creates a Manager for stack. The stack is not touched until
// Init.
func NewManager(stack Stack, config Config) (*Manager, error) {
	if stack == nil {
		return nil, fmt.Errorf("%w: nil stack", ErrInvalidArgument)
	}
	if config.Scheduler == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidArgument)
	}
	poster := config.Poster
	if poster == nil {
		poster = EventPosterFunc(func(Event) {})
	}
	events := config.EventLogger
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Manager{
		stack:     stack,
		scheduler: config.Scheduler,
		poster:    poster,
		srp:       config.SRPEnabled,
		logger:    config.Logger,
		events:    events,
	}, nil
}

// Init brings up the native stack. It is a no-op once the Manager is
// initialized. On any native failure the stack is deinitialized and an
// error matching ErrInternal is returned.
func (m *Manager) Init() error {
	if m.state.Initialized {
		m.debugLog("Init: already initialized")
		return nil
	}

	if err := m.bringUp(); err != nil {
		m.stack.Deinitialize()
		m.state.Attached = false
		m.warnLog("Init: bring-up failed", "error", err)
		m.captureError(err, "Init")
		return fmt.Errorf("failed to initialize thread stack: %w", err)
	}

	m.state.Initialized = true
	if addr, status := m.stack.ExtendedAddress(); status == StatusNone {
		m.deviceID = fmt.Sprintf("%016x", addr)
	}
	m.debugLog("Init: thread stack manager initialized", "device", m.deviceID)
	return nil
}

func (m *Manager) bringUp() error {
	if err := stackErr("initialize", m.stack.Initialize(), false); err != nil {
		return err
	}
	if err := stackErr("enable", m.stack.Enable(), false); err != nil {
		return err
	}
	role, status := m.stack.DeviceRole()
	if err := stackErr("get device role", status, false); err != nil {
		return err
	}
	m.OnRoleChanged(role)

	return stackErr("set role changed callback", m.stack.SetRoleChangedCallback(m.handleNativeRoleChange), false)
}

// handleNativeRoleChange is registered with the native stack and may run on
// any goroutine.
func (m *Manager) handleNativeRoleChange(role Role) {
	m.scheduler.Post(func() {
		m.debugLog("native role notification", "role", role)
		m.OnRoleChanged(role)
	})
}

// State returns the current connectivity state.
func (m *Manager) State() ConnectivityState {
	return m.state
}

// IsInitialized reports whether Init completed.
func (m *Manager) IsInitialized() bool {
	return m.state.Initialized
}

// IsAttached returns the cached attached flag.
func (m *Manager) IsAttached() bool {
	return m.state.Attached
}

// IsEnabled queries the native role and reports whether it is anything
// but disabled. It is false before Init or if the query fails.
func (m *Manager) IsEnabled() bool {
	if !m.state.Initialized {
		return false
	}
	role, status := m.stack.DeviceRole()
	if status != StatusNone {
		m.warnLog("IsEnabled: get device role failed", "status", status)
		return false
	}
	return role != RoleDisabled
}

// DeviceID returns the extended address in hex, or "" before Init.
func (m *Manager) DeviceID() string {
	return m.deviceID
}

// capture stamps and forwards a capture event.
func (m *Manager) capture(ev log.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.Layer = log.LayerManager
	if ev.DeviceID == "" {
		ev.DeviceID = m.deviceID
	}
	m.events.Log(ev)
}

func (m *Manager) captureError(err error, context string) {
	data := &log.ErrorEventData{
		Layer:   log.LayerManager,
		Message: err.Error(),
		Context: context,
	}
	var se *StackError
	if errors.As(err, &se) {
		code := int(se.Status)
		data.Layer = log.LayerNative
		data.Code = &code
	}
	m.capture(log.Event{
		AttemptID: m.attemptID,
		Category:  log.CategoryError,
		Error:     data,
	})
}

// debugLog logs a debug message if logging is enabled.
func (m *Manager) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

// warnLog logs a warning if logging is enabled.
func (m *Manager) warnLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
