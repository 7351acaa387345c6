package thread

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/log"
)

// AttachToNetwork disables the network, applies ds and, if ds is
// commissioned, enables the network again and keeps cb pending until the
// deferred attach report runs. Any completion still pending from an earlier
// call is dropped without being invoked. Failures abort the sequence
// without undoing earlier steps.
func (m *Manager) AttachToNetwork(ds dataset.OperationalDataset, cb ConnectCallback) error {
	if m.pending != nil {
		m.debugLog("AttachToNetwork: superseding pending attach", "attempt", m.pending.AttemptID())
		m.captureAttach(m.pending.AttemptID(), log.AttachPhaseSuperseded, "")
		m.pending.Drop()
		m.pending = nil
	}

	m.attemptID = uuid.NewString()
	m.captureAttach(m.attemptID, log.AttachPhaseStarted, "")

	if err := m.SetEnabled(false); err != nil {
		return err
	}
	m.captureAttach(m.attemptID, log.AttachPhaseDisabled, "")

	if err := m.SetProvision(ds.Bytes()); err != nil {
		return err
	}
	m.captureAttach(m.attemptID, log.AttachPhaseProvisioned, "")

	if !ds.IsCommissioned() {
		m.debugLog("AttachToNetwork: dataset not commissioned, staying disabled", "attempt", m.attemptID)
		m.captureAttach(m.attemptID, log.AttachPhaseIdle, "")
		return nil
	}

	if err := m.SetEnabled(true); err != nil {
		return err
	}
	m.pending = NewCompletion(cb, m.attemptID)
	m.captureAttach(m.attemptID, log.AttachPhaseEnabling, "")
	return nil
}

// SetEnabled brings the Thread network up or down. Enabling issues the
// native attach and start calls and posts one deferred report for each;
// the reports resolve the pending attach completion, if any. After either
// direction the current role is fed back through OnRoleChanged.
func (m *Manager) SetEnabled(enable bool) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	enabled := m.IsEnabled()

	switch {
	case enable && !enabled:
		attemptID := m.attemptID

		attachStatus := m.stack.Attach()
		m.scheduler.Post(func() {
			if attachStatus != StatusNone {
				m.resolvePending(attemptID, NetworkStatusUnknownError)
			}
		})
		if err := stackErr("attach", attachStatus, false); err != nil {
			m.captureError(err, "SetEnabled")
			return fmt.Errorf("failed to attach thread network: %w", err)
		}

		startStatus := m.stack.Start()
		m.scheduler.Post(func() {
			status := NetworkStatusSuccess
			if startStatus != StatusNone {
				status = NetworkStatusUnknownError
			}
			m.resolvePending(attemptID, status)
		})
		if err := stackErr("start", startStatus, false); err != nil {
			m.captureError(err, "SetEnabled")
			return fmt.Errorf("failed to start thread network: %w", err)
		}

	case !enable && enabled:
		if err := stackErr("stop", m.stack.Stop(), false); err != nil {
			m.captureError(err, "SetEnabled")
			return fmt.Errorf("failed to stop thread network: %w", err)
		}
	}

	role, status := m.stack.DeviceRole()
	if err := stackErr("get device role", status, false); err != nil {
		m.captureError(err, "SetEnabled")
		return fmt.Errorf("failed to set thread enabled %t: %w", enable, err)
	}
	m.OnRoleChanged(role)

	m.debugLog("thread set enabled", "enable", enable, "role", role)
	return nil
}

// resolvePending reports status to the pending completion if it belongs to
// attemptID. Reports for superseded or finished attempts are ignored.
func (m *Manager) resolvePending(attemptID string, status NetworkStatus) {
	c := m.pending
	if c == nil || c.AttemptID() != attemptID {
		m.debugLog("attach report ignored", "attempt", attemptID, "status", status)
		return
	}
	m.pending = nil
	c.Resolve(status)
	m.captureAttach(attemptID, log.AttachPhaseReported, status.String())
}

// HasPendingAttach reports whether an attach completion is waiting for its
// deferred report.
func (m *Manager) HasPendingAttach() bool {
	return m.pending != nil
}

// AttemptID returns the ID of the most recent attach attempt.
func (m *Manager) AttemptID() string {
	return m.attemptID
}

func (m *Manager) captureAttach(attemptID string, phase log.AttachPhase, status string) {
	m.capture(log.Event{
		AttemptID: attemptID,
		Category:  log.CategoryAttach,
		Attach:    &log.AttachEvent{Phase: phase, Status: status},
	})
}
