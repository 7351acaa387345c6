package thread

import "github.com/mash-protocol/mash-thread/pkg/log"

// RoleChangeResult describes what handling one role notification did.
type RoleChangeResult struct {
	// Change is the connectivity edge, if any.
	Change ConnectivityChange

	// SoftFailures lists SRP toggles that failed. They are logged and
	// never abort the handler.
	SoftFailures []SoftFailure
}

// OnRoleChanged applies a native role notification. A connectivity event is
// posted only when the attached flag flips; a role state event is posted on
// every call. With SRP enabled the SRP client and server are then toggled
// for the new role.
func (m *Manager) OnRoleChanged(role Role) RoleChangeResult {
	var result RoleChangeResult
	m.debugLog("thread device role", "role", role)

	attached := IsAttached(role)
	if attached != m.state.Attached {
		result.Change = ConnectivityLost
		if attached {
			result.Change = ConnectivityEstablished
		}
		m.debugLog("thread connectivity state changed", "result", result.Change)
		m.poster.PostEvent(Event{
			Type:         EventConnectivityChanged,
			Connectivity: result.Change,
			Role:         role,
			Attached:     attached,
		})
		m.captureConnectivity(result.Change)
	}
	m.state.Attached = attached

	m.debugLog("thread role state changed", "attached", attached)
	m.poster.PostEvent(Event{
		Type:        EventRoleStateChanged,
		Role:        role,
		Attached:    attached,
		RoleChanged: true,
	})

	if m.srp {
		result.SoftFailures = m.toggleSRP(role)
	}

	var oldRole string
	if m.roleKnown {
		oldRole = m.lastRole.String()
	}
	m.lastRole, m.roleKnown = role, true
	m.capture(log.Event{
		Category: log.CategoryRole,
		Role: &log.RoleEvent{
			OldRole:      oldRole,
			NewRole:      role.String(),
			Attached:     attached,
			SoftFailures: len(result.SoftFailures),
		},
	})
	return result
}

// toggleSRP starts the SRP client when disabled or attached below leader,
// and moves to the SRP server when leader.
func (m *Manager) toggleSRP(role Role) []SoftFailure {
	type call struct {
		op string
		fn func() Status
	}
	var calls []call
	switch role {
	case RoleDisabled:
		calls = []call{{"srp client start", m.stack.SRPClientStart}}
	case RoleRouter, RoleChild:
		calls = []call{
			{"srp server stop", m.stack.SRPServerStop},
			{"srp client start", m.stack.SRPClientStart},
		}
	case RoleLeader:
		calls = []call{
			{"srp client stop", m.stack.SRPClientStop},
			{"srp server start", m.stack.SRPServerStart},
		}
	}

	var failures []SoftFailure
	for _, c := range calls {
		status := c.fn()
		if stackErr(c.op, status, true) == nil {
			continue
		}
		f := SoftFailure{Op: c.op, Status: status}
		m.warnLog("role change: srp toggle failed", "op", c.op, "status", status)
		m.captureError(f.Err(), "OnRoleChanged")
		failures = append(failures, f)
	}
	return failures
}

func (m *Manager) captureConnectivity(change ConnectivityChange) {
	result := log.ConnectivityEstablished
	if change == ConnectivityLost {
		result = log.ConnectivityLost
	}
	m.capture(log.Event{
		Category:     log.CategoryConnectivity,
		Connectivity: &log.ConnectivityEvent{Result: result},
	})
}
