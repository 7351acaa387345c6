package thread

// EventType identifies a device event emitted by the Manager.
type EventType uint8

const (
	// EventConnectivityChanged is emitted when the attached flag flips.
	EventConnectivityChanged EventType = iota
	// EventRoleStateChanged is emitted on every role notification.
	EventRoleStateChanged
	// EventProvisioningChanged is emitted when a dataset is applied.
	EventProvisioningChanged
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventConnectivityChanged:
		return "CONNECTIVITY_CHANGED"
	case EventRoleStateChanged:
		return "ROLE_STATE_CHANGED"
	case EventProvisioningChanged:
		return "PROVISIONING_CHANGED"
	default:
		return "UNKNOWN"
	}
}

// ConnectivityChange is the direction of a connectivity edge.
type ConnectivityChange uint8

const (
	ConnectivityNoChange ConnectivityChange = iota
	ConnectivityEstablished
	ConnectivityLost
)

// String returns the change name.
func (c ConnectivityChange) String() string {
	switch c {
	case ConnectivityNoChange:
		return "NO_CHANGE"
	case ConnectivityEstablished:
		return "ESTABLISHED"
	case ConnectivityLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// Event is a device event posted to the EventPoster.
// Which fields are meaningful depends on Type.
type Event struct {
	Type EventType

	// Connectivity is set for EventConnectivityChanged.
	Connectivity ConnectivityChange

	// Role and Attached describe the state after the notification
	// (EventConnectivityChanged, EventRoleStateChanged).
	Role     Role
	Attached bool

	// RoleChanged is always true for EventRoleStateChanged.
	RoleChanged bool

	// Provisioned is set for EventProvisioningChanged.
	Provisioned bool
}

// EventPoster delivers device events to the rest of the device layer.
type EventPoster interface {
	PostEvent(ev Event)
}

// EventPosterFunc adapts a function to EventPoster.
type EventPosterFunc func(ev Event)

// PostEvent calls f(ev).
func (f EventPosterFunc) PostEvent(ev Event) { f(ev) }

// Scheduler runs work items on the Manager's owning work queue.
// Post must not run fn before it returns.
type Scheduler interface {
	Post(fn func())
}
