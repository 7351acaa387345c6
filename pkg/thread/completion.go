package thread

// NetworkStatus is the result reported to a ConnectCallback.
type NetworkStatus uint8

const (
	NetworkStatusSuccess NetworkStatus = iota
	NetworkStatusUnknownError
)

// String returns the status name.
func (s NetworkStatus) String() string {
	switch s {
	case NetworkStatusSuccess:
		return "Success"
	case NetworkStatusUnknownError:
		return "UnknownError"
	default:
		return "UNKNOWN"
	}
}

// ConnectCallback receives the outcome of an attach attempt.
type ConnectCallback interface {
	OnResult(status NetworkStatus, debugText string, networkIndex int32)
}

// ConnectCallbackFunc adapts a function to ConnectCallback.
type ConnectCallbackFunc func(status NetworkStatus, debugText string, networkIndex int32)

// OnResult calls f.
func (f ConnectCallbackFunc) OnResult(status NetworkStatus, debugText string, networkIndex int32) {
	f(status, debugText, networkIndex)
}

// Completion owns a ConnectCallback for one attach attempt and invokes it
// at most once. A dropped Completion never invokes its callback.
type Completion struct {
	cb        ConnectCallback
	attemptID string
	done      bool
}

// NewCompletion wraps cb. A nil cb yields a Completion that reports nothing.
func NewCompletion(cb ConnectCallback, attemptID string) *Completion {
	return &Completion{cb: cb, attemptID: attemptID}
}

// AttemptID returns the attach attempt the completion belongs to.
func (c *Completion) AttemptID() string {
	return c.attemptID
}

// Done reports whether the completion was resolved or dropped.
func (c *Completion) Done() bool {
	return c.done
}

// Resolve invokes the callback with status. It returns false if the
// completion was already resolved or dropped.
func (c *Completion) Resolve(status NetworkStatus) bool {
	if c.done {
		return false
	}
	c.done = true
	if c.cb != nil {
		c.cb.OnResult(status, "", 0)
	}
	return true
}

// Drop disposes of the completion without invoking the callback.
func (c *Completion) Drop() {
	c.done = true
	c.cb = nil
}
