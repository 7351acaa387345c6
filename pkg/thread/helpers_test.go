package thread

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/log"
)

// fakeStack is an in-memory Stack with per-call status injection.
type fakeStack struct {
	role      Role
	devType   DeviceType
	tlvs      []byte
	extAddr   uint64
	addrs     map[IPAddrType][]string
	startRole Role

	// status overrides the result of a call by op name.
	status map[string]Status

	// removeFailAt makes the n-th SRPClientRemoveService call (1-based)
	// return removeFailStatus.
	removeFailAt     int
	removeFailStatus Status
	removeCalls      int

	calls      []string
	roleCb     func(Role)
	registered []ServiceRegistration
	removed    []string
	hostName   string
	hostAddrs  []string
}

func newFakeStack() *fakeStack {
	return &fakeStack{
		role:      RoleDisabled,
		devType:   DeviceTypeMinimalEndDevice,
		extAddr:   0x1122334455667788,
		startRole: RoleChild,
		status:    make(map[string]Status),
		addrs: map[IPAddrType][]string{
			IPAddrMLEID: {"fd11:22::1234"},
		},
	}
}

func (f *fakeStack) call(op string) Status {
	f.calls = append(f.calls, op)
	return f.status[op]
}

func (f *fakeStack) fail(op string, status Status) {
	f.status[op] = status
}

func (f *fakeStack) reset() {
	f.calls = nil
}

func (f *fakeStack) called(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeStack) Initialize() Status   { return f.call("initialize") }
func (f *fakeStack) Deinitialize() Status { return f.call("deinitialize") }
func (f *fakeStack) Enable() Status       { return f.call("enable") }

func (f *fakeStack) Attach() Status {
	s := f.call("attach")
	if s == StatusNone {
		f.role = RoleDetached
	}
	return s
}

func (f *fakeStack) Start() Status {
	s := f.call("start")
	if s == StatusNone {
		f.role = f.startRole
	}
	return s
}

func (f *fakeStack) Stop() Status {
	s := f.call("stop")
	if s == StatusNone {
		f.role = RoleDisabled
	}
	return s
}

func (f *fakeStack) DeviceRole() (Role, Status) {
	return f.role, f.call("device role")
}

func (f *fakeStack) DeviceType() (DeviceType, Status) {
	return f.devType, f.call("device type")
}

func (f *fakeStack) SetDeviceType(t DeviceType) Status {
	s := f.call("set device type")
	if s == StatusNone {
		f.devType = t
	}
	return s
}

func (f *fakeStack) ActiveDatasetTLVs() ([]byte, Status) {
	return append([]byte(nil), f.tlvs...), f.call("get dataset")
}

func (f *fakeStack) SetActiveDatasetTLVs(tlvs []byte) Status {
	s := f.call("set dataset")
	if s == StatusNone {
		f.tlvs = append([]byte(nil), tlvs...)
	}
	return s
}

func (f *fakeStack) ExtendedAddress() (uint64, Status) {
	return f.extAddr, f.call("extended address")
}

func (f *fakeStack) SetRoleChangedCallback(fn func(Role)) Status {
	s := f.call("set role callback")
	if s == StatusNone {
		f.roleCb = fn
	}
	return s
}

func (f *fakeStack) IPAddresses(addrType IPAddrType, fn func(int, string, IPAddrType)) Status {
	s := f.call("ip addresses")
	if s != StatusNone {
		return s
	}
	for i, a := range f.addrs[addrType] {
		fn(i, a, addrType)
	}
	return s
}

func (f *fakeStack) SRPClientStart() Status { return f.call("srp client start") }
func (f *fakeStack) SRPClientStop() Status  { return f.call("srp client stop") }
func (f *fakeStack) SRPServerStart() Status { return f.call("srp server start") }
func (f *fakeStack) SRPServerStop() Status  { return f.call("srp server stop") }

func (f *fakeStack) SRPClientRegisterService(reg ServiceRegistration) Status {
	s := f.call("srp register")
	if s == StatusNone || s == StatusAlreadyDone {
		f.registered = append(f.registered, reg)
	}
	return s
}

func (f *fakeStack) SRPClientRemoveService(instanceName, name string) Status {
	f.removeCalls++
	if f.removeFailAt > 0 && f.removeCalls == f.removeFailAt {
		f.calls = append(f.calls, "srp remove")
		return f.removeFailStatus
	}
	s := f.call("srp remove")
	if s == StatusNone {
		f.removed = append(f.removed, instanceName)
	}
	return s
}

func (f *fakeStack) SRPClientSetHostName(hostName string) Status {
	s := f.call("srp host name")
	if s == StatusNone {
		f.hostName = hostName
	}
	return s
}

func (f *fakeStack) SRPClientSetHostAddress(addr string) Status {
	s := f.call("srp host address")
	if s == StatusNone {
		f.hostAddrs = append(f.hostAddrs, addr)
	}
	return s
}

// queue is a Scheduler that runs work only when drained.
type queue struct {
	fns []func()
}

func (q *queue) Post(fn func()) {
	q.fns = append(q.fns, fn)
}

func (q *queue) drain() {
	for len(q.fns) > 0 {
		fn := q.fns[0]
		q.fns = q.fns[1:]
		fn()
	}
}

// eventRecorder collects posted device events.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) PostEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) reset() {
	r.events = nil
}

// captureRecorder collects capture events.
type captureRecorder struct {
	events []log.Event
}

func (c *captureRecorder) Log(ev log.Event) {
	c.events = append(c.events, ev)
}

type harness struct {
	stack   *fakeStack
	queue   *queue
	events  *eventRecorder
	capture *captureRecorder
	mgr     *Manager
}

func newHarness(t *testing.T, srp bool) *harness {
	t.Helper()
	h := &harness{
		stack:   newFakeStack(),
		queue:   &queue{},
		events:  &eventRecorder{},
		capture: &captureRecorder{},
	}
	mgr, err := NewManager(h.stack, Config{
		Scheduler:   h.queue,
		Poster:      h.events,
		SRPEnabled:  srp,
		EventLogger: h.capture,
	})
	require.NoError(t, err)
	h.mgr = mgr
	return h
}

// newInitialized returns a harness whose Manager completed Init, with
// call and event records cleared.
func newInitialized(t *testing.T, srp bool) *harness {
	t.Helper()
	h := newHarness(t, srp)
	require.NoError(t, h.mgr.Init())
	h.stack.reset()
	h.events.reset()
	return h
}

func commissionedDataset(t *testing.T) dataset.OperationalDataset {
	t.Helper()
	ds, err := dataset.NewBuilder().
		ActiveTimestamp(1).
		Channel(15).
		PanID(0x1234).
		ExtendedPanID([8]byte{0xde, 0xad, 0x00, 0xbe, 0xef, 0x00, 0xca, 0xfe}).
		NetworkName("OpenThread-1234").
		NetworkKey([16]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}).
		Build()
	require.NoError(t, err)
	return ds
}

// callbackRecorder records ConnectCallback invocations.
type callbackRecorder struct {
	results []NetworkStatus
}

func (c *callbackRecorder) OnResult(status NetworkStatus, debugText string, networkIndex int32) {
	c.results = append(c.results, status)
}
