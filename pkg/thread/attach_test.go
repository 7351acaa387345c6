package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/log"
)

func TestAttachReportsDeferredSuccess(t *testing.T) {
	h := newInitialized(t, true)
	cb := &callbackRecorder{}

	require.NoError(t, h.mgr.AttachToNetwork(commissionedDataset(t), cb))

	assert.Empty(t, cb.results, "callback must not fire inside AttachToNetwork")
	assert.True(t, h.mgr.HasPendingAttach())
	assert.Equal(t, []string{
		"device role", // IsEnabled
		"device role", // role re-query after disable
		"srp client start",
		"set dataset",
		"device role", // IsEnabled
		"attach",
		"start",
		"device role",
		"srp server stop",
		"srp client start",
	}, h.stack.calls)
	assert.True(t, h.mgr.IsAttached())

	h.queue.drain()
	assert.Equal(t, []NetworkStatus{NetworkStatusSuccess}, cb.results)
	assert.False(t, h.mgr.HasPendingAttach())

	h.queue.drain()
	assert.Len(t, cb.results, 1)
}

func TestAttachTwiceOnlySecondFires(t *testing.T) {
	h := newInitialized(t, false)
	first := &callbackRecorder{}
	second := &callbackRecorder{}

	require.NoError(t, h.mgr.AttachToNetwork(commissionedDataset(t), first))
	firstID := h.mgr.AttemptID()
	require.NoError(t, h.mgr.AttachToNetwork(commissionedDataset(t), second))
	assert.NotEqual(t, firstID, h.mgr.AttemptID())
	assert.Equal(t, 1, h.stack.called("stop"), "second attach disables the network first")

	h.queue.drain()

	assert.Empty(t, first.results)
	assert.Equal(t, []NetworkStatus{NetworkStatusSuccess}, second.results)

	var superseded int
	for _, ev := range h.capture.events {
		if ev.Attach != nil && ev.Attach.Phase == log.AttachPhaseSuperseded {
			assert.Equal(t, firstID, ev.AttemptID)
			superseded++
		}
	}
	assert.Equal(t, 1, superseded)
}

func TestAttachStartFailureReportsUnknownError(t *testing.T) {
	h := newInitialized(t, false)
	h.stack.fail("start", StatusOperationFailed)
	cb := &callbackRecorder{}

	err := h.mgr.AttachToNetwork(commissionedDataset(t), cb)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, h.mgr.HasPendingAttach(), "aborted attempt stores no callback")

	h.queue.drain()
	assert.Empty(t, cb.results, "dropped, not invoked")
}

func TestAttachAttachFailureAborts(t *testing.T) {
	h := newInitialized(t, false)
	h.stack.fail("attach", StatusNotPermitted)

	err := h.mgr.AttachToNetwork(commissionedDataset(t), &callbackRecorder{})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, h.stack.called("start"))
}

func TestDeferredUnknownErrorReachesPendingCallback(t *testing.T) {
	h := newInitialized(t, false)
	cb := &callbackRecorder{}
	require.NoError(t, h.mgr.AttachToNetwork(commissionedDataset(t), cb))

	// A later native start failure on the same attempt resolves the
	// pending callback with UnknownError before the success report runs.
	h.mgr.resolvePending(h.mgr.AttemptID(), NetworkStatusUnknownError)
	h.queue.drain()

	assert.Equal(t, []NetworkStatus{NetworkStatusUnknownError}, cb.results)
}

func TestAttachUncommissionedStaysDisabled(t *testing.T) {
	h := newInitialized(t, false)
	partial, err := dataset.NewBuilder().PanID(0x1234).Build()
	require.NoError(t, err)
	cb := &callbackRecorder{}

	require.NoError(t, h.mgr.AttachToNetwork(partial, cb))
	assert.False(t, h.mgr.HasPendingAttach())
	assert.Equal(t, 0, h.stack.called("attach"))
	assert.Equal(t, partial.Bytes(), h.stack.tlvs)

	h.queue.drain()
	assert.Empty(t, cb.results)
}

func TestAttachBeforeInit(t *testing.T) {
	h := newHarness(t, false)
	err := h.mgr.AttachToNetwork(commissionedDataset(t), &callbackRecorder{})
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestAttachDisableFailureAborts(t *testing.T) {
	h := newInitialized(t, false)
	h.stack.role = RoleChild
	h.stack.fail("stop", StatusOperationFailed)

	err := h.mgr.AttachToNetwork(commissionedDataset(t), &callbackRecorder{})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, h.stack.called("set dataset"))
}

func TestSetEnabledFalseFailureSkipsRoleHandler(t *testing.T) {
	h := newInitialized(t, false)
	h.stack.role = RoleRouter
	h.stack.fail("stop", StatusOperationFailed)

	err := h.mgr.SetEnabled(false)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, h.events.events)
}

func TestSetEnabledNoopReappliesRole(t *testing.T) {
	h := newInitialized(t, false)
	h.stack.role = RoleLeader

	require.NoError(t, h.mgr.SetEnabled(true))
	assert.Equal(t, 0, h.stack.called("attach"), "already enabled")
	assert.True(t, h.mgr.IsAttached())
	assert.Equal(t, 1, h.events.count(EventRoleStateChanged))
}

func TestSetEnabledRequiresInit(t *testing.T) {
	h := newHarness(t, false)
	assert.ErrorIs(t, h.mgr.SetEnabled(true), ErrUninitialized)
}

func TestCompletionAtMostOnce(t *testing.T) {
	var calls int
	c := NewCompletion(ConnectCallbackFunc(func(NetworkStatus, string, int32) { calls++ }), "a")

	assert.True(t, c.Resolve(NetworkStatusSuccess))
	assert.False(t, c.Resolve(NetworkStatusUnknownError))
	assert.Equal(t, 1, calls)
	assert.True(t, c.Done())

	d := NewCompletion(ConnectCallbackFunc(func(NetworkStatus, string, int32) { calls++ }), "b")
	d.Drop()
	assert.False(t, d.Resolve(NetworkStatusSuccess))
	assert.Equal(t, 1, calls)

	assert.True(t, NewCompletion(nil, "c").Resolve(NetworkStatusSuccess))
}

func TestAttachCaptureCorrelation(t *testing.T) {
	h := newInitialized(t, false)
	require.NoError(t, h.mgr.AttachToNetwork(commissionedDataset(t), &callbackRecorder{}))
	h.queue.drain()

	var phases []log.AttachPhase
	for _, ev := range h.capture.events {
		if ev.Category != log.CategoryAttach {
			continue
		}
		assert.Equal(t, h.mgr.AttemptID(), ev.AttemptID)
		assert.Equal(t, log.LayerManager, ev.Layer)
		assert.Equal(t, "1122334455667788", ev.DeviceID)
		phases = append(phases, ev.Attach.Phase)
	}
	assert.Equal(t, []log.AttachPhase{
		log.AttachPhaseStarted,
		log.AttachPhaseDisabled,
		log.AttachPhaseProvisioned,
		log.AttachPhaseEnabling,
		log.AttachPhaseReported,
	}, phases)
}
