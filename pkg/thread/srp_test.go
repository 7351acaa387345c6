package thread

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addPrinter(t *testing.T, h *harness, instance string) {
	t.Helper()
	txt := []TxtEntry{{Key: "rp", Value: []byte("ipp/print")}}
	require.NoError(t, h.mgr.AddSrpService(instance, "_ipp._tcp", 631, nil, txt, 7200, 86400))
}

func TestAddSrpServiceRequiresInit(t *testing.T) {
	h := newHarness(t, true)
	err := h.mgr.AddSrpService("printer1", "_ipp._tcp", 631, nil, nil, 0, 0)
	assert.ErrorIs(t, err, ErrUninitialized)
	assert.Empty(t, h.stack.calls)
}

func TestAddSrpServiceValidation(t *testing.T) {
	tooManyEntries := make([]TxtEntry, 256)
	for i := range tooManyEntries {
		tooManyEntries[i] = TxtEntry{Key: fmt.Sprintf("k%d", i)}
	}

	tests := []struct {
		name     string
		instance string
		service  string
		txt      []TxtEntry
	}{
		{"empty instance", "", "_ipp._tcp", nil},
		{"empty service", "printer1", "", nil},
		{"long instance", strings.Repeat("a", MaxInstanceNameLen+1), "_ipp._tcp", nil},
		{"oversized txt value", "printer1", "_ipp._tcp", []TxtEntry{{Key: "big", Value: bytes.Repeat([]byte{'x'}, 256)}}},
		{"too many txt entries", "printer1", "_ipp._tcp", tooManyEntries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newInitialized(t, true)
			addPrinter(t, h, "existing")
			h.stack.reset()
			before := len(h.mgr.Services())

			err := h.mgr.AddSrpService(tt.instance, tt.service, 631, nil, tt.txt, 0, 0)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Len(t, h.mgr.Services(), before)
			assert.Empty(t, h.stack.calls)
		})
	}
}

func TestAddSrpServiceBoundaryTxt(t *testing.T) {
	h := newInitialized(t, true)
	entries := make([]TxtEntry, 255)
	for i := range entries {
		entries[i] = TxtEntry{Key: fmt.Sprintf("k%d", i)}
	}
	entries[0].Value = bytes.Repeat([]byte{'x'}, 255)

	require.NoError(t, h.mgr.AddSrpService("printer1", "_ipp._tcp", 631, []string{"_universal"}, entries, 0, 0))
	require.Len(t, h.stack.registered, 1)
	assert.Equal(t, []string{"_universal"}, h.stack.registered[0].Subtypes)
}

func TestAddSrpServiceNativeResults(t *testing.T) {
	h := newInitialized(t, true)

	h.stack.fail("srp register", StatusAlreadyDone)
	addPrinter(t, h, "printer1")
	assert.Len(t, h.mgr.Services(), 1, "already done counts as success")

	h.stack.fail("srp register", StatusOperationFailed)
	err := h.mgr.AddSrpService("printer2", "_ipp._tcp", 631, nil, nil, 0, 0)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Len(t, h.mgr.Services(), 1, "failed registration is not recorded")
}

func TestPrinterLifecycle(t *testing.T) {
	h := newInitialized(t, true)

	addPrinter(t, h, "printer1")
	require.Equal(t, []SRPService{{InstanceName: "printer1", Name: "_ipp._tcp", Port: 631, Valid: true}}, h.mgr.Services())
	reg := h.stack.registered[0]
	assert.Equal(t, uint32(7200), reg.Lease)
	assert.Equal(t, uint32(86400), reg.KeyLease)

	require.NoError(t, h.mgr.InvalidateAllSrpServices())
	assert.False(t, h.mgr.Services()[0].Valid)

	require.NoError(t, h.mgr.RemoveInvalidSrpServices())
	assert.Empty(t, h.mgr.Services())
	assert.Equal(t, []string{"printer1"}, h.stack.removed)
}

func TestRemoveInvalidKeepsValidServices(t *testing.T) {
	h := newInitialized(t, true)
	addPrinter(t, h, "old")
	require.NoError(t, h.mgr.InvalidateAllSrpServices())
	addPrinter(t, h, "new")

	require.NoError(t, h.mgr.RemoveInvalidSrpServices())
	require.Len(t, h.mgr.Services(), 1)
	assert.Equal(t, "new", h.mgr.Services()[0].InstanceName)
}

func TestRemoveInvalidFailFastAndRestart(t *testing.T) {
	h := newInitialized(t, true)
	for i := 1; i <= 5; i++ {
		addPrinter(t, h, fmt.Sprintf("printer%d", i))
	}
	require.NoError(t, h.mgr.InvalidateAllSrpServices())

	h.stack.removeFailAt = 3
	h.stack.removeFailStatus = StatusResourceBusy

	err := h.mgr.RemoveInvalidSrpServices()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	remaining := h.mgr.Services()
	require.Len(t, remaining, 3)
	assert.Equal(t, "printer3", remaining[0].InstanceName)
	assert.Equal(t, "printer5", remaining[2].InstanceName)
	for _, svc := range remaining {
		assert.False(t, svc.Valid)
	}

	// A retry picks up at the failing service.
	require.NoError(t, h.mgr.RemoveInvalidSrpServices())
	assert.Empty(t, h.mgr.Services())
	assert.Equal(t, []string{"printer1", "printer2", "printer3", "printer4", "printer5"}, h.stack.removed)
}

func TestRemoveInvalidPrunesAlreadyRemovedService(t *testing.T) {
	h := newInitialized(t, true)
	addPrinter(t, h, "printer1")
	addPrinter(t, h, "printer2")
	require.NoError(t, h.mgr.InvalidateAllSrpServices())

	// The native client already dropped printer1.
	h.stack.removeFailAt = 1
	h.stack.removeFailStatus = StatusAlreadyDone

	require.NoError(t, h.mgr.RemoveInvalidSrpServices())
	assert.Empty(t, h.mgr.Services())
	assert.Equal(t, []string{"printer2"}, h.stack.removed)

	// Nothing is left for a second pass.
	require.NoError(t, h.mgr.RemoveInvalidSrpServices())
	assert.Equal(t, 2, h.stack.removeCalls)
}

func TestRemoveSrpServiceForwardsOnly(t *testing.T) {
	h := newInitialized(t, true)
	addPrinter(t, h, "printer1")

	require.NoError(t, h.mgr.RemoveSrpService("printer1", "_ipp._tcp"))
	assert.Len(t, h.mgr.Services(), 1, "registry is only pruned by RemoveInvalidSrpServices")

	h.stack.fail("srp remove", StatusAlreadyDone)
	assert.NoError(t, h.mgr.RemoveSrpService("printer1", "_ipp._tcp"), "already removed natively")

	h.stack.fail("srp remove", StatusOperationFailed)
	assert.ErrorIs(t, h.mgr.RemoveSrpService("printer1", "_ipp._tcp"), ErrInternal)

	assert.ErrorIs(t, h.mgr.RemoveSrpService("", "_ipp._tcp"), ErrInvalidArgument)
}

func TestServicesReturnsSnapshot(t *testing.T) {
	h := newInitialized(t, true)
	addPrinter(t, h, "printer1")

	snap := h.mgr.Services()
	snap[0].Valid = false
	assert.True(t, h.mgr.Services()[0].Valid)
}

func TestSetupSrpHost(t *testing.T) {
	h := newInitialized(t, true)
	h.stack.addrs[IPAddrMLEID] = []string{"fd11:22::1234", "fe80"}

	require.NoError(t, h.mgr.SetupSrpHost("thread-device"))
	assert.Equal(t, "thread-device", h.stack.hostName)
	assert.Equal(t, []string{"fd11:22::1234"}, h.stack.hostAddrs, "short addresses are skipped")
}

func TestSetupSrpHostHostNameFailureIsLogged(t *testing.T) {
	h := newInitialized(t, true)
	h.stack.fail("srp host name", StatusOperationFailed)

	require.NoError(t, h.mgr.SetupSrpHost("thread-device"))
	assert.Equal(t, []string{"fd11:22::1234"}, h.stack.hostAddrs)
}

func TestSetupSrpHostErrors(t *testing.T) {
	h := newHarness(t, true)
	assert.ErrorIs(t, h.mgr.SetupSrpHost("host"), ErrUninitialized)

	h = newInitialized(t, true)
	assert.ErrorIs(t, h.mgr.SetupSrpHost(""), ErrInvalidArgument)
	assert.ErrorIs(t, h.mgr.SetupSrpHost(strings.Repeat("h", MaxHostNameLen+1)), ErrInvalidArgument)
	assert.Empty(t, h.stack.calls)

	require.NoError(t, h.mgr.SetupSrpHost(strings.Repeat("h", MaxHostNameLen)))

	h.stack.fail("ip addresses", StatusOperationFailed)
	assert.ErrorIs(t, h.mgr.SetupSrpHost("host"), ErrInternal)
}

func TestUnsupportedDNSOperations(t *testing.T) {
	h := newInitialized(t, true)
	assert.ErrorIs(t, h.mgr.ClearSrpHost("host"), ErrNotImplemented)
	assert.ErrorIs(t, h.mgr.DnsBrowse("_ipp._tcp"), ErrNotImplemented)
	assert.ErrorIs(t, h.mgr.DnsResolve("_ipp._tcp", "printer1"), ErrNotImplemented)
}
