package simstack_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/discovery/mocks"
	"github.com/mash-protocol/mash-thread/pkg/simstack"
	"github.com/mash-protocol/mash-thread/pkg/thread"
)

func TestServicesMirroredWhileAttached(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	mirror := discovery.NewMirror(adv, discovery.MirrorConfig{})
	s := simstack.New(simstack.Config{AttachDelay: time.Hour, Mirror: mirror})

	ds, err := dataset.NewBuilder().
		Channel(11).
		PanID(1).
		ExtendedPanID([8]byte{1}).
		NetworkKey([16]byte{1}).
		Build()
	require.NoError(t, err)

	require.Equal(t, thread.StatusNone, s.Initialize())
	require.Equal(t, thread.StatusNone, s.Enable())
	require.Equal(t, thread.StatusNone, s.SetActiveDatasetTLVs(ds.Bytes()))
	require.Equal(t, thread.StatusNone, s.Attach())
	require.Equal(t, thread.StatusNone, s.Start())
	require.Equal(t, thread.StatusNone, s.SRPClientStart())

	// Detached: the registration is held, not advertised.
	require.Equal(t, thread.StatusNone, s.SRPClientRegisterService(thread.ServiceRegistration{
		InstanceName: "lamp",
		Name:         "_matter._udp",
		Port:         5540,
		Subtypes:     []string{"_L840"},
		TxtEntries:   []thread.TxtEntry{{Key: "SII", Value: []byte("5000")}},
		Lease:        600,
	}))
	assert.Equal(t, discovery.MirrorInactive, mirror.State())

	adv.EXPECT().Advertise(mock.Anything, mock.MatchedBy(func(info *discovery.ServiceInfo) bool {
		return info.Key() == "lamp._matter._udp" &&
			info.TTL == 10*time.Minute &&
			info.TXT["SII"] == "5000" &&
			len(info.Subtypes) == 1
	})).Return(nil).Once()
	require.Equal(t, thread.StatusNone, s.ForceRole(thread.RoleChild))
	assert.Equal(t, discovery.MirrorActive, mirror.State())

	adv.EXPECT().Withdraw("lamp._matter._udp").Return(nil).Once()
	require.Equal(t, thread.StatusNone, s.SRPClientStop())
	assert.Equal(t, discovery.MirrorInactive, mirror.State())

	require.Equal(t, thread.StatusNone, s.SRPClientRemoveService("lamp", "_matter._udp"))
	assert.Empty(t, mirror.Services())

	require.Equal(t, thread.StatusNone, s.Deinitialize())
}

func TestUnmirrorableServiceStillRegisters(t *testing.T) {
	mirror := discovery.NewMirror(mocks.NewMockAdvertiser(t), discovery.MirrorConfig{})
	s := simstack.New(simstack.Config{Mirror: mirror})
	require.Equal(t, thread.StatusNone, s.Initialize())
	defer s.Deinitialize()

	st := s.SRPClientRegisterService(thread.ServiceRegistration{InstanceName: "x", Name: "not-a-type", Port: 1})
	assert.Equal(t, thread.StatusNone, st)
	assert.Len(t, s.Snapshot().Services, 1)
	assert.Empty(t, mirror.Services())
}
