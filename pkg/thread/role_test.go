package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAttached(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleDisabled, false},
		{RoleDetached, false},
		{RoleChild, true},
		{RoleRouter, true},
		{RoleLeader, true},
		{Role(5), true},
		{Role(255), true},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsAttached(tt.role))
		})
	}
}

func TestRoleLabelIsTotal(t *testing.T) {
	for r := 0; r <= 255; r++ {
		label, ok := RoleLabel(Role(r))
		if r <= int(RoleLeader) {
			assert.True(t, ok, "role %d", r)
			assert.NotEmpty(t, label)
		} else {
			assert.False(t, ok, "role %d", r)
			assert.Empty(t, label)
		}
	}
	assert.Equal(t, "leader", RoleLeader.String())
	assert.Equal(t, "UNKNOWN(9)", Role(9).String())
}

func TestDeviceTypeLabels(t *testing.T) {
	for _, dt := range []DeviceType{
		DeviceTypeNotSupported,
		DeviceTypeRouter,
		DeviceTypeFullEndDevice,
		DeviceTypeMinimalEndDevice,
		DeviceTypeSleepyEndDevice,
	} {
		parsed, err := ParseDeviceType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}

	_, err := ParseDeviceType("coordinator")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, ok := DeviceTypeLabel(DeviceType(7))
	assert.False(t, ok)
}
