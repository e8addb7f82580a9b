// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package nm

import (
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

func TestNewConnectionDefaults(t *testing.T) {
	conn := NewConnection("eth0", "eth0")
	assert.Equal(t, "eth0", conn.ID)
	assert.NotEqual(t, uuid.Nil, conn.UUID)
	assert.Equal(t, uuid.Nil, conn.Controller)
	assert.True(t, conn.Autoconnect)
	assert.Equal(t, IPMethodDisabled, conn.IP.Method4)
	assert.Equal(t, IPMethodDisabled, conn.IP.Method6)
	assert.Equal(t, "ethernet", conn.Kind())
}

func TestNewLoopbackConnection(t *testing.T) {
	lo := NewLoopbackConnection()
	assert.Equal(t, "lo", lo.ID)
	assert.True(t, lo.IsLoopback())
	assert.Equal(t, IPMethodManual, lo.IP.Method4)
	assert.Equal(t, IPMethodManual, lo.IP.Method6)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("127.0.0.1/8"),
		netip.MustParsePrefix("::1/128"),
	}, lo.IP.Addresses)
}

func TestConnectionKinds(t *testing.T) {
	tests := []struct {
		config ConnectionConfig
		want   string
	}{
		{EthernetConfig{}, "ethernet"},
		{BondConfig{}, "bond"},
		{BridgeConfig{}, "bridge"},
		{VlanConfig{}, "vlan"},
		{DummyConfig{}, "dummy"},
		{LoopbackConfig{}, "loopback"},
	}

	for _, tt := range tests {
		conn := Connection{Config: tt.config}
		assert.Equal(t, tt.want, conn.Kind())
	}
}

func TestAddConnectionRejectsDuplicateID(t *testing.T) {
	state := NewNetworkState()
	require.NoError(t, state.AddConnection(NewConnection("eth0", "eth0")))
	require.NoError(t, state.AddConnection(NewConnection("eth1", "eth1")))

	err := state.AddConnection(NewConnection("eth0", "eth0"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.StateDuplicateID))
	assert.Len(t, state.Connections, 2)
}

func TestGetConnection(t *testing.T) {
	state := NewNetworkState()
	require.NoError(t, state.AddConnection(NewConnection("eth0", "eth0")))

	require.NotNil(t, state.GetConnection("eth0"))
	assert.Nil(t, state.GetConnection("eth42"))
}
