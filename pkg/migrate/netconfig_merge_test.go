// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcronenberg/wicked2nm/pkg/netconfig"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

func assembledState(t *testing.T, connections ...nm.Connection) *nm.NetworkState {
	t.Helper()
	state, err := Assemble(connections)
	require.NoError(t, err)
	return state
}

func TestMergeNetconfigSynthesizesLoopback(t *testing.T) {
	state := assembledState(t, nm.NewConnection("eth0", "eth0"))
	nc := &netconfig.Netconfig{
		StaticDNSServers:    []string{"192.168.1.1"},
		StaticDNSSearchlist: []string{"example.com"},
		DNSPolicy:           []string{"auto"},
	}

	warnings, err := MergeNetconfig(state, nc, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	lo := state.GetConnection("lo")
	require.NotNil(t, lo)
	assert.True(t, lo.IsLoopback())
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("192.168.1.1")}, lo.IP.Nameservers)
	assert.Equal(t, []string{"example.com"}, lo.IP.DNSSearchlist)
}

func TestMergeNetconfigKeepsLiveLoopback(t *testing.T) {
	liveLo := nm.NewLoopbackConnection()
	live := assembledState(t, liveLo)

	state := assembledState(t, nm.NewConnection("eth0", "eth0"))
	warnings, err := MergeNetconfig(state, &netconfig.Netconfig{}, live, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	lo := state.GetConnection("lo")
	require.NotNil(t, lo)
	// the live uuid survives so NetworkManager updates in place
	assert.Equal(t, liveLo.UUID, lo.UUID)
}

func TestMergeNetconfigKeepsLiveSearchlist(t *testing.T) {
	liveLo := nm.NewLoopbackConnection()
	liveLo.IP.DNSSearchlist = []string{"site.example.com"}
	live := assembledState(t, liveLo)

	state := assembledState(t, nm.NewConnection("eth0", "eth0"))

	// a policy without a searchlist leaves the live one in place
	_, err := MergeNetconfig(state, &netconfig.Netconfig{}, live, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"site.example.com"}, state.GetConnection("lo").IP.DNSSearchlist)

	// a declared searchlist replaces it
	state = assembledState(t, nm.NewConnection("eth0", "eth0"))
	nc := &netconfig.Netconfig{StaticDNSSearchlist: []string{"lab.example.com"}}
	_, err = MergeNetconfig(state, nc, live, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"lab.example.com"}, state.GetConnection("lo").IP.DNSSearchlist)
}

func TestMergeNetconfigPolicyRanking(t *testing.T) {
	state := assembledState(t,
		nm.NewConnection("eth0", "eth0"),
		nm.NewConnection("wlan0", "wlan0"),
	)
	nc := &netconfig.Netconfig{
		DNSPolicy: []string{"auto", "wlan*", "eth*"},
	}

	_, err := MergeNetconfig(state, nc, nil, nil)
	require.NoError(t, err)

	// rule position decides the priority; "auto" is not a rule
	wlan := state.GetConnection("wlan0")
	assert.Equal(t, int32(1), wlan.IP.DNSPriority4)
	assert.Equal(t, int32(1), wlan.IP.DNSPriority6)
	assert.False(t, wlan.IP.IgnoreAutoDNS)

	eth := state.GetConnection("eth0")
	assert.Equal(t, int32(2), eth.IP.DNSPriority4)
}

func TestMergeNetconfigUnclaimedIgnoresAutoDNS(t *testing.T) {
	state := assembledState(t, nm.NewConnection("eth0", "eth0"))
	nc := &netconfig.Netconfig{DNSPolicy: []string{"wlan*"}}

	_, err := MergeNetconfig(state, nc, nil, nil)
	require.NoError(t, err)

	eth := state.GetConnection("eth0")
	assert.Equal(t, int32(0), eth.IP.DNSPriority4)
	assert.True(t, eth.IP.IgnoreAutoDNS)

	// the loopback never suppresses anything, it has no DHCP
	lo := state.GetConnection("lo")
	assert.False(t, lo.IP.IgnoreAutoDNS)
}

func TestMergeNetconfigBadServerDegradesToEmpty(t *testing.T) {
	state := assembledState(t, nm.NewConnection("eth0", "eth0"))
	nc := &netconfig.Netconfig{
		StaticDNSServers: []string{"192.168.1.1", "not-an-ip"},
	}

	warnings, err := MergeNetconfig(state, nc, nil, nil)
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	// a partial list would change resolution order, so none is applied
	lo := state.GetConnection("lo")
	assert.Empty(t, lo.IP.Nameservers)
}

func TestGlobPolicyMatcher(t *testing.T) {
	matcher := NewGlobPolicyMatcher([]string{"eth*", "br0"})

	tests := []struct {
		iface   string
		rank    int
		claimed bool
	}{
		{"eth0", 0, true},
		{"eth12", 0, true},
		{"br0", 1, true},
		{"wlan0", 0, false},
	}

	for _, tt := range tests {
		conn := nm.NewConnection(tt.iface, tt.iface)
		rank, claimed := matcher.Rank(&conn)
		assert.Equal(t, tt.claimed, claimed, tt.iface)
		if claimed {
			assert.Equal(t, tt.rank, rank, tt.iface)
		}
	}
}
