// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

// Package nm holds the normalized network-connection model consumed by
// NetworkManager, plus the adapter boundary used to read and write the live
// system state.
package nm

import (
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// IPMethod is the per-protocol addressing method of a connection.
type IPMethod string

const (
	IPMethodAuto     IPMethod = "auto"
	IPMethodManual   IPMethod = "manual"
	IPMethodDisabled IPMethod = "disabled"
)

// IPConfig is the normalized ip configuration of one connection.
type IPConfig struct {
	Method4 IPMethod `yaml:"method4"`
	Method6 IPMethod `yaml:"method6"`

	Addresses []netip.Prefix `yaml:"addresses,omitempty"`
	Gateway4  netip.Addr     `yaml:"gateway4,omitempty"`
	Gateway6  netip.Addr     `yaml:"gateway6,omitempty"`

	Nameservers   []netip.Addr `yaml:"nameservers,omitempty"`
	DNSSearchlist []string     `yaml:"dns_searchlist,omitempty"`

	// DNSPriority4/6 are assigned by the DNS policy merger; zero means the
	// static DNS policy never claimed this connection for that protocol.
	DNSPriority4 int32 `yaml:"dns_priority4,omitempty"`
	DNSPriority6 int32 `yaml:"dns_priority6,omitempty"`

	// IgnoreAutoDNS suppresses DHCP-learned nameservers on connections the
	// static DNS policy does not claim.
	IgnoreAutoDNS bool `yaml:"ignore_auto_dns,omitempty"`

	// DHCP policy overrides, only meaningful for the auto method.
	SendHostname4 bool   `yaml:"send_hostname4,omitempty"`
	SendHostname6 bool   `yaml:"send_hostname6,omitempty"`
	Hostname4     string `yaml:"hostname4,omitempty"`
	Hostname6     string `yaml:"hostname6,omitempty"`
}

// MatchConfig is the device-matching predicate of a connection. An empty
// value means match by interface name, which is the default for migrated
// profiles.
type MatchConfig struct {
	Driver     []string `yaml:"driver,omitempty"`
	MACAddress string   `yaml:"macaddress,omitempty"`
	Name       []string `yaml:"name,omitempty"`
	Path       []string `yaml:"path,omitempty"`
}

// Connection is one normalized connection profile.
type Connection struct {
	ID   string    `yaml:"id"`
	UUID uuid.UUID `yaml:"uuid"`

	// Interface is the kernel-visible device name, empty when the profile
	// matches by other predicates.
	Interface string `yaml:"interface,omitempty"`

	// Controller references the uuid of the parent bond or bridge
	// connection; uuid.Nil means standalone.
	Controller uuid.UUID `yaml:"controller,omitempty"`

	IP    IPConfig    `yaml:"ip"`
	Match MatchConfig `yaml:"match,omitempty"`

	FirewallZone string `yaml:"firewall_zone,omitempty"`
	MTU          uint32 `yaml:"mtu,omitempty"`
	MACAddress   string `yaml:"macaddress,omitempty"`
	Autoconnect  bool   `yaml:"autoconnect"`

	Config ConnectionConfig `yaml:"config"`
}

// NewConnection creates a connection with a fresh uuid and the defaults
// every migrated profile starts from.
func NewConnection(id, iface string) Connection {
	return Connection{
		ID:          id,
		UUID:        uuid.New(),
		Interface:   iface,
		Autoconnect: true,
		IP: IPConfig{
			Method4: IPMethodDisabled,
			Method6: IPMethodDisabled,
		},
		Config: EthernetConfig{},
	}
}

// NewLoopbackConnection synthesizes the canonical loopback profile used when
// the live system has none.
func NewLoopbackConnection() Connection {
	conn := NewConnection(constants.LoopbackName, constants.LoopbackName)
	conn.IP.Method4 = IPMethodManual
	conn.IP.Method6 = IPMethodManual
	conn.IP.Addresses = []netip.Prefix{
		netip.MustParsePrefix("127.0.0.1/8"),
		netip.MustParsePrefix("::1/128"),
	}
	conn.Config = LoopbackConfig{}
	return conn
}

// IsLoopback reports whether the connection is the loopback profile.
func (c *Connection) IsLoopback() bool {
	_, ok := c.Config.(LoopbackConfig)
	return ok
}

// Kind names the connection kind for logs and keyfiles.
func (c *Connection) Kind() string {
	switch c.Config.(type) {
	case EthernetConfig:
		return "ethernet"
	case BondConfig:
		return "bond"
	case BridgeConfig:
		return "bridge"
	case VlanConfig:
		return "vlan"
	case DummyConfig:
		return "dummy"
	case LoopbackConfig:
		return "loopback"
	default:
		return "unknown"
	}
}

// GeneralState is the aggregate policy container of a network state. The
// migration only carries it along; its fields belong to the management
// daemon.
type GeneralState struct {
	Hostname       string `yaml:"hostname,omitempty"`
	ConnectivityOn bool   `yaml:"connectivity,omitempty"`
}

// NetworkState is the ordered, validated collection of connections produced
// by a migration run. It owns its connections.
type NetworkState struct {
	General     GeneralState `yaml:"general"`
	Connections []Connection `yaml:"connections"`
}

// NewNetworkState creates an empty state.
func NewNetworkState() *NetworkState {
	return &NetworkState{}
}

// AddConnection inserts a connection, enforcing the id-uniqueness invariant.
// A duplicate id is a structural conflict in the source data and is never
// recoverable via continue-mode.
func (s *NetworkState) AddConnection(conn Connection) error {
	for i := range s.Connections {
		if s.Connections[i].ID == conn.ID {
			return errors.New(errors.StateDuplicateID,
				fmt.Sprintf("connection %q already present", conn.ID))
		}
	}
	s.Connections = append(s.Connections, conn)
	return nil
}

// GetConnection returns the connection with the given id, or nil.
func (s *NetworkState) GetConnection(id string) *Connection {
	for i := range s.Connections {
		if s.Connections[i].ID == id {
			return &s.Connections[i]
		}
	}
	return nil
}

// StateConfig selects which parts of the live state an adapter read should
// recover. The migration only ever needs the loopback connection.
type StateConfig struct {
	OnlyLoopback bool
}
