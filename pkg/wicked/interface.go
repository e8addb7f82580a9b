// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

// Package wicked models legacy wicked interface descriptors and parses the
// XML dialect emitted by `wicked show-config`.
package wicked

// Interface is one parsed interface descriptor. Immutable once parsed; it is
// consumed exactly once by the connection mapper.
type Interface struct {
	Name     string
	Link     Link
	Control  Control
	Firewall Firewall

	IPv4       IPProtocol
	IPv4Static *IPStatic
	IPv4DHCP   *IPDhcp

	IPv6       IPProtocol
	IPv6Static *IPStatic
	IPv6DHCP   *IPDhcp
	IPv6Auto   bool

	Bond   *Bond
	Bridge *Bridge
	Vlan   *Vlan
	Dummy  bool
}

// Link carries the link-layer metadata of a descriptor.
type Link struct {
	// Master names the controller interface (bond or bridge) this
	// interface is enslaved to.
	Master string
	MTU    uint32
}

// Control carries the wicked startup policy for the interface.
type Control struct {
	Mode string
}

// Firewall carries the firewalld zone assignment.
type Firewall struct {
	Zone string
}

// IPProtocol is the per-protocol enable switch (<ipv4>/<ipv6> blocks).
type IPProtocol struct {
	Enabled bool
	// Present tracks whether the block existed at all; an absent block
	// keeps the wicked default of enabled.
	Present bool
}

// IPStatic is a static addressing block.
type IPStatic struct {
	Addresses []string // CIDR notation, parsed by the mapper
	Gateway   string
}

// IPDhcp is an automatic addressing block.
type IPDhcp struct {
	Enabled  bool
	Hostname string
	Flags    string
	Update   string
}

// KindCount reports how many connection kinds the descriptor declares.
// More than one is a contradictory descriptor.
func (i *Interface) KindCount() int {
	n := 0
	if i.Bond != nil {
		n++
	}
	if i.Bridge != nil {
		n++
	}
	if i.Vlan != nil {
		n++
	}
	if i.Dummy {
		n++
	}
	return n
}

// EnabledIPv4 reports whether IPv4 is enabled for the interface, applying
// the wicked default of enabled when the block is absent.
func (i *Interface) EnabledIPv4() bool {
	return !i.IPv4.Present || i.IPv4.Enabled
}

// EnabledIPv6 reports whether IPv6 is enabled for the interface.
func (i *Interface) EnabledIPv6() bool {
	return !i.IPv6.Present || i.IPv6.Enabled
}

// Autoconnect reports whether the interface starts automatically. Wicked
// control modes "off" and "manual" translate to a non-autoconnected profile.
func (i *Interface) Autoconnect() bool {
	return i.Control.Mode != "off" && i.Control.Mode != "manual"
}

// Bridge is the wicked bridge configuration block. STP defaults to false
// when the element is absent; wicked's default differs from NetworkManager's
// and must be reproduced exactly.
type Bridge struct {
	Stp          bool
	Ports        []BridgePort
	Priority     *uint32
	ForwardDelay string
	AgeingTime   string
	HelloTime    string
	MaxAge       string
}

// BridgePort is one enslaved bridge port declaration.
type BridgePort struct {
	Device   string
	Priority *uint32
	PathCost *uint32
}

// Vlan is the wicked VLAN configuration block.
type Vlan struct {
	Device   string
	Tag      uint16
	Protocol string
}
