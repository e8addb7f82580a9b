// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

// Package migrate implements the migration engine: mapping wicked interface
// descriptors to normalized connections, resolving controller dependencies,
// assembling the aggregate network state and merging the legacy netconfig
// DNS policy.
package migrate

import (
	"fmt"
	"net/netip"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/netconfig"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
	"github.com/jcronenberg/wicked2nm/pkg/wicked"
)

// MapResult is the outcome of mapping one interface descriptor.
type MapResult struct {
	// Connections holds the produced connections; the first entry is
	// always the connection of the descriptor itself. Bond descriptors
	// with an explicit slave list additionally emit one bare port
	// connection per slave.
	Connections []nm.Connection

	// Ports maps produced or expected port connection ids to the name of
	// their controller interface. The resolver attaches the controller
	// references in its global pass, after every descriptor is mapped.
	Ports map[string]string

	// Warnings are non-fatal findings; the orchestrator decides whether
	// they abort the run.
	Warnings []string
}

// MapConnection converts one interface descriptor into its normalized
// connections. It fails only when the descriptor is structurally unusable;
// anything else is surfaced as a warning, never silently dropped.
func MapConnection(
	iface *wicked.Interface,
	dhcp *netconfig.NetconfigDhcp,
) (*MapResult, error) {
	if iface.Name == "" {
		return nil, errors.New(errors.MappingFailed, "descriptor without a name")
	}
	if n := iface.KindCount(); n > 1 {
		return nil, errors.New(errors.MappingContradictoryKinds,
			fmt.Sprintf("interface %s declares %d kinds", iface.Name, n)).
			WithMetadata("interface", iface.Name)
	}

	result := &MapResult{Ports: make(map[string]string)}

	conn := nm.NewConnection(iface.Name, iface.Name)
	conn.Autoconnect = iface.Autoconnect()
	conn.FirewallZone = iface.Firewall.Zone
	conn.MTU = iface.Link.MTU

	ip, warnings, err := mapIPConfig(iface, dhcp)
	if err != nil {
		return nil, err
	}
	conn.IP = ip
	result.Warnings = append(result.Warnings, warnings...)

	switch {
	case iface.Bond != nil:
		cfg, err := mapBond(iface.Name, iface.Bond)
		if err != nil {
			return nil, err
		}
		conn.Config = cfg
		conn.MACAddress = iface.Bond.Address

		// Compile-style bond descriptors name their ports inline; emit a
		// paired bare port connection for each so the bond is complete
		// even when the ports have no descriptors of their own.
		for _, slave := range iface.Bond.Slaves {
			port := nm.NewConnection(slave, slave)
			result.Connections = append(result.Connections, port)
			result.Ports[slave] = iface.Name
		}
	case iface.Bridge != nil:
		conn.Config = mapBridge(iface.Bridge)
		for _, port := range iface.Bridge.Ports {
			result.Ports[port.Device] = iface.Name
		}
	case iface.Vlan != nil:
		if iface.Vlan.Device == "" {
			return nil, errors.New(errors.MappingVlanInvalid,
				fmt.Sprintf("interface %s: vlan without a parent device", iface.Name)).
				WithMetadata("interface", iface.Name)
		}
		conn.Config = nm.VlanConfig{
			Parent:   iface.Vlan.Device,
			Tag:      iface.Vlan.Tag,
			Protocol: iface.Vlan.Protocol,
		}
	case iface.Dummy:
		conn.Config = nm.DummyConfig{}
	default:
		conn.Config = nm.EthernetConfig{}
	}

	// Prepend the main connection; synthesized ports follow it.
	result.Connections = append([]nm.Connection{conn}, result.Connections...)

	return result, nil
}

func mapIPConfig(
	iface *wicked.Interface,
	dhcp *netconfig.NetconfigDhcp,
) (nm.IPConfig, []string, error) {
	var warnings []string
	ip := nm.IPConfig{
		Method4: nm.IPMethodDisabled,
		Method6: nm.IPMethodDisabled,
	}

	dhcp4 := iface.IPv4DHCP != nil && iface.IPv4DHCP.Enabled
	dhcp6 := iface.IPv6DHCP != nil && iface.IPv6DHCP.Enabled
	static4 := iface.IPv4Static != nil && len(iface.IPv4Static.Addresses) > 0
	static6 := iface.IPv6Static != nil && len(iface.IPv6Static.Addresses) > 0

	// A static addressing block on a disabled protocol is contradictory:
	// the descriptor asks for addresses that can never be configured.
	if !iface.EnabledIPv4() && static4 {
		return ip, nil, errors.New(errors.MappingFailed,
			fmt.Sprintf("interface %s: static IPv4 addresses with IPv4 disabled", iface.Name)).
			WithMetadata("interface", iface.Name)
	}
	if !iface.EnabledIPv6() && static6 {
		return ip, nil, errors.New(errors.MappingFailed,
			fmt.Sprintf("interface %s: static IPv6 addresses with IPv6 disabled", iface.Name)).
			WithMetadata("interface", iface.Name)
	}

	if iface.EnabledIPv4() {
		switch {
		case dhcp4:
			ip.Method4 = nm.IPMethodAuto
		case static4:
			ip.Method4 = nm.IPMethodManual
		}
	}
	if iface.EnabledIPv6() {
		switch {
		case dhcp6 || iface.IPv6Auto:
			ip.Method6 = nm.IPMethodAuto
		case static6:
			ip.Method6 = nm.IPMethodManual
		}
	}

	if static4 {
		if err := appendAddresses(&ip, iface.Name, iface.IPv4Static.Addresses); err != nil {
			return ip, nil, err
		}
		if gw := iface.IPv4Static.Gateway; gw != "" {
			addr, err := netip.ParseAddr(gw)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("Invalid IPv4 gateway in interface %s: %q", iface.Name, gw))
			} else {
				ip.Gateway4 = addr
			}
		}
	}
	if static6 {
		if err := appendAddresses(&ip, iface.Name, iface.IPv6Static.Addresses); err != nil {
			return ip, nil, err
		}
		if gw := iface.IPv6Static.Gateway; gw != "" {
			addr, err := netip.ParseAddr(gw)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("Invalid IPv6 gateway in interface %s: %q", iface.Name, gw))
			} else {
				ip.Gateway6 = addr
			}
		}
	}

	// The DHCP policy document only affects automatically addressed
	// interfaces.
	ip.SendHostname4 = true
	ip.SendHostname6 = true
	if dhcp != nil {
		if ip.Method4 == nm.IPMethodAuto {
			ip.SendHostname4 = dhcp.V4.SetHostname
			ip.Hostname4 = dhcp.V4.Hostname
		}
		if ip.Method6 == nm.IPMethodAuto {
			ip.SendHostname6 = dhcp.V6.SetHostname
			ip.Hostname6 = dhcp.V6.Hostname
		}
	}

	return ip, warnings, nil
}

func appendAddresses(ip *nm.IPConfig, ifname string, addresses []string) error {
	for _, raw := range addresses {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			// Wicked accepts bare addresses without a prefix length.
			addr, addrErr := netip.ParseAddr(raw)
			if addrErr != nil {
				return errors.New(errors.MappingAddressInvalid,
					fmt.Sprintf("interface %s: %q", ifname, raw)).
					WithMetadata("interface", ifname)
			}
			bits := 32
			if addr.Is6() {
				bits = 128
			}
			prefix = netip.PrefixFrom(addr, bits)
		}
		ip.Addresses = append(ip.Addresses, prefix)
	}
	return nil
}

var bondModeMap = map[string]nm.BondMode{
	"balance-rr":    nm.BondModeBalanceRR,
	"active-backup": nm.BondModeActiveBackup,
	"balance-xor":   nm.BondModeBalanceXor,
	"broadcast":     nm.BondModeBroadcast,
	"ieee802-3ad":   nm.BondMode8023AD,
	"802.3ad":       nm.BondMode8023AD,
	"balance-tlb":   nm.BondModeBalanceTlb,
	"balance-alb":   nm.BondModeBalanceAlb,
}

var xmitHashPolicyMap = map[string]nm.BondXmitHashPolicy{
	"layer2":  nm.BondXmitHashLayer2,
	"layer23": nm.BondXmitHashLayer23,
	"layer34": nm.BondXmitHashLayer34,
	"encap23": nm.BondXmitHashEncap23,
	"encap34": nm.BondXmitHashEncap34,
}

var failOverMacMap = map[string]nm.BondFailOverMac{
	"none":   nm.BondFailOverMacNone,
	"active": nm.BondFailOverMacActive,
	"follow": nm.BondFailOverMacFollow,
}

// mapBond validates the wicked bonding parameters against the
// NetworkManager vocabulary. An invalid value is a mapping error local to
// this interface, not fatal to the whole run.
func mapBond(ifname string, bond *wicked.Bond) (nm.BondConfig, error) {
	cfg := nm.BondConfig{
		LacpRate: bond.LacpRate,
		AdSelect: bond.AdSelect,

		AdActorSysPrio:  bond.AdActorSysPrio,
		AdActorSystem:   bond.AdActorSystem,
		AdUserPortKey:   bond.AdUserPortKey,
		MinLinks:        bond.MinLinks,
		PacketsPerSlave: bond.PacketsPerSlave,
		TlbDynamicLb:    bond.TlbDynamicLb,
		AllSlavesActive: bond.AllSlavesActive,
		NumGratArp:      bond.NumGratArp,
		NumUnsolNa:      bond.NumUnsolNa,
		LpInterval:      bond.LpInterval,
		ResendIgmp:      bond.ResendIgmp,

		PrimaryReselect: bond.PrimaryReselect,
		Primary:         bond.Primary,
	}

	mode, ok := bondModeMap[bond.Mode]
	if !ok {
		return cfg, errors.New(errors.MappingBondOptionInvalid,
			fmt.Sprintf("interface %s: bond mode %q", ifname, bond.Mode)).
			WithMetadata("interface", ifname).
			WithMetadata("field", "bond.mode")
	}
	cfg.Mode = mode

	if bond.XmitHashPolicy != "" {
		policy, ok := xmitHashPolicyMap[bond.XmitHashPolicy]
		if !ok {
			return cfg, errors.New(errors.MappingBondOptionInvalid,
				fmt.Sprintf("interface %s: xmit-hash-policy %q", ifname, bond.XmitHashPolicy)).
				WithMetadata("interface", ifname).
				WithMetadata("field", "bond.xmit-hash-policy")
		}
		cfg.XmitHashPolicy = policy
	}

	if bond.FailOverMac != "" {
		policy, ok := failOverMacMap[bond.FailOverMac]
		if !ok {
			return cfg, errors.New(errors.MappingBondOptionInvalid,
				fmt.Sprintf("interface %s: fail-over-mac %q", ifname, bond.FailOverMac)).
				WithMetadata("interface", ifname).
				WithMetadata("field", "bond.fail-over-mac")
		}
		cfg.FailOverMac = policy
	}

	if bond.Miimon != nil {
		cfg.Miimon = &nm.BondMiimon{
			Frequency:     bond.Miimon.Frequency,
			UpDelay:       bond.Miimon.UpDelay,
			DownDelay:     bond.Miimon.DownDelay,
			CarrierDetect: bond.Miimon.CarrierDetect,
		}
	}
	if bond.ArpMon != nil {
		cfg.ArpMon = &nm.BondArpMon{
			Interval:        bond.ArpMon.Interval,
			Validate:        bond.ArpMon.Validate,
			ValidateTargets: bond.ArpMon.ValidateTargets,
			Targets:         bond.ArpMon.Targets,
		}
	}

	return cfg, nil
}

func mapBridge(bridge *wicked.Bridge) nm.BridgeConfig {
	return nm.BridgeConfig{
		Stp:          bridge.Stp,
		Priority:     bridge.Priority,
		ForwardDelay: bridge.ForwardDelay,
		AgeingTime:   bridge.AgeingTime,
		HelloTime:    bridge.HelloTime,
		MaxAge:       bridge.MaxAge,
	}
}
