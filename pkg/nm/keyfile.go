// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package nm

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

func init() {
	// NetworkManager keyfiles use key=value without surrounding spaces.
	ini.PrettyFormat = false
}

// RenderKeyfile renders one connection as a NetworkManager keyfile document.
// The surrounding state is needed to name the port type of enslaved
// connections, which depends on the controller's kind.
func RenderKeyfile(conn *Connection, state *NetworkState) (string, error) {
	cfg := ini.Empty()

	sec, err := cfg.NewSection("connection")
	if err != nil {
		return "", errors.Wrap(err, errors.AdapterKeyfileFailed)
	}
	sec.Key("id").SetValue(conn.ID)
	sec.Key("uuid").SetValue(conn.UUID.String())
	sec.Key("type").SetValue(keyfileType(conn))
	if conn.Interface != "" {
		sec.Key("interface-name").SetValue(conn.Interface)
	}
	if !conn.Autoconnect {
		sec.Key("autoconnect").SetValue("false")
	}
	if conn.FirewallZone != "" {
		sec.Key("zone").SetValue(conn.FirewallZone)
	}
	if conn.Controller != uuid.Nil {
		parent := connectionByUUID(state, conn)
		if parent == nil {
			return "", errors.New(errors.StateInconsistent,
				fmt.Sprintf("connection %q references unknown controller %s",
					conn.ID, conn.Controller))
		}
		sec.Key("master").SetValue(parent.UUID.String())
		sec.Key("slave-type").SetValue(parent.Kind())
	}

	if err := renderConfigSection(cfg, conn); err != nil {
		return "", err
	}
	renderIPSection(cfg, "ipv4", conn)
	renderIPSection(cfg, "ipv6", conn)

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return "", errors.Wrap(err, errors.AdapterKeyfileFailed).
			WithMetadata("connection", conn.ID)
	}
	return buf.String(), nil
}

func connectionByUUID(state *NetworkState, conn *Connection) *Connection {
	if state == nil {
		return nil
	}
	for i := range state.Connections {
		if state.Connections[i].UUID == conn.Controller {
			return &state.Connections[i]
		}
	}
	return nil
}

func keyfileType(conn *Connection) string {
	kind := conn.Kind()
	if kind == "ethernet" {
		// keyfiles spell the wired type differently
		return "802-3-ethernet"
	}
	return kind
}

func renderConfigSection(cfg *ini.File, conn *Connection) error {
	switch c := conn.Config.(type) {
	case EthernetConfig, LoopbackConfig, DummyConfig:
		sec := cfg.Section(keyfileType(conn))
		if conn.MTU != 0 {
			sec.Key("mtu").SetValue(fmt.Sprintf("%d", conn.MTU))
		}
		if conn.MACAddress != "" {
			sec.Key("cloned-mac-address").SetValue(conn.MACAddress)
		}
	case BondConfig:
		sec := cfg.Section("bond")
		for _, opt := range bondOptions(c) {
			sec.Key(opt[0]).SetValue(opt[1])
		}
	case BridgeConfig:
		sec := cfg.Section("bridge")
		sec.Key("stp").SetValue(fmt.Sprintf("%t", c.Stp))
		if c.Priority != nil {
			sec.Key("priority").SetValue(fmt.Sprintf("%d", *c.Priority))
		}
		if c.ForwardDelay != "" {
			sec.Key("forward-delay").SetValue(c.ForwardDelay)
		}
		if c.AgeingTime != "" {
			sec.Key("ageing-time").SetValue(c.AgeingTime)
		}
		if c.HelloTime != "" {
			sec.Key("hello-time").SetValue(c.HelloTime)
		}
		if c.MaxAge != "" {
			sec.Key("max-age").SetValue(c.MaxAge)
		}
	case VlanConfig:
		sec := cfg.Section("vlan")
		sec.Key("parent").SetValue(c.Parent)
		sec.Key("id").SetValue(fmt.Sprintf("%d", c.Tag))
		if c.Protocol != "" {
			sec.Key("protocol").SetValue(c.Protocol)
		}
	default:
		return errors.New(errors.AdapterKeyfileFailed,
			fmt.Sprintf("connection %q has unknown config kind", conn.ID))
	}
	return nil
}

// bondOptions flattens a BondConfig into keyfile bond option pairs.
func bondOptions(c BondConfig) [][2]string {
	var opts [][2]string
	add := func(key, value string) {
		if value != "" {
			opts = append(opts, [2]string{key, value})
		}
	}
	addUint32 := func(key string, v *uint32) {
		if v != nil {
			add(key, fmt.Sprintf("%d", *v))
		}
	}
	addUint16 := func(key string, v *uint16) {
		if v != nil {
			add(key, fmt.Sprintf("%d", *v))
		}
	}

	add("mode", string(c.Mode))
	add("xmit_hash_policy", string(c.XmitHashPolicy))
	add("fail_over_mac", string(c.FailOverMac))
	add("lacp_rate", c.LacpRate)
	add("ad_select", c.AdSelect)
	addUint16("ad_actor_sys_prio", c.AdActorSysPrio)
	add("ad_actor_system", c.AdActorSystem)
	addUint16("ad_user_port_key", c.AdUserPortKey)
	addUint32("min_links", c.MinLinks)
	addUint32("packets_per_slave", c.PacketsPerSlave)
	if c.TlbDynamicLb != nil {
		add("tlb_dynamic_lb", boolToNum(*c.TlbDynamicLb))
	}
	if c.AllSlavesActive != nil {
		add("all_slaves_active", boolToNum(*c.AllSlavesActive))
	}
	addUint32("num_grat_arp", c.NumGratArp)
	addUint32("num_unsol_na", c.NumUnsolNa)
	addUint32("lp_interval", c.LpInterval)
	addUint32("resend_igmp", c.ResendIgmp)
	add("primary_reselect", c.PrimaryReselect)
	add("primary", c.Primary)

	if c.Miimon != nil {
		add("miimon", fmt.Sprintf("%d", c.Miimon.Frequency))
		addUint32("updelay", c.Miimon.UpDelay)
		addUint32("downdelay", c.Miimon.DownDelay)
		switch c.Miimon.CarrierDetect {
		case "ioctl":
			add("use_carrier", "0")
		case "netif":
			add("use_carrier", "1")
		}
	}
	if c.ArpMon != nil {
		add("arp_interval", fmt.Sprintf("%d", c.ArpMon.Interval))
		add("arp_validate", c.ArpMon.Validate)
		add("arp_all_targets", c.ArpMon.ValidateTargets)
		add("arp_ip_target", strings.Join(c.ArpMon.Targets, ","))
	}

	return opts
}

func boolToNum(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func renderIPSection(cfg *ini.File, section string, conn *Connection) {
	sec := cfg.Section(section)

	v4 := section == "ipv4"
	if v4 {
		sec.Key("method").SetValue(string(conn.IP.Method4))
	} else {
		sec.Key("method").SetValue(string(conn.IP.Method6))
	}

	n := 0
	for _, prefix := range conn.IP.Addresses {
		if prefix.Addr().Is4() != v4 {
			continue
		}
		n++
		sec.Key(fmt.Sprintf("address%d", n)).SetValue(prefix.String())
	}

	if v4 && conn.IP.Gateway4.IsValid() {
		sec.Key("gateway").SetValue(conn.IP.Gateway4.String())
	}
	if !v4 && conn.IP.Gateway6.IsValid() {
		sec.Key("gateway").SetValue(conn.IP.Gateway6.String())
	}

	var dns []string
	for _, addr := range conn.IP.Nameservers {
		if addr.Is4() == v4 {
			dns = append(dns, addr.String())
		}
	}
	if len(dns) > 0 {
		sec.Key("dns").SetValue(strings.Join(dns, ";") + ";")
	}
	if len(conn.IP.DNSSearchlist) > 0 {
		sec.Key("dns-search").SetValue(strings.Join(conn.IP.DNSSearchlist, ";") + ";")
	}

	priority := conn.IP.DNSPriority4
	if !v4 {
		priority = conn.IP.DNSPriority6
	}
	if priority != 0 {
		sec.Key("dns-priority").SetValue(fmt.Sprintf("%d", priority))
	}
	if conn.IP.IgnoreAutoDNS {
		sec.Key("ignore-auto-dns").SetValue("true")
	}

	if v4 && conn.IP.Method4 == IPMethodAuto {
		if !conn.IP.SendHostname4 {
			sec.Key("dhcp-send-hostname").SetValue("false")
		}
		if conn.IP.Hostname4 != "" {
			sec.Key("dhcp-hostname").SetValue(conn.IP.Hostname4)
		}
	}
	if !v4 && conn.IP.Method6 == IPMethodAuto {
		if !conn.IP.SendHostname6 {
			sec.Key("dhcp-send-hostname").SetValue("false")
		}
		if conn.IP.Hostname6 != "" {
			sec.Key("dhcp-hostname").SetValue(conn.IP.Hostname6)
		}
	}
}
