// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package nm

// ConnectionConfig is the kind-specific configuration of a connection,
// modeled as a closed sum type: field sets differ materially per kind and
// consumers handle every variant exhaustively in a type switch.
type ConnectionConfig interface {
	isConnectionConfig()
}

// EthernetConfig is a plain wired connection.
type EthernetConfig struct{}

func (EthernetConfig) isConnectionConfig() {}

// BondMode is the NetworkManager spelling of a bonding mode.
type BondMode string

const (
	BondModeBalanceRR    BondMode = "balance-rr"
	BondModeActiveBackup BondMode = "active-backup"
	BondModeBalanceXor   BondMode = "balance-xor"
	BondModeBroadcast    BondMode = "broadcast"
	BondMode8023AD       BondMode = "802.3ad"
	BondModeBalanceTlb   BondMode = "balance-tlb"
	BondModeBalanceAlb   BondMode = "balance-alb"
)

// BondXmitHashPolicy is the transmit hash policy of xor-style bond modes.
type BondXmitHashPolicy string

const (
	BondXmitHashLayer2  BondXmitHashPolicy = "layer2"
	BondXmitHashLayer23 BondXmitHashPolicy = "layer2+3"
	BondXmitHashLayer34 BondXmitHashPolicy = "layer3+4"
	BondXmitHashEncap23 BondXmitHashPolicy = "encap2+3"
	BondXmitHashEncap34 BondXmitHashPolicy = "encap3+4"
)

// BondFailOverMac is the fail-over MAC policy of active-backup bonds.
type BondFailOverMac string

const (
	BondFailOverMacNone   BondFailOverMac = "none"
	BondFailOverMacActive BondFailOverMac = "active"
	BondFailOverMacFollow BondFailOverMac = "follow"
)

// BondMiimon is the MII link monitoring configuration.
type BondMiimon struct {
	Frequency     uint32  `yaml:"frequency"`
	UpDelay       *uint32 `yaml:"updelay,omitempty"`
	DownDelay     *uint32 `yaml:"downdelay,omitempty"`
	CarrierDetect string  `yaml:"carrier_detect,omitempty"`
}

// BondArpMon is the ARP link monitoring configuration.
type BondArpMon struct {
	Interval        uint32   `yaml:"interval"`
	Validate        string   `yaml:"validate,omitempty"`
	ValidateTargets string   `yaml:"validate_targets,omitempty"`
	Targets         []string `yaml:"targets,omitempty"`
}

// BondConfig carries the validated bonding parameters of a bond connection.
type BondConfig struct {
	Mode           BondMode           `yaml:"mode"`
	XmitHashPolicy BondXmitHashPolicy `yaml:"xmit_hash_policy,omitempty"`
	FailOverMac    BondFailOverMac    `yaml:"fail_over_mac,omitempty"`
	LacpRate       string             `yaml:"lacp_rate,omitempty"`
	AdSelect       string             `yaml:"ad_select,omitempty"`

	AdActorSysPrio  *uint16 `yaml:"ad_actor_sys_prio,omitempty"`
	AdActorSystem   string  `yaml:"ad_actor_system,omitempty"`
	AdUserPortKey   *uint16 `yaml:"ad_user_port_key,omitempty"`
	MinLinks        *uint32 `yaml:"min_links,omitempty"`
	PacketsPerSlave *uint32 `yaml:"packets_per_slave,omitempty"`
	TlbDynamicLb    *bool   `yaml:"tlb_dynamic_lb,omitempty"`
	AllSlavesActive *bool   `yaml:"all_slaves_active,omitempty"`
	NumGratArp      *uint32 `yaml:"num_grat_arp,omitempty"`
	NumUnsolNa      *uint32 `yaml:"num_unsol_na,omitempty"`
	LpInterval      *uint32 `yaml:"lp_interval,omitempty"`
	ResendIgmp      *uint32 `yaml:"resend_igmp,omitempty"`

	PrimaryReselect string `yaml:"primary_reselect,omitempty"`
	Primary         string `yaml:"primary,omitempty"`

	Miimon *BondMiimon `yaml:"miimon,omitempty"`
	ArpMon *BondArpMon `yaml:"arpmon,omitempty"`
}

func (BondConfig) isConnectionConfig() {}

// BridgeConfig carries the bridge parameters of a bridge connection.
type BridgeConfig struct {
	// Stp is explicit, not a pointer: absent in the descriptor means
	// disabled, the wicked default.
	Stp          bool    `yaml:"stp"`
	Priority     *uint32 `yaml:"priority,omitempty"`
	ForwardDelay string  `yaml:"forward_delay,omitempty"`
	AgeingTime   string  `yaml:"ageing_time,omitempty"`
	HelloTime    string  `yaml:"hello_time,omitempty"`
	MaxAge       string  `yaml:"max_age,omitempty"`
}

func (BridgeConfig) isConnectionConfig() {}

// VlanConfig carries the VLAN parameters of a vlan connection.
type VlanConfig struct {
	Parent   string `yaml:"parent"`
	Tag      uint16 `yaml:"tag"`
	Protocol string `yaml:"protocol,omitempty"`
}

func (VlanConfig) isConnectionConfig() {}

// DummyConfig is a dummy device connection.
type DummyConfig struct{}

func (DummyConfig) isConnectionConfig() {}

// LoopbackConfig is the loopback connection.
type LoopbackConfig struct{}

func (LoopbackConfig) isConnectionConfig() {}
