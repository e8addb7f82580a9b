// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package wicked

// Bond is the wicked bonding configuration block. Enumerated values are kept
// as raw strings here; the connection mapper validates them against the
// NetworkManager vocabulary so that an invalid value stays a local mapping
// error for the one interface instead of a parse failure for the whole run.
type Bond struct {
	Mode           string
	XmitHashPolicy string
	FailOverMac    string
	LacpRate       string
	AdSelect       string

	AdActorSysPrio  *uint16
	AdActorSystem   string
	AdUserPortKey   *uint16
	MinLinks        *uint32
	PacketsPerSlave *uint32
	TlbDynamicLb    *bool
	AllSlavesActive *bool
	NumGratArp      *uint32
	NumUnsolNa      *uint32
	LpInterval      *uint32
	ResendIgmp      *uint32

	PrimaryReselect string
	Primary         string
	Address         string

	Miimon *Miimon
	ArpMon *ArpMon

	// Slaves is the explicit port list of compile-time wicked configs.
	// Runtime descriptors instead point at the bond via link.master.
	Slaves []string
}

// Miimon is the MII link monitoring block.
type Miimon struct {
	Frequency     uint32
	UpDelay       *uint32
	DownDelay     *uint32
	CarrierDetect string
}

// ArpMon is the ARP link monitoring block.
type ArpMon struct {
	Interval        uint32
	Validate        string
	ValidateTargets string
	Targets         []string
}

// Wicked bond mode spellings, in sysfs order.
var bondModes = []string{
	"balance-rr",
	"active-backup",
	"balance-xor",
	"broadcast",
	"ieee802-3ad",
	"balance-tlb",
	"balance-alb",
}

// ValidBondMode reports whether mode is a known wicked bond mode.
func ValidBondMode(mode string) bool {
	for _, m := range bondModes {
		if m == mode {
			return true
		}
	}
	return false
}
