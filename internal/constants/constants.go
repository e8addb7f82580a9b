// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.1.0-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	// Default locations of the legacy wicked configuration
	WickedConfigDir = "/etc/wicked/ifconfig"

	// Legacy netconfig policy documents
	NetconfigPath     = "/etc/sysconfig/network/config"
	NetconfigDhcpPath = "/etc/sysconfig/network/dhcp"

	// NetworkManager system connection profiles (keyfile format)
	NMConnectionDir = "/etc/NetworkManager/system-connections"

	// nmcli binary used by the adapter boundary
	NMCliCommand = "nmcli"

	// Connection id and interface name of the loopback device
	LoopbackName = "lo"
)
