// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package netconfig

// NetconfigDhcp is the DHCP behavior policy document, usually
// /etc/sysconfig/network/dhcp. The connection mapper consults it when
// building the ip configuration of automatically addressed interfaces.
type NetconfigDhcp struct {
	V4 DhcpProtocolPolicy
	V6 DhcpProtocolPolicy

	Warnings []string
}

// DhcpProtocolPolicy holds the per-protocol overrides.
type DhcpProtocolPolicy struct {
	// SetHostname controls whether the DHCP client sends the hostname.
	SetHostname bool
	// Hostname is an explicit hostname to send instead of the system one.
	Hostname string
}

// ReadNetconfigDhcp parses the DHCP policy document at path.
func ReadNetconfigDhcp(path string) (*NetconfigDhcp, error) {
	file, err := parseSysconfig(path)
	if err != nil {
		return nil, err
	}

	return &NetconfigDhcp{
		V4: DhcpProtocolPolicy{
			SetHostname: file.boolean("DHCLIENT_SET_HOSTNAME", true),
			Hostname:    file.scalar("DHCLIENT_HOSTNAME_OPTION"),
		},
		V6: DhcpProtocolPolicy{
			SetHostname: file.boolean("DHCLIENT6_SET_HOSTNAME", true),
			Hostname:    file.scalar("DHCLIENT6_HOSTNAME_OPTION"),
		},
		Warnings: file.warnings,
	}, nil
}
