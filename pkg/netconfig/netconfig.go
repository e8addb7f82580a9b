// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package netconfig

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// Netconfig is the static DNS policy document, usually
// /etc/sysconfig/network/config. All fields are optional.
type Netconfig struct {
	// StaticDNSServers holds the raw NETCONFIG_DNS_STATIC_SERVERS entries.
	// Entries are validated at merge time so that a single malformed
	// server can degrade to an empty list instead of a partial one.
	StaticDNSServers []string

	// StaticDNSSearchlist is copied verbatim into the loopback profile.
	StaticDNSSearchlist []string

	// DNSPolicy is the ordered NETCONFIG_DNS_POLICY match rule list.
	// Interface name globs claim connections; the literal tokens "auto",
	// "STATIC" and "STATIC_FALLBACK" claim none.
	DNSPolicy []string

	// Warnings collects per-entry parse problems from the document itself.
	Warnings []string
}

// Policy tokens that are not interface match rules.
const (
	policyAuto           = "auto"
	policyStatic         = "STATIC"
	policyStaticFallback = "STATIC_FALLBACK"
)

// ReadNetconfig parses the static DNS policy document at path. A missing or
// unreadable file is a boundary error; the caller decides whether the policy
// was mandatory.
func ReadNetconfig(path string) (*Netconfig, error) {
	file, err := parseSysconfig(path)
	if err != nil {
		return nil, err
	}

	nc := &Netconfig{
		StaticDNSServers:    file.list("NETCONFIG_DNS_STATIC_SERVERS"),
		StaticDNSSearchlist: file.list("NETCONFIG_DNS_STATIC_SEARCHLIST"),
		DNSPolicy:           file.list("NETCONFIG_DNS_POLICY"),
		Warnings:            file.warnings,
	}

	return nc, nil
}

// StaticNameservers parses every static DNS server entry. Any malformed
// entry fails the whole list; the merger degrades to an empty nameserver
// list under continue-mode rather than applying a partial one.
func (nc *Netconfig) StaticNameservers() ([]netip.Addr, error) {
	var servers []netip.Addr
	for _, entry := range nc.StaticDNSServers {
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, errors.New(errors.NetconfigDNSEntryInvalid, entry)
		}
		servers = append(servers, addr)
	}
	return servers, nil
}

// MatchRules returns the interface match rules of the DNS policy in document
// order, skipping the literal non-matching tokens.
func (nc *Netconfig) MatchRules() []string {
	var rules []string
	for _, token := range nc.DNSPolicy {
		switch token {
		case policyAuto, policyStatic, policyStaticFallback, "":
			continue
		}
		rules = append(rules, token)
	}
	return rules
}

// Describe renders a short summary for diagnostics.
func (nc *Netconfig) Describe() string {
	return fmt.Sprintf("servers=[%s] searchlist=[%s] policy=[%s]",
		strings.Join(nc.StaticDNSServers, " "),
		strings.Join(nc.StaticDNSSearchlist, " "),
		strings.Join(nc.DNSPolicy, " "))
}
