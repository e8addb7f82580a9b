// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"fmt"
	"path"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/netconfig"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

// PolicyMatcher decides which connections the static DNS policy claims.
// Rank returns the position of the first rule claiming the connection; lower
// ranks win when NetworkManager orders resolver entries.
type PolicyMatcher interface {
	Rank(conn *nm.Connection) (rank int, claimed bool)
}

// globPolicyMatcher is the default matcher: first-match shell-glob over the
// interface name, ranked by rule position.
type globPolicyMatcher struct {
	rules []string
}

// NewGlobPolicyMatcher builds the default matcher from the policy match rules.
func NewGlobPolicyMatcher(rules []string) PolicyMatcher {
	return &globPolicyMatcher{rules: rules}
}

func (m *globPolicyMatcher) Rank(conn *nm.Connection) (int, bool) {
	for i, rule := range m.rules {
		ok, err := path.Match(rule, conn.Interface)
		if err != nil {
			// Malformed pattern, treat as non-matching.
			continue
		}
		if ok {
			return i, true
		}
	}
	return 0, false
}

// MergeNetconfig folds the static DNS policy into the assembled state.
//
// The static nameservers and searchlist land on the loopback connection,
// which is cloned from the live system when available so its uuid survives
// the migration, or synthesized otherwise. Connections claimed by a policy
// match rule get a dns priority derived from the rule position; unclaimed
// non-loopback connections get DHCP-learned nameservers suppressed so the
// static policy stays authoritative.
//
// A malformed static nameserver entry degrades the whole list to empty with
// a warning; applying a partial list would silently change resolution order.
func MergeNetconfig(
	state *nm.NetworkState,
	nc *netconfig.Netconfig,
	live *nm.NetworkState,
	matcher PolicyMatcher,
) ([]string, error) {
	var warnings []string
	warnings = append(warnings, nc.Warnings...)

	lo := liveLoopback(live)
	if lo == nil {
		synthesized := nm.NewLoopbackConnection()
		lo = &synthesized
	}

	nameservers, err := nc.StaticNameservers()
	if err != nil {
		warnings = append(warnings,
			fmt.Sprintf("Ignoring static DNS servers: %v", err))
		nameservers = nil
	}
	lo.IP.Nameservers = nameservers
	// A policy without a searchlist leaves a cloned live loopback's
	// searchlist alone.
	if nc.StaticDNSSearchlist != nil {
		lo.IP.DNSSearchlist = nc.StaticDNSSearchlist
	}

	if err := state.AddConnection(*lo); err != nil {
		return warnings, errors.Wrap(err, errors.StateInconsistent).
			WithMetadata("connection", lo.ID)
	}

	if matcher == nil {
		matcher = NewGlobPolicyMatcher(nc.MatchRules())
	}

	for i := range state.Connections {
		conn := &state.Connections[i]
		if conn.IsLoopback() {
			continue
		}
		if rank, claimed := matcher.Rank(conn); claimed {
			// Rank zero is the strongest rule; priorities start at one so
			// that zero stays the unassigned sentinel.
			conn.IP.DNSPriority4 = int32(rank) + 1
			conn.IP.DNSPriority6 = int32(rank) + 1
		} else {
			conn.IP.IgnoreAutoDNS = true
		}
	}

	return warnings, nil
}

func liveLoopback(live *nm.NetworkState) *nm.Connection {
	if live == nil {
		return nil
	}
	for i := range live.Connections {
		if live.Connections[i].IsLoopback() {
			return &live.Connections[i]
		}
	}
	return nil
}
