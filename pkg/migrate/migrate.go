// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/stratastor/logger"
	"gopkg.in/yaml.v3"

	"github.com/jcronenberg/wicked2nm/config"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/netconfig"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
	"github.com/jcronenberg/wicked2nm/pkg/wicked"
)

// Migrator drives one migration run end to end: parse, map, resolve,
// assemble, merge the DNS policy and finally apply or dump the state.
type Migrator struct {
	log      logger.Logger
	settings *config.Settings
	adapter  nm.Adapter

	// matcher overrides the DNS policy matching strategy; nil selects the
	// default first-match glob matcher.
	matcher PolicyMatcher
}

// NewMigrator builds a migrator. adapter may be nil for dry runs.
func NewMigrator(log logger.Logger, settings *config.Settings, adapter nm.Adapter) *Migrator {
	return &Migrator{
		log:      log,
		settings: settings,
		adapter:  adapter,
	}
}

// Run performs the migration for the descriptors at paths. In dry-run mode
// the assembled state is dumped to stdout; otherwise it is written through
// the adapter.
func (m *Migrator) Run(ctx context.Context, paths []string) error {
	state, err := m.Migrate(ctx, paths)
	if err != nil {
		return err
	}

	if m.settings.DryRun {
		out, err := yaml.Marshal(state)
		if err != nil {
			return errors.Wrap(err, errors.StateInconsistent)
		}
		fmt.Fprint(os.Stdout, string(out))
		m.log.Info("Dry run finished", "connections", len(state.Connections))
		return nil
	}

	if m.adapter == nil {
		return errors.New(errors.AdapterUnavailable, "no network backend configured")
	}
	if err := m.adapter.Write(ctx, state); err != nil {
		return err
	}
	m.log.Info("Migration finished", "connections", len(state.Connections))
	return nil
}

// Migrate builds the final network state without applying it.
func (m *Migrator) Migrate(ctx context.Context, paths []string) (*nm.NetworkState, error) {
	parsed, err := wicked.Read(paths, m.log)
	if err != nil {
		return nil, err
	}
	if err := m.checkWarnings(errors.ParseUnhandledFields, parsed.Warnings); err != nil {
		return nil, err
	}

	var nc *netconfig.Netconfig
	var dhcp *netconfig.NetconfigDhcp
	if m.settings.WithNetconfig {
		nc, err = netconfig.ReadNetconfig(m.settings.NetconfigPath)
		if err != nil {
			return nil, err
		}
		dhcp, err = m.readNetconfigDhcp()
		if err != nil {
			return nil, err
		}
	}

	connections, parents, err := m.mapInterfaces(parsed.Interfaces, dhcp)
	if err != nil {
		return nil, err
	}

	resolveWarnings, err := ResolveControllers(connections, parents)
	if err != nil {
		return nil, err
	}
	if err := m.checkWarnings(errors.StateMissingParent, resolveWarnings); err != nil {
		return nil, err
	}

	state, err := Assemble(connections)
	if err != nil {
		return nil, err
	}

	// The DNS merge belongs to the apply branch: the loopback profile is a
	// property of the running system, and a dry run must not depend on it.
	if nc != nil && !m.settings.DryRun {
		live, err := m.readLiveState(ctx)
		if err != nil {
			return nil, err
		}
		mergeWarnings, err := MergeNetconfig(state, nc, live, m.matcher)
		if err != nil {
			return nil, err
		}
		if err := m.checkWarnings(errors.NetconfigParseFailed, mergeWarnings); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// mapInterfaces maps every descriptor and stitches the results together:
// the paired port connections of bonds are deduplicated against descriptors
// of their own, the controller references from link metadata and port lists
// are merged into one parents map, and ports named by a controller but
// backed by nothing get a bare connection synthesized.
func (m *Migrator) mapInterfaces(
	interfaces []wicked.Interface,
	dhcp *netconfig.NetconfigDhcp,
) ([]nm.Connection, map[string]string, error) {
	var connections []nm.Connection
	synthesized := make(map[string]int)
	parents := make(map[string]string)
	var warnings []string

	for i := range interfaces {
		iface := &interfaces[i]
		result, err := MapConnection(iface, dhcp)
		if err != nil {
			// Mapping errors are local to one descriptor; continue-mode
			// sacrifices the interface instead of the whole run.
			if m.settings.ContinueMigration {
				m.log.Warn("Skipping unmappable interface",
					"interface", iface.Name, "err", err)
				continue
			}
			return nil, nil, err
		}
		warnings = append(warnings, result.Warnings...)

		for j, conn := range result.Connections {
			if j > 0 {
				// Paired port connection; a descriptor of its own wins.
				if connectionByID(connections, conn.ID) != nil {
					continue
				}
				synthesized[conn.ID] = len(connections)
			} else if at, ok := synthesized[conn.ID]; ok {
				// The real descriptor arrived after its synthesized port.
				connections[at] = conn
				delete(synthesized, conn.ID)
				continue
			}
			connections = append(connections, conn)
		}

		for child, parent := range result.Ports {
			parents[child] = parent
		}
		if iface.Link.Master != "" {
			parents[iface.Name] = iface.Link.Master
		}
	}

	// Controllers may name ports that have neither a descriptor nor a
	// paired connection, bridge ports most commonly. Give them a bare one.
	for child, parent := range parents {
		if connectionByID(connections, child) != nil {
			continue
		}
		m.log.Debug("Synthesizing port connection",
			"port", child, "controller", parent)
		connections = append(connections, nm.NewConnection(child, child))
	}

	if err := m.checkWarnings(errors.MappingWarnings, warnings); err != nil {
		return nil, nil, err
	}

	return connections, parents, nil
}

// checkWarnings applies the uniform warning policy: every warning is logged,
// and any warning aborts the run unless continue-mode is on.
func (m *Migrator) checkWarnings(code errors.ErrorCode, warnings []string) error {
	for _, w := range warnings {
		m.log.Warn(w)
	}
	if len(warnings) > 0 && !m.settings.ContinueMigration {
		return errors.New(code,
			fmt.Sprintf("%d warning(s); pass --continue-migration to migrate anyway",
				len(warnings)))
	}
	return nil
}

func (m *Migrator) readNetconfigDhcp() (*netconfig.NetconfigDhcp, error) {
	if m.settings.NetconfigDhcpPath == "" {
		return nil, nil
	}
	dhcp, err := netconfig.ReadNetconfigDhcp(m.settings.NetconfigDhcpPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			m.log.Debug("No DHCP policy document",
				"path", m.settings.NetconfigDhcpPath)
			return nil, nil
		}
		return nil, err
	}
	if err := m.checkWarnings(errors.NetconfigParseFailed, dhcp.Warnings); err != nil {
		return nil, err
	}
	return dhcp, nil
}

// readLiveState recovers the live loopback profile so its uuid survives the
// migration. Without a backend the merger synthesizes one.
func (m *Migrator) readLiveState(ctx context.Context) (*nm.NetworkState, error) {
	if m.adapter == nil {
		return nil, nil
	}
	return m.adapter.Read(ctx, nm.StateConfig{OnlyLoopback: true})
}
