// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package nm

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/stratastor/logger"

	"github.com/jcronenberg/wicked2nm/internal/command"
	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// Adapter is the boundary to the network management backend. Both
// operations are fallible, non-retryable and opaque to the engine; a failure
// aborts the migration run.
type Adapter interface {
	// Read recovers the selected parts of the live network state.
	Read(ctx context.Context, cfg StateConfig) (*NetworkState, error)
	// Write applies the final state to the live system. It is expected to
	// be all-or-nothing; the engine performs no partial-write recovery.
	Write(ctx context.Context, state *NetworkState) error
}

// NetworkManagerAdapter talks to NetworkManager: reads via nmcli and writes
// keyfile profiles to the system connection directory.
type NetworkManagerAdapter struct {
	log           logger.Logger
	connectionDir string
}

var _ Adapter = (*NetworkManagerAdapter)(nil)

// NewNetworkManagerAdapter creates the production adapter.
func NewNetworkManagerAdapter(log logger.Logger) *NetworkManagerAdapter {
	return &NetworkManagerAdapter{
		log:           log,
		connectionDir: constants.NMConnectionDir,
	}
}

// Read queries the live connections. Only the loopback profile is ever
// needed by the migration; anything else is skipped when cfg.OnlyLoopback
// is set.
func (a *NetworkManagerAdapter) Read(ctx context.Context, cfg StateConfig) (*NetworkState, error) {
	out, err := command.ExecCommand(ctx, a.log, constants.NMCliCommand,
		"-t", "-f", "NAME,UUID,TYPE,DEVICE", "connection", "show")
	if err != nil {
		return nil, errors.Wrap(err, errors.AdapterReadFailed).
			WithMetadata("operation", "connection show")
	}

	state := NewNetworkState()
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ":", 4)
		if len(fields) < 4 {
			continue
		}
		name, rawUUID, kind, device := fields[0], fields[1], fields[2], fields[3]

		if cfg.OnlyLoopback && kind != "loopback" {
			continue
		}

		id, err := uuid.Parse(rawUUID)
		if err != nil {
			return nil, errors.Wrap(err, errors.AdapterReadFailed).
				WithMetadata("connection", name)
		}

		conn := Connection{
			ID:          name,
			UUID:        id,
			Interface:   device,
			Autoconnect: true,
			Config:      configForKind(kind),
		}
		if err := a.readIPConfig(ctx, &conn); err != nil {
			return nil, err
		}
		if err := state.AddConnection(conn); err != nil {
			return nil, errors.Wrap(err, errors.AdapterReadFailed)
		}
	}

	return state, nil
}

func configForKind(kind string) ConnectionConfig {
	switch kind {
	case "loopback":
		return LoopbackConfig{}
	case "bond":
		return BondConfig{}
	case "bridge":
		return BridgeConfig{}
	case "vlan":
		return VlanConfig{}
	case "dummy":
		return DummyConfig{}
	default:
		return EthernetConfig{}
	}
}

func (a *NetworkManagerAdapter) readIPConfig(ctx context.Context, conn *Connection) error {
	out, err := command.ExecCommand(ctx, a.log, constants.NMCliCommand,
		"-g", "ipv4.method,ipv6.method,ipv4.addresses,ipv6.addresses",
		"connection", "show", conn.UUID.String())
	if err != nil {
		return errors.Wrap(err, errors.AdapterReadFailed).
			WithMetadata("connection", conn.ID)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) < 4 {
		return errors.New(errors.AdapterReadFailed,
			fmt.Sprintf("unexpected nmcli output for connection %q", conn.ID))
	}

	conn.IP.Method4 = IPMethod(lines[0])
	conn.IP.Method6 = IPMethod(lines[1])
	for _, raw := range append(splitNmcliList(lines[2]), splitNmcliList(lines[3])...) {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			a.log.Debug("Skipping unparsable live address",
				"connection", conn.ID, "address", raw)
			continue
		}
		conn.IP.Addresses = append(conn.IP.Addresses, prefix)
	}

	return nil
}

func splitNmcliList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(strings.ReplaceAll(item, `\,`, ","))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Write renders every connection to a keyfile, lands all files, then asks
// NetworkManager to reload its profiles once. Rendering happens up front so
// that a bad connection fails the write before any file is touched.
func (a *NetworkManagerAdapter) Write(ctx context.Context, state *NetworkState) error {
	rendered := make(map[string]string, len(state.Connections))
	for i := range state.Connections {
		conn := &state.Connections[i]
		keyfile, err := RenderKeyfile(conn, state)
		if err != nil {
			return errors.Wrap(err, errors.AdapterWriteFailed).
				WithMetadata("connection", conn.ID)
		}
		rendered[keyfileName(conn)] = keyfile
	}

	if err := os.MkdirAll(a.connectionDir, 0o755); err != nil {
		return errors.Wrap(err, errors.AdapterWriteFailed).
			WithMetadata("path", a.connectionDir)
	}

	for name, contents := range rendered {
		path := filepath.Join(a.connectionDir, name)
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			return errors.Wrap(err, errors.AdapterWriteFailed).
				WithMetadata("path", path)
		}
		a.log.Debug("Wrote connection profile", "path", path)
	}

	if _, err := command.ExecCommand(ctx, a.log, constants.NMCliCommand,
		"connection", "reload"); err != nil {
		return errors.Wrap(err, errors.AdapterWriteFailed).
			WithMetadata("operation", "connection reload")
	}

	a.log.Info("Applied network state", "connections", len(state.Connections))
	return nil
}

func keyfileName(conn *Connection) string {
	name := strings.ReplaceAll(conn.ID, "/", "-")
	return name + ".nmconnection"
}
