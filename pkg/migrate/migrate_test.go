// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcronenberg/wicked2nm/config"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

// fakeAdapter records writes and serves a canned live state.
type fakeAdapter struct {
	live    *nm.NetworkState
	written *nm.NetworkState
}

func (f *fakeAdapter) Read(ctx context.Context, cfg nm.StateConfig) (*nm.NetworkState, error) {
	if f.live != nil {
		return f.live, nil
	}
	return nm.NewNetworkState(), nil
}

func (f *fakeAdapter) Write(ctx context.Context, state *nm.NetworkState) error {
	f.written = state
	return nil
}

func testMigrator(t *testing.T, settings *config.Settings, adapter nm.Adapter) *Migrator {
	t.Helper()
	log, err := logger.New(logger.Config{LogLevel: "error"})
	require.NoError(t, err)
	return NewMigrator(log, settings, adapter)
}

func writeXML(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestMigrateBondTopology(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "bond0.xml", `<interface>
  <name>bond0</name>
  <ipv4:static>
    <address>
      <local>192.168.1.10/24</local>
    </address>
  </ipv4:static>
  <bond>
    <mode>active-backup</mode>
    <slaves>
      <slave>
        <device>eth0</device>
      </slave>
      <slave>
        <device>eth1</device>
      </slave>
    </slaves>
  </bond>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, state.Connections, 3)

	bond := state.GetConnection("bond0")
	require.NotNil(t, bond)
	assert.Equal(t, "bond", bond.Kind())

	for _, port := range []string{"eth0", "eth1"} {
		conn := state.GetConnection(port)
		require.NotNil(t, conn, port)
		assert.Equal(t, bond.UUID, conn.Controller, port)
	}
}

func TestMigratePortDescriptorWinsOverSynthesized(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "bond0.xml", `<interface>
  <name>bond0</name>
  <bond>
    <mode>active-backup</mode>
    <slaves>
      <slave>
        <device>eth0</device>
      </slave>
    </slaves>
  </bond>
</interface>`)
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
  <link>
    <mtu>9000</mtu>
  </link>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, state.Connections, 2)

	eth0 := state.GetConnection("eth0")
	require.NotNil(t, eth0)
	// the descriptor's configuration, not the bare synthesized port
	assert.Equal(t, uint32(9000), eth0.MTU)
	assert.Equal(t, state.GetConnection("bond0").UUID, eth0.Controller)
}

func TestMigrateBridgePortViaMaster(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "br0.xml", `<interface>
  <name>br0</name>
  <bridge>
    <ports>
      <port>
        <device>eth0</device>
      </port>
    </ports>
  </bridge>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)

	// the port had no descriptor of its own and was synthesized
	eth0 := state.GetConnection("eth0")
	require.NotNil(t, eth0)
	assert.Equal(t, state.GetConnection("br0").UUID, eth0.Controller)
}

func TestMigrateWarningsAbortWithoutContinue(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
  <wireless>
    <essid>home</essid>
  </wireless>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	_, err := m.Migrate(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ParseUnhandledFields))

	settings.ContinueMigration = true
	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.NotNil(t, state.GetConnection("eth0"))
}

func TestMigrateMissingControllerPolicy(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
  <link>
    <master>bond0</master>
  </link>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	_, err := m.Migrate(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.StateMissingParent))

	settings.ContinueMigration = true
	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, state.GetConnection("eth0").Controller)
}

func TestMigrateWithNetconfig(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
  <ipv4:dhcp>
    <enabled>true</enabled>
  </ipv4:dhcp>
</interface>`)

	ncPath := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(ncPath, []byte(
		`NETCONFIG_DNS_STATIC_SERVERS="192.168.1.1"
NETCONFIG_DNS_POLICY="auto eth*"
`), 0o644))

	settings := &config.Settings{
		WithNetconfig: true,
		NetconfigPath: ncPath,
		LogLevel:      "error",
	}
	m := testMigrator(t, settings, &fakeAdapter{})

	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)

	lo := state.GetConnection("lo")
	require.NotNil(t, lo)
	assert.Len(t, lo.IP.Nameservers, 1)

	eth0 := state.GetConnection("eth0")
	assert.Equal(t, int32(1), eth0.IP.DNSPriority4)
	assert.False(t, eth0.IP.IgnoreAutoDNS)
}

func TestMigrateDryRunSkipsNetconfigMerge(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
</interface>`)

	ncPath := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(ncPath, []byte(
		`NETCONFIG_DNS_STATIC_SERVERS="192.168.1.1"
`), 0o644))

	settings := &config.Settings{
		DryRun:        true,
		WithNetconfig: true,
		NetconfigPath: ncPath,
		LogLevel:      "error",
	}
	m := testMigrator(t, settings, nil)

	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)

	// the merge runs against the live system, so a dry run leaves the
	// state untouched by the DNS policy
	assert.Nil(t, state.GetConnection("lo"))
	assert.False(t, state.GetConnection("eth0").IP.IgnoreAutoDNS)
}

func TestMigrateMalformedDhcpPolicy(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
  <ipv4:dhcp>
    <enabled>true</enabled>
  </ipv4:dhcp>
</interface>`)

	policyDir := t.TempDir()
	ncPath := filepath.Join(policyDir, "config")
	require.NoError(t, os.WriteFile(ncPath, []byte("# no policy\n"), 0o644))
	dhcpPath := filepath.Join(policyDir, "dhcp")
	require.NoError(t, os.WriteFile(dhcpPath, []byte(
		`this is not an assignment
DHCLIENT_HOSTNAME_OPTION="unterminated
`), 0o644))

	settings := &config.Settings{
		WithNetconfig:     true,
		NetconfigPath:     ncPath,
		NetconfigDhcpPath: dhcpPath,
		LogLevel:          "error",
	}
	m := testMigrator(t, settings, &fakeAdapter{})

	_, err := m.Migrate(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.NetconfigParseFailed))

	settings.ContinueMigration = true
	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.NotNil(t, state.GetConnection("eth0"))
}

func TestRunWritesThroughAdapter(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
</interface>`)

	adapter := &fakeAdapter{}
	settings := &config.Settings{LogLevel: "error"}
	m := testMigrator(t, settings, adapter)

	require.NoError(t, m.Run(context.Background(), []string{dir}))
	require.NotNil(t, adapter.written)
	assert.NotNil(t, adapter.written.GetConnection("eth0"))
}

func TestMigrateSkipsUnmappableUnderContinue(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "bond0.xml", `<interface>
  <name>bond0</name>
  <bond>
    <mode>load-balance</mode>
  </bond>
</interface>`)
	writeXML(t, dir, "eth0.xml", `<interface>
  <name>eth0</name>
</interface>`)

	settings := &config.Settings{DryRun: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	_, err := m.Migrate(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.MappingBondOptionInvalid))

	settings.ContinueMigration = true
	state, err := m.Migrate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Nil(t, state.GetConnection("bond0"))
	assert.NotNil(t, state.GetConnection("eth0"))
}

func TestMigrateDuplicateDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeXML(t, dir, "a.xml", `<interface><name>eth0</name></interface>`)
	writeXML(t, dir, "b.xml", `<interface><name>eth0</name></interface>`)

	settings := &config.Settings{DryRun: true, ContinueMigration: true, LogLevel: "error"}
	m := testMigrator(t, settings, nil)

	_, err := m.Migrate(context.Background(), []string{dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.StateDuplicateID))
}
