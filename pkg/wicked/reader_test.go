// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package wicked

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{LogLevel: "error"})
	require.NoError(t, err)
	return l
}

func writeDescriptor(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "eth0.xml", `<interface><name>eth0</name></interface>`)
	writeDescriptor(t, dir, "eth1.xml", `<interface><name>eth1</name></interface>`)
	// non-xml files are skipped
	writeDescriptor(t, dir, "README", `not xml`)

	result, err := Read([]string{dir}, testLogger(t))
	require.NoError(t, err)
	assert.Len(t, result.Interfaces, 2)
}

func TestReadFiltersLoopback(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "lo.xml", `<interface><name>lo</name></interface>`)
	writeDescriptor(t, dir, "eth0.xml", `<interface><name>eth0</name></interface>`)

	result, err := Read([]string{dir}, testLogger(t))
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, "eth0", result.Interfaces[0].Name)
}

func TestReadNothingToMigrate(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "lo.xml", `<interface><name>lo</name></interface>`)

	_, err := Read([]string{dir}, testLogger(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ParseNoInterfaces))
}

func TestReadMissingPath(t *testing.T) {
	_, err := Read([]string{"/nonexistent/wicked/ifconfig"}, testLogger(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ParseReadFailed))
}

func TestReadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "broken.xml", `<interface><name>eth0`)

	_, err := Read([]string{path}, testLogger(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ParseXMLInvalid))
}
