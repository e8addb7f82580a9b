// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

// ResolveControllers attaches child connections to their controllers.
// parents maps child connection ids to the interface name of the controller.
//
// The resolution runs in two passes over the full connection set: first every
// controller name is resolved to the uuid of its connection, then every child
// is updated. A controller name that resolves to nothing yields a warning and
// the child stays standalone; a child id that resolves to nothing is an
// internal inconsistency and always fatal, since parents is built from the
// very connections being resolved.
func ResolveControllers(connections []nm.Connection, parents map[string]string) ([]string, error) {
	var warnings []string

	// Only bond and bridge connections can act as controllers. A parent
	// name that resolves to any other kind stays a missing-parent warning
	// rather than producing a profile NetworkManager cannot enslave to.
	byInterface := make(map[string]uuid.UUID, len(connections))
	for i := range connections {
		switch connections[i].Config.(type) {
		case nm.BondConfig, nm.BridgeConfig:
			byInterface[connections[i].Interface] = connections[i].UUID
		}
	}

	// Deterministic order for warnings and errors.
	children := make([]string, 0, len(parents))
	for child := range parents {
		children = append(children, child)
	}
	sort.Strings(children)

	resolved := make(map[string]uuid.UUID, len(parents))
	for _, child := range children {
		parent := parents[child]
		id, ok := byInterface[parent]
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("Connection %q references controller %q which has no connection",
					child, parent))
			continue
		}
		resolved[child] = id
	}

	for _, child := range children {
		id, ok := resolved[child]
		if !ok {
			continue
		}
		conn := connectionByID(connections, child)
		if conn == nil {
			return warnings, errors.New(errors.StateConnectionLost,
				fmt.Sprintf("connection %q vanished before controller resolution", child))
		}
		conn.Controller = id
	}

	return warnings, nil
}

func connectionByID(connections []nm.Connection, id string) *nm.Connection {
	for i := range connections {
		if connections[i].ID == id {
			return &connections[i]
		}
	}
	return nil
}
