// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package migrate

import (
	"github.com/jcronenberg/wicked2nm/pkg/errors"
	"github.com/jcronenberg/wicked2nm/pkg/nm"
)

// Assemble folds the resolved connections into a validated network state,
// preserving their order. A duplicate connection id means two descriptors
// fought over the same name; that conflict is never recoverable.
func Assemble(connections []nm.Connection) (*nm.NetworkState, error) {
	state := nm.NewNetworkState()
	for _, conn := range connections {
		if err := state.AddConnection(conn); err != nil {
			return nil, errors.Wrap(err, errors.StateInconsistent).
				WithMetadata("connection", conn.ID)
		}
	}
	return state, nil
}
