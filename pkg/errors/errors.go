// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
)

// New creates a MigrateError for a known error code with additional details.
func New(code ErrorCode, details string) *MigrateError {
	def, ok := errorDefinitions[code]
	if !ok {
		return &MigrateError{
			Code:    code,
			Domain:  DomainCommand,
			Message: "Unknown error",
			Details: details,
		}
	}
	return &MigrateError{
		Code:    code,
		Domain:  def.domain,
		Message: def.message,
		Details: details,
	}
}

// Wrap converts any error into a MigrateError, preserving the original error
// in the chain. Wrapping an existing MigrateError keeps its code and metadata.
func Wrap(err error, code ErrorCode) *MigrateError {
	if err == nil {
		return nil
	}

	var me *MigrateError
	if errors.As(err, &me) {
		return me
	}

	e := New(code, err.Error())
	e.err = err
	return e
}

// WithMetadata attaches a key-value pair for structured logging and reports.
func (e *MigrateError) WithMetadata(key, value string) *MigrateError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

func (e *MigrateError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

func (e *MigrateError) Unwrap() error {
	return e.err
}

// HTTPStatus reports the status associated with the error code. Unused by the
// CLI itself but kept for API consumers embedding the engine.
func (e *MigrateError) HTTPStatus() int {
	if def, ok := errorDefinitions[e.Code]; ok {
		return def.httpStatus
	}
	return 500
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var me *MigrateError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
