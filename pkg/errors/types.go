// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import "net/http"

const (
	DomainConfig    Domain = "CONFIG"
	DomainParse     Domain = "PARSE"
	DomainMapping   Domain = "MAPPING"
	DomainState     Domain = "STATE"
	DomainNetconfig Domain = "NETCONFIG"
	DomainAdapter   Domain = "ADAPTER"
	DomainCommand   Domain = "CMD"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

type MigrateError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// Metadata carries contextual information that doesn't fit the standard
	// fields: the offending interface, field path, file, executed command.
	Metadata map[string]string `json:"metadata,omitempty"`

	err error
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1100-1199: Descriptor parse errors
// 1200-1299: Interface mapping errors
// 1300-1399: Network state errors
// 1400-1499: Netconfig policy errors
// 1500-1599: Adapter boundary errors
// 1600-1699: Command execution
const (
	// Configuration Errors (1000-1099)
	ConfigLoadFailed       ErrorCode = 1000 + iota // Failed to load settings
	ConfigInvalid                                  // Invalid settings value
	ConfigValidationFailed                         // Settings validation failed
)

const (
	// Descriptor parse errors (1100-1199)
	ParseReadFailed      ErrorCode = 1100 + iota // Failed to read descriptor input
	ParseXMLInvalid                              // Malformed descriptor XML
	ParseUnhandledFields                         // Descriptor contains unhandled fields
	ParseNoInterfaces                            // No interface descriptors found
)

const (
	// Interface mapping errors (1200-1299)
	MappingFailed              ErrorCode = 1200 + iota // Interface mapping failed
	MappingContradictoryKinds                          // Interface declares multiple kinds
	MappingAddressInvalid                              // Invalid address in descriptor
	MappingBondOptionInvalid                           // Invalid bond option value
	MappingBridgeOptionInvalid                         // Invalid bridge option value
	MappingVlanInvalid                                 // Invalid VLAN configuration
	MappingWarnings                                    // Interface mapped with warnings
)

const (
	// Network state errors (1300-1399)
	StateDuplicateID    ErrorCode = 1300 + iota // Duplicate connection id
	StateMissingParent                          // Controller interface not found
	StateInconsistent                           // Internal state inconsistency
	StateConnectionLost                         // Mapped connection vanished before assembly
)

const (
	// Netconfig policy errors (1400-1499)
	NetconfigReadFailed      ErrorCode = 1400 + iota // Failed to read netconfig file
	NetconfigParseFailed                             // Failed to parse netconfig file
	NetconfigDNSEntryInvalid                         // Invalid static DNS server entry
	NetconfigDhcpReadFailed                          // Failed to read netconfig dhcp file
)

const (
	// Adapter boundary errors (1500-1599)
	AdapterReadFailed    ErrorCode = 1500 + iota // Failed to read live network state
	AdapterWriteFailed                           // Failed to write network state
	AdapterUnavailable                           // Network management backend unavailable
	AdapterKeyfileFailed                         // Keyfile rendering failed
)

const (
	// Command Execution (1600-1699)
	CommandNotFound     ErrorCode = 1600 + iota // Command not found
	CommandExecution                            // Execution failed
	CommandTimeout                              // Command timed out
	CommandInvalidInput                         // Invalid command input
	CommandOutputParse                          // Output parsing failed
)

var errorDefinitions = map[ErrorCode]struct {
	message    string
	domain     Domain
	httpStatus int
}{
	// Configuration errors
	ConfigLoadFailed: {"Failed to load settings", DomainConfig, http.StatusInternalServerError},
	ConfigInvalid:    {"Invalid settings value", DomainConfig, http.StatusBadRequest},
	ConfigValidationFailed: {
		"Settings validation failed",
		DomainConfig,
		http.StatusBadRequest,
	},

	// Descriptor parse errors
	ParseReadFailed: {
		"Failed to read descriptor input",
		DomainParse,
		http.StatusInternalServerError,
	},
	ParseXMLInvalid: {"Malformed descriptor XML", DomainParse, http.StatusBadRequest},
	ParseUnhandledFields: {
		"Descriptor contains unhandled fields",
		DomainParse,
		http.StatusBadRequest,
	},
	ParseNoInterfaces: {"No interface descriptors found", DomainParse, http.StatusNotFound},

	// Interface mapping errors
	MappingFailed: {"Interface mapping failed", DomainMapping, http.StatusBadRequest},
	MappingContradictoryKinds: {
		"Interface declares contradictory kinds",
		DomainMapping,
		http.StatusBadRequest,
	},
	MappingAddressInvalid: {
		"Invalid address in descriptor",
		DomainMapping,
		http.StatusBadRequest,
	},
	MappingBondOptionInvalid: {
		"Invalid bond option value",
		DomainMapping,
		http.StatusBadRequest,
	},
	MappingBridgeOptionInvalid: {
		"Invalid bridge option value",
		DomainMapping,
		http.StatusBadRequest,
	},
	MappingVlanInvalid: {"Invalid VLAN configuration", DomainMapping, http.StatusBadRequest},
	MappingWarnings:    {"Interface mapped with warnings", DomainMapping, http.StatusBadRequest},

	// Network state errors
	StateDuplicateID: {"Duplicate connection id", DomainState, http.StatusConflict},
	StateMissingParent: {
		"Controller interface not found",
		DomainState,
		http.StatusNotFound,
	},
	StateInconsistent: {
		"Internal network state inconsistency",
		DomainState,
		http.StatusInternalServerError,
	},
	StateConnectionLost: {
		"Mapped connection vanished before assembly",
		DomainState,
		http.StatusInternalServerError,
	},

	// Netconfig policy errors
	NetconfigReadFailed: {
		"Failed to read netconfig file",
		DomainNetconfig,
		http.StatusInternalServerError,
	},
	NetconfigParseFailed: {
		"Failed to parse netconfig file",
		DomainNetconfig,
		http.StatusBadRequest,
	},
	NetconfigDNSEntryInvalid: {
		"Invalid static DNS server entry",
		DomainNetconfig,
		http.StatusBadRequest,
	},
	NetconfigDhcpReadFailed: {
		"Failed to read netconfig dhcp file",
		DomainNetconfig,
		http.StatusInternalServerError,
	},

	// Adapter boundary errors
	AdapterReadFailed: {
		"Failed to read live network state",
		DomainAdapter,
		http.StatusInternalServerError,
	},
	AdapterWriteFailed: {
		"Failed to write network state",
		DomainAdapter,
		http.StatusInternalServerError,
	},
	AdapterUnavailable: {
		"Network management backend unavailable",
		DomainAdapter,
		http.StatusServiceUnavailable,
	},
	AdapterKeyfileFailed: {
		"Keyfile rendering failed",
		DomainAdapter,
		http.StatusInternalServerError,
	},

	// Command execution errors
	CommandNotFound:  {"Command not found", DomainCommand, http.StatusNotFound},
	CommandExecution: {"Command execution failed", DomainCommand, http.StatusBadRequest},
	CommandTimeout:   {"Command execution timed out", DomainCommand, http.StatusGatewayTimeout},
	CommandInvalidInput: {
		"Invalid command input",
		DomainCommand,
		http.StatusBadRequest,
	},
	CommandOutputParse: {
		"Failed to parse command output",
		DomainCommand,
		http.StatusInternalServerError,
	},
}
