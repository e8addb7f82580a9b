// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/stratastor/logger"

	w2nmerrors "github.com/jcronenberg/wicked2nm/pkg/errors"
)

// Dangerous characters that could enable command injection
var dangerousChars = "&|><$`\\[];{}"

// Command execution timeout
const defaultCommandTimeout = 30 * time.Second

// ExecCommand executes a system command with proper security checks.
func ExecCommand(
	ctx context.Context,
	log logger.Logger,
	name string,
	args ...string,
) ([]byte, error) {
	if err := validateCommand(name, args); err != nil {
		return nil, err
	}

	// Apply timeout if not already set
	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, defaultCommandTimeout)
		defer cancel()
	}

	cmdString := name + " " + strings.Join(args, " ")
	log.Debug("Executing command", "cmd", cmdString)

	cmd := exec.CommandContext(ctx, name, args...)

	// Prevent shell expansion
	cmd.Env = []string{}

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Error("Command execution failed with exit code",
				"cmd", cmdString,
				"exit_code", exitErr.ExitCode(),
				"output", string(output))

			return output, w2nmerrors.Wrap(err, w2nmerrors.CommandExecution).
				WithMetadata("command", cmdString).
				WithMetadata("exit_code", fmt.Sprintf("%d", exitErr.ExitCode())).
				WithMetadata("output", string(output))
		}

		log.Error("Command execution failed",
			"cmd", cmdString,
			"err", err,
			"output", string(output))

		return output, fmt.Errorf("command execution failed: %w: %s", err, string(output))
	}

	return output, nil
}

// validateCommand performs security checks on the command and arguments
func validateCommand(name string, args []string) error {
	if name == "" {
		return w2nmerrors.New(w2nmerrors.CommandInvalidInput, "empty command")
	}

	if !strings.HasPrefix(name, "/") && strings.ContainsAny(name, "/\\") {
		return w2nmerrors.New(
			w2nmerrors.CommandInvalidInput,
			"relative paths are not allowed for commands",
		)
	}

	if strings.ContainsAny(name, dangerousChars) {
		return w2nmerrors.New(w2nmerrors.CommandInvalidInput, "command contains invalid characters")
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, dangerousChars) {
			return w2nmerrors.New(
				w2nmerrors.CommandInvalidInput,
				"argument contains invalid characters",
			)
		}
	}

	if len(args) > 64 {
		return w2nmerrors.New(w2nmerrors.CommandInvalidInput, "too many arguments")
	}

	return nil
}
