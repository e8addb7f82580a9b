// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

// Package netconfig models the legacy netconfig policy documents found in
// /etc/sysconfig/network and exposes them to the DNS policy merger and the
// connection mapper.
package netconfig

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// sysconfigFile is one parsed sysconfig document: shell-style KEY=VALUE
// assignments with quoting, comments and blank lines.
type sysconfigFile struct {
	values   map[string][]string
	warnings []string
}

func parseSysconfig(path string) (*sysconfigFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.NetconfigReadFailed).
			WithMetadata("path", path)
	}
	defer f.Close()

	file := &sysconfigFile{values: make(map[string][]string)}

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			file.warnings = append(file.warnings,
				fmt.Sprintf("line %d: not a variable assignment: %q", lineno, line))
			continue
		}
		key = strings.TrimSpace(key)

		// Values are shell words; a quoted value may hold a whole list.
		words, err := shellquote.Split(strings.TrimSpace(value))
		if err != nil {
			file.warnings = append(file.warnings,
				fmt.Sprintf("line %d: unparsable value for %s: %v", lineno, key, err))
			continue
		}

		file.values[key] = words
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.NetconfigReadFailed).
			WithMetadata("path", path)
	}

	return file, nil
}

// list returns the whitespace separated words of a sysconfig list variable.
func (f *sysconfigFile) list(key string) []string {
	var out []string
	for _, word := range f.values[key] {
		out = append(out, strings.Fields(word)...)
	}
	return out
}

// scalar returns a single-valued variable, joined in case the value was
// accidentally written as several words.
func (f *sysconfigFile) scalar(key string) string {
	return strings.Join(f.values[key], " ")
}

// boolean interprets the yes/no convention of sysconfig variables.
func (f *sysconfigFile) boolean(key string, def bool) bool {
	switch strings.ToLower(f.scalar(key)) {
	case "yes", "true", "1":
		return true
	case "no", "false", "0":
		return false
	default:
		return def
	}
}
