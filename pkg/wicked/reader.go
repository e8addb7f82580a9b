// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package wicked

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stratastor/logger"

	"github.com/jcronenberg/wicked2nm/internal/constants"
	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// Read loads interface descriptors from the given paths. A path may be a
// single XML file, a directory (searched recursively for .xml files) or "-"
// for stdin. Loopback descriptors are filtered out; they are never migrated.
func Read(paths []string, log logger.Logger) (*ParseResult, error) {
	var result *ParseResult
	var err error

	if len(paths) == 1 && paths[0] == "-" {
		result, err = readStream(os.Stdin)
	} else {
		result, err = readFiles(paths)
	}
	if err != nil {
		return nil, err
	}

	for _, msg := range result.Ignored {
		log.Debug(msg)
	}

	filtered := result.Interfaces[:0]
	for _, iface := range result.Interfaces {
		if iface.Name == constants.LoopbackName {
			log.Debug("Skipping loopback interface descriptor")
			continue
		}
		filtered = append(filtered, iface)
	}
	result.Interfaces = filtered

	if len(result.Interfaces) == 0 {
		return nil, errors.New(errors.ParseNoInterfaces, "nothing to migrate")
	}

	return result, nil
}

func readStream(r io.Reader) (*ParseResult, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ParseReadFailed).
			WithMetadata("source", "stdin")
	}
	return ParseDocument(string(contents))
}

func readFiles(paths []string) (*ParseResult, error) {
	merged := &ParseResult{}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ParseReadFailed).
				WithMetadata("path", path)
		}

		files := []string{path}
		if info.IsDir() {
			files, err = collectXMLFiles(path)
			if err != nil {
				return nil, err
			}
		}

		for _, file := range files {
			contents, err := os.ReadFile(file)
			if err != nil {
				return nil, errors.Wrap(err, errors.ParseReadFailed).
					WithMetadata("path", file)
			}
			result, err := ParseDocument(string(contents))
			if err != nil {
				return nil, errors.Wrap(err, errors.ParseXMLInvalid).
					WithMetadata("path", file)
			}
			merged.Interfaces = append(merged.Interfaces, result.Interfaces...)
			merged.Warnings = append(merged.Warnings, result.Warnings...)
			merged.Ignored = append(merged.Ignored, result.Ignored...)
		}
	}

	return merged, nil
}

func collectXMLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".xml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ParseReadFailed).WithMetadata("path", dir)
	}
	return files, nil
}
