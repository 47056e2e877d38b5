// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the fully resolved configuration for a single fork run.
// It is built once by Resolve and never mutated afterwards.
type Config struct {
	SourceDir  string // Absolute path of the project to fork
	NewName    string // Basename of the forked project
	DestParent string // Absolute path the destination is created under
	DestDir    string // DestParent joined with NewName

	Tagline            string // README tagline replacement text
	ShortDescription   string // README short-description replacement text
	ChangeAbout        bool   // Rewrite the "fork of" line in the README
	KeepRoadmap        bool   // Leave the README roadmap section untouched
	RemoveInstructions bool   // Strip instructional README sections
	CopyArchives       bool   // Include archive directories in the copy
	Prune              bool   // Use the copy-then-prune strategy

	ExtraExcludes []string // Additional exclusion globs from the defaults file
}

// 🔧 RawArgs carries the unresolved command-line inputs into Resolve.
type RawArgs struct {
	Positional []string // source dir, new basename, optional dest parent

	Tagline            string
	ShortDescription   string
	NoAboutChange      bool
	KeepRoadmap        bool
	RemoveInstructions bool
	CopyArchives       bool
	Prune              bool
}

// ❌ UsageError reports a malformed invocation (missing positional arguments).
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s", e.Reason)
}

// ExitCode implements the CLI exit-status contract.
func (e *UsageError) ExitCode() int { return 1 }

// ❌ SourceNotFoundError reports a source path that is not an existing directory.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source directory does not exist: %s", e.Path)
}

func (e *SourceNotFoundError) ExitCode() int { return 2 }

// ❌ DestExistsError reports a destination path that is already occupied.
// This is a hard stop: the tool never merges into or overwrites an
// existing entry.
type DestExistsError struct {
	Path string
}

func (e *DestExistsError) Error() string {
	return fmt.Sprintf("destination already exists: %s", e.Path)
}

func (e *DestExistsError) ExitCode() int { return 3 }

// 🎯 Resolve validates raw arguments and defaults into an immutable Config.
// It only probes the filesystem, it never mutates it.
func Resolve(ctx context.Context, raw RawArgs, defaults *Defaults) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if len(raw.Positional) < 2 {
		return nil, &UsageError{Reason: "kifork <source_project_dir> <new_basename> [<dest_parent_dir>]"}
	}

	sourceDir, err := filepath.Abs(raw.Positional[0])
	if err != nil {
		return nil, errors.Errorf("resolving source path: %w", err)
	}

	newName := raw.Positional[1]
	if newName == "" {
		return nil, &UsageError{Reason: "new basename must not be empty"}
	}

	// Destination parent defaults to the directory the source lives in.
	destParent := filepath.Dir(sourceDir)
	if len(raw.Positional) >= 3 {
		destParent, err = filepath.Abs(raw.Positional[2])
		if err != nil {
			return nil, errors.Errorf("resolving destination parent path: %w", err)
		}
	}

	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, &SourceNotFoundError{Path: sourceDir}
	}

	destDir := filepath.Join(destParent, newName)
	if _, err := os.Lstat(destDir); err == nil {
		return nil, &DestExistsError{Path: destDir}
	} else if !os.IsNotExist(err) {
		return nil, errors.Errorf("probing destination path: %w", err)
	}

	cfg := &Config{
		SourceDir:          sourceDir,
		NewName:            newName,
		DestParent:         destParent,
		DestDir:            destDir,
		Tagline:            raw.Tagline,
		ShortDescription:   raw.ShortDescription,
		ChangeAbout:        !raw.NoAboutChange,
		KeepRoadmap:        raw.KeepRoadmap,
		RemoveInstructions: raw.RemoveInstructions,
		CopyArchives:       raw.CopyArchives,
		Prune:              raw.Prune,
	}

	// Flag values win over defaults-file values.
	if defaults != nil {
		if cfg.Tagline == "" {
			cfg.Tagline = defaults.Tagline
		}
		if cfg.ShortDescription == "" {
			cfg.ShortDescription = defaults.ShortDescription
		}
		cfg.ExtraExcludes = defaults.ExtraExcludes
	}
	if cfg.Tagline == "" {
		cfg.Tagline = "A tagline has yet to be written."
	}
	if cfg.ShortDescription == "" {
		cfg.ShortDescription = "A short description has yet to be written."
	}

	logger.Debug().
		Str("source", cfg.SourceDir).
		Str("destination", cfg.DestDir).
		Bool("copy_archives", cfg.CopyArchives).
		Msg("resolved configuration")

	return cfg, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.SourceDir, cfg.DestDir)
}
