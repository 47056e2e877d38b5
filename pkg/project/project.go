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

// Package project holds the KiCad project conventions kifork relies on:
// how a project descriptor is recognized, how the prefixed file base is
// derived from a new project name, and which directory names count as
// archives.
package project

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DescriptorExt marks a KiCad project descriptor file.
	DescriptorExt = ".kicad_pro"

	// PrefixToken is the reserved prefix every forked file base carries.
	PrefixToken = "dpx"

	// BackupsSuffix names the empty backups directory created at the
	// destination root, appended to the file base.
	BackupsSuffix = "-backups"
)

// archiveDirNames are directory names treated as archives. Their contents
// are copied verbatim when archive copying is enabled and are never renamed.
var archiveDirNames = []string{"archive", "archives"}

// 🔍 DetectBasename determines the old project basename for the source tree.
// It looks for project descriptor files recursively in stable walk order:
// exactly one match wins outright, several matches fall back to the first
// (logged, deterministic), and none at all falls back to the source
// directory's own leaf name. It never fails.
func DetectBasename(ctx context.Context, sourceDir string) string {
	logger := zerolog.Ctx(ctx)

	var descriptors []string
	// WalkDir enumerates lexically, so the first hit is stable across runs.
	_ = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), DescriptorExt) {
			descriptors = append(descriptors, d.Name())
		}
		return nil
	})

	switch len(descriptors) {
	case 0:
		name := filepath.Base(sourceDir)
		logger.Debug().Str("basename", name).Msg("no project descriptor found, using directory name")
		return name
	case 1:
		name := strings.TrimSuffix(descriptors[0], DescriptorExt)
		logger.Debug().Str("basename", name).Msg("detected project basename from descriptor")
		return name
	default:
		name := strings.TrimSuffix(descriptors[0], DescriptorExt)
		logger.Warn().
			Int("count", len(descriptors)).
			Str("basename", name).
			Msg("multiple project descriptors found, using the first")
		return name
	}
}

// 🔧 FileBase derives the prefixed file base from the new project name.
// The name is lowercased and given the reserved prefix unless it already
// starts with the prefix token and a separator.
func FileBase(newName string) string {
	base := strings.ToLower(newName)
	if strings.HasPrefix(base, PrefixToken+"_") {
		return base
	}
	return PrefixToken + "_" + base
}

// BackupsDirName returns the name of the backups directory for a file base.
func BackupsDirName(fileBase string) string {
	return fileBase + BackupsSuffix
}

// 🔍 IsArchiveDir reports whether a directory name is archive-named.
func IsArchiveDir(name string) bool {
	lower := strings.ToLower(name)
	for _, a := range archiveDirNames {
		if lower == a {
			return true
		}
	}
	return false
}

// ArchiveDirNames returns the archive directory names, for building
// exclusion patterns.
func ArchiveDirNames() []string {
	out := make([]string, len(archiveDirNames))
	copy(out, archiveDirNames)
	return out
}
