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

// Package rename relabels files and directories under the forked tree
// whose names contain the old project basename.
package rename

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/kifork/pkg/log"
	"github.com/walteh/kifork/pkg/project"
	"gitlab.com/tozd/go/errors"
)

// ❌ RenameError is fatal and not rolled back: renames applied before the
// failure stand. Renamed records how many were already applied.
type RenameError struct {
	Path    string // entry that could not be renamed
	Renamed int    // entries renamed before the failure
	Err     error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("renaming %s (%d entries already renamed): %v", e.Path, e.Renamed, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

func (e *RenameError) ExitCode() int { return 5 }

// 📦 Result summarizes a rename pass.
type Result struct {
	Matched  int // entries whose name contained the old basename
	Renamed  int // entries actually renamed
	Archived int // matches skipped because they live under an archive directory
}

// 🎯 Run renames every file and directory under destDir whose name
// contains oldBase, replacing the first occurrence with fileBase. The
// match is a case-sensitive literal substring. Entries inside
// archive-named directories are left untouched: archives are copied
// verbatim, never relabeled. Deepest entries are renamed first so parent
// renames cannot invalidate pending child paths.
func Run(ctx context.Context, destDir, oldBase, fileBase string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)
	result := &Result{}

	type candidate struct {
		path     string
		isDir    bool
		archived bool
	}
	var candidates []candidate

	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == destDir {
			return nil
		}
		if !strings.Contains(d.Name(), oldBase) {
			return nil
		}
		rel, err := filepath.Rel(destDir, path)
		if err != nil {
			return errors.Errorf("computing relative path for %s: %w", path, err)
		}
		candidates = append(candidates, candidate{
			path:     path,
			isDir:    d.IsDir(),
			archived: underArchive(rel),
		})
		return nil
	})
	if err != nil {
		return result, &RenameError{Path: destDir, Err: err}
	}

	result.Matched = len(candidates)
	if result.Matched == 0 {
		logger.Info().Str("basename", oldBase).Msg("no entries matched the old basename")
		return result, nil
	}

	// Reverse lexicographic order puts children before their parents.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].path > candidates[j].path
	})

	for _, c := range candidates {
		if c.archived {
			result.Archived++
			console.LogRename(ctx, log.RenameEntry{
				From:     filepath.Base(c.path),
				To:       filepath.Base(c.path),
				IsDir:    c.isDir,
				Archived: true,
			})
			logger.Debug().Str("path", c.path).Msg("skipping archived entry")
			continue
		}

		dir := filepath.Dir(c.path)
		oldName := filepath.Base(c.path)
		newName := strings.Replace(oldName, oldBase, fileBase, 1)
		target := filepath.Join(dir, newName)

		// Sibling collision: never silently overwrite.
		if _, err := os.Lstat(target); err == nil {
			return result, &RenameError{
				Path:    c.path,
				Renamed: result.Renamed,
				Err:     errors.Errorf("target %q already exists", target),
			}
		}

		if err := os.Rename(c.path, target); err != nil {
			return result, &RenameError{Path: c.path, Renamed: result.Renamed, Err: err}
		}
		result.Renamed++
		console.LogRename(ctx, log.RenameEntry{From: oldName, To: newName, IsDir: c.isDir})
		logger.Debug().Str("from", oldName).Str("to", newName).Msg("renamed entry")
	}

	if result.Renamed == 0 && result.Archived > 0 {
		logger.Info().
			Int("archived", result.Archived).
			Msg("all matching entries live under archive directories, nothing renamed")
	}

	return result, nil
}

// underArchive reports whether any ancestor segment of the relative path
// is an archive-named directory.
func underArchive(rel string) bool {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for _, seg := range segments[:len(segments)-1] {
		if project.IsArchiveDir(seg) {
			return true
		}
	}
	return false
}

// 🎯 EnsureBackupsDir creates the empty backups directory at the
// destination root. Pre-existence is tolerated silently: copied content
// could already have produced a like-named entry.
func EnsureBackupsDir(ctx context.Context, destDir, fileBase string) error {
	name := project.BackupsDirName(fileBase)
	path := filepath.Join(destDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Errorf("creating backups directory %q: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("ensured backups directory")
	return nil
}
