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

// Package copier produces a filtered copy of a project tree. Two
// strategies converge on the same resulting tree: a bulk copy that skips
// excluded entries in a single pass, and a full copy followed by a prune
// pass that deletes them.
package copier

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ❌ CopyError is fatal: a partial destination tree may exist and is not
// cleaned up.
type CopyError struct {
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying project tree: %v", e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

func (e *CopyError) ExitCode() int { return 4 }

// 🎯 Copy copies the source tree to destDir, excluding entries matched by
// the rule set. With prune set it copies everything first and deletes the
// junk afterwards; both strategies yield identical trees.
func Copy(ctx context.Context, sourceDir, destDir string, rules *RuleSet, prune bool) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("source", sourceDir).
		Str("destination", destDir).
		Bool("prune", prune).
		Msg("copying project tree")

	var err error
	if prune {
		err = copyThenPrune(ctx, sourceDir, destDir, rules)
	} else {
		err = bulkCopy(ctx, sourceDir, destDir, rules)
	}
	if err != nil {
		return &CopyError{Err: err}
	}
	return nil
}

// bulkCopy runs the single-pass strategy on the optimized copy library,
// filtering through its skip hook.
func bulkCopy(ctx context.Context, sourceDir, destDir string, rules *RuleSet) error {
	opts := cp.Options{
		PreserveTimes: true,
		OnSymlink: func(src string) cp.SymlinkAction {
			return cp.Skip
		},
		Skip: func(srcinfo os.FileInfo, src, dest string) (bool, error) {
			rel, err := filepath.Rel(sourceDir, src)
			if err != nil {
				return false, errors.Errorf("computing relative path for %s: %w", src, err)
			}
			if rel == "." {
				return false, nil
			}
			return rules.Excluded(filepath.ToSlash(rel), srcinfo.IsDir()), nil
		},
	}
	if err := cp.Copy(sourceDir, destDir, opts); err != nil {
		return errors.Errorf("bulk copy: %w", err)
	}
	return nil
}

// copyThenPrune copies the whole tree and then deletes excluded entries.
// Kept for environments where the skip-hook path misbehaves; observable
// outcome matches bulkCopy.
func copyThenPrune(ctx context.Context, sourceDir, destDir string, rules *RuleSet) error {
	if err := copyDirRecursive(sourceDir, destDir); err != nil {
		return err
	}
	return pruneTree(ctx, destDir, rules)
}

// copyDirRecursive copies srcDir into dstDir without filtering,
// preserving file permissions. Symlinks are skipped.
func copyDirRecursive(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return errors.Errorf("reading directory %q: %w", srcDir, err)
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		return errors.Errorf("stating directory %q: %w", srcDir, err)
	}
	if err := os.MkdirAll(dstDir, info.Mode()); err != nil {
		return errors.Errorf("creating directory %q: %w", dstDir, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(srcDir, entry.Name())
		dstPath := filepath.Join(dstDir, entry.Name())

		entryInfo, err := entry.Info()
		if err != nil {
			return errors.Errorf("getting info for %q: %w", srcPath, err)
		}
		if entryInfo.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			if err := copyDirRecursive(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath, entryInfo); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single regular file preserving its permissions.
func copyFile(src, dst string, info os.FileInfo) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file %q: %w", src, err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file %q: %w", dst, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return errors.Errorf("copying content from %q to %q: %w", src, dst, err)
	}
	if err := os.Chmod(dst, info.Mode()); err != nil {
		return errors.Errorf("setting permissions on %q: %w", dst, err)
	}
	return nil
}

// pruneTree deletes every entry under root that matches the rule set.
// Matches are collected first so deletion never races the walk.
func pruneTree(ctx context.Context, root string, rules *RuleSet) error {
	logger := zerolog.Ctx(ctx)

	var doomed []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("computing relative path for %s: %w", path, err)
		}
		if rules.Excluded(filepath.ToSlash(rel), d.IsDir()) {
			doomed = append(doomed, path)
			if d.IsDir() {
				return filepath.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return errors.Errorf("scanning for junk: %w", err)
	}

	for _, path := range doomed {
		logger.Debug().Str("path", path).Msg("pruning excluded entry")
		if err := os.RemoveAll(path); err != nil {
			return errors.Errorf("pruning %q: %w", path, err)
		}
	}
	return nil
}
