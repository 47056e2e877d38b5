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

package fork

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/kifork/pkg/config"
	"github.com/walteh/kifork/pkg/copier"
	"github.com/walteh/kifork/pkg/log"
	"github.com/walteh/kifork/pkg/project"
	"github.com/walteh/kifork/pkg/readme"
	"github.com/walteh/kifork/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the forker
type Options struct {
	// Config is the resolved run configuration
	Config *config.Config
	// Console is the user-facing logger
	Console *log.Logger
}

// 🏭 New creates a new forker with the given options
func New(opts Options) (*Forker, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Console == nil {
		return nil, errors.Errorf("console logger is required")
	}
	return &Forker{
		cfg:     opts.Config,
		console: opts.Console,
	}, nil
}

// 🎮 Forker runs the fork pipeline: detect, copy, rename, backups dir,
// asset report, README rewrite. Strictly sequential, no stage overlap.
type Forker struct {
	cfg     *config.Config
	console *log.Logger
}

// 🏃 Run executes the pipeline. A copy or rename failure is fatal and
// leaves whatever was already written in place. A README rewrite failure
// is reported but does not fail the run: the copied and renamed tree
// stands.
func (f *Forker) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	ctx = log.NewContext(ctx, f.console)

	f.console.Header(f.cfg.String())

	oldBase := project.DetectBasename(ctx, f.cfg.SourceDir)
	fileBase := project.FileBase(f.cfg.NewName)
	logger.Info().
		Str("old_basename", oldBase).
		Str("file_base", fileBase).
		Msg("detected project identity")

	f.console.Stage(fmt.Sprintf("copying %s", f.cfg.SourceDir))
	rules := copier.NewRuleSet(f.cfg.CopyArchives, f.cfg.ExtraExcludes)
	if err := copier.Copy(ctx, f.cfg.SourceDir, f.cfg.DestDir, rules, f.cfg.Prune); err != nil {
		return err
	}

	f.console.Stage(fmt.Sprintf("renaming entries containing %q", oldBase))
	result, err := rename.Run(ctx, f.cfg.DestDir, oldBase, fileBase)
	if err != nil {
		return err
	}
	switch {
	case result.Matched == 0:
		f.console.Info("no entries matched the old basename")
	case result.Renamed == 0:
		f.console.Infof("all %d matching entries are archived, none renamed", result.Archived)
	default:
		f.console.Successf("renamed %d of %d matching entries", result.Renamed, result.Matched)
	}

	if err := rename.EnsureBackupsDir(ctx, f.cfg.DestDir, fileBase); err != nil {
		return err
	}

	project.VerifyAssets(ctx, f.cfg.DestDir).Print()

	if err := readme.Rewrite(ctx, f.cfg.DestDir, readme.Options{
		OldBase:            oldBase,
		NewName:            f.cfg.NewName,
		Tagline:            f.cfg.Tagline,
		ShortDescription:   f.cfg.ShortDescription,
		ChangeAbout:        f.cfg.ChangeAbout,
		KeepRoadmap:        f.cfg.KeepRoadmap,
		RemoveInstructions: f.cfg.RemoveInstructions,
	}); err != nil {
		// Non-fatal: the copied and renamed tree is already in place.
		f.console.Warningf("README rewrite failed: %v", err)
		logger.Warn().Err(err).Msg("README rewrite failed")
	}

	f.console.Successf("forked project created at %s", f.cfg.DestDir)
	return nil
}
