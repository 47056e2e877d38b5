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

package project

import (
	"context"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📦 AssetReport records which library-asset indicators were found at the
// destination root. Purely informational: it has no effect on the tree.
type AssetReport struct {
	SymbolLibs    []string // *.kicad_sym files
	FootprintLibs []string // *.pretty directories
	ModelDirs     []string // 3-D model directories
	LibraryDirs   []string // generic lib/libs/library directories
}

// Empty reports whether no asset indicators were found.
func (r *AssetReport) Empty() bool {
	return len(r.SymbolLibs) == 0 && len(r.FootprintLibs) == 0 &&
		len(r.ModelDirs) == 0 && len(r.LibraryDirs) == 0
}

// 🔍 VerifyAssets scans the destination root (non-recursive) for common
// library-asset indicators. It never fails: an unreadable root simply
// produces an empty report.
func VerifyAssets(ctx context.Context, destDir string) *AssetReport {
	logger := zerolog.Ctx(ctx)
	report := &AssetReport{}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		logger.Debug().Err(err).Str("dir", destDir).Msg("asset scan skipped, destination unreadable")
		return report
	}

	for _, entry := range entries {
		name := entry.Name()
		lower := strings.ToLower(name)
		switch {
		case !entry.IsDir() && strings.HasSuffix(lower, ".kicad_sym"):
			report.SymbolLibs = append(report.SymbolLibs, name)
		case entry.IsDir() && strings.HasSuffix(lower, ".pretty"):
			report.FootprintLibs = append(report.FootprintLibs, name)
		case entry.IsDir() && (strings.HasSuffix(lower, ".3dshapes") || lower == "3d" || lower == "3dmodels"):
			report.ModelDirs = append(report.ModelDirs, name)
		case entry.IsDir() && (lower == "lib" || lower == "libs" || lower == "library"):
			report.LibraryDirs = append(report.LibraryDirs, name)
		}
	}

	logger.Debug().
		Int("symbol_libs", len(report.SymbolLibs)).
		Int("footprint_libs", len(report.FootprintLibs)).
		Int("model_dirs", len(report.ModelDirs)).
		Int("library_dirs", len(report.LibraryDirs)).
		Msg("asset scan complete")

	return report
}

// 📝 Print writes the asset presence report for the user.
func (r *AssetReport) Print() {
	if r.Empty() {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "📚"}).Println("no library assets found at destination root")
		return
	}

	printer := pterm.Success.WithPrefix(pterm.Prefix{Text: "📚"})
	for _, name := range r.SymbolLibs {
		printer.Printf("symbol library: %s\n", name)
	}
	for _, name := range r.FootprintLibs {
		printer.Printf("footprint library: %s\n", name)
	}
	for _, name := range r.ModelDirs {
		printer.Printf("3d model directory: %s\n", name)
	}
	for _, name := range r.LibraryDirs {
		printer.Printf("library directory: %s\n", name)
	}
}
