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

// Package readme rewrites the templated sections of a forked project's
// README. All edits are line-oriented: section boundaries are tracked by
// an explicit heading-level scan, never by document-wide pattern tools.
package readme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FileName is the document rewritten at the destination root.
	FileName = "README.md"

	// taglineMarker identifies the tagline placeholder line.
	taglineMarker = "<!-- tagline -->"

	// descriptionMarker identifies the short-description placeholder; the
	// description is inserted on a new line after it.
	descriptionMarker = "<!-- description -->"

	// forkLinePrefix identifies the line declaring the fork's origin.
	forkLinePrefix = "This project is a fork of"

	// roadmapPlaceholder replaces a stripped roadmap body.
	roadmapPlaceholder = "- [ ] "

	// sectionPlaceholder replaces a stripped instructional section body.
	sectionPlaceholder = "_(to be written)_"
)

// instructionSections are the headings stripped by the remove-instructions
// option.
var instructionSections = []string{"Getting Started", "Installation", "Usage"}

// ❌ RewriteError reports a README that could not be read or written. It
// does not undo the copy and rename already performed.
type RewriteError struct {
	Path string
	Err  error
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("rewriting %s: %v", e.Path, e.Err)
}

func (e *RewriteError) Unwrap() error { return e.Err }

// 🔧 Options configures a rewrite pass.
type Options struct {
	OldBase            string // detected old project basename
	NewName            string // new project basename
	Tagline            string
	ShortDescription   string
	ChangeAbout        bool
	KeepRoadmap        bool
	RemoveInstructions bool
	Today              string // ISO date for the fork line; defaults to time.Now
}

// 🎯 Rewrite mutates the README at the destination root in place. A
// missing README is a no-op. Steps apply in a fixed order, each operating
// on the output of the previous one.
func Rewrite(ctx context.Context, destDir string, opts Options) error {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(destDir, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("no README at destination, skipping rewrite")
		return nil
	}
	if err != nil {
		return &RewriteError{Path: path, Err: err}
	}

	if opts.Today == "" {
		opts.Today = time.Now().Format("2006-01-02")
	}

	content := string(data)

	// 1. Every occurrence of the old basename becomes the lowercase new
	// basename, matched case-insensitively.
	content = replaceAllFold(content, opts.OldBase, strings.ToLower(opts.NewName))

	lines := strings.Split(content, "\n")
	lines = replaceFirstMarkerLine(lines, taglineMarker, opts.Tagline)
	lines = insertAfterFirstMarker(lines, descriptionMarker, opts.ShortDescription)

	if opts.ChangeAbout {
		forkLine := fmt.Sprintf("%s %s, made on %s.", forkLinePrefix, opts.OldBase, opts.Today)
		lines = replaceFirstPrefixLine(lines, forkLinePrefix, forkLine)
	}

	if !opts.KeepRoadmap {
		lines = stripSection(lines, "Roadmap", roadmapPlaceholder)
	}

	if opts.RemoveInstructions {
		for _, title := range instructionSections {
			lines = stripSection(lines, title, sectionPlaceholder)
		}
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return &RewriteError{Path: path, Err: err}
	}

	logger.Debug().Str("path", path).Msg("rewrote README")
	return nil
}

// replaceAllFold replaces every occurrence of old with new, matching
// case-insensitively while leaving all other bytes untouched.
func replaceAllFold(s, old, new string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	lowerOld := strings.ToLower(old)
	for {
		idx := strings.Index(strings.ToLower(s), lowerOld)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
	}
}

// replaceFirstMarkerLine replaces the first line containing the marker
// with the replacement text.
func replaceFirstMarkerLine(lines []string, marker, replacement string) []string {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			lines[i] = replacement
			return lines
		}
	}
	return lines
}

// insertAfterFirstMarker inserts text as a new line following the first
// line containing the marker.
func insertAfterFirstMarker(lines []string, marker, text string) []string {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i+1]...)
			out = append(out, text)
			out = append(out, lines[i+1:]...)
			return out
		}
	}
	return lines
}

// replaceFirstPrefixLine replaces the first line starting with prefix.
func replaceFirstPrefixLine(lines []string, prefix, replacement string) []string {
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			lines[i] = replacement
			return lines
		}
	}
	return lines
}

// headingLevel returns the markdown heading level of a line, or 0 when
// the line is not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

// stripSection replaces the body of the section headed by title with a
// single placeholder line. The heading line itself and everything outside
// the section boundaries are preserved. The body runs to the next heading
// of equal or higher level, or to the end of the document. A small state
// machine: outside the section until the heading matches, inside it until
// the boundary heading appears.
func stripSection(lines []string, title, placeholder string) []string {
	out := make([]string, 0, len(lines))
	inside := false
	sectionLevel := 0

	for _, line := range lines {
		level := headingLevel(line)

		if inside {
			if level > 0 && level <= sectionLevel {
				inside = false
				out = append(out, line)
			}
			continue
		}

		out = append(out, line)
		if level > 0 && strings.TrimSpace(line[level:]) == title {
			inside = true
			sectionLevel = level
			out = append(out, placeholder)
		}
	}
	return out
}
