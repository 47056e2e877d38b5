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

package copier

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/kifork/pkg/project"
)

// junkPatterns are always excluded from the copy: version-control
// metadata, lock files, backups, temp and autosave files.
var junkPatterns = []string{
	"**/.git",
	"**/.svn",
	"**/.hg",
	"**/*.lock",
	"**/*-backups",
	"**/*.bak",
	"**/*.tmp",
	"**/*~",
	"**/_autosave-*",
	"**/fp-info-cache",
}

// 🔧 RuleSet is the set of glob patterns excluded during copy. Exclusion
// is set membership: pattern order carries no meaning.
type RuleSet struct {
	patterns []string
}

// 🏭 NewRuleSet builds the exclusion rule set. Archive-named directories
// are excluded unless copyArchives is set. Extra globs (from a defaults
// file) are appended as-is.
func NewRuleSet(copyArchives bool, extra []string) *RuleSet {
	patterns := make([]string, 0, len(junkPatterns)+4)
	patterns = append(patterns, junkPatterns...)
	if !copyArchives {
		for _, name := range project.ArchiveDirNames() {
			patterns = append(patterns, "**/"+name)
		}
	}
	patterns = append(patterns, extra...)
	return &RuleSet{patterns: patterns}
}

// 🔍 Excluded reports whether the slash-separated path, relative to the
// copy root, matches any exclusion pattern. Directories are also tried
// with a trailing slash so directory-shaped patterns match.
func (r *RuleSet) Excluded(relPath string, isDir bool) bool {
	for _, pattern := range r.patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if isDir {
			if matched, err := doublestar.Match(pattern, relPath+"/"); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Patterns returns a copy of the active pattern list.
func (r *RuleSet) Patterns() []string {
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}
