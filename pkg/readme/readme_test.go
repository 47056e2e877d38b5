package readme

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

const fixtureReadme = `# widget_v1

<!-- tagline -->

## About

<!-- description -->
This project is a fork of something older.
WIDGET_V1 is a small adapter board.

## Roadmap

- [x] first spin
- [ ] fix silkscreen
- [ ] order parts

## Getting Started

Clone the repo and open widget_v1.kicad_pro.

## Usage

Plug it in.

## License

MIT
`

func writeReadme(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
	return dir
}

func readBack(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	return string(data)
}

func defaultOptions() Options {
	return Options{
		OldBase:          "widget_v1",
		NewName:          "Widget_v2",
		Tagline:          "A fresh spin.",
		ShortDescription: "Second revision of the adapter.",
		ChangeAbout:      true,
		Today:            "2026-08-30",
	}
}

func TestRewrite(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("missing_readme_is_noop", func(t *testing.T) {
		require.NoError(t, Rewrite(ctx, t.TempDir(), defaultOptions()))
	})

	t.Run("basename_replacement_is_global_and_case_insensitive", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		require.NoError(t, Rewrite(ctx, dir, defaultOptions()))

		got := readBack(t, dir)
		assert.NotContains(t, got, "widget_v1")
		assert.NotContains(t, got, "WIDGET_V1")
		assert.Contains(t, got, "# widget_v2")
		assert.Contains(t, got, "widget_v2 is a small adapter board.")
		assert.Contains(t, got, "widget_v2.kicad_pro")
	})

	t.Run("tagline_marker_line_is_replaced", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		require.NoError(t, Rewrite(ctx, dir, defaultOptions()))

		got := readBack(t, dir)
		assert.Contains(t, got, "A fresh spin.")
		assert.NotContains(t, got, taglineMarker)
	})

	t.Run("description_inserted_after_marker", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		require.NoError(t, Rewrite(ctx, dir, defaultOptions()))

		got := readBack(t, dir)
		idx := strings.Index(got, descriptionMarker)
		require.GreaterOrEqual(t, idx, 0, "marker should survive the insert")
		rest := got[idx:]
		lines := strings.SplitN(rest, "\n", 3)
		require.Len(t, lines, 3)
		assert.Equal(t, "Second revision of the adapter.", lines[1])
	})

	t.Run("fork_line_records_old_basename_and_date", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		require.NoError(t, Rewrite(ctx, dir, defaultOptions()))

		got := readBack(t, dir)
		assert.Contains(t, got, "This project is a fork of widget_v1, made on 2026-08-30.")
	})

	t.Run("no_about_leaves_fork_line_alone", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		opts := defaultOptions()
		opts.ChangeAbout = false
		require.NoError(t, Rewrite(ctx, dir, opts))

		got := readBack(t, dir)
		// Step 1 already rewrote the basename, but the sentence structure
		// of the original line survives.
		assert.Contains(t, got, "This project is a fork of something older.")
	})

	t.Run("roadmap_body_replaced_with_placeholder", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		require.NoError(t, Rewrite(ctx, dir, defaultOptions()))

		got := readBack(t, dir)
		assert.Contains(t, got, "## Roadmap\n"+roadmapPlaceholder+"\n## Getting Started")
		assert.NotContains(t, got, "fix silkscreen")
		assert.NotContains(t, got, "order parts")
	})

	t.Run("keep_roadmap_preserves_body", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		opts := defaultOptions()
		opts.KeepRoadmap = true
		require.NoError(t, Rewrite(ctx, dir, opts))

		got := readBack(t, dir)
		assert.Contains(t, got, "fix silkscreen")
	})

	t.Run("strip_instructions_replaces_each_section", func(t *testing.T) {
		dir := writeReadme(t, fixtureReadme)
		opts := defaultOptions()
		opts.RemoveInstructions = true
		require.NoError(t, Rewrite(ctx, dir, opts))

		got := readBack(t, dir)
		assert.Contains(t, got, "## Getting Started\n"+sectionPlaceholder)
		assert.Contains(t, got, "## Usage\n"+sectionPlaceholder)
		assert.NotContains(t, got, "Clone the repo")
		assert.NotContains(t, got, "Plug it in.")
		// Headings themselves and unrelated sections survive.
		assert.Contains(t, got, "## License\n\nMIT")
	})

	t.Run("content_outside_sections_is_untouched", func(t *testing.T) {
		before := "# other\n\nprologue\n\n## Roadmap\n\n- [ ] things\n\n## After\n\nepilogue\n"
		dir := writeReadme(t, before)
		opts := Options{OldBase: "nomatch", NewName: "nomatch", ChangeAbout: false, Today: "2026-08-30"}
		require.NoError(t, Rewrite(ctx, dir, opts))

		got := readBack(t, dir)
		assert.Equal(t, "# other\n\nprologue\n\n## Roadmap\n"+roadmapPlaceholder+"\n## After\n\nepilogue\n", got)
	})

	t.Run("subsection_of_roadmap_is_stripped_too", func(t *testing.T) {
		before := "## Roadmap\n\ntext\n\n### Details\n\nmore\n\n## Next\n\nkeep\n"
		dir := writeReadme(t, before)
		opts := Options{OldBase: "nomatch", NewName: "nomatch", Today: "2026-08-30"}
		require.NoError(t, Rewrite(ctx, dir, opts))

		got := readBack(t, dir)
		assert.NotContains(t, got, "### Details")
		assert.Contains(t, got, "## Next\n\nkeep")
	})
}

func TestReplaceAllFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		old      string
		new      string
		expected string
	}{
		{name: "simple", input: "abc", old: "b", new: "x", expected: "axc"},
		{name: "case_insensitive", input: "Foo foo FOO", old: "foo", new: "bar", expected: "bar bar bar"},
		{name: "no_match", input: "abc", old: "z", new: "x", expected: "abc"},
		{name: "empty_old_is_noop", input: "abc", old: "", new: "x", expected: "abc"},
		{name: "adjacent_matches", input: "aaaa", old: "aa", new: "b", expected: "bb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, replaceAllFold(tt.input, tt.old, tt.new))
		})
	}
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel("# Title"))
	assert.Equal(t, 2, headingLevel("## Section"))
	assert.Equal(t, 3, headingLevel("### Sub"))
	assert.Equal(t, 0, headingLevel("#nospace"))
	assert.Equal(t, 0, headingLevel("plain text"))
	assert.Equal(t, 0, headingLevel(""))
	assert.Equal(t, 0, headingLevel("##"))
}
