package rename

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestRun(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("renames_matching_files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "widget_v1.kicad_pro"))
		writeFile(t, filepath.Join(dir, "widget_v1.kicad_sch"))
		writeFile(t, filepath.Join(dir, "unrelated.txt"))

		result, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Matched)
		assert.Equal(t, 2, result.Renamed)

		assert.FileExists(t, filepath.Join(dir, "dpx_widget_v2.kicad_pro"))
		assert.FileExists(t, filepath.Join(dir, "dpx_widget_v2.kicad_sch"))
		assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
	})

	t.Run("renames_directories_and_their_children", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "widget_v1_libs", "widget_v1.kicad_sym"))

		result, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Renamed)

		assert.FileExists(t, filepath.Join(dir, "dpx_widget_v2_libs", "dpx_widget_v2.kicad_sym"))
	})

	t.Run("only_first_occurrence_in_a_name_is_replaced", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "widget_v1-widget_v1.txt"))

		_, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "dpx_widget_v2-widget_v1.txt"))
	})

	t.Run("match_is_case_sensitive", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Widget_V1.txt"))

		result, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Matched)
		assert.FileExists(t, filepath.Join(dir, "Widget_V1.txt"))
	})

	t.Run("archive_contents_are_never_renamed", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "archives", "widget_v1.kicad_pro"))
		writeFile(t, filepath.Join(dir, "widget_v1.kicad_pro"))

		result, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Matched)
		assert.Equal(t, 1, result.Renamed)
		assert.Equal(t, 1, result.Archived)

		assert.FileExists(t, filepath.Join(dir, "archives", "widget_v1.kicad_pro"))
		assert.FileExists(t, filepath.Join(dir, "dpx_widget_v2.kicad_pro"))
	})

	t.Run("no_match_reports_zero", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "something_else.txt"))

		result, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Matched)
		assert.Equal(t, 0, result.Renamed)
	})

	t.Run("sibling_collision_is_rename_error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "widget_v1.txt"))
		writeFile(t, filepath.Join(dir, "dpx_widget_v2.txt"))

		_, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		require.Error(t, err)
		var rerr *RenameError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 5, rerr.ExitCode())
		assert.Contains(t, rerr.Error(), "already exists")
	})

	t.Run("partial_failure_reports_renamed_count", func(t *testing.T) {
		dir := t.TempDir()
		// zzz sorts after widget, so it is renamed first in reverse
		// lexicographic order; the collision then hits widget_v1.txt.
		writeFile(t, filepath.Join(dir, "zzz_widget_v1.txt"))
		writeFile(t, filepath.Join(dir, "widget_v1.txt"))
		writeFile(t, filepath.Join(dir, "dpx_widget_v2.txt"))

		_, err := Run(ctx, dir, "widget_v1", "dpx_widget_v2")
		var rerr *RenameError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 1, rerr.Renamed)
		assert.FileExists(t, filepath.Join(dir, "zzz_dpx_widget_v2.txt"))
	})
}

func TestEnsureBackupsDir(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("creates_empty_dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, EnsureBackupsDir(ctx, dir, "dpx_widget_v2"))

		info, err := os.Stat(filepath.Join(dir, "dpx_widget_v2-backups"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(filepath.Join(dir, "dpx_widget_v2-backups"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("pre_existing_dir_is_tolerated", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "dpx_widget_v2-backups"), 0755))
		require.NoError(t, EnsureBackupsDir(ctx, dir, "dpx_widget_v2"))
	})
}
