package leaderboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixd/internal/models"
	"mixd/internal/structures"
	"mixd/internal/testutil"
)

func backupConfig(dir string, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Backup: structures.BackupConfig{
			Enabled:  true,
			Dir:      dir,
			Interval: time.Minute,
			TTL:      ttl,
		},
	}
}

func newTestBackup(t *testing.T, ttl time.Duration) (*BackupManager, string, *testutil.MockLogger) {
	t.Helper()
	dir := t.TempDir()
	logger := &testutil.MockLogger{}
	return NewBackupManager(backupConfig(dir, ttl), &testutil.MockCompressor{}, logger), dir, logger
}

func TestBackupManager_BackupWritesSnapshot(t *testing.T) {
	b, dir, _ := newTestBackup(t, time.Hour)

	fileName, err := b.Backup([]models.Combo{{ID: "c1", Name: "Snap", Votes: 3, CreatedAt: "2024-01-01T00:00:00.000000Z"}})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(fileName))
	assert.Contains(t, filepath.Base(fileName), backupPrefix)
	assert.Contains(t, fileName, backupSuffix)
	assert.NoFileExists(t, fileName+".tmp")

	info, err := os.Stat(fileName)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestBackupManager_BackupCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	logger := &testutil.MockLogger{}
	b := NewBackupManager(backupConfig(dir, time.Hour), &testutil.MockCompressor{}, logger)

	_, err := b.Backup(nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestBackupManager_RestoreRoundTrip(t *testing.T) {
	b, _, _ := newTestBackup(t, time.Hour)
	combos := []models.Combo{
		{ID: "c1", Name: "First", Votes: 2, CreatedAt: "2024-01-01T00:00:01.000000Z"},
		{ID: "c2", Name: "Second", Votes: 0, CreatedAt: "2024-01-01T00:00:02.000000Z", LastVotedAt: "2024-02-01T00:00:00.000000Z"},
	}

	fileName, err := b.Backup(combos)
	require.NoError(t, err)

	restored, err := b.Restore(fileName)
	require.NoError(t, err)
	assert.Equal(t, combos, restored)
}

func TestBackupManager_RestoreWithRealCompressor(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	logger := &testutil.MockLogger{}
	b := NewBackupManager(backupConfig(t.TempDir(), time.Hour), compressor, logger)
	combos := []models.Combo{{ID: "c1", Name: "Zstd", Votes: 1, CreatedAt: "2024-01-01T00:00:00.000000Z"}}

	fileName, err := b.Backup(combos)
	require.NoError(t, err)

	restored, err := b.Restore(fileName)
	require.NoError(t, err)
	assert.Equal(t, combos, restored)
}

func TestBackupManager_RestoreMissingFile(t *testing.T) {
	b, dir, _ := newTestBackup(t, time.Hour)

	_, err := b.Restore(filepath.Join(dir, "combos-19700101T000000Z.json.zst"))
	assert.Error(t, err)
}

func TestBackupManager_PruneRemovesExpiredOnly(t *testing.T) {
	b, dir, _ := newTestBackup(t, time.Hour)

	fresh, err := b.Backup(nil)
	require.NoError(t, err)

	stale := filepath.Join(dir, backupPrefix+"20200101T000000Z"+backupSuffix)
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	// Foreign files never get pruned, no matter how old.
	foreign := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))
	require.NoError(t, os.Chtimes(foreign, old, old))

	removed := b.Prune()

	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
}

func TestBackupManager_PruneDisabledWithoutTTL(t *testing.T) {
	b, dir, _ := newTestBackup(t, 0)

	stale := filepath.Join(dir, backupPrefix+"20200101T000000Z"+backupSuffix)
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	assert.Equal(t, 0, b.Prune())
	assert.FileExists(t, stale)
}

func TestBackupManager_PruneMissingDirIsQuiet(t *testing.T) {
	logger := &testutil.MockLogger{}
	b := NewBackupManager(backupConfig(filepath.Join(t.TempDir(), "absent"), time.Hour), &testutil.MockCompressor{}, logger)

	assert.Equal(t, 0, b.Prune())
	assert.Empty(t, logger.Logs)
}
