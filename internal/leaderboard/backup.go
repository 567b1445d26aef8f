package leaderboard

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"mixd/internal/leaderboard/interfaces"
	"mixd/internal/models"
	"mixd/internal/providers"
	"mixd/internal/structures"
)

const (
	backupPrefix = "combos-"
	backupSuffix = ".json.zst"
	backupStamp  = "20060102T150405Z"
)

// BackupManager writes zstd-compressed snapshots of the combo collection
// into a backup directory and prunes snapshots past their retention TTL.
// Snapshots use the same temp-file + rename protocol as the main store, so
// a crash mid-backup never leaves a truncated archive behind.
type BackupManager struct {
	dir        string
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewBackupManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *BackupManager {
	return &BackupManager{
		dir:        conf.Backup.Dir,
		ttl:        conf.Backup.TTL,
		compressor: compressor,
		logger:     logger,
	}
}

// Backup writes one compressed snapshot of combos. The file name carries a
// UTC timestamp so successive snapshots never collide.
func (b *BackupManager) Backup(combos []models.Combo) (string, error) {
	if combos == nil {
		combos = []models.Combo{}
	}
	jsonData, err := json.Marshal(combos)
	if err != nil {
		return "", err
	}
	data, err := b.compressor.Compress(jsonData)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}

	fileName := filepath.Join(b.dir, backupPrefix+time.Now().UTC().Format(backupStamp)+backupSuffix)
	tmpFile := fileName + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return "", err
	}
	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return "", err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return "", err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return "", err
	}
	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return "", err
	}
	return fileName, nil
}

// Restore decompresses a snapshot file back into a combo collection.
func (b *BackupManager) Restore(fileName string) ([]models.Combo, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	jsonData, err := b.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}
	var combos []models.Combo
	if err := json.Unmarshal(jsonData, &combos); err != nil {
		return nil, err
	}
	return combos, nil
}

// Prune removes snapshots older than the retention TTL and returns how
// many were deleted. Foreign files in the backup directory are left alone.
func (b *BackupManager) Prune() int {
	if b.ttl <= 0 {
		return 0
	}
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Errorf(providers.TypeApp, "Failed to read backup dir %s: %s", b.dir, err)
		}
		return 0
	}

	cutoff := time.Now().Add(-b.ttl)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			b.logger.Warnf(providers.TypeApp, "Failed to prune backup %s: %s", name, err)
			continue
		}
		removed++
	}
	return removed
}

func (b *BackupManager) Close() {
	b.compressor.Close()
}
