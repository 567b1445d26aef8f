package leaderboard

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"mixd/internal/models"
	"mixd/internal/providers"
)

// FileManager owns the on-disk combo collection: a single JSON file holding
// a top-level array of combo objects. Reads never fail to the caller — a
// missing file is an empty collection and a malformed one is logged and
// treated as empty. Writes go through a temp file and an atomic rename so
// a concurrent reader sees either the old file or the new one, never a
// partial write.
type FileManager struct {
	logger providers.Logger
}

func NewFileManager(logger providers.Logger) *FileManager {
	return &FileManager{logger: logger}
}

func (f *FileManager) Load(fileName string) []models.Combo {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Errorf(providers.TypeApp, "Failed reading combo store %s: %s", fileName, err)
		}
		return nil
	}

	var combos []models.Combo
	if err := json.Unmarshal(data, &combos); err != nil {
		f.logger.Warnf(providers.TypeApp, "Failed to parse JSON from %s: %s", fileName, err)
		return nil
	}
	return combos
}

func (f *FileManager) Save(fileName string, combos []models.Combo) error {
	if combos == nil {
		combos = []models.Combo{}
	}
	data, err := json.Marshal(combos)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}
