package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"dtrplay/internal/models"
	"dtrplay/internal/persistence/interfaces"
	"dtrplay/internal/providers"

	json "github.com/goccy/go-json"
)

type FileManager struct {
	store      interfaces.SnapshotStoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store interfaces.SnapshotStoreInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

// SaveToFile writes the workspace snapshot through a temp file so a
// crash never leaves a truncated snapshot behind.
func (f *FileManager) SaveToFile(fileName string) error {
	snap := f.store.GetSnapshot()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return writeAtomic(fileName, data)
}

func writeAtomic(fileName string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
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

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a snapshot written by SaveToFile. A missing file
// is not an error: the service simply starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		return err
	}
	if snap.Version != models.SnapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot version %d is not supported, starting empty", snap.Version)
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	f.logger.Infof(providers.TypeApp, "Restoring %d workspaces from %s", len(snap.Workspaces), fileName)
	return f.store.PutSnapshot(&snap)
}
