package persistence

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"dtrplay/internal/models"
	"dtrplay/internal/persistence/interfaces"
	"dtrplay/internal/providers"
	"dtrplay/internal/structures"

	json "github.com/goccy/go-json"
)

const coldFileName = "workspaces.cold.zst"

// ColdEntry is one workspace swept from memory.
type ColdEntry struct {
	Workspace *models.WorkspaceSnapshot `json:"workspace"`
	EvictedAt time.Time                 `json:"evicted_at"`
}

// ColdFile is the on-disk archive of swept workspaces.
type ColdFile struct {
	Entries map[string]*ColdEntry `json:"entries"`
}

// ColdStorage keeps swept workspaces on disk until coldTTL passes.
// Evict and Restore never touch the disk beyond one lazy read; Flush is
// the only writer.
type ColdStorage struct {
	mu         sync.RWMutex
	dir        string
	index      map[string]struct{}
	pending    map[string]*ColdEntry
	restored   map[string]struct{}
	loaded     *ColdFile
	coldTTL    time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewColdStorage(dir string, coldTTL time.Duration, compressor interfaces.CompressorInterface, logger providers.Logger) *ColdStorage {
	return &ColdStorage{
		dir:        dir,
		index:      make(map[string]struct{}),
		pending:    make(map[string]*ColdEntry),
		restored:   make(map[string]struct{}),
		coldTTL:    coldTTL,
		compressor: compressor,
		logger:     logger,
	}
}

// NewColdStorageProvider returns the archive used by session sweeps.
// With persistence off swept workspaces are simply dropped.
func NewColdStorageProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (models.ColdStorageInterface, error) {
	if !conf.Persistence.Enabled {
		return &noopColdStorage{}, nil
	}
	cs := NewColdStorage(conf.Persistence.ColdDir, conf.Persistence.ColdTTL, compressor, logger)
	if err := cs.RestoreIndex(); err != nil {
		return nil, err
	}
	return cs, nil
}

func (cs *ColdStorage) Has(id string) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	_, ok := cs.index[id]
	return ok
}

// Evict buffers a workspace for the next Flush.
func (cs *ColdStorage) Evict(id string, snap *models.WorkspaceSnapshot) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pending[id] = &ColdEntry{Workspace: snap, EvictedAt: time.Now()}
	cs.index[id] = struct{}{}
	delete(cs.restored, id)
}

// Restore takes a workspace out of the archive. The file itself is
// rewritten by the next Flush.
func (cs *ColdStorage) Restore(id string) (*models.WorkspaceSnapshot, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if entry, ok := cs.pending[id]; ok {
		delete(cs.pending, id)
		delete(cs.index, id)
		return entry.Workspace, nil
	}

	delete(cs.index, id)
	coldFile := cs.getOrLoadColdFile()
	if coldFile == nil {
		return nil, nil
	}
	entry, ok := coldFile.Entries[id]
	if !ok {
		return nil, nil
	}
	cs.restored[id] = struct{}{}
	return entry.Workspace, nil
}

// Flush merges pending evictions, applies restores and drops entries
// older than coldTTL.
func (cs *ColdStorage) Flush() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if len(cs.pending) == 0 && len(cs.restored) == 0 && len(cs.index) == 0 {
		return nil
	}

	coldFile := cs.getOrLoadColdFile()
	if coldFile == nil {
		coldFile = &ColdFile{Entries: make(map[string]*ColdEntry)}
	}
	for id := range cs.restored {
		delete(coldFile.Entries, id)
	}
	for id, entry := range cs.pending {
		coldFile.Entries[id] = entry
	}
	if cs.coldTTL > 0 {
		now := time.Now()
		for id, entry := range coldFile.Entries {
			if now.Sub(entry.EvictedAt) > cs.coldTTL {
				delete(coldFile.Entries, id)
				delete(cs.index, id)
			}
		}
	}

	if len(coldFile.Entries) > 0 {
		if err := cs.writeColdFile(coldFile); err != nil {
			return err
		}
		cs.loaded = coldFile
	} else {
		os.Remove(cs.coldFilePath())
		cs.loaded = nil
	}

	cs.pending = make(map[string]*ColdEntry)
	cs.restored = make(map[string]struct{})
	return nil
}

// RestoreIndex reads the archived ids once at startup.
func (cs *ColdStorage) RestoreIndex() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := os.MkdirAll(cs.dir, 0755); err != nil {
		return err
	}
	coldFile := cs.loadColdFileFromDisk()
	if coldFile == nil {
		return nil
	}
	for id := range coldFile.Entries {
		cs.index[id] = struct{}{}
	}
	return nil
}

func (cs *ColdStorage) Close() {
	cs.compressor.Close()
}

// getOrLoadColdFile must be called under cs.mu.Lock().
func (cs *ColdStorage) getOrLoadColdFile() *ColdFile {
	if cs.loaded != nil {
		return cs.loaded
	}
	cs.loaded = cs.loadColdFileFromDisk()
	return cs.loaded
}

func (cs *ColdStorage) loadColdFileFromDisk() *ColdFile {
	path := cs.coldFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			cs.logger.Errorf(providers.TypeApp, "Failed to read cold file %s: %s", path, err)
		}
		return nil
	}

	decompressed, err := cs.compressor.Decompress(data)
	if err != nil {
		cs.logger.Errorf(providers.TypeApp, "Failed to decompress cold file %s: %s", path, err)
		return nil
	}

	var cf ColdFile
	if err := json.Unmarshal(decompressed, &cf); err != nil {
		cs.logger.Errorf(providers.TypeApp, "Failed to parse cold file %s: %s", path, err)
		return nil
	}
	if cf.Entries == nil {
		cf.Entries = make(map[string]*ColdEntry)
	}
	return &cf
}

func (cs *ColdStorage) writeColdFile(cf *ColdFile) error {
	jsonData, err := json.Marshal(cf)
	if err != nil {
		return err
	}
	compressed, err := cs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return writeAtomic(cs.coldFilePath(), compressed)
}

func (cs *ColdStorage) coldFilePath() string {
	return filepath.Join(cs.dir, coldFileName)
}

type noopColdStorage struct{}

func (n *noopColdStorage) Has(_ string) bool                                   { return false }
func (n *noopColdStorage) Evict(_ string, _ *models.WorkspaceSnapshot)         {}
func (n *noopColdStorage) Restore(_ string) (*models.WorkspaceSnapshot, error) { return nil, nil }
func (n *noopColdStorage) Flush() error                                        { return nil }
func (n *noopColdStorage) Close()                                              {}
