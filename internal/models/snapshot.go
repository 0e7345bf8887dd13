package models

import "time"

const SnapshotVersion = 1

// WorkspaceSnapshot is the persisted part of a workspace. Labels are
// transient and never written.
type WorkspaceSnapshot struct {
	Records   []string   `json:"records"`
	Schedules []Schedule `json:"schedules"`
	LastSeen  time.Time  `json:"last_seen"`
}

type Snapshot struct {
	Version    int                           `json:"version"`
	Workspaces map[string]*WorkspaceSnapshot `json:"workspaces"`
}

// ColdStorageInterface archives workspaces swept from memory so a
// returning session finds its records again.
type ColdStorageInterface interface {
	Has(id string) bool
	Evict(id string, snap *WorkspaceSnapshot)
	Restore(id string) (*WorkspaceSnapshot, error)
	Flush() error
	Close()
}
