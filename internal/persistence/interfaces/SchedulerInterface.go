package interfaces

import "dtrplay/internal/models"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// SnapshotStoreInterface is what the file manager persists.
type SnapshotStoreInterface interface {
	GetSnapshot() *models.Snapshot
	PutSnapshot(snap *models.Snapshot) error
}
