package services

import (
	"sync"
	"time"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/providers"
	"dtrplay/internal/structures"

	"github.com/google/uuid"
)

type SessionServiceInterface interface {
	// Acquire returns the workspace for id, creating one under a fresh id
	// when id is unknown. The returned id is the one to set on the cookie.
	Acquire(id string) (string, *Workspace)
	Get(id string) (*Workspace, bool)
	Count() int
	Sweep(now time.Time) int
	GetSnapshot() *models.Snapshot
	PutSnapshot(snap *models.Snapshot) error
}

type SessionService struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	idleTTL    time.Duration

	cold    models.ColdStorageInterface
	client  classifier.ClassifierInterface
	notices providers.NoticeProviderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewSessionService(conf *structures.Config, cold models.ColdStorageInterface, client classifier.ClassifierInterface, notices providers.NoticeProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SessionServiceInterface {
	s := &SessionService{
		workspaces: make(map[string]*Workspace),
		idleTTL:    conf.Session.IdleTTL,
		cold:       cold,
		client:     client,
		notices:    notices,
		logger:     logger,
		metrics:    metrics,
	}
	metrics.TrackWorkspaces(s)
	return s
}

func (s *SessionService) newWorkspace(id string) *Workspace {
	return NewWorkspace(id, s.client, s.notices, s.logger, s.metrics)
}

// The lookup and the touch happen under s.mu so Sweep never evicts a
// workspace that was just handed out.
func (s *SessionService) Acquire(id string) (string, *Workspace) {
	now := time.Now()
	if id != "" {
		s.mu.RLock()
		ws, ok := s.workspaces[id]
		if ok {
			ws.touch(now)
		}
		s.mu.RUnlock()
		if ok {
			return id, ws
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	} else if ws, ok := s.workspaces[id]; ok {
		// Another request for the same id got here first.
		ws.touch(now)
		return id, ws
	}
	ws := s.newWorkspace(id)
	if s.cold.Has(id) {
		s.thaw(ws)
	}
	ws.touch(now)
	s.workspaces[id] = ws
	s.logger.Debugf(providers.TypeApp, "workspace %s created", id)
	return id, ws
}

// thaw refills ws from the cold archive. Callers hold s.mu.
func (s *SessionService) thaw(ws *Workspace) {
	data, err := s.cold.Restore(ws.ID())
	if err != nil || data == nil {
		return
	}
	ws.restore(data)
	s.logger.Infof(providers.TypeApp, "workspace %s restored from cold storage", ws.ID())
}

func (s *SessionService) Get(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	return ws, ok
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// Sweep moves workspaces idle for longer than the configured TTL to the
// cold archive and returns how many were evicted. A workspace with an
// operation in flight is never idle.
func (s *SessionService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, ws := range s.workspaces {
		if ws.Idle(now, s.idleTTL) {
			s.cold.Evict(id, ws.Export())
			delete(s.workspaces, id)
			s.notices.Dismiss(id)
			evicted++
		}
	}
	return evicted
}

func (s *SessionService) GetSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &models.Snapshot{
		Version:    models.SnapshotVersion,
		Workspaces: make(map[string]*models.WorkspaceSnapshot, len(s.workspaces)),
	}
	for id, ws := range s.workspaces {
		snap.Workspaces[id] = ws.Export()
	}
	return snap
}

// PutSnapshot restores persisted workspaces as they were saved.
func (s *SessionService) PutSnapshot(snap *models.Snapshot) error {
	if snap == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, data := range snap.Workspaces {
		if data == nil {
			continue
		}
		ws := s.newWorkspace(id)
		ws.restore(data)
		s.workspaces[id] = ws
	}
	return nil
}
