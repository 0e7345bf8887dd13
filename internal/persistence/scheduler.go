package persistence

import (
	"sync"
	"time"

	"dtrplay/internal/models"
	"dtrplay/internal/persistence/interfaces"
	"dtrplay/internal/providers"
	"dtrplay/internal/services"
	"dtrplay/internal/structures"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	sessions    services.SessionServiceInterface
	fileManager *FileManager
	cold        models.ColdStorageInterface
	cron        *cron.Cron
	opsMu       sync.Mutex
}

// Init schedules the snapshot job (when persistence is on) and the idle
// session sweep, then starts the cron runner.
func (s *Scheduler) Init() {
	s.cron = cron.New()

	if s.config.Persistence.Enabled {
		s.cron.Schedule(cron.Every(s.config.Persistence.SaveInterval), cron.FuncJob(func() {
			if err := s.Persist(); err == nil {
				s.logger.Debugf(providers.TypeApp, "Persisted workspaces to file %s", s.config.Persistence.FilePath)
			}
		}))
	}

	s.cron.Schedule(cron.Every(s.config.Session.SweepInterval), cron.FuncJob(s.sweep))

	s.cron.Start()
}

func (s *Scheduler) sweep() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if evicted := s.sessions.Sweep(time.Now()); evicted > 0 {
		s.logger.Infof(providers.TypeApp, "Evicted %d idle workspaces", evicted)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) Restore() error {
	if !s.config.Persistence.Enabled {
		return nil
	}
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

// Persist writes the live snapshot and flushes the cold archive.
func (s *Scheduler) Persist() error {
	if !s.config.Persistence.Enabled {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	defer func() { s.metrics.ObservePersistenceDuration(time.Since(start)) }()

	if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	if err := s.cold.Flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing cold storage: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, sessions services.SessionServiceInterface, fileManager *FileManager, cold models.ColdStorageInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		sessions:    sessions,
		fileManager: fileManager,
		cold:        cold,
	}
}
