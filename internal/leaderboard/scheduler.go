package leaderboard

import (
	"sync"
	"time"

	"mixd/internal/leaderboard/interfaces"
	"mixd/internal/providers"
	"mixd/internal/structures"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   *Store
	backup  *BackupManager
	metrics providers.MetricsProviderInterface

	opsMu  sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *Store, backup *BackupManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		backup:  backup,
		metrics: metrics,
	}
}

func (s *Scheduler) Init() {
	if !s.config.Backup.Enabled || s.config.Backup.Interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Backups disabled")
		return
	}

	s.ticker = time.NewTicker(s.config.Backup.Interval)
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.runBackup()
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
}

// Restore validates the store file at startup. A missing or malformed file
// is not fatal — the store treats it as an empty collection.
func (s *Scheduler) Restore() error {
	combos := s.store.Snapshot()
	s.logger.Infof(providers.TypeApp, "Combo store loaded: %d records, %d total votes", len(combos), s.store.TotalVotes())
	return nil
}

// Persist takes a final snapshot on shutdown.
func (s *Scheduler) Persist() error {
	if !s.config.Backup.Enabled {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Backing up combo store...")
	fileName, err := s.backup.Backup(s.store.Snapshot())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while backing up combo store: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Backed up combo store to %s", fileName)
	return nil
}

func (s *Scheduler) runBackup() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	fileName, err := s.backup.Backup(s.store.Snapshot())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while backing up combo store: %s", err)
		return
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.logger.Infof(providers.TypeApp, "Backed up combo store to %s", fileName)

	if removed := s.backup.Prune(); removed > 0 {
		s.logger.Infof(providers.TypeApp, "Pruned %d expired backups", removed)
	}
}
