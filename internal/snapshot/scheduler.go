package snapshot

import (
	"sync"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"nicks/internal/providers"
	"nicks/internal/structures"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Persist() error
}

// Scheduler exports the store every snapshot.interval while serving and
// once more on shutdown. A zero interval or an empty snapshot.filePath
// disables it.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	manager   ManagerInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
	exporting atomic.Bool
}

func (s *Scheduler) enabled() bool {
	return s.config.Snapshot.FilePath != ""
}

func (s *Scheduler) Init() {
	if !s.enabled() || s.config.Snapshot.Interval <= 0 {
		return
	}
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Snapshot.Interval), func() {
		if !s.exporting.CompareAndSwap(false, true) {
			s.logger.Warnf(providers.TypeStore, "Previous snapshot still running, skipping tick")
			return
		}
		defer s.exporting.Store(false)

		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if _, err := s.manager.Export(s.config.Snapshot.FilePath); err != nil {
			s.logger.Errorf(providers.TypeStore, "Error while exporting snapshot: %s", err)
		}
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Persist() error {
	if !s.enabled() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStore, "Writing final snapshot...")
	if _, err := s.manager.Export(s.config.Snapshot.FilePath); err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while exporting snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, manager ManagerInterface) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		manager: manager,
	}
}
