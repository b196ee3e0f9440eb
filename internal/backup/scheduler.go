package backup

import (
	"context"
	"sync"
	"time"

	"acctrack/internal/backup/interfaces"
	"acctrack/internal/providers"
	"acctrack/internal/services"
	"acctrack/internal/structures"

	"github.com/roylee0704/gron"
)

const jobTimeout = 30 * time.Second

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.AccountServiceInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) sweep() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.service.Sweep(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while sweeping accounts: %s", err)
		return
	}
	if report.Changed() {
		s.logger.Infof(providers.TypeApp, "Sweep done: total=%d aged=%d reset=%d", report.Total, report.Aged, report.Reset)
		return
	}
	s.logger.Debugf(providers.TypeApp, "Sweep done: total=%d, nothing changed", report.Total)
}

func (s *Scheduler) save() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.fileManager.SaveToFile(ctx, s.config.Backup.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Backed up %d accounts to file %s", n, s.config.Backup.FilePath)
	return nil
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Lifecycle.SweepInterval), s.sweep)

	if s.config.Backup.Enabled {
		s.cron.AddFunc(gron.Every(s.config.Backup.Interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()
			_ = s.save()
		})
	}

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Scheduler started: sweep every %s, backup enabled=%t",
		s.config.Lifecycle.SweepInterval, s.config.Backup.Enabled)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore seeds an empty store from the backup file, then runs one sweep.
func (s *Scheduler) Restore() error {
	if s.config.Backup.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.fileManager.LoadFromFile(ctx, s.config.Backup.FilePath); err != nil {
			return err
		}
	}
	s.sweep()
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.config.Backup.Enabled {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Writing final backup...")
	return s.save()
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.AccountServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
	}
}
