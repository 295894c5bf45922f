package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job represents a scheduled background job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

// New creates a new scheduler. Schedules use the standard 5-field cron
// format plus descriptors like "@daily".
func New(log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Infof("Scheduler stopped")
}

// AddJob registers a job with a cron schedule
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.log.Errorf("Job %s failed: %v", job.Name(), err)
		}
	})

	if err != nil {
		return err
	}

	s.log.Infof("Job %s registered with schedule %s", job.Name(), schedule)
	return nil
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	s.log.Infof("Running job %s immediately", job.Name())
	return job.Run()
}
