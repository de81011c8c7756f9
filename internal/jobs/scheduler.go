package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Task is a unit of periodic background work. Run returns a payload that is
// recorded alongside the run's metadata.
type Task interface {
	Name() string
	Run(ctx context.Context) (map[string]interface{}, error)
}

// Result records a completed task run.
type Result struct {
	TaskID    string                 `json:"task_id"`
	TaskName  string                 `json:"task_name"`
	Timestamp time.Time              `json:"timestamp"`
	Status    string                 `json:"status"`
	Duration  time.Duration          `json:"duration"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type entry struct {
	task     Task
	interval time.Duration
}

// Scheduler runs registered tasks on fixed intervals and records their
// results. Each task gets its own goroutine; a run fires immediately on
// start and then on every tick.
type Scheduler struct {
	store   *ResultStore
	logger  zerolog.Logger
	entries []entry

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler writing results to store.
func NewScheduler(store *ResultStore, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Register adds a task to run at the given interval. Must be called before
// Start.
func (s *Scheduler) Register(task Task, interval time.Duration) {
	s.entries = append(s.entries, entry{task: task, interval: interval})
}

// Start launches all registered tasks and returns immediately.
func (s *Scheduler) Start() {
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.runLoop(e)
	}

	s.logger.Info().Int("tasks", len(s.entries)).Msg("background job scheduler started")
}

// Stop terminates all task loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()

	s.logger.Info().Msg("background job scheduler stopped")
}

func (s *Scheduler) runLoop(e entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	s.runTask(e.task)

	for {
		select {
		case <-ticker.C:
			s.runTask(e.task)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) runTask(task Task) {
	result := Result{
		TaskID:    uuid.NewString(),
		TaskName:  task.Name(),
		Timestamp: time.Now().UTC(),
		Status:    StatusSuccess,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	data, err := task.Run(ctx)
	result.Duration = time.Since(start)
	result.Data = data

	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		s.logger.Error().
			Err(err).
			Str("task", task.Name()).
			Str("task_id", result.TaskID).
			Msg("background task failed")
	} else {
		s.logger.Info().
			Str("task", task.Name()).
			Str("task_id", result.TaskID).
			Dur("duration", result.Duration).
			Msg("background task completed")
	}

	if s.store != nil {
		if err := s.store.Save(ctx, result); err != nil {
			s.logger.Warn().
				Err(err).
				Str("task", task.Name()).
				Msg("failed to store task result")
		}
	}
}
