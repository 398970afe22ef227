package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"robodelivery/internal/core/application/coordinator"
	"robodelivery/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

var _ coordinator.Scheduler = (*RobotTicker)(nil)

// RobotTicker keeps one cron entry per robot on a task. Each entry is
// wrapped in SkipIfStillRunning, so a slow tick delays the robot instead of
// running two steps at once.
type RobotTicker struct {
	cron    *cron.Cron
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	entries map[kernel.UUID]cron.EntryID
}

func NewRobotTicker(logger *slog.Logger) *RobotTicker {
	logger = logger.With("component", "robot_ticker")
	ctx, cancel := context.WithCancel(context.Background())
	return &RobotTicker{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithChain(cron.Recover(cronLogger{logger: logger})),
		),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[kernel.UUID]cron.EntryID),
	}
}

// Start arms the robot's timer, replacing any previous one. Cron schedules
// with whole-second resolution, so shorter intervals are rejected.
func (t *RobotTicker) Start(robotID kernel.UUID, every time.Duration, tick func(ctx context.Context)) error {
	if every < time.Second {
		return fmt.Errorf("robot tick interval %s is below one second", every)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.entries[robotID]; ok {
		t.cron.Remove(id)
	}

	skip := cron.SkipIfStillRunning(cronLogger{logger: t.logger.With("robot_id", robotID)})
	job := skip(cron.FuncJob(func() {
		tick(t.ctx)
	}))
	t.entries[robotID] = t.cron.Schedule(cron.Every(every), job)
	return nil
}

func (t *RobotTicker) Stop(robotID kernel.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.entries[robotID]; ok {
		t.cron.Remove(id)
		delete(t.entries, robotID)
	}
}

// StopAll disarms every timer. Ticks already running are not interrupted.
func (t *RobotTicker) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for robotID, id := range t.entries {
		t.cron.Remove(id)
		delete(t.entries, robotID)
	}
}

// Active returns the number of armed timers.
func (t *RobotTicker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Run starts the underlying cron scheduler.
func (t *RobotTicker) Run() {
	t.cron.Start()
	t.logger.Info("Robot ticker started")
}

// Shutdown disarms everything and waits for running ticks to return.
func (t *RobotTicker) Shutdown() {
	t.StopAll()
	t.cancel()
	<-t.cron.Stop().Done()
	t.logger.Info("Robot ticker stopped")
}
