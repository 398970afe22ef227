package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	robotTicker     *RobotTicker
	readyOrderSweep *ReadyOrderSweepJob
}

func NewJobManager(robotTicker *RobotTicker, readyOrderSweep *ReadyOrderSweepJob) *JobManager {
	return &JobManager{
		robotTicker:     robotTicker,
		readyOrderSweep: readyOrderSweep,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	jm.robotTicker.Run()

	if err := jm.readyOrderSweep.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.robotTicker.Shutdown()
		return fmt.Errorf("failed to start ready order sweep job: %w", err)
	}

	return nil
}

// StopAll stops the sweep first, so it cannot arm new robot timers, then
// the robot ticker.
func (jm *JobManager) StopAll() {
	jm.readyOrderSweep.Stop()
	jm.robotTicker.Shutdown()
}
