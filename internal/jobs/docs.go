// Package jobs provides scheduled background tasks for the fleet.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. RobotTicker - one "@every <cadence>" entry per robot on a task; each run
// moves that robot one waypoint through the coordinator. It implements
// coordinator.Scheduler.
// 2. ReadyOrderSweepJob - retries assignment of ready orders that are still
// waiting for a robot.
//
// # Usage
//
//	ticker := jobs.NewRobotTicker(logger)
//	// ... build the coordinator with ticker as its scheduler
//	sweep := jobs.NewReadyOrderSweepJob(orderRepo, coord, "*/5 * * * * *", 20, logger)
//
//	jobManager := jobs.NewJobManager(ticker, sweep)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Ticks never overlap for one robot (SkipIfStillRunning)
// - Panics inside a tick are recovered and logged
// - The sweep stops early when no robot is available
package jobs
