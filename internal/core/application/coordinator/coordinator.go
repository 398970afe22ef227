// Package coordinator drives robot tasks end to end: it triggers
// assignment, owns one progress timer per robot on a task, hands arrivals
// and returns to the matching commands and publishes every resulting event
// once the change is committed.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/pkg/errs"
)

// Scheduler runs one periodic tick per robot. Start replaces any timer the
// robot already has; a stopped timer never fires again, although a tick that
// is already running is allowed to finish.
type Scheduler interface {
	Start(robotID kernel.UUID, every time.Duration, tick func(ctx context.Context)) error
	Stop(robotID kernel.UUID)
	StopAll()
}

type (
	AssignHandler interface {
		Handle(ctx context.Context, cmd commands.AssignRobotCommand) (commands.AssignRobotResult, error)
	}
	AdvanceHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceRobotCommand) (commands.AdvanceRobotResult, error)
	}
	CompleteDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) (commands.CompleteDeliveryResult, error)
	}
	CompleteReturnHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteReturnCommand) (commands.CompleteReturnResult, error)
	}
	EmergencyStopHandler interface {
		Handle(ctx context.Context, cmd commands.EmergencyStopCommand) (commands.EmergencyStopResult, error)
	}
	// RobotLister finds robots with unfinished tasks on Resume.
	RobotLister interface {
		GetAllInStatus(ctx context.Context, statuses ...robot.Status) ([]*robot.Robot, error)
	}
)

// Handlers bundles the commands the coordinator drives.
type Handlers struct {
	Assign           AssignHandler
	Advance          AdvanceHandler
	CompleteDelivery CompleteDeliveryHandler
	CompleteReturn   CompleteReturnHandler
	EmergencyStop    EmergencyStopHandler
}

// Cadence is the time between two waypoint steps of a robot.
type Cadence struct {
	Outbound time.Duration
	Return   time.Duration
}

// publishTimeout bounds a single delivery of an event to one topic.
const publishTimeout = 2 * time.Second

// Coordinator is safe for concurrent use.
//
// Assignments and ticks share the gate for reading; an emergency stop takes
// it exclusively. Events are queued while the gate is held and published
// after it is released, in queue order, so the stop event always follows
// the positions of ticks that ran before it and nothing the stop cancelled.
type Coordinator struct {
	handlers  Handlers
	robots    RobotLister
	scheduler Scheduler
	publisher ports.EventPublisher
	cadence   Cadence
	logger    *slog.Logger

	gate sync.RWMutex

	outMu    sync.Mutex
	pending  []events.Event
	draining bool
}

func New(
	handlers Handlers,
	robots RobotLister,
	scheduler Scheduler,
	publisher ports.EventPublisher,
	cadence Cadence,
	logger *slog.Logger,
) (*Coordinator, error) {
	var problems []error
	if cadence.Outbound <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("outbound cadence"))
	}
	if cadence.Return <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("return cadence"))
	}
	if scheduler == nil {
		problems = append(problems, errs.NewValueIsRequiredError("scheduler"))
	}
	if publisher == nil {
		problems = append(problems, errs.NewValueIsRequiredError("publisher"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Coordinator{
		handlers:  handlers,
		robots:    robots,
		scheduler: scheduler,
		publisher: publisher,
		cadence:   cadence,
		logger:    logger.With("component", "coordinator"),
	}, nil
}

// Assign tries to give a ready order to an idle robot and, on success,
// starts that robot's outbound timer. NoAvailableRobot, RouteNotFound and
// the other non-assigned outcomes are returned in the result; the order
// stays as it was and can be retried.
func (c *Coordinator) Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error) {
	cmd, err := commands.NewAssignRobotCommand(orderID)
	if err != nil {
		return commands.AssignRobotResult{}, err
	}

	defer c.flush(ctx)
	c.gate.RLock()
	defer c.gate.RUnlock()

	result, err := c.handlers.Assign.Handle(ctx, cmd)
	if err != nil {
		c.logger.ErrorContext(ctx, "assignment failed", "order_id", orderID, "error", err)
		return commands.AssignRobotResult{}, err
	}

	if result.Outcome != commands.Assigned {
		c.logger.InfoContext(ctx, "order not assigned", "order_id", orderID, "outcome", result.Outcome)
		return result, nil
	}

	c.logger.InfoContext(ctx, "order assigned",
		"order_id", orderID, "robot_id", result.RobotID, "waypoints", result.Route.Len())
	c.enqueue(result.Events)
	c.startTimer(ctx, result.RobotID, orderID, c.cadence.Outbound)
	return result, nil
}

// Tick moves one robot one waypoint and reacts to the end of its route,
// whatever task the robot is on.
func (c *Coordinator) Tick(ctx context.Context, robotID kernel.UUID) error {
	cmd, err := commands.NewAdvanceRobotCommand(robotID)
	if err != nil {
		return err
	}

	defer c.flush(ctx)
	c.gate.RLock()
	defer c.gate.RUnlock()
	return c.tick(ctx, cmd)
}

// EmergencyStopAll cancels every timer, then stops every robot on a task
// where it stands. One fleet-wide event is published.
func (c *Coordinator) EmergencyStopAll(ctx context.Context) (commands.EmergencyStopResult, error) {
	defer c.flush(ctx)
	c.gate.Lock()
	defer c.gate.Unlock()

	c.scheduler.StopAll()

	result, err := c.handlers.EmergencyStop.Handle(ctx, commands.NewEmergencyStopCommand())
	if err != nil {
		c.logger.ErrorContext(ctx, "emergency stop failed", "error", err)
		return commands.EmergencyStopResult{}, err
	}

	c.logger.WarnContext(ctx, "emergency stop", "stopped", len(result.Stopped))
	c.enqueue(result.Events)
	return result, nil
}

// Resume picks up tasks persisted by an earlier process: moving robots get
// their timers back and robots that arrived but were not handled are
// finished.
func (c *Coordinator) Resume(ctx context.Context) error {
	defer c.flush(ctx)
	c.gate.RLock()
	defer c.gate.RUnlock()

	robots, err := c.robots.GetAllInStatus(ctx, robot.Navigating, robot.Delivering, robot.Returning)
	if err != nil {
		return err
	}

	for _, r := range robots {
		if r.OrderID() == nil {
			c.logger.WarnContext(ctx, "robot on a task without an order", "robot_id", r.ID(), "status", r.Status())
			continue
		}
		orderID := *r.OrderID()

		switch r.Status() {
		case robot.Navigating:
			c.startTimer(ctx, r.ID(), orderID, c.cadence.Outbound)
		case robot.Returning:
			c.startTimer(ctx, r.ID(), orderID, c.cadence.Return)
		case robot.Delivering:
			if err = c.arrive(ctx, r.ID()); err != nil {
				c.retry(ctx, r.ID(), orderID, c.cadence.Outbound, err)
			}
		}
	}

	c.logger.InfoContext(ctx, "resumed robot tasks", "robots", len(robots))
	return nil
}

// tickTask is what a robot's timer runs. It does nothing once the robot has
// left the task the timer was started for.
func (c *Coordinator) tickTask(ctx context.Context, robotID, orderID kernel.UUID) error {
	cmd, err := commands.NewAdvanceRobotTaskCommand(robotID, orderID)
	if err != nil {
		return err
	}

	defer c.flush(ctx)
	c.gate.RLock()
	defer c.gate.RUnlock()
	return c.tick(ctx, cmd)
}

func (c *Coordinator) tick(ctx context.Context, cmd commands.AdvanceRobotCommand) error {
	robotID := cmd.RobotID()

	result, err := c.handlers.Advance.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			c.scheduler.Stop(robotID)
		}
		c.logger.ErrorContext(ctx, "tick failed", "robot_id", robotID, "error", err)
		return err
	}

	c.enqueue(result.Events)

	switch result.Outcome {
	case commands.Moved:
	case commands.Stale:
		c.logger.DebugContext(ctx, "tick of a finished task ignored", "robot_id", robotID)
	case commands.Skipped:
		c.scheduler.Stop(robotID)
		c.logger.DebugContext(ctx, "tick skipped, timer stopped", "robot_id", robotID)
	case commands.ReachedDestination:
		c.scheduler.Stop(robotID)
		if err = c.arrive(ctx, robotID); err != nil && result.OrderID != nil {
			c.retry(ctx, robotID, *result.OrderID, c.cadence.Outbound, err)
		}
		return err
	case commands.ReachedDepot:
		c.scheduler.Stop(robotID)
		if err = c.returned(ctx, robotID); err != nil && result.OrderID != nil {
			c.retry(ctx, robotID, *result.OrderID, c.cadence.Return, err)
		}
		return err
	}
	return nil
}

// arrive delivers the order and starts the return leg. A robot that cannot
// be routed home stays where it is; the route_failed event tells operators.
func (c *Coordinator) arrive(ctx context.Context, robotID kernel.UUID) error {
	cmd, err := commands.NewCompleteDeliveryCommand(robotID)
	if err != nil {
		return err
	}

	result, err := c.handlers.CompleteDelivery.Handle(ctx, cmd)
	if err != nil {
		c.logger.ErrorContext(ctx, "arrival handling failed", "robot_id", robotID, "error", err)
		return err
	}

	c.enqueue(result.Events)

	switch result.Outcome {
	case commands.ReturnStarted:
		c.logger.InfoContext(ctx, "order delivered", "robot_id", robotID, "order_id", result.OrderID)
		c.startTimer(ctx, robotID, result.OrderID, c.cadence.Return)
	case commands.Stranded:
		c.logger.WarnContext(ctx, "no route back to depot",
			"robot_id", robotID, "order_id", result.OrderID)
	case commands.NotArrived:
		c.logger.DebugContext(ctx, "arrival ignored", "robot_id", robotID)
	}
	return nil
}

func (c *Coordinator) returned(ctx context.Context, robotID kernel.UUID) error {
	cmd, err := commands.NewCompleteReturnCommand(robotID)
	if err != nil {
		return err
	}

	result, err := c.handlers.CompleteReturn.Handle(ctx, cmd)
	if err != nil {
		c.logger.ErrorContext(ctx, "return handling failed", "robot_id", robotID, "error", err)
		return err
	}

	c.enqueue(result.Events)
	if result.Parked {
		c.logger.InfoContext(ctx, "robot parked", "robot_id", robotID)
	}
	return nil
}

// retry puts the robot's timer back so the step that failed runs again on
// the next tick. A robot or order that no longer exists is not retried.
func (c *Coordinator) retry(ctx context.Context, robotID, orderID kernel.UUID, every time.Duration, cause error) {
	if errors.Is(cause, errs.ErrObjectNotFound) {
		c.logger.ErrorContext(ctx, "task abandoned", "robot_id", robotID, "order_id", orderID, "error", cause)
		return
	}
	c.startTimer(ctx, robotID, orderID, every)
}

func (c *Coordinator) startTimer(ctx context.Context, robotID, orderID kernel.UUID, every time.Duration) {
	err := c.scheduler.Start(robotID, every, func(ctx context.Context) {
		_ = c.tickTask(ctx, robotID, orderID)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to start robot timer", "robot_id", robotID, "error", err)
	}
}

func (c *Coordinator) enqueue(evs []events.Event) {
	if len(evs) == 0 {
		return
	}
	c.outMu.Lock()
	c.pending = append(c.pending, evs...)
	c.outMu.Unlock()
}

// flush publishes queued events in order. Only one caller drains at a time;
// the others return at once and their events go out with the current drain.
func (c *Coordinator) flush(ctx context.Context) {
	c.outMu.Lock()
	if c.draining {
		c.outMu.Unlock()
		return
	}
	c.draining = true

	for len(c.pending) > 0 {
		batch := c.pending
		c.pending = nil
		c.outMu.Unlock()

		for _, ev := range batch {
			c.publish(ctx, ev)
		}

		c.outMu.Lock()
	}

	c.draining = false
	c.outMu.Unlock()
}

// publish sends the event to every audience it belongs to. The state change
// is already committed, so failures are only logged.
func (c *Coordinator) publish(ctx context.Context, ev events.Event) {
	ctx = context.WithoutCancel(ctx)
	for _, topic := range ev.Topics() {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := c.publisher.Publish(pubCtx, topic, ev)
		cancel()
		if err != nil {
			c.logger.WarnContext(ctx, "failed to publish event",
				"event", ev.Name, "topic", topic, "robot_id", ev.RobotID, "error", err)
		}
	}
}
