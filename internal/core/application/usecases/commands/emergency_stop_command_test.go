package commands_test

import (
	"errors"
	"testing"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var onTaskStatuses = []robot.Status{robot.Navigating, robot.Delivering, robot.Returning}

func TestEmergencyStopCommandHandler_Handle_StopsRobotsOnTask(t *testing.T) {
	ctx := t.Context()
	navigating, o := onTask(t, mustRoute(t, pos(t, 0, 0), pos(t, 2, 0), pos(t, 4, 4)))
	_, err := navigating.Advance()
	require.NoError(t, err)
	returning := returningRobot(t, pos(t, 4, 4), pos(t, 0, 0), 0)

	robotRepo := new(MockRobotRepository)
	uow := new(MockUoW)
	factory := new(MockRobotUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RobotRepository").Return(robotRepo).Once(),
		robotRepo.On("GetAllInStatus", ctx, onTaskStatuses).
			Return([]*robot.Robot{navigating, returning}, nil).Once(),
		robotRepo.On("Get", ctx, navigating.ID()).Return(navigating, nil).Once(),
		robotRepo.On("Update", ctx, navigating).Return(nil).Once(),
		robotRepo.On("Get", ctx, returning.ID()).Return(returning, nil).Once(),
		robotRepo.On("Update", ctx, returning).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewEmergencyStopCommandHandler(factory, commands.NewRobotLocks(), clock)
	result, err := h.Handle(ctx, commands.NewEmergencyStopCommand())
	require.NoError(t, err)

	assert.Equal(t, []kernel.UUID{navigating.ID(), returning.ID()}, result.Stopped)
	require.Len(t, result.Events, 1)
	assert.Equal(t, events.RobotEmergencyStop, result.Events[0].Name)
	assert.Len(t, result.Events[0].RobotIDs, 2)

	for _, r := range []*robot.Robot{navigating, returning} {
		assert.Equal(t, robot.Idle, r.Status())
		assert.Nil(t, r.OrderID())
		assert.True(t, r.Route().IsEmpty())
	}
	assert.Equal(t, pos(t, 2, 0), navigating.Position(), "robot stays where it stopped")
	require.NotNil(t, o.Robot(), "orders are left for operators")

	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	robotRepo.AssertExpectations(t)
}

func TestEmergencyStopCommandHandler_Handle_NothingMoving(t *testing.T) {
	ctx := t.Context()

	robotRepo := new(MockRobotRepository)
	uow := new(MockUoW)
	factory := new(MockRobotUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RobotRepository").Return(robotRepo).Once()
	robotRepo.On("GetAllInStatus", ctx, onTaskStatuses).Return([]*robot.Robot{}, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewEmergencyStopCommandHandler(factory, commands.NewRobotLocks(), clock)
	result, err := h.Handle(ctx, commands.NewEmergencyStopCommand())
	require.NoError(t, err)

	assert.Empty(t, result.Stopped)
	require.Len(t, result.Events, 1)
	assert.Empty(t, result.Events[0].RobotIDs)
}

func TestEmergencyStopCommandHandler_Handle_SkipsRobotThatFinishedMeanwhile(t *testing.T) {
	ctx := t.Context()
	listed := returningRobot(t, pos(t, 4, 4), pos(t, 0, 0), 1)
	parked, err := robot.RestoreRobot(robot.State{
		ID:       listed.ID(),
		Name:     listed.Name(),
		Status:   robot.Idle,
		Position: pos(t, 0, 0),
		Facing:   kernel.North,
		Battery:  80,
		Active:   true,
		Version:  1,
	})
	require.NoError(t, err)

	robotRepo := new(MockRobotRepository)
	uow := new(MockUoW)
	factory := new(MockRobotUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RobotRepository").Return(robotRepo).Once()
	robotRepo.On("GetAllInStatus", ctx, onTaskStatuses).Return([]*robot.Robot{listed}, nil).Once()
	robotRepo.On("Get", ctx, listed.ID()).Return(parked, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewEmergencyStopCommandHandler(factory, commands.NewRobotLocks(), clock)
	result, err := h.Handle(ctx, commands.NewEmergencyStopCommand())
	require.NoError(t, err)

	assert.Empty(t, result.Stopped)
	robotRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEmergencyStopCommandHandler_Handle_RetriesOnVersionConflict(t *testing.T) {
	ctx := t.Context()
	stale := returningRobot(t, pos(t, 4, 4), pos(t, 0, 0), 0)
	fresh, err := robot.RestoreRobot(robot.State{
		ID:       stale.ID(),
		Name:     stale.Name(),
		Status:   robot.Returning,
		Position: pos(t, 0, 0),
		Facing:   kernel.West,
		OrderID:  stale.OrderID(),
		Route:    stale.Route(),
		Cursor:   1,
		Battery:  80,
		Active:   true,
		Version:  1,
	})
	require.NoError(t, err)

	robotRepo := new(MockRobotRepository)
	first := new(MockUoW)
	second := new(MockUoW)
	factory := new(MockRobotUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(first).Once(),
		factory.On("Create").Return(second).Once(),
	)
	for _, uow := range []*MockUoW{first, second} {
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("RobotRepository").Return(robotRepo).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
	}
	second.On("Commit", ctx).Return(nil).Once()

	robotRepo.On("GetAllInStatus", ctx, onTaskStatuses).Return([]*robot.Robot{stale}, nil).Twice()
	mock.InOrder(
		robotRepo.On("Get", ctx, stale.ID()).Return(stale, nil).Once(),
		robotRepo.On("Get", ctx, stale.ID()).Return(fresh, nil).Once(),
	)
	mock.InOrder(
		robotRepo.On("Update", ctx, stale).Return(errs.NewVersionIsInvalidError("robot", errors.New("stale"))).Once(),
		robotRepo.On("Update", ctx, fresh).Return(nil).Once(),
	)

	h := commands.NewEmergencyStopCommandHandler(factory, commands.NewRobotLocks(), clock)
	result, err := h.Handle(ctx, commands.NewEmergencyStopCommand())
	require.NoError(t, err)

	assert.Equal(t, []kernel.UUID{stale.ID()}, result.Stopped)
	assert.Equal(t, robot.Idle, fresh.Status())
	first.AssertNotCalled(t, "Commit", mock.Anything)
	robotRepo.AssertExpectations(t)
}

func TestEmergencyStopCommand_Validate(t *testing.T) {
	cmd := commands.NewEmergencyStopCommand()
	require.NoError(t, cmd.Validate())

	var zero commands.EmergencyStopCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrEmergencyStopCommandIsNotConstructed)
}
