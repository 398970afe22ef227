package http

import (
	"net/http"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/application/usecases/queries"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const defaultBattery = 100

// GetRobots handles GET /api/v1/robots - snapshot of the fleet.
func (s *Server) GetRobots(ctx echo.Context) error {
	fleet, err := s.getFleetHandler.Handle(ctx.Request().Context(), queries.NewGetFleetQuery())
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve robots")
	}

	response := make([]servers.Robot, len(fleet))
	for i, r := range fleet {
		var orderID *openapi_types.UUID
		if r.OrderID != nil {
			id := r.OrderID.Bytes()
			orderID = &id
		}

		response[i] = servers.Robot{
			Id:         r.ID.Bytes(),
			Name:       r.Name,
			Status:     servers.RobotStatus(r.Status),
			Position:   toPosition(r.Position),
			Facing:     servers.RobotFacing(r.Facing),
			Battery:    r.Battery,
			Active:     r.Active,
			OrderId:    orderID,
			Progress:   float32(r.Progress),
			Deliveries: r.Deliveries,
			Distance:   float32(r.Distance),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateRobot handles POST /api/v1/robots - provisions a robot at the depot.
func (s *Server) CreateRobot(ctx echo.Context) error {
	var newRobot servers.CreateRobotJSONRequestBody
	if err := ctx.Bind(&newRobot); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	battery := defaultBattery
	if newRobot.Battery != nil {
		battery = *newRobot.Battery
	}

	robotID := kernel.NewUUID()
	cmd, err := commands.NewCreateRobotCommand(robotID, newRobot.Name, battery)
	if err != nil {
		return badRequest(ctx, "Invalid robot data: "+err.Error())
	}

	if err = s.createRobotHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to create robot")
	}

	return ctx.JSON(http.StatusCreated, servers.CreatedResource{Id: robotID.Bytes()})
}

// SetServiceMode handles PUT /api/v1/robots/{robotId}/service-mode.
func (s *Server) SetServiceMode(ctx echo.Context, robotId openapi_types.UUID) error {
	var body servers.SetServiceModeJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, err := kernel.UUIDFromBytes(robotId[:])
	if err != nil {
		return badRequest(ctx, "Invalid robot id")
	}
	mode, err := robot.ParseStatus(string(body.Mode))
	if err != nil {
		return badRequest(ctx, "Invalid mode: "+err.Error())
	}

	cmd, err := commands.NewSetServiceModeCommand(id, mode, body.Active)
	if err != nil {
		return badRequest(ctx, "Invalid service mode: "+err.Error())
	}

	if err = s.setServiceModeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to set service mode")
	}

	return ctx.NoContent(http.StatusNoContent)
}

func toPosition(p kernel.Position) servers.Position {
	return servers.Position{X: p.X, Y: p.Y}
}
