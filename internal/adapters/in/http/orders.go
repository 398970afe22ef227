package http

import (
	"net/http"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/application/usecases/queries"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateOrder handles POST /api/v1/orders - registers an order for robot
// delivery. The id defaults to a fresh one; the order is Ready when the
// body says so.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if newOrder.Id != nil {
		id, err := kernel.UUIDFromBytes(newOrder.Id[:])
		if err != nil {
			return badRequest(ctx, "Invalid order id")
		}
		orderID = id
	}

	dest, err := order.NewDestination(deref(newOrder.TableId), deref(newOrder.Address))
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	ready := newOrder.Ready != nil && *newOrder.Ready
	cmd, err := commands.NewCreateOrderCommand(orderID, dest, ready)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, servers.CreatedResource{Id: orderID.Bytes()})
}

// AssignRobot handles POST /api/v1/orders/{orderId}/robot-delivery. Every
// outcome is a 200; the body says whether a robot was assigned.
func (s *Server) AssignRobot(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	result, err := s.coordinator.Assign(ctx.Request().Context(), id)
	if err != nil {
		return s.fail(ctx, err, "Failed to assign robot")
	}

	response := servers.Assignment{Outcome: servers.AssignmentOutcome(result.Outcome.String())}
	if result.Outcome == commands.Assigned {
		robotID := result.RobotID.Bytes()
		points := result.Route.Points()
		route := make([]servers.Position, len(points))
		for i, p := range points {
			route[i] = toPosition(p)
		}
		response.RobotId = &robotID
		response.Route = &route
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	deliveries, err := s.getActiveDeliveriesHandler.Handle(ctx.Request().Context(), queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve deliveries")
	}

	response := make([]servers.Delivery, len(deliveries))
	for i, d := range deliveries {
		response[i] = servers.Delivery{
			OrderId: d.OrderID.Bytes(),
			RobotId: d.RobotID.Bytes(),
			TableId: optional(d.TableID),
			Address: optional(d.Address),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
