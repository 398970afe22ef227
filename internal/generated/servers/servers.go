// Package servers holds the models, ServerInterface and echo wrappers for the
// operations described in openapi.yaml. It is maintained by hand in the
// layout oapi-codegen uses for types,server output; edit it together with
// openapi.yaml.
package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for AssignmentOutcome.
const (
	Assigned             AssignmentOutcome = "assigned"
	NoAvailableRobot     AssignmentOutcome = "no_available_robot"
	OrderAlreadyAssigned AssignmentOutcome = "order_already_assigned"
	OrderNotReady        AssignmentOutcome = "order_not_ready"
	RouteNotFound        AssignmentOutcome = "route_not_found"
)

// Defines values for RobotFacing.
const (
	East  RobotFacing = "east"
	North RobotFacing = "north"
	South RobotFacing = "south"
	West  RobotFacing = "west"
)

// Defines values for RobotStatus.
const (
	RobotStatusCharging    RobotStatus = "charging"
	RobotStatusDelivering  RobotStatus = "delivering"
	RobotStatusIdle        RobotStatus = "idle"
	RobotStatusMaintenance RobotStatus = "maintenance"
	RobotStatusNavigating  RobotStatus = "navigating"
	RobotStatusReturning   RobotStatus = "returning"
)

// Defines values for ServiceModeMode.
const (
	ServiceModeModeCharging    ServiceModeMode = "charging"
	ServiceModeModeIdle        ServiceModeMode = "idle"
	ServiceModeModeMaintenance ServiceModeMode = "maintenance"
)

// Assignment defines model for Assignment.
type Assignment struct {
	Outcome AssignmentOutcome   `json:"outcome"`
	RobotId *openapi_types.UUID `json:"robotId,omitempty"`
	Route   *[]Position         `json:"route,omitempty"`
}

// AssignmentOutcome defines model for Assignment.Outcome.
type AssignmentOutcome string

// CreatedResource defines model for CreatedResource.
type CreatedResource struct {
	Id openapi_types.UUID `json:"id"`
}

// Delivery defines model for Delivery.
type Delivery struct {
	Address *string            `json:"address,omitempty"`
	OrderId openapi_types.UUID `json:"orderId"`
	RobotId openapi_types.UUID `json:"robotId"`
	TableId *string            `json:"tableId,omitempty"`
}

// EmergencyStop defines model for EmergencyStop.
type EmergencyStop struct {
	Stopped []openapi_types.UUID `json:"stopped"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Address *string             `json:"address,omitempty"`
	Id      *openapi_types.UUID `json:"id,omitempty"`
	Ready   *bool               `json:"ready,omitempty"`
	TableId *string             `json:"tableId,omitempty"`
}

// NewRobot defines model for NewRobot.
type NewRobot struct {
	Battery *int   `json:"battery,omitempty"`
	Name    string `json:"name"`
}

// Position defines model for Position.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Robot defines model for Robot.
type Robot struct {
	Active     bool                `json:"active"`
	Battery    int                 `json:"battery"`
	Deliveries int                 `json:"deliveries"`
	Distance   float32             `json:"distance"`
	Facing     RobotFacing         `json:"facing"`
	Id         openapi_types.UUID  `json:"id"`
	Name       string              `json:"name"`
	OrderId    *openapi_types.UUID `json:"orderId,omitempty"`
	Position   Position            `json:"position"`
	Progress   float32             `json:"progress"`
	Status     RobotStatus         `json:"status"`
}

// RobotFacing defines model for Robot.Facing.
type RobotFacing string

// RobotStatus defines model for Robot.Status.
type RobotStatus string

// ServiceMode defines model for ServiceMode.
type ServiceMode struct {
	Active *bool           `json:"active,omitempty"`
	Mode   ServiceModeMode `json:"mode"`
}

// ServiceModeMode defines model for ServiceMode.Mode.
type ServiceModeMode string

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// CreateRobotJSONRequestBody defines body for CreateRobot for application/json ContentType.
type CreateRobotJSONRequestBody = NewRobot

// SetServiceModeJSONRequestBody defines body for SetServiceMode for application/json ContentType.
type SetServiceModeJSONRequestBody = ServiceMode

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register an order for robot delivery
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Try to give a ready order to an idle robot
	// (POST /api/v1/orders/{orderId}/robot-delivery)
	AssignRobot(ctx echo.Context, orderId openapi_types.UUID) error
	// Orders a robot is carrying right now
	// (GET /api/v1/deliveries/active)
	GetActiveDeliveries(ctx echo.Context) error
	// Server-sent events for one audience
	// (GET /api/v1/events/{topic})
	StreamEvents(ctx echo.Context, topic string) error
	// Halt every moving robot where it stands
	// (POST /api/v1/fleet/emergency-stop)
	EmergencyStop(ctx echo.Context) error
	// Snapshot of every robot
	// (GET /api/v1/robots)
	GetRobots(ctx echo.Context) error
	// Provision a robot at the depot
	// (POST /api/v1/robots)
	CreateRobot(ctx echo.Context) error
	// Put a robot in or out of service
	// (PUT /api/v1/robots/{robotId}/service-mode)
	SetServiceMode(ctx echo.Context, robotId openapi_types.UUID) error
	// Liveness probe
	// (GET /health)
	GetHealth(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateOrder(ctx)
	return err
}

// AssignRobot converts echo context to params.
func (w *ServerInterfaceWrapper) AssignRobot(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.AssignRobot(ctx, orderId)
	return err
}

// GetActiveDeliveries converts echo context to params.
func (w *ServerInterfaceWrapper) GetActiveDeliveries(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetActiveDeliveries(ctx)
	return err
}

// StreamEvents converts echo context to params.
func (w *ServerInterfaceWrapper) StreamEvents(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "topic" -------------
	var topic string

	err = runtime.BindStyledParameterWithOptions("simple", "topic", ctx.Param("topic"), &topic, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter topic: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.StreamEvents(ctx, topic)
	return err
}

// EmergencyStop converts echo context to params.
func (w *ServerInterfaceWrapper) EmergencyStop(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.EmergencyStop(ctx)
	return err
}

// GetRobots converts echo context to params.
func (w *ServerInterfaceWrapper) GetRobots(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetRobots(ctx)
	return err
}

// CreateRobot converts echo context to params.
func (w *ServerInterfaceWrapper) CreateRobot(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateRobot(ctx)
	return err
}

// SetServiceMode converts echo context to params.
func (w *ServerInterfaceWrapper) SetServiceMode(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "robotId" -------------
	var robotId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "robotId", ctx.Param("robotId"), &robotId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter robotId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.SetServiceMode(ctx, robotId)
	return err
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetHealth(ctx)
	return err
}

// This is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// Registers handlers, and prepends BaseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {

	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/robot-delivery", wrapper.AssignRobot)
	router.GET(baseURL+"/api/v1/deliveries/active", wrapper.GetActiveDeliveries)
	router.GET(baseURL+"/api/v1/events/:topic", wrapper.StreamEvents)
	router.POST(baseURL+"/api/v1/fleet/emergency-stop", wrapper.EmergencyStop)
	router.GET(baseURL+"/api/v1/robots", wrapper.GetRobots)
	router.POST(baseURL+"/api/v1/robots", wrapper.CreateRobot)
	router.PUT(baseURL+"/api/v1/robots/:robotId/service-mode", wrapper.SetServiceMode)
	router.GET(baseURL+"/health", wrapper.GetHealth)

}
