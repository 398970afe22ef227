package http

import (
	"context"
	"log/slog"
	"net/http"

	"robodelivery/internal/adapters/out/eventbus"
	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/application/usecases/queries"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

var _ servers.ServerInterface = (*Server)(nil)

// Coordinator is the part of the fleet coordinator the API drives.
type Coordinator interface {
	Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error)
	EmergencyStopAll(ctx context.Context) (commands.EmergencyStopResult, error)
}

// EventSource feeds the server-sent events streams.
type EventSource interface {
	Subscribe(topic string, fn eventbus.Handler) eventbus.SubscriberID
	Unsubscribe(id eventbus.SubscriberID)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createRobotHandler    commands.CreateRobotCommandHandler
	setServiceModeHandler commands.SetServiceModeCommandHandler
	createOrderHandler    commands.CreateOrderCommandHandler

	// Query handlers
	getFleetHandler            queries.GetFleetQueryHandler
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler

	coordinator Coordinator
	events      EventSource
	logger      *slog.Logger
}

func NewServer(
	createRobotHandler commands.CreateRobotCommandHandler,
	setServiceModeHandler commands.SetServiceModeCommandHandler,
	createOrderHandler commands.CreateOrderCommandHandler,
	getFleetHandler queries.GetFleetQueryHandler,
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler,
	coordinator Coordinator,
	events EventSource,
	logger *slog.Logger,
) *Server {
	return &Server{
		createRobotHandler:         createRobotHandler,
		setServiceModeHandler:      setServiceModeHandler,
		createOrderHandler:         createOrderHandler,
		getFleetHandler:            getFleetHandler,
		getActiveDeliveriesHandler: getActiveDeliveriesHandler,
		coordinator:                coordinator,
		events:                     events,
		logger:                     logger.With("component", "http"),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}
