package http

import (
	"net/http"

	"robodelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// EmergencyStop handles POST /api/v1/fleet/emergency-stop.
func (s *Server) EmergencyStop(ctx echo.Context) error {
	result, err := s.coordinator.EmergencyStopAll(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err, "Failed to stop the fleet")
	}

	stopped := make([]openapi_types.UUID, len(result.Stopped))
	for i, id := range result.Stopped {
		stopped[i] = id.Bytes()
	}

	return ctx.JSON(http.StatusOK, servers.EmergencyStop{Stopped: stopped})
}
