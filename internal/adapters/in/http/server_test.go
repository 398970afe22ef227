package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "robodelivery/internal/adapters/in/http"
	"robodelivery/internal/adapters/out/eventbus"
	"robodelivery/internal/adapters/out/memory"
	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/application/usecases/queries"
	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/generated/servers"
	"robodelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(commands.AssignRobotResult), args.Error(1)
}

func (m *MockCoordinator) EmergencyStopAll(ctx context.Context) (commands.EmergencyStopResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(commands.EmergencyStopResult), args.Error(1)
}

type robotUoWs func() commands.RobotUoW

func (f robotUoWs) Create() commands.RobotUoW { return f() }

type orderUoWs func() commands.OrderUoW

func (f orderUoWs) Create() commands.OrderUoW { return f() }

type fixture struct {
	store       *memory.Store
	coordinator *MockCoordinator
	bus         *eventbus.Bus
	router      *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	g, err := grid.NewGrid([][]int{
		{0, 0, 0},
		{0, 0, 0},
	})
	require.NoError(t, err)
	floor, err := layout.NewLayout("test", g, kernel.Position{}, nil, map[string]kernel.Position{"T1": {X: 2, Y: 1}})
	require.NoError(t, err)

	store := memory.NewStore()
	robotFactory := robotUoWs(func() commands.RobotUoW { return store.Create() })
	orderFactory := orderUoWs(func() commands.OrderUoW { return store.Create() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		store:       store,
		coordinator: &MockCoordinator{},
		bus:         eventbus.New(),
	}
	server := httpin.NewServer(
		commands.NewCreateRobotCommandHandler(robotFactory, floor),
		commands.NewSetServiceModeCommandHandler(robotFactory, commands.NewRobotLocks()),
		commands.NewCreateOrderCommandHandler(orderFactory),
		queries.NewGetFleetQueryHandler(store.Create().RobotRepository()),
		queries.NewGetActiveDeliveriesQueryHandler(store.Create().OrderRepository()),
		f.coordinator,
		f.bus,
		logger,
	)
	f.router, err = httpin.NewRouter(server, logger)
	require.NoError(t, err)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) addRobot(t *testing.T, name string) *robot.Robot {
	t.Helper()
	rb, err := robot.NewRobot(kernel.NewUUID(), name, 90, kernel.Position{})
	require.NoError(t, err)
	require.NoError(t, f.store.Create().RobotRepository().Add(t.Context(), rb))
	return rb
}

func TestGetHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateRobotAndGetRobots(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/robots", `{"name":"Rosie","battery":75}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created servers.CreatedResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(t, http.MethodGet, "/api/v1/robots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fleet []servers.Robot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fleet))

	require.Len(t, fleet, 1)
	assert.Equal(t, created.Id, fleet[0].Id)
	assert.Equal(t, "Rosie", fleet[0].Name)
	assert.Equal(t, servers.RobotStatusIdle, fleet[0].Status)
	assert.Equal(t, 75, fleet[0].Battery)
	assert.Equal(t, servers.Position{X: 0, Y: 0}, fleet[0].Position)
	assert.Nil(t, fleet[0].OrderId)
}

func TestCreateRobot_Invalid(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/robots", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/robots", `{"name":"x","battery":150}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/robots", `{`).Code)
}

func TestSetServiceMode(t *testing.T) {
	f := newFixture(t)
	rb := f.addRobot(t, "R1")
	path := "/api/v1/robots/" + rb.ID().String() + "/service-mode"

	t.Run("puts the robot on the charger", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, path, `{"mode":"charging","active":false}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		got, err := f.store.Create().RobotRepository().Get(t.Context(), rb.ID())
		require.NoError(t, err)
		assert.Equal(t, robot.Charging, got.Status())
		assert.False(t, got.IsActive())
	})

	t.Run("rejects a moving status", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, path, `{"mode":"navigating"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown robot is not found", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/robots/"+kernel.NewUUID().String()+"/service-mode", `{"mode":"idle"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is rejected by the router", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/robots/nope/service-mode", `{"mode":"idle"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSetServiceMode_BusyRobot(t *testing.T) {
	f := newFixture(t)
	rb := f.addRobot(t, "R1")
	rt, err := route.NewRoute([]kernel.Position{{X: 0, Y: 0}, {X: 1, Y: 0}})
	require.NoError(t, err)
	require.NoError(t, rb.StartDelivery(kernel.NewUUID(), rt))
	require.NoError(t, f.store.Create().RobotRepository().Update(t.Context(), rb))

	rec := f.do(t, http.MethodPut, "/api/v1/robots/"+rb.ID().String()+"/service-mode", `{"mode":"maintenance"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()

	rec := f.do(t, http.MethodPost, "/api/v1/orders", `{"id":"`+id.String()+`","tableId":"T1","ready":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	got, err := f.store.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, order.Ready, got.Status())
	assert.Equal(t, "T1", got.Destination().TableID())

	t.Run("duplicate id", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders", `{"id":"`+id.String()+`","tableId":"T1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ambiguous destination", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders", `{"tableId":"T1","address":"1 Main St"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing destination", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAssignRobot(t *testing.T) {
	orderID := kernel.NewUUID()
	robotID := kernel.NewUUID()
	path := "/api/v1/orders/" + orderID.String() + "/robot-delivery"

	t.Run("assigned carries robot and route", func(t *testing.T) {
		f := newFixture(t)
		rt, err := route.NewRoute([]kernel.Position{{X: 0, Y: 0}, {X: 2, Y: 1}})
		require.NoError(t, err)
		f.coordinator.On("Assign", mock.Anything, orderID).
			Return(commands.AssignRobotResult{Outcome: commands.Assigned, RobotID: robotID, Route: rt}, nil).Once()

		rec := f.do(t, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body servers.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, servers.Assigned, body.Outcome)
		require.NotNil(t, body.RobotId)
		assert.Equal(t, robotID.Bytes(), *body.RobotId)
		require.NotNil(t, body.Route)
		assert.Equal(t, []servers.Position{{X: 0, Y: 0}, {X: 2, Y: 1}}, *body.Route)
		f.coordinator.AssertExpectations(t)
	})

	t.Run("no available robot is still a 200", func(t *testing.T) {
		f := newFixture(t)
		f.coordinator.On("Assign", mock.Anything, orderID).
			Return(commands.AssignRobotResult{Outcome: commands.NoAvailableRobot}, nil).Once()

		rec := f.do(t, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, servers.NoAvailableRobot, body.Outcome)
		assert.Nil(t, body.RobotId)
		assert.Nil(t, body.Route)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		f.coordinator.On("Assign", mock.Anything, orderID).
			Return(commands.AssignRobotResult{}, errs.NewObjectNotFoundError("order", orderID.String())).Once()

		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, path, "").Code)
	})

	t.Run("store failure hides detail", func(t *testing.T) {
		f := newFixture(t)
		f.coordinator.On("Assign", mock.Anything, orderID).
			Return(commands.AssignRobotResult{}, errors.New("connection reset")).Once()

		rec := f.do(t, http.MethodPost, path, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestGetActiveDeliveries(t *testing.T) {
	f := newFixture(t)
	dest, err := order.TableDestination("T1")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), dest)
	require.NoError(t, err)
	require.NoError(t, o.MarkReady())
	robotID := kernel.NewUUID()
	require.NoError(t, o.AssignRobot(robotID))
	require.NoError(t, f.store.Create().OrderRepository().Add(t.Context(), o))

	rec := f.do(t, http.MethodGet, "/api/v1/deliveries/active", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []servers.Delivery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, o.ID().Bytes(), body[0].OrderId)
	assert.Equal(t, robotID.Bytes(), body[0].RobotId)
	require.NotNil(t, body[0].TableId)
	assert.Equal(t, "T1", *body[0].TableId)
	assert.Nil(t, body[0].Address)
}

func TestEmergencyStop(t *testing.T) {
	f := newFixture(t)
	stopped := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	f.coordinator.On("EmergencyStopAll", mock.Anything).
		Return(commands.EmergencyStopResult{Stopped: stopped}, nil).Once()

	rec := f.do(t, http.MethodPost, "/api/v1/fleet/emergency-stop", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body servers.EmergencyStop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stopped, 2)
	assert.Equal(t, stopped[0].Bytes(), body.Stopped[0])
}

func TestOpenAPIDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/fleet/emergency-stop")
}

func TestStreamEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	t.Run("unknown topic", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/events/garden")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("streams events of the topic", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/table.T1", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		require.Eventually(t, func() bool { return f.bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

		robotID := kernel.NewUUID()
		ev := events.Position(robotID, kernel.Position{X: 1, Y: 0}, kernel.East, 0.5, "T1", time.Now())
		require.NoError(t, f.bus.Publish(ctx, events.TopicFleet, ev))
		require.NoError(t, f.bus.Publish(ctx, events.TableTopic("T1"), ev))

		scanner := bufio.NewScanner(resp.Body)
		require.True(t, scanner.Scan())
		assert.Equal(t, "event: robot.position", scanner.Text())
		require.True(t, scanner.Scan())
		assert.Contains(t, scanner.Text(), `"robotId":"`+robotID.String()+`"`)

		cancel()
		require.Eventually(t, func() bool { return f.bus.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
	})
}
