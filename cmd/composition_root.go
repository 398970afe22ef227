package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	httpin "robodelivery/internal/adapters/in/http"
	"robodelivery/internal/adapters/in/pgnotify"
	"robodelivery/internal/adapters/out/eventbus"
	"robodelivery/internal/adapters/out/layoutfile"
	"robodelivery/internal/adapters/out/memory"
	"robodelivery/internal/adapters/out/messaging"
	"robodelivery/internal/adapters/out/postgres"
	"robodelivery/internal/core/application/coordinator"
	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/application/usecases/queries"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/services"
	"robodelivery/internal/core/ports"
	"robodelivery/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component of the process.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	floor      *layout.Layout
	planner    *services.RoutePlanner
	locks      *commands.RobotLocks

	bus       *eventbus.Bus
	publisher ports.EventPublisher
	closers   []io.Closer

	coordinator *coordinator.Coordinator
	jobManager  *jobs.JobManager
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		locks:  commands.NewRobotLocks(),
		bus:    eventbus.New(),
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	layouts, err := c.openStore()
	if err != nil {
		return nil, err
	}
	if c.floor, err = c.loadLayout(ctx, layouts); err != nil {
		return nil, err
	}
	if c.planner, err = services.NewRoutePlanner(c.floor.Grid()); err != nil {
		return nil, err
	}
	if c.publisher, err = c.connectPublishers(); err != nil {
		return nil, err
	}

	ticker := jobs.NewRobotTicker(logger)
	c.coordinator, err = coordinator.New(
		coordinator.Handlers{
			Assign:           c.CreateAssignRobotCommandHandler(),
			Advance:          c.CreateAdvanceRobotCommandHandler(),
			CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
			CompleteReturn:   c.CreateCompleteReturnCommandHandler(),
			EmergencyStop:    c.CreateEmergencyStopCommandHandler(),
		},
		c.uowFactory.Create().RobotRepository(),
		ticker,
		c.publisher,
		coordinator.Cadence{Outbound: cfg.OutboundCadence, Return: cfg.ReturnCadence},
		logger,
	)
	if err != nil {
		return nil, err
	}

	sweep := jobs.NewReadyOrderSweepJob(
		c.uowFactory.Create().OrderRepository(),
		c.coordinator,
		cfg.ReadyOrderSweep,
		cfg.ReadyOrderBatch,
		logger,
	)
	c.jobManager = jobs.NewJobManager(ticker, sweep)

	return c, nil
}

func (c *CompositionRoot) openStore() (ports.LayoutRepository, error) {
	switch c.cfg.StoreDriver {
	case StoreMemory:
		store := memory.NewStore()
		c.uowFactory = store
		return store.Layouts(), nil
	case StorePostgres:
		db, err := gorm.Open(gormpostgres.Open(c.cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		c.gormDB = db
		if err = postgres.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		factory := postgres.NewGormUnitOfWorkFactory(db)
		c.uowFactory = factory
		return factory.Layouts(), nil
	}
	return nil, fmt.Errorf("unknown store %q", c.cfg.StoreDriver)
}

// loadLayout seeds the store from the layout file when one is configured
// and otherwise reads the stored layout.
func (c *CompositionRoot) loadLayout(ctx context.Context, layouts ports.LayoutRepository) (*layout.Layout, error) {
	if c.cfg.LayoutFile == "" {
		return layouts.Get(ctx, c.cfg.LayoutID)
	}

	floor, err := layoutfile.Load(c.cfg.LayoutFile)
	if err != nil {
		return nil, err
	}
	if err = layouts.Save(ctx, floor); err != nil {
		return nil, fmt.Errorf("save layout %s: %w", floor.ID(), err)
	}
	c.logger.Info("layout loaded", "layout_id", floor.ID(), "file", c.cfg.LayoutFile)
	return floor, nil
}

// connectPublishers puts the in-process bus first so SSE clients see events
// even when an external broker is down.
func (c *CompositionRoot) connectPublishers() (ports.EventPublisher, error) {
	fanout := messaging.Fanout{c.bus}

	if c.cfg.HasBackend(BackendKafka) {
		p, err := messaging.NewKafkaPublisher(c.cfg.KafkaBrokers(), c.cfg.KafkaTopicPrefix)
		if err != nil {
			return nil, err
		}
		fanout = append(fanout, p)
		c.closers = append(c.closers, p)
	}
	if c.cfg.HasBackend(BackendMQTT) {
		p, err := messaging.ConnectMQTT(c.cfg.MQTTBroker, c.cfg.MQTTClientID, c.cfg.MQTTTopicPrefix)
		if err != nil {
			return nil, err
		}
		fanout = append(fanout, p)
		c.closers = append(c.closers, p)
	}
	if c.cfg.HasBackend(BackendRedis) {
		p := messaging.NewRedisPublisher(redis.NewClient(&redis.Options{
			Addr:     c.cfg.RedisAddr,
			Password: c.cfg.RedisPassword,
			DB:       c.cfg.RedisDB,
		}), c.cfg.RedisPrefix)
		fanout = append(fanout, p)
		c.closers = append(c.closers, p)
	}

	c.logger.Info("event sinks ready", "sinks", len(fanout))
	return fanout, nil
}

func (c *CompositionRoot) Coordinator() *coordinator.Coordinator {
	return c.coordinator
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// Router builds the HTTP surface.
func (c *CompositionRoot) Router() (*echo.Echo, error) {
	server := httpin.NewServer(
		c.CreateCreateRobotCommandHandler(),
		c.CreateSetServiceModeCommandHandler(),
		c.CreateCreateOrderCommandHandler(),
		c.CreateGetFleetQueryHandler(),
		c.CreateGetActiveDeliveriesQueryHandler(),
		c.coordinator,
		c.bus,
		c.logger,
	)
	return httpin.NewRouter(server, c.logger)
}

// OrderListener returns the postgres LISTEN loop, or nil when the store is
// not postgres or listening is switched off.
func (c *CompositionRoot) OrderListener() *pgnotify.Listener {
	if c.cfg.StoreDriver != StorePostgres || !c.cfg.OrderReadyListen {
		return nil
	}
	return pgnotify.NewListener(c.cfg.DSN(), c.coordinator, c.logger)
}

// Close releases broker connections and the database pool.
func (c *CompositionRoot) Close() error {
	var problems []error
	for _, closer := range c.closers {
		problems = append(problems, closer.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			problems = append(problems, sqlDB.Close())
		}
	}
	return errors.Join(problems...)
}

func (c *CompositionRoot) CreateAssignRobotCommandHandler() commands.AssignRobotCommandHandler {
	return commands.NewAssignRobotCommandHandler(
		c.uows(), c.floor, c.planner, services.NewFleetDispatcher(c.cfg.RobotMinBattery), time.Now)
}

func (c *CompositionRoot) CreateAdvanceRobotCommandHandler() commands.AdvanceRobotCommandHandler {
	return commands.NewAdvanceRobotCommandHandler(c.uows(), c.locks, time.Now)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uows(), c.locks, c.floor, c.planner, time.Now)
}

func (c *CompositionRoot) CreateCompleteReturnCommandHandler() commands.CompleteReturnCommandHandler {
	return commands.NewCompleteReturnCommandHandler(c.robotUoWs(), c.locks, c.floor, time.Now)
}

func (c *CompositionRoot) CreateEmergencyStopCommandHandler() commands.EmergencyStopCommandHandler {
	return commands.NewEmergencyStopCommandHandler(c.robotUoWs(), c.locks, time.Now)
}

func (c *CompositionRoot) CreateCreateRobotCommandHandler() commands.CreateRobotCommandHandler {
	return commands.NewCreateRobotCommandHandler(c.robotUoWs(), c.floor)
}

func (c *CompositionRoot) CreateSetServiceModeCommandHandler() commands.SetServiceModeCommandHandler {
	return commands.NewSetServiceModeCommandHandler(c.robotUoWs(), c.locks)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateGetFleetQueryHandler() queries.GetFleetQueryHandler {
	return queries.NewGetFleetQueryHandler(c.uowFactory.Create().RobotRepository())
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) robotUoWs() commands.RobotUoWFactory {
	return FuncRobotUoWFactory(func() commands.RobotUoW {
		return c.uowFactory.Create()
	})
}

type FuncRobotUoWFactory func() commands.RobotUoW

func (f FuncRobotUoWFactory) Create() commands.RobotUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
