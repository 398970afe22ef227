package jobs

import (
	"context"
	"log/slog"

	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

type (
	// ReadyOrderLister is the part of the order repository the sweep needs.
	ReadyOrderLister interface {
		GetAllReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)
	}

	// Assigner triggers assignment of one order.
	Assigner interface {
		Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error)
	}
)

// ReadyOrderSweepJob periodically retries assignment of ready orders that no
// robot took, e.g. because the fleet was busy when the order became ready or
// the trigger was missed.
type ReadyOrderSweepJob struct {
	orders   ReadyOrderLister
	assigner Assigner
	spec     string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReadyOrderSweepJob creates the sweep. spec is a cron expression with a
// seconds field; batch bounds how many orders one run looks at.
func NewReadyOrderSweepJob(
	orders ReadyOrderLister,
	assigner Assigner,
	spec string,
	batch int,
	logger *slog.Logger,
) *ReadyOrderSweepJob {
	logger = logger.With("component", "ready_order_sweep_job")
	return &ReadyOrderSweepJob{
		orders:   orders,
		assigner: assigner,
		spec:     spec,
		batch:    batch,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

func (j *ReadyOrderSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Ready order sweep job started", "schedule", j.spec)
	return nil
}

func (j *ReadyOrderSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Ready order sweep job stopped")
}

// sweep assigns ready orders oldest first and gives up for this run as soon
// as the fleet has no robot left.
func (j *ReadyOrderSweepJob) sweep(ctx context.Context) {
	pending, err := j.orders.GetAllReadyUnassigned(ctx, j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Ready order sweep failed", "error", err)
		return
	}

	for _, o := range pending {
		result, err := j.assigner.Assign(ctx, o.ID())
		if err != nil {
			continue
		}
		if result.Outcome == commands.NoAvailableRobot {
			j.logger.DebugContext(ctx, "Fleet busy, sweep paused", "waiting", len(pending))
			return
		}
	}
}
