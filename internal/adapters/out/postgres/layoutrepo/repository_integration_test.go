package layoutrepo_test

import (
	"context"
	"testing"
	"time"

	"robodelivery/internal/adapters/out/postgres/layoutrepo"
	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type LayoutRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *layoutrepo.GormLayoutRepository
}

func (suite *LayoutRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&layoutrepo.LayoutDTO{}))
}

func (suite *LayoutRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE layouts").Error)
	suite.repository = layoutrepo.NewGormLayoutRepository(suite.db)
}

func (suite *LayoutRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *LayoutRepositoryIntegrationTestSuite) floor(tables map[string]kernel.Position) *layout.Layout {
	g, err := grid.NewGrid([][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	suite.Require().NoError(err)
	l, err := layout.NewLayout("main", g, kernel.Position{}, []kernel.Position{{X: 2, Y: 0}}, tables)
	suite.Require().NoError(err)
	return l
}

func (suite *LayoutRepositoryIntegrationTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Save(ctx, suite.floor(map[string]kernel.Position{"T1": {X: 2, Y: 2}})))

	got, err := suite.repository.Get(ctx, "main")
	suite.Require().NoError(err)
	suite.Equal(3, got.Grid().Width())
	suite.False(got.Grid().IsWalkable(kernel.Position{X: 1, Y: 1}))
	suite.Equal(kernel.Position{}, got.Depot())
	suite.Equal([]kernel.Position{{X: 2, Y: 0}}, got.ChargingStations())

	pos, err := got.TablePosition("T1")
	suite.Require().NoError(err)
	suite.Equal(kernel.Position{X: 2, Y: 2}, pos)
}

func (suite *LayoutRepositoryIntegrationTestSuite) TestSave_Replaces() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Save(ctx, suite.floor(map[string]kernel.Position{"T1": {X: 2, Y: 2}})))
	suite.Require().NoError(suite.repository.Save(ctx, suite.floor(map[string]kernel.Position{"T9": {X: 0, Y: 2}})))

	got, err := suite.repository.Get(ctx, "main")
	suite.Require().NoError(err)
	suite.Len(got.Tables(), 1)
	_, err = got.TablePosition("T9")
	suite.Require().NoError(err)
}

func (suite *LayoutRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), "nowhere")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestLayoutRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LayoutRepositoryIntegrationTestSuite))
}
