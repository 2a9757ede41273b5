package main_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/webapi"
	"github.com/amirasaad/ledger/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type MainTestSuite struct {
	suite.Suite
	ledger *app.App
}

func (s *MainTestSuite) SetupTest() {
	s.T().Setenv("AUTH_JWT_SECRET", testutils.TestSecret)
	s.T().Setenv("DATABASE_URL", "memory://")
	s.T().Setenv("EVENT_BUS_DRIVER", "memory")
	s.T().Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	s.Require().NoError(err)
	deps, err := initializer.InitializeDependencies(context.Background(), cfg)
	s.Require().NoError(err)
	deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ledger = app.New(deps, cfg)
}

func (s *MainTestSuite) TearDownTest() {
	s.ledger.Close()
}

func (s *MainTestSuite) TestRootRoute() {
	resp := testutils.MakeRequestWithApp(webapi.SetupApp(s.ledger), http.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestReadiness() {
	resp := testutils.MakeRequestWithApp(webapi.SetupApp(s.ledger), http.MethodGet, "/health/ready", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}
