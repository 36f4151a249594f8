//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/config"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/importer"
	"github.com/team-mirai-volunteer/marumie-backend/internal/infra/dependency"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence/model"
	"github.com/team-mirai-volunteer/marumie-backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

type testContext struct {
	uri          string
	headers      map[string]string
	client       *http.Client
	response     *http.Response
	responseBody []byte
	db           *mock.Db
	serverPort   int
	adminToken   string
	currentOrgID uuid.UUID
	currentTxnID string
	lastPreview  map[string]any
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		db: mock.NewDb("marumie", map[string]any{
			"organizations": &model.OrganizationModel{},
			"transactions":  &model.TransactionModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Organization setup steps
	ctx.Given(`^an organization exists with name "([^"]*)" and slug "([^"]*)"$`, test.anOrganizationExistsWithNameAndSlug)
	ctx.Given(`^I am authenticated as an administrator$`, test.iAmAuthenticatedAsAnAdministrator)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.Step(`^I preview the journal CSV:$`, test.iPreviewTheJournalCSV)
	ctx.Step(`^I commit the previewed transactions$`, test.iCommitThePreviewedTransactions)
	ctx.When(`^I note the first listed transaction$`, test.iNoteTheFirstListedTransaction)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response should match json:$`, test.theResponseShouldMatchJSON)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.adminToken = ""
	t.currentOrgID = uuid.Nil
	t.currentTxnID = ""
	t.lastPreview = nil
	t.response = nil
	t.responseBody = nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	_ = mock.ClearRedis(mock.NewRedis())
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		go func() {
			gin.SetMode(gin.TestMode)

			cfg := &config.Config{
				Server: config.ServerConfig{
					Host:        "127.0.0.1",
					Port:        testServerPort,
					Environment: "test",
				},
				Auth: config.AuthConfig{
					JWTSecret:   testJWTSecret,
					TokenExpiry: time.Hour,
				},
				Import: config.ImportConfig{
					DefaultCharset:       importer.CharsetShiftJIS,
					FiscalYearStartMonth: 1,
					MaxUploadBytes:       1 << 20,
				},
				Cache: config.CacheConfig{
					SankeyTTL: time.Minute,
				},
			}

			injector := dependency.NewInjector(cfg, testDB.DbConn, mock.NewRedis())
			engine := injector.Router.Setup("test")

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", testServerPort),
				Handler: engine,
			}

			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}
