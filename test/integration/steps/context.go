// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ondesc/backend/config"
	"github.com/ondesc/backend/internal/infra/dependency"
	"github.com/ondesc/backend/internal/integration/persistence/model"
	"github.com/ondesc/backend/test/integration/mock"
)

// testContext holds the state of one scenario.
type testContext struct {
	uri             string
	headers         map[string]string
	client          *http.Client
	response        *response
	db              *mock.Db
	redis           *mock.Redis
	currentClientID uuid.UUID
}

type response struct {
	status  int
	headers http.Header
	body    any
	raw     []byte
}

var (
	serverInit sync.Once
	testServer *httptest.Server
	injector   *dependency.Injector
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		_ = os.Setenv("ENV", "test")
	})

	ctx.AfterSuite(func() {
		if testServer != nil {
			testServer.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb(
			mock.Table{Name: "clients", Model: &model.ClientModel{}},
			mock.Table{Name: "monthly_calculations", Model: &model.MonthlyCalculationModel{}},
		),
		redis: mock.NewRedis(),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Step(`^the API server is running$`, test.theAPIServerIsRunning)

	// Client setup steps
	ctx.Step(`^a client exists with:$`, test.aClientExistsWith)
	ctx.Step(`^the client has an uploaded invoice for the current month$`, test.theClientHasAnUploadedInvoiceForTheCurrentMonth)
	ctx.Step(`^the client has an uploaded invoice for "([^"]*)"$`, test.theClientHasAnUploadedInvoiceFor)

	// Header steps
	ctx.Step(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Step(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.Step(`^I send a multipart "([^"]*)" request to "([^"]*)" with fields:$`, test.iSendAMultipartRequestToWithFields)
	ctx.Step(`^I upload a file "([^"]*)" with content "([^"]*)" to "([^"]*)"$`, test.iUploadAFileWithContentTo)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items$`, test.theResponseFieldShouldHaveItems)
	ctx.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, test.theResponseHeaderShouldContain)
	ctx.Step(`^the response body should contain "([^"]*)"$`, test.theResponseBodyShouldContain)

	// Storage assertion steps
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Step(`^the calculation cache should contain (\d+) entries$`, test.theCalculationCacheShouldContainEntries)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.currentClientID = uuid.Nil

	t.redis.Clear()
	if injector != nil {
		injector.RateLimiter.Reset()
	}
	return t.db.ClearDB()
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		gin.SetMode(gin.TestMode)

		injector = dependency.NewInjector(config.Load(), dependency.Options{
			DB:       t.db.DbConn,
			Redis:    t.redis.Client,
			Registry: prometheus.NewRegistry(),
		})

		testServer = httptest.NewServer(injector.Router.Setup("test"))
	})

	t.uri = testServer.URL
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}
