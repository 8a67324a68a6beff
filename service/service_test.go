package service

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/cache"
	"github.com/shaharsat/library-graphql/db"
	"github.com/shaharsat/library-graphql/graph"
	"github.com/shaharsat/library-graphql/pubsub"
)

type testApp struct {
	server  *httptest.Server
	library *db.MemoryLibrary
	broker  *pubsub.Broker
	sockets *SocketServer
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithInitTimeout(t, 5*time.Second)
}

func newTestAppWithInitTimeout(t *testing.T, initTimeout time.Duration) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	library := db.NewMemoryLibrary(db.SequenceIDGenerator{}, db.DefaultBooks(), db.DefaultAuthors())
	broker := pubsub.NewBroker()

	source, err := graph.LoadSchemaSource("")
	require.NoError(t, err)
	schema, err := graph.NewSchema(source, graph.NewResolver(library, broker, logger))
	require.NoError(t, err)

	sockets := NewSocketServer(schema, initTimeout, logger)
	handlers := &Handlers{
		Schema:   schema,
		Library:  library,
		Activity: cache.NewActivityLog(cache.CreateMemoryCache(3)),
		Sockets:  sockets,
		Logger:   logger,
	}

	server := httptest.NewServer(SetupRoutes(handlers, logger))
	t.Cleanup(func() {
		sockets.Close()
		server.Close()
	})

	return &testApp{server: server, library: library, broker: broker, sockets: sockets}
}

type graphQLResponse struct {
	Data   json.RawMessage          `json:"data"`
	Errors []map[string]interface{} `json:"errors"`
}

func (app *testApp) post(t *testing.T, path string, body string) (int, graphQLResponse) {
	t.Helper()

	resp, err := http.Post(app.server.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, decode(t, resp.Body)
}

func (app *testApp) get(t *testing.T, path string, params url.Values) (int, []byte) {
	t.Helper()

	target := app.server.URL + path
	if params != nil {
		target += "?" + params.Encode()
	}

	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func (app *testApp) graphql(t *testing.T, query string, variables map[string]interface{}) graphQLResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	require.NoError(t, err)

	status, response := app.post(t, "/graphql", string(body))
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, response.Errors)

	return response
}

func decode(t *testing.T, body io.Reader) graphQLResponse {
	t.Helper()

	var response graphQLResponse
	require.NoError(t, json.NewDecoder(body).Decode(&response))
	return response
}

const createBookMutation = `
	mutation Create($authorId: ID!, $title: String!, $releaseYear: Int!) {
		createBook(authorId: $authorId, title: $title, releaseYear: $releaseYear) {
			id
			title
			releaseYear
			authorId
		}
	}
`

func bookVariables(authorId, title string, releaseYear int) map[string]interface{} {
	return map[string]interface{}{"authorId": authorId, "title": title, "releaseYear": releaseYear}
}
