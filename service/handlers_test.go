package service

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharsat/library-graphql/models"
	"github.com/shaharsat/library-graphql/pubsub"
)

func TestGraphQLQuery(t *testing.T) {
	app := newTestApp(t)

	response := app.graphql(t, `{ books { id title } }`, nil)

	assert.JSONEq(t, `{"books":[{"id":"1","title":"Book 1"},{"id":"2","title":"Book 2"}]}`, string(response.Data))
}

func TestGraphQLCreateThenRead(t *testing.T) {
	app := newTestApp(t)

	created := app.graphql(t, createBookMutation, bookVariables("1", "T", 1999))
	assert.JSONEq(t, `{"createBook":{"id":"3","title":"T","releaseYear":1999,"authorId":"1"}}`, string(created.Data))

	response := app.graphql(t, `{ book(id: "3") { id title releaseYear authorId author { name } } }`, nil)
	assert.JSONEq(t, `{"book":{"id":"3","title":"T","releaseYear":1999,"authorId":"1","author":{"name":"Author 1"}}}`, string(response.Data))
}

func TestGraphQLMissingEntitiesAreNull(t *testing.T) {
	app := newTestApp(t)

	response := app.graphql(t, `mutation { updateBook(id: "42", authorId: "1", title: "X", releaseYear: 1) { id } }`, nil)
	assert.JSONEq(t, `{"updateBook":null}`, string(response.Data))

	response = app.graphql(t, `mutation { deleteBook(id: "42") { message } }`, nil)
	assert.JSONEq(t, `{"deleteBook":{"message":"Book deleted successfully"}}`, string(response.Data))

	assert.Len(t, app.library.Books(), 2)
}

func TestGraphQLErrorsUseResponseShape(t *testing.T) {
	app := newTestApp(t)

	status, response := app.post(t, "/graphql", `{"query":"{ books { isbn } }"}`)

	assert.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, response.Errors)
	assert.Contains(t, response.Errors[0]["message"], "isbn")
}

func TestGraphQLRejectsMalformedBodies(t *testing.T) {
	app := newTestApp(t)

	status, response := app.post(t, "/graphql", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, response.Errors)

	status, response = app.post(t, "/graphql", `{"variables":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, response.Errors)
}

func TestGraphQLGetQuery(t *testing.T) {
	app := newTestApp(t)

	status, body := app.get(t, "/graphql", url.Values{
		"query":     {`query Author($id: ID!) { author(id: $id) { name books { title } } }`},
		"variables": {`{"id":"2"}`},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"data":{"author":{"name":"Author 2","books":[{"title":"Book 2"}]}}}`, string(body))
}

func TestGraphQLGetRejectsMutations(t *testing.T) {
	app := newTestApp(t)

	status, _ := app.get(t, "/graphql", url.Values{
		"query": {`mutation { deleteBook(id: "1") { message } }`},
	})

	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Len(t, app.library.Books(), 2)
}

func TestGraphQLRejectsSubscriptionsOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, response := app.post(t, "/graphql", `{"query":"subscription { bookAdded { id } }"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, SUBSCRIPTION_OVER_HTTP_MESSAGE, response.Errors[0]["message"])

	status, body := app.get(t, "/graphql", url.Values{"query": {"subscription { bookAdded { id } }"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "websocket")

	assert.Equal(t, 0, app.broker.Subscribers(pubsub.BOOK_ADDED))
}

func TestGraphQLGetRequiresQuery(t *testing.T) {
	app := newTestApp(t)

	status, _ := app.get(t, "/graphql", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = app.get(t, "/graphql", url.Values{"query": {"{ books { id } }"}, "variables": {"[1"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStore(t *testing.T) {
	app := newTestApp(t)
	app.graphql(t, createBookMutation, bookVariables("1", "T", 1999))

	status, body := app.get(t, "/store", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"number_of_books":3,"number_of_authors":2}`, string(body))
}

func TestActivity(t *testing.T) {
	app := newTestApp(t)

	app.post(t, "/graphql?username=alice", `{"query":"{ books { id } }"}`)
	app.post(t, "/graphql?username=alice", `{"query":"mutation Remove { deleteBook(id: \"2\") { message } }","operationName":"Remove"}`)
	app.get(t, "/store", url.Values{"username": {"alice"}})
	app.get(t, "/graphql", url.Values{"username": {"alice"}, "query": {"{ authors { id } }"}})
	app.get(t, "/store", url.Values{"username": {"bob"}})
	app.get(t, "/store", nil)

	status, body := app.get(t, "/activity/alice", nil)
	require.Equal(t, http.StatusOK, status)

	var requests []models.UserRequest
	require.NoError(t, json.Unmarshal(body, &requests))
	assert.Equal(t, []models.UserRequest{
		{Method: "GET", Route: "/graphql", Operation: "query"},
		{Method: "GET", Route: "/store"},
		{Method: "POST", Route: "/graphql", Operation: "mutation Remove"},
	}, requests)

	status, body = app.get(t, "/activity/carol", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestWebsocketUpgradeRequiresSubprotocol(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/graphql", nil)
	require.NoError(t, err)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
