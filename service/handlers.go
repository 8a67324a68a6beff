package service

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/cache"
	"github.com/shaharsat/library-graphql/db"
	"github.com/shaharsat/library-graphql/graph"
	"github.com/shaharsat/library-graphql/models"
)

const OPERATION_KEY = "operation"

const SUBSCRIPTION_OVER_HTTP_MESSAGE = "Subscriptions are only served over a graphql-transport-ws websocket on /graphql."

type Handlers struct {
	Schema   *graphql.Schema
	Library  db.LibraryManager
	Activity *cache.ActivityLog
	Sockets  *SocketServer
	Logger   *zap.Logger
}

func errorResponse(message string) gin.H {
	return gin.H{"errors": []gin.H{{"message": message}}}
}

// describe labels a request for the activity log, e.g. "mutation Create".
func describe(request models.GraphQLRequest) (ast.Operation, string) {
	operation, err := graph.OperationType(request.Query, request.OperationName)
	if err != nil {
		return "", ""
	}

	return operation, strings.TrimSpace(string(operation) + " " + request.OperationName)
}

func (h *Handlers) GraphQL(c *gin.Context) {
	var request models.GraphQLRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	operation, label := describe(request)
	c.Set(OPERATION_KEY, label)

	if operation == ast.Subscription {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(SUBSCRIPTION_OVER_HTTP_MESSAGE))
		return
	}

	response := h.Schema.Exec(c.Request.Context(), request.Query, request.OperationName, request.Variables)
	c.JSON(http.StatusOK, response)
}

// GraphQLGet serves queries passed as URL parameters and hands websocket
// upgrades to the subscription server.
func (h *Handlers) GraphQLGet(c *gin.Context) {
	if websocket.IsWebSocketUpgrade(c.Request) {
		h.Sockets.ServeHTTP(c.Writer, c.Request)
		return
	}

	var request models.GraphQLRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if variables := c.Query("variables"); variables != "" {
		if err := json.Unmarshal([]byte(variables), &request.Variables); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse("variables must be a JSON object"))
			return
		}
	}

	operation, label := describe(request)
	c.Set(OPERATION_KEY, label)

	if operation == ast.Mutation {
		c.Header("Allow", http.MethodPost)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errorResponse("Can only perform a mutation operation from a POST request."))
		return
	}

	if operation == ast.Subscription {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(SUBSCRIPTION_OVER_HTTP_MESSAGE))
		return
	}

	response := h.Schema.Exec(c.Request.Context(), request.Query, request.OperationName, request.Variables)
	c.JSON(http.StatusOK, response)
}

func (h *Handlers) Store(c *gin.Context) {
	c.JSON(http.StatusOK, h.Library.Stats())
}

func (h *Handlers) GetUserActivity(c *gin.Context) {
	username := c.Param("username")

	userRequests, err := h.Activity.Recent(username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, userRequests)
}

// CacheUserRequest records the request in the activity log of the user
// named by the "username" query parameter.
func (h *Handlers) CacheUserRequest(c *gin.Context) {
	c.Next()

	username, ok := c.GetQuery("username")
	if !ok {
		return
	}

	userRequest := models.UserRequest{
		Method:    c.Request.Method,
		Route:     c.Request.URL.Path,
		Operation: c.GetString(OPERATION_KEY),
	}

	// Not failing a request if there's a problem caching it
	if err := h.Activity.Record(username, userRequest); err != nil {
		h.Logger.Warn("failed to cache user request", zap.String("username", username), zap.Error(err))
	}
}
