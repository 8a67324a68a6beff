package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/shaharsat/library-graphql/graph"
	"github.com/shaharsat/library-graphql/models"
)

// See protocol at https://github.com/enisdenjo/graphql-ws/blob/master/PROTOCOL.md
const GRAPHQL_WS_SUBPROTOCOL = "graphql-transport-ws"

const (
	messageConnectionInit = "connection_init"
	messageConnectionAck  = "connection_ack"
	messagePing           = "ping"
	messagePong           = "pong"
	messageSubscribe      = "subscribe"
	messageNext           = "next"
	messageError          = "error"
	messageComplete       = "complete"
)

const (
	closeBadRequest          = 4400
	closeUnauthorized        = 4401
	closeInitTimeout         = 4408
	closeSubscriberExists    = 4409
	closeTooManyInitRequests = 4429
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SocketServer serves GraphQL operations over graphql-transport-ws
// websockets. Close ends every open connection.
type SocketServer struct {
	schema      *graphql.Schema
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	initTimeout time.Duration

	mu     sync.Mutex
	conns  map[*socketConn]struct{}
	closed bool
	wg     sync.WaitGroup
}

func NewSocketServer(schema *graphql.Schema, initTimeout time.Duration, logger *zap.Logger) *SocketServer {
	return &SocketServer{
		schema:      schema,
		logger:      logger,
		initTimeout: initTimeout,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{GRAPHQL_WS_SUBPROTOCOL},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[*socketConn]struct{}),
	}
}

func (s *SocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !slices.Contains(websocket.Subprotocols(r), GRAPHQL_WS_SUBPROTOCOL) {
		http.Error(w, fmt.Sprintf("websocket subprotocol %q is required", GRAPHQL_WS_SUBPROTOCOL), http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	ws.SetReadLimit(maxMessageSize)

	conn := newSocketConn(ws, s.logger)
	if !s.track(conn) {
		conn.close(websocket.CloseGoingAway, "Server shutting down")
		return
	}
	defer s.untrack(conn)

	conn.logger.Debug("websocket connection opened")
	s.serve(conn)
	conn.logger.Debug("websocket connection closed")
}

// Connections returns the number of open websocket connections.
func (s *SocketServer) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conns)
}

// Close disconnects every client, refuses new ones and waits until all
// connection handlers have returned.
func (s *SocketServer) Close() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*socketConn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.close(websocket.CloseGoingAway, "Server shutting down")
	}

	s.wg.Wait()
}

func (s *SocketServer) track(conn *socketConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *SocketServer) untrack(conn *socketConn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()

	s.wg.Done()
}

func (s *SocketServer) serve(conn *socketConn) {
	defer conn.shutdown()

	initTimer := time.AfterFunc(s.initTimeout, func() {
		if !conn.acknowledged.Load() {
			conn.close(closeInitTimeout, "Connection initialisation timeout")
		}
	})
	defer initTimer.Stop()

	initReceived := false

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.close(closeBadRequest, "Invalid message received")
			return
		}

		switch msg.Type {
		case messageConnectionInit:
			if initReceived {
				conn.close(closeTooManyInitRequests, "Too many initialisation requests")
				return
			}
			initReceived = true

			if err := conn.write(wsMessage{Type: messageConnectionAck}); err != nil {
				return
			}
			conn.acknowledged.Store(true)

		case messagePing:
			if err := conn.write(wsMessage{Type: messagePong, Payload: msg.Payload}); err != nil {
				return
			}

		case messagePong:

		case messageSubscribe:
			if !conn.acknowledged.Load() {
				conn.close(closeUnauthorized, "Unauthorized")
				return
			}

			var request models.GraphQLRequest
			if msg.ID == "" || json.Unmarshal(msg.Payload, &request) != nil {
				conn.close(closeBadRequest, "Invalid message received")
				return
			}

			op, ok := conn.startOperation(msg.ID)
			if !ok {
				conn.close(closeSubscriberExists, fmt.Sprintf("Subscriber for %s already exists", msg.ID))
				return
			}

			go s.execute(conn, op, request)

		case messageComplete:
			conn.stopOperation(msg.ID)

		default:
			conn.close(closeBadRequest, "Invalid message received")
			return
		}
	}
}

func (s *SocketServer) execute(conn *socketConn, op *operation, request models.GraphQLRequest) {
	defer conn.finishOperation(op)

	logger := conn.logger.With(zap.String("operation_id", op.id))

	operationType, err := graph.OperationType(request.Query, request.OperationName)
	if err != nil || operationType != ast.Subscription {
		response := s.schema.Exec(op.ctx, request.Query, request.OperationName, request.Variables)
		if !s.send(conn, op, response, false) {
			return
		}
		s.complete(conn, op)
		return
	}

	events, err := s.schema.Subscribe(op.ctx, request.Query, request.OperationName, request.Variables)
	if err != nil {
		s.sendErrors(conn, op, []gqlError{{Message: err.Error()}})
		return
	}

	logger.Debug("subscription started")

	started := false
	for event := range events {
		response, ok := event.(*graphql.Response)
		if !ok {
			logger.Error("unexpected subscription event", zap.String("type", fmt.Sprintf("%T", event)))
			continue
		}

		if !s.send(conn, op, response, started) {
			return
		}
		started = true
	}

	logger.Debug("subscription ended")
	s.complete(conn, op)
}

type gqlError struct {
	Message string `json:"message"`
}

// resultMessageType picks the message for an operation result. Only the
// first result of an operation can be a request error; once a stream has
// started, errors travel inside "next" payloads.
func resultMessageType(response *graphql.Response, started bool) string {
	if !started && response.Data == nil && len(response.Errors) > 0 {
		return messageError
	}

	return messageNext
}

// send reports whether the operation may continue.
func (s *SocketServer) send(conn *socketConn, op *operation, response *graphql.Response, started bool) bool {
	if op.ctx.Err() != nil {
		return false
	}

	if resultMessageType(response, started) == messageError {
		s.sendErrors(conn, op, response.Errors)
		return false
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to encode graphql response", zap.Error(err))
		return false
	}

	return conn.write(wsMessage{ID: op.id, Type: messageNext, Payload: payload}) == nil
}

func (s *SocketServer) sendErrors(conn *socketConn, op *operation, errs interface{}) {
	payload, err := json.Marshal(errs)
	if err != nil {
		s.logger.Error("failed to encode graphql errors", zap.Error(err))
		return
	}

	_ = conn.write(wsMessage{ID: op.id, Type: messageError, Payload: payload})
}

// complete is only sent for operations the client did not stop itself.
func (s *SocketServer) complete(conn *socketConn, op *operation) {
	if op.ctx.Err() != nil {
		return
	}

	_ = conn.write(wsMessage{ID: op.id, Type: messageComplete})
}

type operation struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

type socketConn struct {
	ws           *websocket.Conn
	logger       *zap.Logger
	acknowledged atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex

	mu         sync.Mutex
	operations map[string]*operation
	running    sync.WaitGroup
}

func newSocketConn(ws *websocket.Conn, logger *zap.Logger) *socketConn {
	ctx, cancel := context.WithCancel(context.Background())

	return &socketConn{
		ws:         ws,
		logger:     logger.With(zap.String("connection_id", uuid.NewString())),
		ctx:        ctx,
		cancel:     cancel,
		operations: make(map[string]*operation),
	}
}

func (c *socketConn) startOperation(id string) (*operation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.operations[id]; exists {
		return nil, false
	}

	ctx, cancel := context.WithCancel(c.ctx)
	op := &operation{id: id, ctx: ctx, cancel: cancel}
	c.operations[id] = op
	c.running.Add(1)

	return op, true
}

func (c *socketConn) stopOperation(id string) {
	c.mu.Lock()
	op, ok := c.operations[id]
	delete(c.operations, id)
	c.mu.Unlock()

	if ok {
		op.cancel()
	}
}

func (c *socketConn) finishOperation(op *operation) {
	c.mu.Lock()
	if c.operations[op.id] == op {
		delete(c.operations, op.id)
	}
	c.mu.Unlock()

	op.cancel()
	c.running.Done()
}

// shutdown cancels every running operation and waits for them to return.
func (c *socketConn) shutdown() {
	c.cancel()
	c.running.Wait()
	c.ws.Close()
}

func (c *socketConn) write(msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *socketConn) close(code int, reason string) {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.writeMu.Unlock()

	c.ws.Close()
}
