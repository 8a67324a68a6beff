package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// Server exposes the GraphQL routes and the websocket endpoint on one
// listener so both can be shut down together.
type Server struct {
	httpServer *http.Server
	sockets    *SocketServer
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, sockets *SocketServer, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		sockets: sockets,
		logger:  logger,
	}
}

// ListenAndServe blocks until the server is shut down. A clean shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.httpServer.Addr, err)
	}

	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info(fmt.Sprintf("Server is running on http://localhost:%d/graphql", listener.Addr().(*net.TCPAddr).Port))

	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown drains the websocket connections, which the HTTP server does
// not track once upgraded, then stops accepting requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sockets.Close()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shut down http server: %w", err)
	}

	return nil
}
