package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sisu-network/lib/log"
)

type Server struct {
	handler http.Handler
	port    int
	server  *http.Server
}

func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		handler: handler,
		port:    port,
	}
}

// Run starts serving in the background.
func (s *Server) Run() {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped, err = ", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
