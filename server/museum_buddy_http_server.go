package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

type MuseumBuddyHttpServer struct {
	addr   string
	router *Router
}

func NewMuseumBuddyHttpServer(addr string, router *Router) *MuseumBuddyHttpServer {
	return &MuseumBuddyHttpServer{
		addr:   addr,
		router: router,
	}
}

func (s *MuseumBuddyHttpServer) newHTTPServer() *http.Server {
	s.router.RegisterRoutes()
	return &http.Server{
		Addr:              s.addr,
		Handler:           s.router.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *MuseumBuddyHttpServer) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done.
func (s *MuseumBuddyHttpServer) Serve(ctx context.Context, listener net.Listener) error {
	srv := s.newHTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", listener.Addr())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[Server] Server exiting")
	return nil
}
