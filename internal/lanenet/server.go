package lanenet

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

// Server accepts lane-unit TCP connections and runs one reader per
// connection. Connections share no mutable state directly; everything
// shared lives behind the Registry and Synchronizer.
type Server struct {
	addr     string
	registry *Registry
	router   *Router

	mu       sync.Mutex
	listener net.Listener
	stopping bool
	wg       sync.WaitGroup
}

func NewServer(addr string, registry *Registry, router *Router) *Server {
	return &Server{
		addr:     addr,
		registry: registry,
		router:   router,
	}
}

// ListenAndServe blocks accepting connections until Shutdown is called.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	log.Printf("lane protocol server listening on %s", s.addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := s.stopping
			s.mu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("ERROR [lanenet.Server] accept failed: %v", err)
			continue
		}

		c := newLaneConn(conn)
		s.registry.Accept(c)

		s.wg.Add(1)
		go c.writePump()
		go func() {
			defer s.wg.Done()
			c.readPump(s.router, s.registry.Unregister)
		}()
	}
}

// Shutdown stops accepting, closes every lane connection and waits for
// the readers to drain, bounded by the context.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopping = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	s.registry.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}
