package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/expensekit/pkg/logger"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT or SIGTERM, then drains in-flight requests and releases the
// registered closers.
type Server struct {
	addr            string
	timeouts        Timeouts
	shutdownTimeout time.Duration
	logger          *slog.Logger
	closers         []closer

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	ready    chan struct{}
	once     sync.Once
	stopErr  error
}

func New(opts ...Option) *Server {
	s := &Server{
		addr: ":8080",
		timeouts: Timeouts{
			ReadHeader: 5 * time.Second,
			Read:       15 * time.Second,
			Write:      30 * time.Second,
			Idle:       120 * time.Second,
		},
		shutdownTimeout: 10 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		ready:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("httpserver"))
	return s
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once the server is listening, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Run serves h and blocks until shutdown completes. Listen failures are wrapped
// with ErrStart; a failed drain or closer is wrapped with ErrShutdown.
func (s *Server) Run(ctx context.Context, h http.Handler) error {
	if h == nil {
		h = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           h,
		ReadHeaderTimeout: s.timeouts.ReadHeader,
		ReadTimeout:       s.timeouts.Read,
		WriteTimeout:      s.timeouts.Write,
		IdleTimeout:       s.timeouts.Idle,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv := s.srv
	s.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))
	close(s.ready)

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "http server shutting down")
		err := s.Shutdown(context.Background())
		<-errCh
		return err
	case err := <-errCh:
		shutdownErr := s.Shutdown(context.Background())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err, shutdownErr)
		}
		return shutdownErr
	}
}

// Shutdown drains the server and runs the closers. Only the first call does
// any work; later calls return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		var errs []error
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv != nil {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}
		}

		for _, c := range slices.Backward(s.closers) {
			if err := c.fn(ctx); err != nil {
				s.logger.ErrorContext(ctx, "failed to release resource",
					slog.String("resource", c.name),
					logger.Error(err),
				)
				errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			}
		}

		if len(errs) > 0 {
			s.stopErr = errors.Join(append([]error{ErrShutdown}, errs...)...)
			return
		}
		s.logger.InfoContext(ctx, "http server stopped")
	})
	return s.stopErr
}
