package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures the Server.
type Option func(*Server)

// Timeouts are the http.Server timeouts. Zero fields keep the current value.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: WithAddr: addr cannot be empty")
	}
	return func(s *Server) { s.addr = addr }
}

func WithTimeouts(t Timeouts) Option {
	return func(s *Server) {
		if t.ReadHeader > 0 {
			s.timeouts.ReadHeader = t.ReadHeader
		}
		if t.Read > 0 {
			s.timeouts.Read = t.Read
		}
		if t.Write > 0 {
			s.timeouts.Write = t.Write
		}
		if t.Idle > 0 {
			s.timeouts.Idle = t.Idle
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown, closers included.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: WithShutdownTimeout: duration must be > 0")
	}
	return func(s *Server) { s.shutdownTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCloser registers a resource released after the server stops accepting
// requests. Closers run in reverse registration order.
func WithCloser(name string, fn func(context.Context) error) Option {
	if fn == nil {
		panic("httpserver: WithCloser: nil closer")
	}
	return func(s *Server) {
		s.closers = append(s.closers, closer{name: name, fn: fn})
	}
}
