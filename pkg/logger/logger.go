package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type preset struct {
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	EnvDevelopment: {slog.LevelDebug, FormatText},
	EnvStaging:     {slog.LevelInfo, FormatJSON},
	EnvProduction:  {slog.LevelInfo, FormatJSON},
}

var envAliases = map[string]string{
	"dev":   EnvDevelopment,
	"stage": EnvStaging,
	"prod":  EnvProduction,
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithLevelName parses names such as "debug" or "WARN". Empty or unknown names
// leave the level unchanged.
func WithLevelName(name string) Option {
	return func(c *config) {
		var l slog.Level
		if name != "" && l.UnmarshalText([]byte(name)) == nil {
			c.level = l
		}
	}
}

// WithFormat panics on unknown formats so a misconfigured process fails at startup.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Sprintf("logger: invalid format %q", f))
	}
	return func(c *config) { c.format = f }
}

func WithTextFormatter() Option { return WithFormat(FormatText) }
func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput ignores nil writers.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextExtractors adds attributes taken from the context at logging time.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies the level and format for an APP_ENV value and tags
// records with service and env. Unknown values are treated as development; the
// test environment discards output.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		env = strings.ToLower(strings.TrimSpace(env))
		if alias, ok := envAliases[env]; ok {
			env = alias
		}
		if env == EnvTest {
			c.output = io.Discard
		} else {
			p, ok := presets[env]
			if !ok {
				env, p = EnvDevelopment, presets[EnvDevelopment]
			}
			c.level, c.format = p.level, p.format
		}
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		c.attrs = append(c.attrs, slog.String("env", env))
	}
}

// New builds a logger. Without options it writes JSON at INFO to stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}
	var h slog.Handler
	if c.format == FormatText {
		h = slog.NewTextHandler(c.output, handlerOpts)
	} else {
		h = slog.NewJSONHandler(c.output, handlerOpts)
	}
	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}
	if len(c.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: c.extractors}
	}
	return slog.New(h)
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
