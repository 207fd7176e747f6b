// Package log wraps log/slog with a component attribute and typed helpers
// for the domain events worth querying for later (payments recorded,
// ledger rows mirrored).
package log

import (
	"log/slog"
	"os"
)

// Shared attribute keys. Handlers and middleware use these instead of ad-hoc
// strings so log queries line up across components.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldLeaseID   = "lease_id"
	FieldPaymentID = "payment_id"
	FieldAmount    = "amount"
	FieldYear      = "year"
	FieldMonth     = "month"
)

// Config controls handler selection for a Logger. A nil Handler gets a text
// handler on stdout at the configured level.
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Component: "app"}
}

// Logger is a slog.Logger that stamps every record with its component.
type Logger struct {
	*slog.Logger
	component string
}

func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}
	component := cfg.Component
	if component == "" {
		component = "app"
	}
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
	}
}

// WithComponent returns a logger stamped with a different component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the component name records are stamped with.
func (l *Logger) Component() string {
	return l.component
}
