package logger_adapter

import (
	"fmt"

	"reconciliation-service/internal/core/port"
)

// MultiLoggerAdapter раздает каждую запись всем включенным логгерам.
type MultiLoggerAdapter struct {
	loggers []port.LoggerPort
}

// NewMultiloggerAdapter пропускает nil, чтобы выключенный логгер можно было передать как есть.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	enabled := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			enabled = append(enabled, l)
		}
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	}
	if len(enabled) == 1 {
		return enabled[0], nil
	}
	return &MultiLoggerAdapter{loggers: enabled}, nil
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := make([]port.LoggerPort, len(m.loggers))
	for i, l := range m.loggers {
		enriched[i] = l.WithFields(fields)
	}
	return &MultiLoggerAdapter{loggers: enriched}
}
