package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// LogHandlerName is the name of the log handler
const LogHandlerName = "log"

// LogHandler builds executors that write a message to the application log
type LogHandler struct{}

// NewLogHandler creates a new LogHandler
func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

// Name returns the unique name of this handler
func (h *LogHandler) Name() string {
	return LogHandlerName
}

// Description returns a human-readable description
func (h *LogHandler) Description() string {
	return "Writes a message to the log"
}

// ValidateOptions requires "message"; "level" must be a zerolog level name
func (h *LogHandler) ValidateOptions(options map[string]interface{}) error {
	_, _, err := h.parse(options)
	return err
}

// NewExecutor returns an executor logging the configured message
func (h *LogHandler) NewExecutor(options map[string]interface{}) (contrib.Executor, error) {
	message, level, err := h.parse(options)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("handlers.log")
	return contrib.ExecutorFunc(func(context.Context) error {
		logger.WithLevel(level).Msg(message)
		return nil
	}), nil
}

func (h *LogHandler) parse(options map[string]interface{}) (string, zerolog.Level, error) {
	message, err := stringOption(LogHandlerName, options, "message", true)
	if err != nil {
		return "", zerolog.NoLevel, err
	}
	name, err := stringOption(LogHandlerName, options, "level", false)
	if err != nil {
		return "", zerolog.NoLevel, err
	}
	if name == "" {
		return message, zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return "", zerolog.NoLevel, errors.Newf(errors.ErrInvalidInput, "unknown log level '%s'", name).
			WithDetail("handler", LogHandlerName)
	}
	return message, level, nil
}
