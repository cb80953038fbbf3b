package handlers

import (
	"context"

	"github.com/arthur-debert/actionreg/pkg/contrib"
)

// NoopHandlerName is the name of the noop handler
const NoopHandlerName = "noop"

// NoopHandler builds executors that do nothing. Useful for placeholders
// whose behaviour is wired up later.
type NoopHandler struct{}

// NewNoopHandler creates a new NoopHandler
func NewNoopHandler() *NoopHandler {
	return &NoopHandler{}
}

// Name returns the unique name of this handler
func (h *NoopHandler) Name() string {
	return NoopHandlerName
}

// Description returns a human-readable description
func (h *NoopHandler) Description() string {
	return "Does nothing"
}

// ValidateOptions accepts any options
func (h *NoopHandler) ValidateOptions(map[string]interface{}) error {
	return nil
}

// NewExecutor returns an executor that always succeeds
func (h *NoopHandler) NewExecutor(map[string]interface{}) (contrib.Executor, error) {
	return contrib.ExecutorFunc(func(context.Context) error { return nil }), nil
}
