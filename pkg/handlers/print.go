package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/actionreg/pkg/contrib"
)

// PrintHandlerName is the name of the print handler
const PrintHandlerName = "print"

// PrintHandler builds executors that print a message
type PrintHandler struct {
	out io.Writer
}

// NewPrintHandler creates a new PrintHandler writing to out
func NewPrintHandler(out io.Writer) *PrintHandler {
	return &PrintHandler{out: out}
}

// Name returns the unique name of this handler
func (h *PrintHandler) Name() string {
	return PrintHandlerName
}

// Description returns a human-readable description
func (h *PrintHandler) Description() string {
	return "Prints a message"
}

// ValidateOptions requires "message"
func (h *PrintHandler) ValidateOptions(options map[string]interface{}) error {
	_, err := stringOption(PrintHandlerName, options, "message", true)
	return err
}

// NewExecutor returns an executor printing the configured message
func (h *PrintHandler) NewExecutor(options map[string]interface{}) (contrib.Executor, error) {
	message, err := stringOption(PrintHandlerName, options, "message", true)
	if err != nil {
		return nil, err
	}
	return contrib.ExecutorFunc(func(context.Context) error {
		_, err := fmt.Fprintln(h.out, message)
		return err
	}), nil
}
