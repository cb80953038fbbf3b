package handlers

import (
	"context"
	"io"
	"os/exec"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// CommandHandlerName is the name of the command handler
const CommandHandlerName = "command"

// CommandHandler builds executors that run an external program.
// The program is killed when the invocation context is cancelled.
type CommandHandler struct {
	out io.Writer
}

// NewCommandHandler creates a new CommandHandler writing output to out
func NewCommandHandler(out io.Writer) *CommandHandler {
	return &CommandHandler{out: out}
}

// Name returns the unique name of this handler
func (h *CommandHandler) Name() string {
	return CommandHandlerName
}

// Description returns a human-readable description
func (h *CommandHandler) Description() string {
	return "Runs an external command"
}

// ValidateOptions requires "command"; "args" and "dir" are optional
func (h *CommandHandler) ValidateOptions(options map[string]interface{}) error {
	_, err := h.parse(options)
	return err
}

type commandSpec struct {
	name string
	args []string
	dir  string
}

func (h *CommandHandler) parse(options map[string]interface{}) (commandSpec, error) {
	var spec commandSpec
	var err error
	if spec.name, err = stringOption(CommandHandlerName, options, "command", true); err != nil {
		return spec, err
	}
	if spec.args, err = stringsOption(CommandHandlerName, options, "args"); err != nil {
		return spec, err
	}
	if spec.dir, err = stringOption(CommandHandlerName, options, "dir", false); err != nil {
		return spec, err
	}
	return spec, nil
}

// NewExecutor returns an executor running the configured command
func (h *CommandHandler) NewExecutor(options map[string]interface{}) (contrib.Executor, error) {
	spec, err := h.parse(options)
	if err != nil {
		return nil, err
	}

	return contrib.ExecutorFunc(func(ctx context.Context) error {
		logger := logging.GetLogger("handlers.command")
		cmd := exec.CommandContext(ctx, spec.name, spec.args...)
		cmd.Dir = spec.dir
		cmd.Stdout = h.out
		cmd.Stderr = h.out

		logger.Debug().
			Str("command", spec.name).
			Strs("args", spec.args).
			Str("dir", spec.dir).
			Msg("Running command")
		return cmd.Run()
	}), nil
}
