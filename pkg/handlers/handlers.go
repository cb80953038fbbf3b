package handlers

import (
	"io"
	"os"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
	"github.com/arthur-debert/actionreg/pkg/registry"
)

// Handler turns manifest options into an executor
type Handler interface {
	// Name returns the unique name manifests refer to
	Name() string

	// Description returns a human-readable description of what the handler does
	Description() string

	// ValidateOptions checks the options before any executor is built
	ValidateOptions(options map[string]interface{}) error

	// NewExecutor builds the executor for one action
	NewExecutor(options map[string]interface{}) (contrib.Executor, error)
}

// Set is a named collection of handlers
type Set struct {
	handlers registry.Registry[Handler]
}

// NewSet returns a set holding the built-in handlers. Handlers that produce
// output write to out, or to stdout when out is nil.
func NewSet(out io.Writer) *Set {
	if out == nil {
		out = os.Stdout
	}
	s := &Set{handlers: registry.New[Handler]()}
	registry.MustRegister(s.handlers, NoopHandlerName, Handler(NewNoopHandler()))
	registry.MustRegister(s.handlers, LogHandlerName, Handler(NewLogHandler()))
	registry.MustRegister(s.handlers, PrintHandlerName, Handler(NewPrintHandler(out)))
	registry.MustRegister(s.handlers, CommandHandlerName, Handler(NewCommandHandler(out)))
	return s
}

// Register adds h under its own name
func (s *Set) Register(h Handler) error {
	if h == nil {
		return errors.New(errors.ErrInvalidInput, "handler cannot be nil")
	}
	return s.handlers.Register(h.Name(), h)
}

// Get returns the handler called name
func (s *Set) Get(name string) (Handler, error) {
	h, err := s.handlers.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrHandlerNotFound, "unknown handler '%s'", name).
			WithDetail("handler", name)
	}
	return h, nil
}

// Names lists the registered handler names in sorted order
func (s *Set) Names() []string {
	return s.handlers.List()
}

// Build validates options and returns the executor of handler name
func (s *Set) Build(name string, options map[string]interface{}) (contrib.Executor, error) {
	h, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = map[string]interface{}{}
	}
	if err := h.ValidateOptions(options); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("handlers")
	logger.Trace().
		Str("handler", name).
		Interface("options", options).
		Msg("Building executor")
	return h.NewExecutor(options)
}

func stringOption(handler string, options map[string]interface{}, key string, required bool) (string, error) {
	raw, ok := options[key]
	if !ok || raw == nil {
		if required {
			return "", errors.Newf(errors.ErrInvalidInput, "handler '%s' requires option '%s'", handler, key).
				WithDetail("handler", handler).
				WithDetail("option", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "option '%s' of handler '%s' must be a string, got %T", key, handler, raw).
			WithDetail("handler", handler).
			WithDetail("option", key)
	}
	return s, nil
}

// stringsOption accepts a list of strings or a single string
func stringsOption(handler string, options map[string]interface{}, key string) ([]string, error) {
	switch v := options[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrInvalidInput,
					"option '%s' of handler '%s' must only hold strings, got %T", key, handler, item).
					WithDetail("handler", handler).
					WithDetail("option", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "option '%s' of handler '%s' must be a list, got %T", key, handler, v).
			WithDetail("handler", handler).
			WithDetail("option", key)
	}
}
