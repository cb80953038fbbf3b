// Package handlers maps handler names to executor factories.
//
// Plugin manifests do not carry code. An action names a handler and passes it
// options; the handler validates the options and returns the contrib.Executor
// that runs when the action is invoked.
//
// Built-in handlers:
//
//	noop     does nothing
//	log      writes "message" to the log at "level" (default info)
//	print    writes "message" to the set's output
//	command  runs "command" with "args" in "dir", output to the set's output
package handlers
