package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Registry of contributed actions and action groups"
	MsgVersionShort = "Print version information"
	MsgRootsShort   = "List the action set roots"
	MsgTreeShort    = "Print action sets as trees"
	MsgQueryShort   = "Show the direct contents of a group"
	MsgKeysShort    = "List action shortcuts and report conflicts"
	MsgRunShort     = "Run an action by id"
	MsgPluginsShort = "List the active plugins"
	MsgSchemaShort  = "Print the JSON Schema of plugin manifests"
	MsgWatchShort   = "Print action sets and reload them as manifests change"
	MsgBrowseShort  = "Browse an action set interactively"

	// Status messages
	MsgNoRoots       = "No action sets. Add manifests to %s\n"
	MsgNoPlugins     = "No active plugins."
	MsgPluginItem    = "%s\t%s\t%d groups, %d actions\n"
	MsgWatchChanged  = "\n--- %d plugin file(s) loaded ---\n"
	MsgConflictCount = "%d conflicting shortcut(s)\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrLoadPlugins = "failed to load plugins: %w"
	MsgErrNoRoots     = "no action sets to browse"
	MsgErrNoSuchRoot  = "unknown action set: %s"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default is $XDG_CONFIG_HOME/actionreg/config.toml)"
	MsgFlagManifest = "Manifest directory, replaces manifests.paths (repeatable)"
	MsgFlagStyle    = "Output style: tree, plain or json"
	MsgFlagColor    = "Colour: auto, always or never"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/manifest-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
