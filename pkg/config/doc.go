// Package config loads actionreg settings.
//
// Sources, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. $XDG_CONFIG_HOME/actionreg/config.toml, if present
//  3. the file given with --config, which must exist
//  4. ACTIONREG_* environment variables (ACTIONREG_RENDER_STYLE=plain)
//  5. overrides set from command-line flags
//
// List values may be given as comma-separated strings in the environment.
package config
