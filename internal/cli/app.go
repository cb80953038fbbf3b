package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/actionreg/pkg/actionadmin"
	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/config"
	"github.com/arthur-debert/actionreg/pkg/handlers"
	"github.com/arthur-debert/actionreg/pkg/host"
	"github.com/arthur-debert/actionreg/pkg/logging"
	"github.com/arthur-debert/actionreg/pkg/manifest"
	"github.com/arthur-debert/actionreg/pkg/render"
)

// globalOptions are the persistent flags of the root command
type globalOptions struct {
	verbosity  int
	configFile string
	manifests  []string
	style      string
	color      string
}

// app is everything a command needs once configuration is loaded
type app struct {
	cfg       *config.Config
	out       io.Writer
	admin     *actionadmin.Admin
	host      *host.Host
	handlers  *handlers.Set
	discovery *manifest.Discovery
	logger    zerolog.Logger
}

// newApp loads configuration and builds the registry without loading any
// plugin yet
func newApp(cmd *cobra.Command, opts *globalOptions, fs afero.Fs) (*app, error) {
	overrides := make(map[string]interface{})
	if len(opts.manifests) > 0 {
		overrides["manifests.paths"] = opts.manifests
	}
	if cmd.Flags().Changed("style") {
		overrides["render.style"] = opts.style
	}
	if cmd.Flags().Changed("color") {
		overrides["render.color"] = opts.color
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	out := cmd.OutOrStdout()
	set := handlers.NewSet(out)
	disc, err := manifest.NewDiscovery(fs, cfg.Manifests.Paths, cfg.Manifests.Extensions, cfg.Manifests.Ignore, set)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	admin := actionadmin.New()
	return &app{
		cfg:       cfg,
		out:       out,
		admin:     admin,
		host:      host.New(admin),
		handlers:  set,
		discovery: disc,
		logger:    logging.GetLogger("cli"),
	}, nil
}

// loadPlugins activates every discovered manifest; the first failure aborts
func (a *app) loadPlugins() error {
	plugins, err := a.discovery.LoadAll()
	if err != nil {
		return fmt.Errorf(MsgErrLoadPlugins, err)
	}
	for _, p := range plugins {
		if err := a.host.Activate(p); err != nil {
			return fmt.Errorf(MsgErrLoadPlugins, err)
		}
	}
	a.logger.Info().Int("plugins", len(plugins)).Msg("Plugins loaded")
	return nil
}

func (a *app) renderer() *render.Renderer {
	// config validation already rejected unknown styles
	format, _ := render.ParseFormat(a.cfg.Render.Style)
	return render.New(a.out, render.Options{
		Format:    format,
		Shortcuts: a.cfg.Render.Shortcuts,
		Color:     render.ColorEnabled(a.cfg.Render.Color, a.out),
	})
}

// snapshots returns one snapshot per root, all roots when none are given
func (a *app) snapshots(roots []string) ([]*actionset.TreeNode, error) {
	if len(roots) == 0 {
		roots = a.admin.Roots()
	}
	out := make([]*actionset.TreeNode, 0, len(roots))
	for _, root := range roots {
		set, err := a.admin.ActionSet(root)
		if err != nil {
			return nil, fmt.Errorf(MsgErrNoSuchRoot, root)
		}
		out = append(out, set.Snapshot())
	}
	return out, nil
}
