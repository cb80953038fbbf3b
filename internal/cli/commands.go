package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/actionreg/internal/version"
	"github.com/arthur-debert/actionreg/pkg/config"
	"github.com/arthur-debert/actionreg/pkg/host"
	"github.com/arthur-debert/actionreg/pkg/manifest"
	"github.com/arthur-debert/actionreg/pkg/render"
	"github.com/arthur-debert/actionreg/pkg/tui"
)

// loaded builds the app and activates the plugins, for the commands that
// read the registry
func loaded(cmd *cobra.Command, opts *globalOptions, fs afero.Fs) (*app, error) {
	a, err := newApp(cmd, opts, fs)
	if err != nil {
		return nil, err
	}
	if err := a.loadPlugins(); err != nil {
		return nil, err
	}
	return a, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "actionreg version %s\n", version.Version)
			fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			fmt.Fprintf(out, "Built:  %s\n", version.Date)
		},
	}
}

func newRootsCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: MsgRootsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}
			roots := a.admin.Roots()
			if len(roots) == 0 && a.cfg.Render.Style != config.StyleJSON {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgNoRoots, strings.Join(a.cfg.Manifests.Paths, ", "))
				return nil
			}
			return a.renderer().Roots(roots)
		},
	}
}

func newTreeCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [root...]",
		Short: MsgTreeShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}
			trees, err := a.snapshots(args)
			if err != nil {
				return err
			}
			return a.renderer().Trees(trees)
		},
	}
}

func newQueryCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "query <root> [group]",
		Short: MsgQueryShort,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}
			group := args[0]
			if len(args) == 2 {
				group = args[1]
			}
			view, err := a.admin.Query(args[0], group)
			if err != nil {
				return err
			}
			return a.renderer().Group(view)
		},
	}
}

func newKeysCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [root]",
		Short: MsgKeysShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}
			trees, err := a.snapshots(args)
			if err != nil {
				return err
			}

			var bindings []render.Binding
			var conflicts []render.Conflict
			for _, t := range trees {
				bindings = append(bindings, render.Bindings(t)...)
				conflicts = append(conflicts, render.Conflicts(t)...)
			}
			if err := a.renderer().Keys(bindings, conflicts); err != nil {
				return err
			}
			if len(conflicts) > 0 && a.cfg.Render.Style != config.StyleJSON {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgConflictCount, len(conflicts))
			}
			return nil
		},
	}
}

func newRunCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "run <action-id>",
		Short: MsgRunShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}
			return a.admin.Execute(cmd.Context(), args[0])
		},
	}
}

type pluginInfo struct {
	Name    string `json:"name"`
	Source  string `json:"source,omitempty"`
	Groups  int    `json:"groups"`
	Actions int    `json:"actions"`
}

func newPluginsCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: MsgPluginsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}

			infos := []pluginInfo{}
			for _, name := range a.host.Active() {
				p, err := a.host.Plugin(name)
				if err != nil {
					continue
				}
				infos = append(infos, pluginInfo{
					Name:    p.Name,
					Source:  p.Source,
					Groups:  len(p.Groups),
					Actions: len(p.Actions),
				})
			}

			out := cmd.OutOrStdout()
			if a.cfg.Render.Style == config.StyleJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			if len(infos) == 0 {
				fmt.Fprintln(out, MsgNoPlugins)
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(out, MsgPluginItem, info.Name, info.Source, info.Groups, info.Actions)
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: MsgSchemaShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := manifest.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
	}
}

func newWatchCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: MsgWatchShort,
		Long:  MsgWatchLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, fs)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := a.renderer()
			show := func() {
				trees, err := a.snapshots(nil)
				if err != nil {
					a.logger.Warn().Err(err).Msg("Snapshot failed")
					return
				}
				if err := r.Trees(trees); err != nil {
					a.logger.Warn().Err(err).Msg("Render failed")
				}
			}

			var w *host.Watcher
			w = host.NewWatcher(a.host, a.discovery, a.cfg.Watch.Debounce, func() {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgWatchChanged, len(w.Loaded()))
				show()
			})
			if err := w.Sync(); err != nil {
				return err
			}
			show()
			return w.Run(ctx)
		},
	}
}

func newBrowseCmd(opts *globalOptions, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [root]",
		Short: MsgBrowseShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loaded(cmd, opts, fs)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				roots := a.admin.Roots()
				if len(roots) == 0 {
					return stderrors.New(MsgErrNoRoots)
				}
				args = roots[:1]
			}
			trees, err := a.snapshots(args)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), trees[0], a.admin.Execute)
		},
	}
}
