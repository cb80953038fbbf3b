package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/actionreg/internal/version"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "actionreg",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringArrayVarP(&opts.manifests, "manifest", "m", nil, MsgFlagManifest)
	flags.StringVar(&opts.style, "style", "", MsgFlagStyle)
	flags.StringVar(&opts.color, "color", "", MsgFlagColor)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRootsCmd(opts, fs))
	rootCmd.AddCommand(newTreeCmd(opts, fs))
	rootCmd.AddCommand(newQueryCmd(opts, fs))
	rootCmd.AddCommand(newKeysCmd(opts, fs))
	rootCmd.AddCommand(newRunCmd(opts, fs))
	rootCmd.AddCommand(newPluginsCmd(opts, fs))
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newWatchCmd(opts, fs))
	rootCmd.AddCommand(newBrowseCmd(opts, fs))

	return rootCmd
}
