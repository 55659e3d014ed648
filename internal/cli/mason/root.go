// Package mason implements the br2-mason command tree: management and
// replay of named build definitions.
package mason

import (
	"github.com/spf13/cobra"

	"github.com/embedtools/br2kit/internal/cli"
	"github.com/embedtools/br2kit/internal/config"
	"github.com/embedtools/br2kit/internal/ctxlog"
	"github.com/embedtools/br2kit/internal/mason"
)

type options struct {
	storage    string
	configPath string
	verbose    bool
}

// openStore resolves the storage location (flag, then config file, then
// the per-user default) and opens it.
func (o *options) openStore() (*mason.Mason, error) {
	storage := o.storage
	if storage == "" {
		cfg, err := cli.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		storage = cfg.Storage
	}
	if storage == "" {
		var err error
		storage, err = config.DefaultStorage()
		if err != nil {
			return nil, err
		}
	}
	return mason.Open(storage)
}

// NewRootCmd builds the br2-mason command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "br2-mason",
		Short:         "Manage Buildroot builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := cli.NewLogger(opts.verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.storage, "storage", "s", "", "Path to build definition store")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddCommand(
		newAddCmd(opts),
		newBuildCmd(opts),
		newDeleteCmd(opts),
		newExecuteCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
	)
	return cmd
}
