// Package clerk implements the br2-clerk command tree: inspection and
// modification of a Buildroot environment.
package clerk

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/embedtools/br2kit/internal/buildroot"
	"github.com/embedtools/br2kit/internal/cli"
	"github.com/embedtools/br2kit/internal/ctxlog"
)

type options struct {
	main       string
	externals  []string
	configPath string
	verbose    bool
}

// explore builds the Buildroot view from flags, falling back to the
// config file for trees not given on the command line.
func (o *options) explore(ctx context.Context) (*buildroot.Buildroot, error) {
	cfg, err := cli.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	main := o.main
	if main == "" {
		main = cfg.Main
	}
	externals := o.externals
	if len(externals) == 0 {
		externals = cfg.Externals
	}
	return cli.ExploreTrees(ctx, main, externals)
}

// NewRootCmd builds the br2-clerk command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "br2-clerk",
		Short:         "Provide information or perform tasks on a Buildroot environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := cli.NewLogger(opts.verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.main, "main", "m", "", "Path to main tree")
	cmd.PersistentFlags().StringArrayVarP(&opts.externals, "external", "e", nil, "Path to external tree (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddCommand(newDefconfigCmd(opts), newPackageCmd(opts))
	return cmd
}
