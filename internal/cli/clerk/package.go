package clerk

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func newPackageCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "package",
		Aliases: []string{"p", "pkg"},
		Short:   "Operate on packages",
	}
	cmd.AddCommand(newPackageListCmd(opts), newPackageBumpCmd(opts))
	return cmd
}

func newPackageListCmd(opts *options) *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available packages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.explore(cmd.Context())
			if err != nil {
				return err
			}
			var names []string
			for _, e := range env.Packages() {
				names = append(names, e.Name)
			}
			slices.Sort(names)
			for _, name := range slices.Compact(names) {
				if !details {
					fmt.Fprintln(cmd.OutOrStdout(), name)
					continue
				}
				version, err := env.GetPackageVersion(name)
				if err != nil {
					version = "unknown"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", name, version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&details, "details", "d", false, "Show details")
	return cmd
}

func newPackageBumpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "bump <name> <version>",
		Aliases: []string{"b"},
		Short:   "Change the version of a package",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.explore(cmd.Context())
			if err != nil {
				return err
			}
			return env.SetPackageVersion(args[0], args[1])
		},
	}
}
