package clerk

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func newDefconfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "defconfig",
		Aliases: []string{"d", "def"},
		Short:   "Operate on defconfigs",
	}
	cmd.AddCommand(newDefconfigListCmd(opts), newDefconfigCheckCmd(opts))
	return cmd
}

func newDefconfigListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available defconfigs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.explore(cmd.Context())
			if err != nil {
				return err
			}
			var names []string
			for _, e := range env.Defconfigs() {
				names = append(names, e.Name)
			}
			slices.Sort(names)
			for _, name := range slices.Compact(names) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDefconfigCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <defconfig> <package>",
		Short: "Check whether a defconfig selects a package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.explore(cmd.Context())
			if err != nil {
				return err
			}
			d, err := env.GetDefconfig(args[0])
			if err != nil {
				return err
			}
			if d.Selects(args[1]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s selects %s\n", args[0], args[1])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not select %s\n", args[0], args[1])
			}
			return nil
		},
	}
}
