package mason

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/embedtools/br2kit/internal/builder"
	"github.com/embedtools/br2kit/internal/cli"
)

func newAddCmd(opts *options) *cobra.Command {
	var main string
	var externals []string
	cmd := &cobra.Command{
		Use:     "add <name> <defconfig> <output>",
		Aliases: []string{"a"},
		Short:   "Add a new build definition",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.ExploreTrees(cmd.Context(), main, externals)
			if err != nil {
				return err
			}
			output, err := filepath.Abs(args[2])
			if err != nil {
				return fmt.Errorf("resolve output %s: %w", args[2], err)
			}
			b, err := env.CreateBuilder(args[1], output)
			if err != nil {
				return err
			}
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Add(args[0], b)
		},
	}
	cmd.Flags().StringVarP(&main, "main", "m", "", "Path to main tree")
	cmd.Flags().StringArrayVarP(&externals, "external", "e", nil, "Path to external tree (repeatable)")
	return cmd
}

func newBuildCmd(opts *options) *cobra.Command {
	stepName := builder.StepAll.String()
	cmd := &cobra.Command{
		Use:     "build <name>",
		Aliases: []string{"b"},
		Short:   "Perform a build from a definition",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := builder.ParseStep(stepName)
			if err != nil {
				return err
			}
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Build(cmd.Context(), args[0], step, builder.ExecRunner{})
		},
	}
	cmd.Flags().StringVar(&stepName, "step", stepName, "Build step (init, all, main)")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"d"},
		Short:   "Delete a build definition",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(args[0])
		},
	}
}

func newExecuteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "execute <name> <target>...",
		Aliases: []string{"e"},
		Short:   "Build specific targets of a build definition",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Execute(cmd.Context(), args[0], builder.ExecRunner{}, args[1:]...)
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List available build definitions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			names, err := store.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Aliases: []string{"s", "sh"},
		Short:   "Show the contents of a build definition",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			text, err := store.Render(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
