package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/FrancescElies/typeshed/pkg/stubs"
)

// depsCommand creates the deps command for querying a distribution's dependencies.
func (c *CLI) depsCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "deps <distribution>",
		Short: "Print a distribution's internal and external dependencies",
		Long: `Print the dependencies declared by a distribution.

Internal dependencies are other stub distributions in the collection,
printed by their collection identifier. External dependencies are printed as
normalized requirement strings. With --recursive, the full transitive
closure through internal dependencies is printed instead of the direct set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col := c.collection()

			var (
				deps stubs.PackageDependencies
				err  error
			)
			if recursive {
				deps, err = col.RecursiveDependencies(args[0])
			} else {
				deps, err = col.Dependencies(args[0])
			}
			if err != nil {
				return err
			}

			printDependencies(cmd.OutOrStdout(), deps)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "resolve the transitive closure")

	return cmd
}

func printDependencies(w io.Writer, deps stubs.PackageDependencies) {
	fmt.Fprintln(w, "typeshed:")
	for _, pkg := range deps.Typeshed {
		fmt.Fprintf(w, "  %s\n", pkg)
	}
	fmt.Fprintln(w, "external:")
	for _, req := range deps.External {
		fmt.Fprintf(w, "  %s\n", req)
	}
}
