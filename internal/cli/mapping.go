package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

// mappingCommand creates the mapping command for printing the name table.
func (c *CLI) mappingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mapping",
		Short: "Print the published name to collection identifier table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := c.collection().DistributionMapping()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range slices.Sorted(maps.Keys(mapping)) {
				fmt.Fprintf(w, "%s -> %s\n", name, mapping[name])
			}
			return nil
		},
	}
}
