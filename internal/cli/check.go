package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FrancescElies/typeshed/pkg/errors"
	"github.com/FrancescElies/typeshed/pkg/stubs"
)

// checkCommand creates the check command for validating the collection.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [distributions...]",
		Short: "Validate stub metadata records and dependency closures",
		Long: `Validate METADATA.toml records against the metadata schema.

Without arguments, every distribution in the collection is checked. When all
records validate, the published-name mapping and the transitive dependency
closure of each distribution are resolved as well, so duplicate published
names and cyclic internal dependencies are reported too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args)
		},
	}
}

func (c *CLI) runCheck(args []string) error {
	col := c.collection()

	dists := args
	if len(dists) == 0 {
		var err error
		if dists, err = col.Distributions(); err != nil {
			return err
		}
	}

	p := newProgress(c.Logger)

	failures := 0
	for _, dist := range dists {
		meta, err := col.Metadata(dist)
		if err != nil {
			failures++
			c.Logger.Error(errors.UserMessage(err), "distribution", dist)
			continue
		}
		c.Logger.Debug("metadata ok", "distribution", dist, "version", meta.Version)
		if meta.IsObsolete() {
			c.Logger.Warn("obsolete stubs", "distribution", dist, "since", meta.ObsoleteSince)
		}
		if meta.NoLongerUpdated {
			c.Logger.Warn("no longer updated", "distribution", dist)
		}
	}

	// Dependency resolution loads every record in the collection; only
	// attempt it once the individual records are known to be clean, so a
	// single broken record is reported once instead of failing every
	// closure.
	if failures == 0 {
		failures += c.checkDependencies(col, dists)
	}

	p.done(fmt.Sprintf("Checked %d distributions", len(dists)))

	if failures > 0 {
		return fmt.Errorf("%d of %d distributions failed validation", failures, len(dists))
	}
	return nil
}

func (c *CLI) checkDependencies(col *stubs.Collection, dists []string) int {
	if _, err := col.DistributionMapping(); err != nil {
		c.Logger.Error(errors.UserMessage(err))
		return 1
	}

	failures := 0
	for _, dist := range dists {
		deps, err := col.RecursiveDependencies(dist)
		if err != nil {
			failures++
			c.Logger.Error(errors.UserMessage(err), "distribution", dist)
			continue
		}
		c.Logger.Debug("dependencies ok",
			"distribution", dist,
			"internal", len(deps.Typeshed),
			"external", len(deps.External))
	}
	return failures
}
