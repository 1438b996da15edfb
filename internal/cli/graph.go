package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"
)

// graphCommand creates the graph command for rendering the internal
// dependency closure of a distribution.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		external bool
	)

	cmd := &cobra.Command{
		Use:   "graph <distribution>",
		Short: "Render the internal dependency closure as DOT or SVG",
		Long: `Render the transitive internal dependency graph of a distribution.

Nodes are stub distributions in the collection; edges are the direct internal
dependencies declared in each METADATA.toml. With --external, external
requirements appear as grey ellipse leaves. DOT output goes to stdout unless
--output is given; SVG output defaults to <distribution>.svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist := args[0]
			dot, err := c.closureDOT(dist, external)
			if err != nil {
				return err
			}

			switch format {
			case "dot":
				if output == "" {
					fmt.Fprint(cmd.OutOrStdout(), dot)
					return nil
				}
				return os.WriteFile(output, []byte(dot), 0644)
			case "svg":
				svg, err := renderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				if output == "" {
					output = dist + ".svg"
				}
				if err := os.WriteFile(output, svg, 0644); err != nil {
					return err
				}
				c.Logger.Info("wrote graph", "path", output)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: dot, svg)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&external, "external", false, "include external requirements as leaves")

	return cmd
}

// closureDOT builds a Graphviz DOT document for the internal dependency
// closure rooted at dist.
func (c *CLI) closureDOT(dist string, external bool) (string, error) {
	col := c.collection()

	closure, err := col.RecursiveDependencies(dist)
	if err != nil {
		return "", err
	}
	nodes := append([]string{dist}, closure.Typeshed...)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q;\n", n)
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		direct, err := col.Dependencies(n)
		if err != nil {
			return "", err
		}
		for _, dep := range direct.Typeshed {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n, dep)
		}
		if external {
			for _, req := range direct.External {
				// Strip the specifier so the same package declared with
				// different constraints collapses into one leaf.
				name := req
				if i := strings.IndexAny(name, "<>=!~;["); i >= 0 {
					name = name[:i]
				}
				fmt.Fprintf(&buf, "  %q [shape=ellipse, fillcolor=lightgrey];\n", name)
				fmt.Fprintf(&buf, "  %q -> %q;\n", n, name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// renderSVG renders a DOT document to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
