package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hdlview/hdlview/pkg/pipeline"
)

// lowerOpts holds the command-line flags for the lower command.
type lowerOpts struct {
	root    string // dotted path of the root vertex
	output  string // output file path ("-" for stdout)
	noCache bool   // disable the pipeline cache
	refresh bool   // bypass cached entries for this run
}

// lowerCommand creates the lower command.
//
// It imports a design graph, lowers it from the requested root, and writes
// the hierarchical view as JSON.
func (c *CLI) lowerCommand() *cobra.Command {
	var opts lowerOpts

	cmd := &cobra.Command{
		Use:   "lower [graph.json]",
		Short: "Lower a design graph into a hierarchical block view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLower(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "dotted path of the root vertex (default: from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from input, '-' for stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the pipeline cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached view exists")

	return cmd
}

func (c *CLI) runLower(cmd *cobra.Command, input string, opts *lowerOpts) error {
	root := opts.root
	if root == "" {
		root = c.loadConfig().DefaultRoot
	}
	if root == "" {
		return fmt.Errorf("no root given: pass --root or set default_root in %s", configFileName)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		GraphPath: input,
		Root:      root,
		Formats:   []string{pipeline.FormatJSON},
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Lowered %d blocks", result.Stats.BlockCount))

	data := result.Artifacts[pipeline.FormatJSON]
	if opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = viewOutputPath(input)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	printSuccess("Lowered %s from %s", input, StyleHighlight.Render(root))
	printStats(result.Stats.BlockCount, result.Stats.PinCount, result.Stats.LinkCount, result.CacheInfo.ViewHit)
	printFile(outputPath)
	printNextStep("Render a diagram", fmt.Sprintf("hdlview render %s --root %s --format svg", input, root))
	return nil
}

// viewOutputPath derives the default output path for a lowered view.
// "designs/amp.json" becomes "designs/amp.view.json".
func viewOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".view.json"
}
