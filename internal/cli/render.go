package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hdlview/hdlview/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	root     string   // dotted path of the root vertex
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "json", "dot", "svg"
	detailed bool     // include block types and instance paths in labels
	noCache  bool     // disable the pipeline cache
	refresh  bool     // bypass cached entries for this run
}

// renderCommand creates the render command for generating diagrams.
// It lowers the design graph and writes one output file per format.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a design graph as a block diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "dotted path of the root vertex (default: from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include block types and instance paths in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the pipeline cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached artifacts exist")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
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

	// SVG rendering shells into graphviz and can take a moment on large
	// designs; show a spinner unless we are piping to stdout.
	var spin *Spinner
	if opts.output != "-" && containsFormat(opts.formats, pipeline.FormatSVG) {
		spin = newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Rendering %s", input))
		spin.Start()
	}

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		GraphPath: input,
		Root:      root,
		Formats:   opts.formats,
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if spin != nil {
		if err != nil {
			spin.StopWithError(fmt.Sprintf("Rendering %s failed", input))
		} else {
			spin.Stop()
		}
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		if len(opts.formats) != 1 {
			return fmt.Errorf("stdout output requires exactly one format")
		}
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	printSuccess("Rendered %s from %s", input, StyleHighlight.Render(root))
	printStats(result.Stats.BlockCount, result.Stats.PinCount, result.Stats.LinkCount, result.CacheInfo.RenderHit)

	base := renderBasePath(opts.output, input)
	for _, format := range opts.formats {
		outputPath := base + "." + format
		if opts.output != "" && len(opts.formats) == 1 && filepath.Ext(opts.output) != "" {
			outputPath = opts.output
		}
		if err := os.WriteFile(outputPath, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputPath, err)
		}
		printFile(outputPath)
	}
	return nil
}

// containsFormat reports whether formats includes f.
func containsFormat(formats []string, f string) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}

// renderBasePath derives the base output path from the output and input
// file paths. If output is empty, it strips the extension from input. If
// output has a known format extension, it strips that extension.
func renderBasePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
