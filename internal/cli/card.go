package cli

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

// renderFlags are shared by the card, envelope and batch commands.
type renderFlags struct {
	formats string
	dpi     int
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", pipeline.FormatPDF, "output formats: pdf, svg, png (comma-separated)")
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "PNG resolution (default from config, 300)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
}

// cardOptions holds flags for the card command.
type cardOptions struct {
	renderFlags
	order  string
	output string
}

// cardCommand creates the card command for rendering a single design.
func (c *CLI) cardCommand() *cobra.Command {
	var opts cardOptions

	cmd := &cobra.Command{
		Use:   "card <design.json>",
		Short: "Render a card design",
		Long: `Render a card design to a print-ready two-page 5x7" card.

Page one is the front (artwork and caption), page two the inside (message,
signature and attribution). With --order the inside page carries the order
tag used to match prints to envelopes.

Artwork references may be http(s) URLs, data URIs, s3:// objects (when
storage is configured) or local paths. If the artwork cannot be loaded the
front is drawn on a plain background and a warning is logged.`,
		Example: `  # Print-ready PDF
  whisperart card design.json --order ord_8f2a91c4e7

  # Page proofs
  whisperart card design.json -f png --dpi 150 -o proofs/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCard(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.order, "order", "", "order id (tags the inside page and names the file)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory")

	return cmd
}

func (c *CLI) runCard(ctx context.Context, path string, opts cardOptions) error {
	design, err := card.ReadDesignFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOptions{noCache: opts.noCache, localFiles: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	ropts, err := c.renderOptions(opts.formats, opts.dpi, opts.refresh)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering card...")
	spinner.Start()
	res, err := runner.RenderCard(ctx, design, opts.order, ropts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return reportResult("Card rendered", res, ropts, opts.output)
}

// reportResult writes the artifacts and prints what was produced.
func reportResult(title string, res *pipeline.Result, opts pipeline.Options, output string) error {
	paths, err := writeArtifacts(res, output)
	if err != nil {
		return err
	}
	printSuccess("%s", title)
	printRenderStats(res.Stats.Pages, opts.Formats, res.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	if !slices.Contains(opts.Formats, pipeline.FormatPNG) && res.Kind == sink.KindCard {
		printNextStep("Proof pages as images", "whisperart card <design.json> -f png")
	}
	return nil
}
