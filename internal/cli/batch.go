package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/storage"
)

// batchOptions holds flags for the batch command.
type batchOptions struct {
	renderFlags
	kind        string
	concurrency int
	outDir      string
	upload      string
	pick        bool
}

// batchCommand creates the batch command for rendering many orders.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch <orders.json>",
		Short: "Render cards or envelopes for a list of orders",
		Long: `Render every order in a file, either as cards or as envelopes.

The file holds a JSON array of orders or an object {"orders": [...]}, the
same shape the admin batch endpoint accepts. Orders render concurrently;
a failing order is reported and does not stop the others. Files are named
by the last eight characters of the order id.

With --upload the files are also copied to an S3 location.`,
		Example: `  # All cards for today's print run
  whisperart batch orders.json --out print/

  # Envelopes, choosing orders interactively
  whisperart batch orders.json --kind envelopes --pick

  # Upload to object storage
  whisperart batch orders.json --upload s3://prints/2026-10-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.kind, "kind", string(pipeline.KindCards), "what to render: cards or envelopes")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 0, "orders rendered at once (default from config, 4)")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&opts.upload, "upload", "", "also upload to s3://bucket/prefix")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose orders interactively")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path string, opts batchOptions) error {
	logger := loggerFromContext(ctx)

	kind, err := pipeline.ParseBatchKind(opts.kind)
	if err != nil {
		return err
	}
	orders, err := card.ReadOrdersFile(path)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		printInfo("No orders in %s", path)
		return nil
	}

	var dest *uploadTarget
	if opts.upload != "" {
		if dest, err = c.newUploadTarget(opts.upload); err != nil {
			return err
		}
	}

	if opts.pick {
		if orders, err = pickOrders(orders); err != nil {
			return err
		}
		if len(orders) == 0 {
			printInfo("No orders selected")
			return nil
		}
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
	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = c.cfg.Batch.Concurrency
	}

	prog := newProgress(logger)
	start := time.Now()
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d %s...", len(orders), kind))
	spinner.Start()
	results := runner.Batch(ctx, kind, orders, ropts, concurrency)
	spinner.Stop()
	if err := ctx.Err(); err != nil {
		return err
	}

	var written []string
	for _, r := range results {
		if r.Err != nil {
			printError("%s  %v", r.ShortID, r.Err)
			continue
		}
		paths, err := writeArtifacts(r.Result, opts.outDir)
		if err != nil {
			return err
		}
		printSuccess("%s", r.ShortID)
		for _, p := range paths {
			printFile(p)
		}
		written = append(written, paths...)
	}

	if dest != nil && len(written) > 0 {
		if err := dest.uploadAll(ctx, written); err != nil {
			return err
		}
		printSuccess("Uploaded %d files to %s", len(written), dest)
	}

	printNewline()
	summary := pipeline.Summarize(results, time.Since(start))
	printBatchSummary(summary)
	prog.done(fmt.Sprintf("Rendered %d of %d %s", summary.Succeeded, summary.Total, kind))

	if summary.Failed > 0 {
		return errors.New(errors.ErrCodeRender, "%d of %d orders failed", summary.Failed, summary.Total)
	}
	return nil
}

// pickOrders runs the interactive order picker.
func pickOrders(orders []card.Order) ([]card.Order, error) {
	final, err := tea.NewProgram(NewOrderPickerModel(orders), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("order picker: %w", err)
	}
	return final.(OrderPickerModel).Selected(), nil
}

// =============================================================================
// Upload
// =============================================================================

// uploadTarget copies batch output to s3://bucket/prefix.
type uploadTarget struct {
	client *storage.Client
	bucket string
	prefix string
}

func (c *CLI) newUploadTarget(uri string) (*uploadTarget, error) {
	bucket, prefix, err := storage.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return &uploadTarget{client: newStorage(cfg), bucket: bucket, prefix: prefix}, nil
}

func (u *uploadTarget) String() string {
	return "s3://" + u.bucket + "/" + u.prefix
}

// uploadAll uploads files one at a time under the target prefix, keeping
// their base names.
func (u *uploadTarget) uploadAll(ctx context.Context, paths []string) error {
	spinner := newSpinnerWithContext(ctx, "Uploading...")
	spinner.Start()
	defer spinner.Stop()

	for i, p := range paths {
		spinner.Update(fmt.Sprintf("Uploading %d/%d %s", i+1, len(paths), filepath.Base(p)))
		data, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", p)
		}
		name := filepath.Base(p)
		key := storage.JoinKey(u.prefix, name)
		if err := u.client.Upload(ctx, u.bucket, key, mime.TypeByExtension(filepath.Ext(name)), data); err != nil {
			return err
		}
	}
	return nil
}
