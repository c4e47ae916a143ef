package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
)

type envelopeOptions struct {
	renderFlags
	order  string
	output string
}

// envelopeCommand creates the envelope command.
func (c *CLI) envelopeCommand() *cobra.Command {
	var opts envelopeOptions

	cmd := &cobra.Command{
		Use:   "envelope <recipient.json>",
		Short: "Render a #7 envelope for a recipient",
		Long: `Render a single-page 7.25x5.25" envelope with the return address in the
top-left corner and the recipient block centred.

The recipient file holds {name, addressLine1, addressLine2, city, state,
zipCode}. Addresses are printed as given; only a completely empty address
is rejected.`,
		Example: `  whisperart envelope recipient.json --order ord_8f2a91c4e7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnvelope(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.order, "order", "", "order id (names the file)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory")

	return cmd
}

func (c *CLI) runEnvelope(ctx context.Context, path string, opts envelopeOptions) error {
	rcpt, err := card.ReadRecipientFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOptions{noCache: opts.noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	ropts, err := c.renderOptions(opts.formats, opts.dpi, opts.refresh)
	if err != nil {
		return err
	}

	res, err := runner.RenderEnvelope(ctx, rcpt, opts.order, ropts)
	if err != nil {
		return err
	}
	return reportResult("Envelope rendered", res, ropts, opts.output)
}
