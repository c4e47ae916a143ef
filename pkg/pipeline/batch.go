package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// BatchKind selects what a batch renders for each order.
type BatchKind string

const (
	KindCards     BatchKind = "cards"
	KindEnvelopes BatchKind = "envelopes"
)

// ParseBatchKind accepts the CLI kinds and the admin API action names.
func ParseBatchKind(s string) (BatchKind, error) {
	switch s {
	case "cards", "card", "downloadCards":
		return KindCards, nil
	case "envelopes", "envelope", "downloadEnvelopes":
		return KindEnvelopes, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown batch kind %q (cards, envelopes)", s)
}

// BatchResult is the outcome for one order. Exactly one of Result and Err
// is set.
type BatchResult struct {
	OrderID string
	ShortID string
	Result  *Result
	Err     error
}

// BatchSummary counts a batch's outcomes.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	CacheHits int
	Duration  time.Duration
}

// Batch renders kind for every order with at most concurrency renders in
// flight. A failing order is reported in its BatchResult and never cancels
// its siblings. Results are in input order.
func (r *Runner) Batch(ctx context.Context, kind BatchKind, orders []card.Order, opts Options, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]BatchResult, len(orders))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range orders {
		o := &orders[i]
		results[i] = BatchResult{OrderID: o.ID, ShortID: o.ShortID()}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := r.renderOrder(ctx, kind, o, opts)
			if err != nil {
				r.Logger.Warn("batch item failed", "order", o.ID, "err", err)
			}
			results[i].Result, results[i].Err = res, err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) renderOrder(ctx context.Context, kind BatchKind, o *card.Order, opts Options) (*Result, error) {
	switch kind {
	case KindCards:
		return r.RenderCard(ctx, &o.CardDesign, o.ID, opts)
	case KindEnvelopes:
		return r.RenderEnvelope(ctx, &o.Recipient, o.ID, opts)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown batch kind %q", kind)
}

// Summarize counts results.
func Summarize(results []BatchResult, elapsed time.Duration) BatchSummary {
	s := BatchSummary{Total: len(results), Duration: elapsed}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Result != nil && r.Result.CacheHit:
			s.Succeeded++
			s.CacheHits++
		default:
			s.Succeeded++
		}
	}
	return s
}
