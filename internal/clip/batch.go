package clip

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/cybre/moltenclip/internal/utils"
)

// Observer is notified after each curve of a batch is clipped. It may be
// called from several goroutines at once.
type Observer func(index int, res Result)

// All clips every curve independently on a bounded worker pool. Results are
// returned in input order. The first invalid curve aborts the batch.
func All(ctx context.Context, curves []Curve, opts Options, observe Observer) ([]Result, error) {
	results := make([]Result, len(curves))
	if len(curves) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = utils.Clamp(workers, 1, len(curves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, curve := range curves {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Clip(curve, opts)
			if err != nil {
				return eris.Wrapf(err, "curve %d", i)
			}
			results[i] = res
			if observe != nil {
				observe(i, res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "clip batch")
	}
	return results, nil
}
