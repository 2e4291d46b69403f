package main

import (
	"context"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/internal/source"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAlphaNormCmd(a *app) *cobra.Command {
	var (
		alpha   float32
		workers int64
	)
	cmd := &cobra.Command{
		Use:   "alpha-norm INPUT...",
		Short: "Compute the alpha normalisation factor of each input",
		Long: `Compute (sum of |x|^alpha over all samples and channels / length)^(1/alpha)
for each input and print one JSON object per input, in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("alpha") {
				a.cfg.Alpha = alpha
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Resources.MaxWorkers = workers
			}
			if err := a.prepare(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			loader, err := a.loader(ctx, args)
			if err != nil {
				return err
			}
			return a.writeResults(cmd, a.alphaNormAll(ctx, loader, args))
		},
	}

	cmd.Flags().Float32Var(&alpha, "alpha", 2, "exponent, overrides the configured alpha")
	cmd.Flags().Int64Var(&workers, "workers", 0, "concurrent inputs, 0 uses the configured limit or GOMAXPROCS")
	return cmd
}

// alphaNormAll evaluates inputs concurrently. A failing input does not stop
// the others.
func (a *app) alphaNormAll(ctx context.Context, loader *source.Loader, inputs []string) []result {
	adapter := fvec.NewAdapter(fvec.WithLogger(a.logger), fvec.WithResources(a.rc))
	alpha := a.cfg.Alpha

	results := make([]result, len(inputs))
	var g errgroup.Group
	for i, uri := range inputs {
		g.Go(func() error {
			if err := a.rc.AcquireWorker(ctx); err != nil {
				results[i] = failed(uri, err)
				return nil
			}
			defer a.rc.ReleaseWorker()
			results[i] = alphaNorm(ctx, loader, adapter, uri, alpha)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func alphaNorm(ctx context.Context, loader *source.Loader, adapter *fvec.Adapter, uri string, alpha float32) result {
	in, err := loader.Load(ctx, uri)
	if err != nil {
		return failed(uri, err)
	}
	defer in.Close()

	v, err := adapter.Adapt(in.Array)
	if err != nil {
		return failed(uri, err)
	}
	defer v.Release()

	path := fvec.PathZeroCopy
	if v.Source() != in.Array {
		path = fvec.PathCast
	}

	value, err := adapter.ComputeAlphaNorm(v, alpha)
	if err != nil {
		return failed(uri, err)
	}
	return result{
		Input:    uri,
		Alpha:    alpha,
		Channels: v.Channels(),
		Length:   v.Length(),
		DType:    in.Array.DType().String(),
		Path:     path.String(),
		Value:    number(value),
	}
}
