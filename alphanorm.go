package fvec

import (
	"time"

	"github.com/hupe1980/fvec/internal/math32"
)

// ComputeAlphaNorm returns the alpha normalisation factor of v:
//
//	(sum over all channels and samples of |x|^alpha / length) ^ (1/alpha)
//
// The float32 result is promoted to float64. v must be a valid, unreleased
// vector, typically obtained from Adapt.
func ComputeAlphaNorm(v *Vector, alpha float32) (float64, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	return float64(math32.AlphaNorm(v.data, v.length, alpha)), nil
}

// ComputeAlphaNorm is ComputeAlphaNorm with the adapter's metrics and logging.
func (a *Adapter) ComputeAlphaNorm(v *Vector, alpha float32) (float64, error) {
	start := time.Now()
	res, err := ComputeAlphaNorm(v, alpha)
	a.opts.metrics.RecordCompute(time.Since(start), err)
	if err != nil {
		a.opts.logger.Debug("alpha norm failed", "kind", KindOf(err), "error", err)
	}
	return res, err
}

// AlphaNorm adapts input and computes its alpha normalisation factor.
//
// The vector created by the adaptation is released before returning; a
// *Vector input is used as is and left untouched.
func (a *Adapter) AlphaNorm(input any, alpha float32) (float64, error) {
	v, err := a.Adapt(input)
	if err != nil {
		return 0, err
	}

	res, err := a.ComputeAlphaNorm(v, alpha)
	if v != input {
		if rerr := v.Release(); rerr != nil && err == nil {
			return 0, rerr
		}
	}
	return res, err
}

// AlphaNorm adapts input and computes its alpha normalisation factor.
// See Adapter.AlphaNorm.
func AlphaNorm(input any, alpha float32, opts ...Option) (float64, error) {
	return NewAdapter(opts...).AlphaNorm(input, alpha)
}
