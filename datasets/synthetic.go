package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sglearn/sglearn/pkg/errors"
)

// MakeGroupedRegression draws X with i.i.d. standard normal entries and
//
//	y = intercept + X·coef + noise·ε,  ε ~ N(0, 1)
//
// X has shape (nSamples, len(coef)) and y shape (nSamples, 1). The same seed always gives
// the same data.
func MakeGroupedRegression(nSamples int, coef []float64, intercept, noise float64, seed uint64) (*mat.Dense, *mat.Dense, error) {
	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be >= 1", nSamples)
	}
	if len(coef) == 0 {
		return nil, nil, errors.NewValidationError("coef", "at least one coefficient is required", len(coef))
	}
	if noise < 0 {
		return nil, nil, errors.NewValidationError("noise", "must be >= 0", noise)
	}

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	nFeatures := len(coef)
	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		v := intercept
		for j, w := range coef {
			x := normal.Rand()
			X.Set(i, j, x)
			v += w * x
		}
		if noise > 0 {
			v += noise * normal.Rand()
		}
		y.Set(i, 0, v)
	}
	return X, y, nil
}
