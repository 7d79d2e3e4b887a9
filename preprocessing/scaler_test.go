package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sglearn/sglearn/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	})

	scaler := NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 25, 5}, scaler.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), scaler.Scale[0], 1e-12)
	assert.Equal(t, 1.0, scaler.Scale[2], "constant feature keeps unit scale")

	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, XScaled)
		mean, std := stat.PopMeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, std, 1e-12)
	}
	assert.Equal(t, 0.0, XScaled.At(0, 2))

	back, err := scaler.InverseTransform(XScaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(back, X, 1e-12))
}

func TestStandardScalerWithoutMean(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 3})

	scaler := NewStandardScaler(false, true)
	XScaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 0.0, scaler.Mean[0])
	assert.InDelta(t, 1.0, XScaled.At(0, 0), 1e-12)
	assert.InDelta(t, 3.0, XScaled.At(1, 0), 1e-12)
}

func TestStandardScalerUnscaleCoef(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		2, 4,
		3, 8,
		4, 12,
	})
	scaler := NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	coef := []float64{0.5, -1.5}
	intercept := 2.0
	orig, origIntercept, err := scaler.UnscaleCoef(coef, intercept)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		scaled := intercept + coef[0]*XScaled.At(i, 0) + coef[1]*XScaled.At(i, 1)
		raw := origIntercept + orig[0]*X.At(i, 0) + orig[1]*X.At(i, 1)
		assert.InDelta(t, scaled, raw, 1e-10, "row %d", i)
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, nil))
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = scaler.Transform(mat.NewDense(1, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	err = scaler.Fit(mat.NewDense(1, 1, []float64{math.Inf(1)}))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	assert.Contains(t, scaler.String(), "n_features=2")
}
