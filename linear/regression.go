// Package linear implements ordinary least squares regression.
//
// LinearRegression is the unpenalised baseline for the estimators in sklearn/linear_model
// and backs the word-vector projections in package viz.
package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/core/model"
	"github.com/sglearn/sglearn/core/parallel"
	"github.com/sglearn/sglearn/metrics"
	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
)

// parallelThreshold is the row count above which design-matrix work is split across cores.
const parallelThreshold = 1000

// LinearRegression fits y = Xw + b by least squares.
type LinearRegression struct {
	state  *model.StateManager
	logger log.Logger

	fitIntercept bool

	weights   *mat.VecDense
	intercept float64
}

// NewLinearRegression creates an unfitted LinearRegression.
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	lr.logger = log.GetLoggerWithName("linear").With(log.ModelNameKey, "LinearRegression")
	return lr
}

// Fit solves the least squares problem with a QR factorisation of [1, X].
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")
	start := time.Now()

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if err := errors.CheckFinite("LinearRegression.Fit", X, r, c); err != nil {
		return err
	}

	lr.logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	design := mat.NewDense(r, c+offset, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	target := mat.NewVecDense(r, mat.Col(nil, 0, y))

	var beta mat.VecDense
	if err := beta.SolveVec(design, target); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
		return errors.Wrap(err, "LinearRegression.Fit")
	}

	lr.intercept = 0
	if lr.fitIntercept {
		lr.intercept = beta.AtVec(0)
	}
	lr.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.weights.SetVec(j, beta.AtVec(j+offset))
	}

	lr.state.SetFitted(c, r)

	lr.logger.Debug("Training completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns Xw + b as an (n_samples, 1) matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LinearRegression.Predict")

	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", c); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * lr.weights.AtVec(j)
			}
			predictions.Set(i, 0, pred)
		}
	})
	return predictions, nil
}

// Score returns the R² of the predictions on X against y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Score"); err != nil {
		return 0, err
	}
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, yPred)
}

// Coef returns a copy of the fitted slope coefficients, or nil before Fit.
func (lr *LinearRegression) Coef() []float64 {
	if lr.weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.weights)
}

// Intercept returns the fitted intercept, or 0 before Fit.
func (lr *LinearRegression) Intercept() float64 {
	if !lr.state.IsFitted() {
		return 0
	}
	return lr.intercept
}

// IsFitted reports whether Fit has succeeded.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the hyperparameters by their scikit-learn names.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	}
}
