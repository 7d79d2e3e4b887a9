// Package decomposition provides SVD based transformers.
//
// SVD stores a ridge-shrunk rotation of the right singular vectors so that new rows can be
// mapped into the left singular space. TruncatedSVD keeps the leading k components, the
// usual way to reduce word co-occurrence matrices to plottable embeddings.
package decomposition

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/core/model"
	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
)

// SVD factorises X = U·diag(s)·Vᵗ and keeps the rotation V·diag(s/(s²+Alpha)).
//
// With Alpha = 0, Transform of the training data gives back U. A positive Alpha shrinks the
// directions with small singular values, as a ridge regression would.
type SVD struct {
	state  *model.StateManager
	logger log.Logger

	// Alpha is the ridge penalty, >= 0.
	Alpha float64

	u        *mat.Dense
	values   []float64
	v        *mat.Dense
	rotation *mat.Dense
}

// NewSVD creates an SVD transformer. A negative alpha is rejected.
func NewSVD(alpha float64) (*SVD, error) {
	if math.IsNaN(alpha) || alpha < 0 {
		return nil, errors.NewValidationError("alpha", "must be >= 0", alpha)
	}
	return &SVD{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("decomposition").With(log.ModelNameKey, "SVD"),
		Alpha:  alpha,
	}, nil
}

// Fit computes the thin SVD of X and the ridge rotation.
func (s *SVD) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "SVD.Fit")

	s.state.Reset()
	u, values, v, err := thinSVD("SVD.Fit", X)
	if err != nil {
		return err
	}

	nFeatures, c := v.Dims()
	shrink := make([]float64, c)
	for i, sv := range values {
		if d := sv*sv + s.Alpha; d > 0 {
			shrink[i] = sv / d
		}
	}
	rotation := mat.NewDense(nFeatures, c, nil)
	rotation.Mul(v, mat.NewDiagDense(c, shrink))

	s.u, s.values, s.v, s.rotation = u, values, v, rotation
	r, _ := X.Dims()
	s.state.SetFitted(nFeatures, r)

	s.logger.Debug("SVD computed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, nFeatures,
		"components", c,
	)
	return nil
}

// Transform returns X·rotation, shape (n_samples, min(n_samples_fit, n_features)).
func (s *SVD) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "SVD.Transform")

	if err := s.state.RequireFitted("SVD", "Transform"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := s.state.RequireFeatures("SVD.Transform", c); err != nil {
		return nil, err
	}

	var out mat.Dense
	out.Mul(X, s.rotation)
	return &out, nil
}

// FitTransform fits on X and returns the left singular vectors U.
func (s *SVD) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(s.u), nil
}

// SingularValues returns a copy of the singular values in decreasing order.
func (s *SVD) SingularValues() []float64 {
	return append([]float64(nil), s.values...)
}

// Rotation returns a copy of V·diag(s/(s²+Alpha)), or nil before Fit.
func (s *SVD) Rotation() *mat.Dense {
	if s.rotation == nil {
		return nil
	}
	return mat.DenseCopyOf(s.rotation)
}

// IsFitted reports whether Fit has succeeded.
func (s *SVD) IsFitted() bool {
	return s.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (s *SVD) GetParams() map[string]interface{} {
	return map[string]interface{}{"alpha": s.Alpha}
}

// thinSVD validates X and returns U, the singular values and V with signs fixed so that
// the largest absolute entry of every column of V is positive.
func thinSVD(op string, X mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, nil, errors.NewValueError(op, "X must not be empty")
	}
	if err := errors.CheckFinite(op, X, r, c); err != nil {
		return nil, nil, nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return nil, nil, nil, errors.NewModelError(op, "SVD did not converge", errors.ErrSingularMatrix)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	flipSigns(&u, &v)
	return &u, values, &v, nil
}

// flipSigns makes the decomposition deterministic: the sign of each singular pair is
// chosen so the entry of V with the largest magnitude is positive.
func flipSigns(u, v *mat.Dense) {
	rows, k := v.Dims()
	uRows, _ := u.Dims()
	for j := 0; j < k; j++ {
		best, bestAbs := 0.0, -1.0
		for i := 0; i < rows; i++ {
			x := v.At(i, j)
			if a := math.Abs(x); a > bestAbs {
				best, bestAbs = x, a
			}
		}
		if best >= 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			v.Set(i, j, -v.At(i, j))
		}
		for i := 0; i < uRows; i++ {
			u.Set(i, j, -u.At(i, j))
		}
	}
}

var _ model.Transformer = (*SVD)(nil)
