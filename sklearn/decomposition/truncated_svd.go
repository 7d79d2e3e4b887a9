package decomposition

import (
	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/core/model"
	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
)

// TruncatedSVD projects onto the K leading right singular vectors. The data is not
// centred, so it works on raw count matrices.
type TruncatedSVD struct {
	state  *model.StateManager
	logger log.Logger

	// K is the number of components, >= 1.
	K int

	components *mat.Dense // n_features x K
	values     []float64
}

// NewTruncatedSVD creates a TruncatedSVD keeping k components.
//
//	svd, err := decomposition.NewTruncatedSVD(2)
//	reduced, err := svd.FitTransform(cooccurrence)
func NewTruncatedSVD(k int) (*TruncatedSVD, error) {
	if k < 1 {
		return nil, errors.NewValidationError("n_components", "must be >= 1", k)
	}
	return &TruncatedSVD{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("decomposition").With(log.ModelNameKey, "TruncatedSVD"),
		K:      k,
	}, nil
}

// Fit keeps the first K right singular vectors of X. K may not exceed min(n_samples,
// n_features).
func (t *TruncatedSVD) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "TruncatedSVD.Fit")

	t.state.Reset()
	r, c := X.Dims()
	if limit := min(r, c); t.K > limit {
		return errors.NewValidationError("n_components", "must be <= min(n_samples, n_features)", t.K)
	}

	t.logger.Info("Running truncated SVD",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"components", t.K,
	)

	_, values, v, err := thinSVD("TruncatedSVD.Fit", X)
	if err != nil {
		return err
	}

	t.components = mat.DenseCopyOf(v.Slice(0, c, 0, t.K))
	t.values = values[:t.K:t.K]
	t.state.SetFitted(c, r)
	return nil
}

// Transform returns X·Vₖ, shape (n_samples, K).
func (t *TruncatedSVD) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "TruncatedSVD.Transform")

	if err := t.state.RequireFitted("TruncatedSVD", "Transform"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := t.state.RequireFeatures("TruncatedSVD.Transform", c); err != nil {
		return nil, err
	}

	var out mat.Dense
	out.Mul(X, t.components)
	return &out, nil
}

// FitTransform fits on X and returns X·Vₖ, which equals Uₖ·Sₖ.
func (t *TruncatedSVD) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// Components returns a copy of Vₖ, one column per component.
func (t *TruncatedSVD) Components() *mat.Dense {
	if t.components == nil {
		return nil
	}
	return mat.DenseCopyOf(t.components)
}

// SingularValues returns the K leading singular values in decreasing order.
func (t *TruncatedSVD) SingularValues() []float64 {
	return append([]float64(nil), t.values...)
}

// IsFitted reports whether Fit has succeeded.
func (t *TruncatedSVD) IsFitted() bool {
	return t.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (t *TruncatedSVD) GetParams() map[string]interface{} {
	return map[string]interface{}{"n_components": t.K}
}

var _ model.Transformer = (*TruncatedSVD)(nil)
