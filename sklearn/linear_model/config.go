package linear_model

import (
	"math"

	"github.com/sglearn/sglearn/pkg/errors"
)

// SparseGroupLassoConfig holds the hyperparameters of a SparseGroupLasso. It is fixed at
// construction; build a new estimator to change it.
type SparseGroupLassoConfig struct {
	// Groups lists the feature indices of each group. Required.
	Groups [][]int

	// Alpha is the overall penalty strength, >= 0.
	Alpha float64

	// Gamma is the weight of the L1 penalty against the group penalty, in [0, 1].
	// Gamma = 1 is the Lasso, Gamma = 0 the Group Lasso.
	Gamma float64

	// MaxIter is the iteration ceiling, >= 1.
	MaxIter int

	// Tol is the relative change ‖w - w_old‖/‖w‖ below which FISTA stops, >= 0.
	Tol float64

	FitIntercept bool

	// Verbose logs the objective every LogStep iterations. It never changes the result.
	Verbose bool
	LogStep int

	// Callbacks run after every iteration.
	Callbacks []Callback
}

// DefaultSparseGroupLassoConfig returns the scikit-learn style defaults for the given
// groups: alpha=1, gamma=0, max_iter=1000, tol=1e-4, fit_intercept=true.
func DefaultSparseGroupLassoConfig(groups [][]int) SparseGroupLassoConfig {
	return SparseGroupLassoConfig{
		Groups:       groups,
		Alpha:        1.0,
		Gamma:        0.0,
		MaxIter:      1000,
		Tol:          1e-4,
		FitIntercept: true,
		Verbose:      false,
		LogStep:      100,
	}
}

// Validate checks every hyperparameter against its domain. Failures are marked with
// errors.ErrInvalidInput.
func (c SparseGroupLassoConfig) Validate() error {
	if math.IsNaN(c.Alpha) || c.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be >= 0", c.Alpha)
	}
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma > 1 {
		return errors.NewValidationError("gamma", "must be in [0, 1]", c.Gamma)
	}
	if c.MaxIter < 1 {
		return errors.NewValidationError("max_iter", "must be >= 1", c.MaxIter)
	}
	if math.IsNaN(c.Tol) || c.Tol < 0 {
		return errors.NewValidationError("tol", "must be >= 0", c.Tol)
	}
	if c.LogStep < 1 {
		return errors.NewValidationError("log_step", "must be >= 1", c.LogStep)
	}
	return validateGroupIndices(c.Groups, -1)
}

// clone deep-copies the slices so the caller cannot mutate a constructed estimator.
func (c SparseGroupLassoConfig) clone() SparseGroupLassoConfig {
	out := c
	out.Groups = make([][]int, len(c.Groups))
	for i, g := range c.Groups {
		out.Groups[i] = append([]int(nil), g...)
	}
	out.Callbacks = append([]Callback(nil), c.Callbacks...)
	return out
}

// SparseGroupLassoOption is a functional option for NewSparseGroupLasso.
type SparseGroupLassoOption func(*SparseGroupLassoConfig)

// WithAlpha sets the overall penalty strength.
func WithAlpha(alpha float64) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.Alpha = alpha
	}
}

// WithGamma sets the L1/group mixing weight.
func WithGamma(gamma float64) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.Gamma = gamma
	}
}

// WithMaxIter sets the iteration ceiling.
func WithMaxIter(maxIter int) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.MaxIter = maxIter
	}
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.Tol = tol
	}
}

// WithFitIntercept sets whether to estimate an intercept.
func WithFitIntercept(fit bool) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.FitIntercept = fit
	}
}

// WithVerbose enables progress logging.
func WithVerbose(verbose bool) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.Verbose = verbose
	}
}

// WithLogStep sets how many iterations pass between progress records.
func WithLogStep(step int) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.LogStep = step
	}
}

// WithCallbacks appends per-iteration callbacks.
func WithCallbacks(callbacks ...Callback) SparseGroupLassoOption {
	return func(c *SparseGroupLassoConfig) {
		c.Callbacks = append(c.Callbacks, callbacks...)
	}
}
