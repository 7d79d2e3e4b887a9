// Package linear_model provides penalised linear regressors with a scikit-learn style API.
//
// SparseGroupLasso minimises
//
//	mean((y - b - Xw)²) + gamma·alpha·‖w‖₁ + (1-gamma)·alpha·Σ_g ‖w_g‖₂
//
// with FISTA, the accelerated proximal-gradient method. The L1 term zeroes individual
// coefficients, the group term zeroes whole groups.
//
//	sgl, err := linear_model.NewSparseGroupLasso(
//	    [][]int{{0, 1, 2}, {3, 4}, {5, 6, 7, 8, 9}},
//	    linear_model.WithAlpha(0.05),
//	    linear_model.WithGamma(0.2),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := sgl.Fit(X, y); err != nil {
//	    return err
//	}
//	coef := sgl.Coef()
package linear_model

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/core/model"
	"github.com/sglearn/sglearn/core/parallel"
	"github.com/sglearn/sglearn/metrics"
	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
)

const (
	modelName = "SparseGroupLasso"

	// weightsVersion is stored in exported ModelWeights.
	weightsVersion = "1.0"

	// minNorm keeps the relative-change test finite when w is exactly zero.
	minNorm = 1e-9

	parallelThreshold = 1000
)

// SparseGroupLasso is a linear regressor with a Sparse Group Lasso penalty.
//
// Predict, Score and the accessors are safe for concurrent use. Fit is not: a Fit that
// starts while another is running on the same instance fails with ErrFitInProgress.
type SparseGroupLasso struct {
	mu      sync.RWMutex
	fitting atomic.Bool

	cfg    SparseGroupLassoConfig
	state  *model.StateManager
	logger log.Logger

	coef      []float64
	intercept float64
	nIter     int
	converged bool
	stepSize  float64
}

// NewSparseGroupLasso creates an estimator for the given feature groups. Hyperparameters
// are validated immediately; an invalid value returns an error marked with
// errors.ErrInvalidInput.
func NewSparseGroupLasso(groups [][]int, opts ...SparseGroupLassoOption) (*SparseGroupLasso, error) {
	cfg := DefaultSparseGroupLassoConfig(groups)
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewSparseGroupLassoFromConfig(cfg)
}

// NewSparseGroupLassoFromConfig creates an estimator from an explicit configuration.
func NewSparseGroupLassoFromConfig(cfg SparseGroupLassoConfig) (*SparseGroupLasso, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SparseGroupLasso{
		cfg:    cfg.clone(),
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("linear_model").With(log.ModelNameKey, modelName),
	}, nil
}

// fistaState is the loop-carried state of one FISTA iteration.
type fistaState struct {
	w []float64 // current iterate
	z []float64 // extrapolated point used by the next gradient evaluation
	b float64
	t float64 // momentum sequence, t >= 1
}

// problem holds the data of one Fit call.
type problem struct {
	X   *mat.Dense
	y   []float64
	eta float64
}

// step runs one accelerated proximal-gradient iteration. The bias is updated with the new
// w and the bias before its own update, then z is extrapolated from the new and old w.
func (sgl *SparseGroupLasso) step(p *problem, s fistaState) fistaState {
	cfg := &sgl.cfg

	t := (1 + math.Sqrt(1+4*s.t*s.t)) / 2
	delta := (1 - s.t) / t

	grad := MSEGradient(s.z, s.b, p.y, p.X)
	candidate := make([]float64, len(s.z))
	floats.AddScaledTo(candidate, s.z, -p.eta, grad)
	w := SparseGroupProx(candidate, p.eta*cfg.Alpha, cfg.Gamma, cfg.Groups)

	b := s.b
	if cfg.FitIntercept {
		b += p.eta * 2 * meanResidual(w, b, p.y, p.X)
	}

	// z = (1-δ)·w + δ·w_old
	z := make([]float64, len(w))
	floats.ScaleTo(z, 1-delta, w)
	floats.AddScaled(z, delta, s.w)

	return fistaState{w: w, z: z, b: b, t: t}
}

// Fit runs FISTA from a cold start on X (n_samples, n_features) and y (n_samples, 1).
//
// Input errors are marked with errors.ErrInvalidInput and reported before any iteration.
// Exhausting MaxIter is not an error: a ConvergenceWarning is emitted through errors.Warn
// and the last iterate is kept.
func (sgl *SparseGroupLasso) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "SparseGroupLasso.Fit")

	if !sgl.fitting.CompareAndSwap(false, true) {
		return errors.NewModelError("SparseGroupLasso.Fit", "concurrent fit", errors.ErrFitInProgress)
	}
	defer sgl.fitting.Store(false)

	sgl.mu.Lock()
	defer sgl.mu.Unlock()

	sgl.state.Reset()
	sgl.coef = nil
	sgl.intercept = 0
	sgl.nIter = 0
	sgl.converged = false

	p, err := sgl.prepare(X, y)
	if err != nil {
		return err
	}
	n, nFeatures := p.X.Dims()

	start := time.Now()
	sgl.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, nFeatures,
		log.GroupsKey, len(sgl.cfg.Groups),
		log.RegularizationKey, sgl.cfg.Alpha,
		log.MixingKey, sgl.cfg.Gamma,
	)

	eta, lambdaMax, ok := lipschitzStep(p.X)
	if !ok {
		return errors.NewModelError("SparseGroupLasso.Fit", "eigen-decomposition of XᵗX failed", errors.ErrSingularMatrix)
	}
	p.eta = eta
	sgl.logger.Debug("Step size computed",
		log.LearningRateKey, eta,
		"lambda_max", lambdaMax,
	)

	s := fistaState{
		w: make([]float64, nFeatures),
		z: make([]float64, nFeatures),
		b: 0,
		t: 1,
	}

	converged := false
	iter := 0
	for iter < sgl.cfg.MaxIter {
		iter++
		next := sgl.step(p, s)

		if err := checkIterate(next, iter); err != nil {
			sgl.logger.Error("FISTA diverged", err, log.IterationKey, iter)
			return err
		}

		change := floats.Distance(next.w, s.w, 2) / math.Max(minNorm, floats.Norm(next.w, 2))
		converged = change < sgl.cfg.Tol

		if err := sgl.report(p, iter, next, change, converged); err != nil {
			return err
		}

		s = next
		if converged {
			break
		}
	}

	sgl.coef = s.w
	sgl.intercept = s.b
	sgl.nIter = iter
	sgl.converged = converged
	sgl.stepSize = eta
	sgl.state.SetFitted(nFeatures, n)

	if !converged {
		errors.Warn(errors.NewConvergenceWarning(modelName, iter,
			"Max. number of iterations reached. Consider increasing max_iter or tol."))
	}

	sgl.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.IterationKey, iter,
		log.ConvergedKey, converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func checkIterate(s fistaState, iter int) error {
	if err := errors.CheckNumericalStability("SparseGroupLasso.Fit", s.w, iter); err != nil {
		return err
	}
	return errors.CheckScalar("SparseGroupLasso.Fit", s.b, iter)
}

// prepare validates (X, y) and copies them into the solver's dense layout.
func (sgl *SparseGroupLasso) prepare(X, y mat.Matrix) (*problem, error) {
	n, nFeatures := X.Dims()
	if n == 0 || nFeatures == 0 {
		return nil, errors.NewValueError("SparseGroupLasso.Fit", "X must not be empty")
	}

	yVec, err := metrics.ColumnVector("SparseGroupLasso.Fit", y)
	if err != nil {
		return nil, err
	}
	if yVec.Len() != n {
		return nil, errors.NewDimensionError("SparseGroupLasso.Fit", n, yVec.Len(), 0)
	}

	if err := errors.CheckFinite("SparseGroupLasso.Fit", X, n, nFeatures); err != nil {
		return nil, err
	}
	yData := mat.Col(nil, 0, yVec)
	if err := errors.CheckNumericalStability("SparseGroupLasso.Fit", yData, 0); err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidInput)
	}

	if err := ValidateGroups(sgl.cfg.Groups, nFeatures); err != nil {
		return nil, err
	}

	return &problem{X: mat.DenseCopyOf(X), y: yData}, nil
}

// report runs verbose logging and callbacks for one iteration.
func (sgl *SparseGroupLasso) report(p *problem, iter int, s fistaState, change float64, converged bool) error {
	logNow := sgl.cfg.Verbose && (iter%sgl.cfg.LogStep == 0 || iter == 1 || converged || iter == sgl.cfg.MaxIter)
	if !logNow && len(sgl.cfg.Callbacks) == 0 {
		return nil
	}

	objective := Objective(s.w, s.b, p.X, p.y, sgl.cfg.Alpha, sgl.cfg.Gamma, sgl.cfg.Groups)
	if logNow {
		sgl.logger.Info("FISTA progress",
			log.IterationKey, iter,
			log.LossKey, objective,
			"relative_change", change,
		)
	}

	for _, cb := range sgl.cfg.Callbacks {
		env := &CallbackEnv{
			Iteration:      iter,
			Coef:           append([]float64(nil), s.w...),
			Intercept:      s.b,
			Objective:      objective,
			RelativeChange: change,
		}
		if err := cb(env); err != nil {
			return errors.Wrapf(err, "SparseGroupLasso.Fit: callback at iteration %d", iter)
		}
	}
	return nil
}

// Predict returns Xw + b as an (n_samples, 1) matrix.
func (sgl *SparseGroupLasso) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "SparseGroupLasso.Predict")

	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	return sgl.predict(X)
}

func (sgl *SparseGroupLasso) predict(X mat.Matrix) (mat.Matrix, error) {
	if err := sgl.state.RequireFitted(modelName, "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := sgl.state.RequireFeatures("SparseGroupLasso.Predict", c); err != nil {
		return nil, err
	}
	if err := errors.CheckFinite("SparseGroupLasso.Predict", X, r, c); err != nil {
		return nil, err
	}

	sgl.logger.Debug("Prediction started",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, r,
	)

	predictions := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := sgl.intercept
			for j, w := range sgl.coef {
				pred += X.At(i, j) * w
			}
			predictions.Set(i, 0, pred)
		}
	})

	sgl.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, r,
	)
	return predictions, nil
}

// Score returns the coefficient of determination R² of the predictions on X against y.
func (sgl *SparseGroupLasso) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "SparseGroupLasso.Score")

	sgl.mu.RLock()
	defer sgl.mu.RUnlock()

	yPred, err := sgl.predict(X)
	if err != nil {
		return 0, err
	}
	yVec, err := metrics.ColumnVector("SparseGroupLasso.Score", y)
	if err != nil {
		return 0, err
	}
	if err := errors.CheckNumericalStability("SparseGroupLasso.Score", mat.Col(nil, 0, yVec), 0); err != nil {
		return 0, errors.Mark(err, errors.ErrInvalidInput)
	}
	return metrics.R2ScoreMatrix(yVec, yPred)
}

// Coef returns a copy of the fitted coefficients, or nil before Fit.
func (sgl *SparseGroupLasso) Coef() []float64 {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	if sgl.coef == nil {
		return nil
	}
	return append([]float64(nil), sgl.coef...)
}

// Intercept returns the fitted intercept, 0 before Fit or without FitIntercept.
func (sgl *SparseGroupLasso) Intercept() float64 {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	return sgl.intercept
}

// NIter returns the number of iterations run by the last Fit.
func (sgl *SparseGroupLasso) NIter() int {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	return sgl.nIter
}

// Converged reports whether the last Fit met the tolerance before MaxIter.
func (sgl *SparseGroupLasso) Converged() bool {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	return sgl.converged
}

// StepSize returns the FISTA step size 1/λmax used by the last Fit.
func (sgl *SparseGroupLasso) StepSize() float64 {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()
	return sgl.stepSize
}

// IsFitted reports whether the estimator holds a fitted solution.
func (sgl *SparseGroupLasso) IsFitted() bool {
	return sgl.state.IsFitted()
}

// Config returns a copy of the configuration.
func (sgl *SparseGroupLasso) Config() SparseGroupLassoConfig {
	return sgl.cfg.clone()
}

// GetParams returns the hyperparameters by their scikit-learn names.
func (sgl *SparseGroupLasso) GetParams() map[string]interface{} {
	cfg := sgl.cfg.clone()
	return map[string]interface{}{
		"groups":        cfg.Groups,
		"alpha":         cfg.Alpha,
		"gamma":         cfg.Gamma,
		"max_iter":      cfg.MaxIter,
		"tol":           cfg.Tol,
		"fit_intercept": cfg.FitIntercept,
		"verbose":       cfg.Verbose,
	}
}

// ExportWeights returns the fitted solution as ModelWeights.
func (sgl *SparseGroupLasso) ExportWeights() (*model.ModelWeights, error) {
	sgl.mu.RLock()
	defer sgl.mu.RUnlock()

	if err := sgl.state.RequireFitted(modelName, "ExportWeights"); err != nil {
		return nil, err
	}
	_, nSamples := sgl.state.GetDimensions()

	return &model.ModelWeights{
		ModelType:       modelName,
		Version:         weightsVersion,
		Coefficients:    append([]float64(nil), sgl.coef...),
		Intercept:       sgl.intercept,
		Hyperparameters: sgl.GetParams(),
		Metadata: map[string]interface{}{
			"n_iter":    sgl.nIter,
			"converged": sgl.converged,
			"n_samples": nSamples,
			"step_size": sgl.stepSize,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights restores a solution exported by ExportWeights and marks the estimator
// fitted. The estimator keeps its own hyperparameters.
func (sgl *SparseGroupLasso) ImportWeights(weights *model.ModelWeights) error {
	if weights == nil {
		return errors.NewValueError("SparseGroupLasso.ImportWeights", "weights must not be nil")
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	if weights.ModelType != modelName {
		return errors.NewValidationError("model_type", "expected "+modelName, weights.ModelType)
	}
	if !weights.IsFitted {
		return errors.NewValidationError("is_fitted", "cannot import an unfitted model", false)
	}
	if err := errors.CheckNumericalStability("SparseGroupLasso.ImportWeights",
		append(append([]float64(nil), weights.Coefficients...), weights.Intercept), 0); err != nil {
		return errors.Mark(err, errors.ErrInvalidInput)
	}
	if err := ValidateGroups(sgl.cfg.Groups, len(weights.Coefficients)); err != nil {
		return err
	}

	sgl.mu.Lock()
	defer sgl.mu.Unlock()

	sgl.coef = append([]float64(nil), weights.Coefficients...)
	sgl.intercept = weights.Intercept
	sgl.nIter = metadataInt(weights.Metadata, "n_iter")
	sgl.converged, _ = weights.Metadata["converged"].(bool)
	sgl.stepSize = metadataFloat(weights.Metadata, "step_size")
	sgl.state.SetFitted(len(sgl.coef), metadataInt(weights.Metadata, "n_samples"))
	return nil
}

// metadataInt reads an integer that may have round-tripped through JSON as float64.
func metadataInt(md map[string]interface{}, key string) int {
	switch v := md[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func metadataFloat(md map[string]interface{}, key string) float64 {
	switch v := md[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

var (
	_ model.LinearModel     = (*SparseGroupLasso)(nil)
	_ model.ParameterGetter = (*SparseGroupLasso)(nil)
	_ model.WeightExporter  = (*SparseGroupLasso)(nil)
)
