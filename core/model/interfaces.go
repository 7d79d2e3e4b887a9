package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that learns from (X, y).
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor returns one prediction per row of X as an (n_samples, 1) matrix.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer returns the coefficient of determination R² of the predictions on X against y.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor is the fit/predict/score contract. Predict and Score fail with an error
// marked errors.ErrNotFitted until Fit has succeeded.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// LinearModel exposes the learned coefficients of a fitted linear regressor.
type LinearModel interface {
	Regressor
	Coef() []float64
	Intercept() float64
}

// Transformer learns a projection from X and applies it.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter exposes hyperparameters by their scikit-learn names.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// WeightExporter can export and import its fitted parameters.
type WeightExporter interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(weights *ModelWeights) error
}
