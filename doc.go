// Package sglearn is a Sparse Group Lasso regression library for Go with a scikit-learn
// like API, plus the small set of tools around it: feature scaling, SVD transformers,
// synthetic and downloaded datasets, and plots of embeddings and coefficients.
//
// # Sparse Group Lasso
//
// The estimator minimises
//
//	mean((y - b - Xw)²) + gamma·alpha·‖w‖₁ + (1-gamma)·alpha·Σ_g ‖w_g‖₂
//
// with FISTA. gamma = 1 is the Lasso, gamma = 0 the Group Lasso; in between, whole groups
// of coefficients and single coefficients inside surviving groups are set to zero.
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/sglearn/sglearn/datasets"
//	    "github.com/sglearn/sglearn/sklearn/linear_model"
//	)
//
//	func main() {
//	    X, y, err := datasets.MakeGroupedRegression(1000, []float64{1, 1, 0, 0}, 2, 0.5, 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sgl, err := linear_model.NewSparseGroupLasso(
//	        [][]int{{0, 1}, {2, 3}},
//	        linear_model.WithAlpha(0.1),
//	        linear_model.WithGamma(0.2),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := sgl.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    score, _ := sgl.Score(X, y)
//	    fmt.Println(sgl.Coef(), sgl.Intercept(), score)
//	}
//
// # Packages
//
//   - sklearn/linear_model: SparseGroupLasso, proximal operators, objective
//   - sklearn/decomposition: SVD (ridge rotation) and TruncatedSVD
//   - linear: ordinary least squares
//   - preprocessing: StandardScaler
//   - metrics: MSE, RMSE, MAE, R²
//   - datasets: synthetic grouped regression data and the labelled-text downloader
//   - viz: embedding projections and plots
//   - core/model: estimator interfaces, fitted state, weight export
//   - core/parallel: chunked fan-out used by prediction
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Errors
//
// Every input problem is marked with errors.ErrInvalidInput and every use of an unfitted
// estimator with errors.ErrNotFitted:
//
//	if errors.Is(err, errors.ErrInvalidInput) { ... }
//
// A solver that runs out of iterations does not fail; it emits a ConvergenceWarning
// through the structured logger and keeps the last iterate.
package sglearn
