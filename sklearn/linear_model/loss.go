package linear_model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// residual returns y - b - Xw.
func residual(w []float64, b float64, y []float64, X mat.Matrix) *mat.VecDense {
	n := len(y)
	r := mat.NewVecDense(n, nil)
	r.MulVec(X, mat.NewVecDense(len(w), w))
	for i := 0; i < n; i++ {
		r.SetVec(i, y[i]-b-r.AtVec(i))
	}
	return r
}

// MSEGradient returns the gradient of the mean squared error mean((y - b - Xw)²) with
// respect to w:
//
//	-2 · Xᵗ(y - b - Xw) / n
//
// The intercept gradient is handled separately by the solver.
func MSEGradient(w []float64, b float64, y []float64, X mat.Matrix) []float64 {
	r := residual(w, b, y, X)

	grad := mat.NewVecDense(len(w), nil)
	grad.MulVec(X.T(), r)
	grad.ScaleVec(-2/float64(len(y)), grad)
	return grad.RawVector().Data
}

// Objective evaluates the composite Sparse Group Lasso objective
//
//	mean((y - b - Xw)²) + gamma·alpha·‖w‖₁ + (1-gamma)·alpha·Σ_g ‖w_g‖₂
//
// which FISTA minimises.
func Objective(w []float64, b float64, X mat.Matrix, y []float64, alpha, gamma float64, groups [][]int) float64 {
	r := residual(w, b, y, X)
	loss := mat.Dot(r, r) / float64(len(y))

	var groupNorms float64
	block := make([]float64, 0, len(w))
	for _, group := range groups {
		block = block[:0]
		for _, idx := range group {
			block = append(block, w[idx])
		}
		groupNorms += floats.Norm(block, 2)
	}

	return loss + gamma*alpha*floats.Norm(w, 1) + (1-gamma)*alpha*groupNorms
}

// meanResidual returns mean(y - b - Xw).
func meanResidual(w []float64, b float64, y []float64, X mat.Matrix) float64 {
	r := residual(w, b, y, X)
	return floats.Sum(r.RawVector().Data) / float64(len(y))
}

// lipschitzStep returns the FISTA step size 1/λmax((2/n)·XᵗX) and λmax. The matrix is
// symmetric positive semi-definite, so it is factorised with EigenSym, whose eigenvalues
// are real. When λmax is not positive (X is all zeros) the step falls back to 1/2, the
// inverse curvature of the intercept term.
func lipschitzStep(X mat.Matrix) (eta, lambdaMax float64, ok bool) {
	n, _ := X.Dims()

	var gram mat.SymDense
	gram.SymOuterK(2/float64(n), X.T())

	var eig mat.EigenSym
	if !eig.Factorize(&gram, false) {
		return 0, 0, false
	}
	values := eig.Values(nil)
	lambdaMax = values[len(values)-1]
	if !(lambdaMax > 0) || math.IsInf(lambdaMax, 0) {
		return 0.5, lambdaMax, true
	}
	return 1 / lambdaMax, lambdaMax, true
}
