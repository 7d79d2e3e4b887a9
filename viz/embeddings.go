// Package viz projects word embeddings onto interpretable axes and draws the result, along
// with coefficient plots for fitted Sparse Group Lasso models.
//
// Plots are written with gonum/plot; the output format follows the file extension
// (.png, .svg, .pdf, ...).
package viz

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/linear"
	"github.com/sglearn/sglearn/pkg/errors"
)

// WordVectors looks up the embedding of a word, e.g. a fastText model.
type WordVectors interface {
	WordVector(word string) ([]float64, error)
}

// MapVectors is an in-memory WordVectors.
type MapVectors map[string][]float64

// WordVector implements WordVectors. Unknown words are an InvalidInput error.
func (m MapVectors) WordVector(word string) ([]float64, error) {
	v, ok := m[word]
	if !ok {
		return nil, errors.NewValueError("MapVectors.WordVector", fmt.Sprintf("unknown word %q", word))
	}
	return v, nil
}

// Projection regresses y on the columns of X with an intercept and returns the slopes,
// one per column. X has shape (n, p) and y length n.
func Projection(X mat.Matrix, y []float64) ([]float64, error) {
	n, _ := X.Dims()
	if len(y) != n {
		return nil, errors.NewDimensionError("viz.Projection", n, len(y), 0)
	}

	lr := linear.NewLinearRegression(linear.WithFitIntercept(true))
	if err := lr.Fit(X, mat.NewDense(n, 1, append([]float64(nil), y...))); err != nil {
		return nil, errors.Wrap(err, "viz.Projection")
	}
	return lr.Coef(), nil
}

// CosineSimilarity returns the cosine between target and every row of vectors. A row with
// zero norm has similarity 0.
func CosineSimilarity(target []float64, vectors mat.Matrix) ([]float64, error) {
	r, c := vectors.Dims()
	if len(target) != c {
		return nil, errors.NewDimensionError("viz.CosineSimilarity", c, len(target), 1)
	}
	targetNorm := floats.Norm(target, 2)
	if targetNorm == 0 {
		return nil, errors.NewValueError("viz.CosineSimilarity", "target vector has zero norm")
	}

	out := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, vectors)
		norm := floats.Norm(row, 2)
		if norm == 0 {
			continue
		}
		out[i] = floats.Dot(row, target) / (norm * targetNorm)
	}
	return out, nil
}
