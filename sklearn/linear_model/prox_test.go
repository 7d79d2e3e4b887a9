package linear_model

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sglearn/sglearn/pkg/errors"
)

func randomVector(rng *rand.Rand, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64() * 3
	}
	return x
}

func TestProxL1(t *testing.T) {
	tests := []struct {
		name  string
		x     []float64
		alpha float64
		want  []float64
	}{
		{"mixed signs", []float64{-3, -0.5, 0, 0.5, 2}, 1, []float64{-2, 0, 0, 0, 1}},
		{"boundary is zeroed", []float64{1, -1}, 1, []float64{0, 0}},
		{"zero penalty", []float64{-1.5, 0, 2.25}, 0, []float64{-1.5, 0, 2.25}},
		{"large penalty", []float64{4, -4}, 10, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, ProxL1(tt.x, tt.alpha), 1e-12)
		})
	}
}

func TestProxL1SoftThresholdProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		x := randomVector(rng, 8)
		alpha := rng.Float64() * 3
		y := ProxL1(x, alpha)

		for i := range x {
			if math.Abs(x[i]) <= alpha {
				require.Zero(t, y[i], "|x|=%v <= alpha=%v", math.Abs(x[i]), alpha)
				continue
			}
			require.InDelta(t, x[i]-alpha*math.Copysign(1, x[i]), y[i], 1e-12, "index %d", i)
		}
	}
}

func TestProxL1DoesNotModifyInput(t *testing.T) {
	x := []float64{3, -3}
	_ = ProxL1(x, 1)
	assert.Equal(t, []float64{3, -3}, x)
}

func TestProxL2(t *testing.T) {
	assert.InDeltaSlice(t, []float64{2.4, 3.2}, ProxL2([]float64{3, 4}, 1), 1e-12)

	for _, alpha := range []float64{5, 6} {
		assert.Equal(t, []float64{0, 0}, ProxL2([]float64{3, 4}, alpha), "alpha=%v", alpha)
	}
}

func TestProxL2GroupShrinkProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 200; trial++ {
		x := randomVector(rng, 1+rng.IntN(6))
		alpha := rng.Float64() * 8
		y := ProxL2(x, alpha)
		norm := floats.Norm(x, 2)

		if norm <= alpha {
			require.Zero(t, floats.Norm(y, 2), "‖x‖=%v <= alpha=%v but y=%v", norm, alpha, y)
			continue
		}

		require.InDelta(t, norm-alpha, floats.Norm(y, 2), 1e-9)
		scale := (norm - alpha) / norm
		for i := range x {
			require.InDelta(t, scale*x[i], y[i], 1e-12, "y is not a positive rescaling of x: x=%v y=%v", x, y)
		}
	}
}

func TestProxZeroPenaltyIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for trial := 0; trial < 50; trial++ {
		x := randomVector(rng, 7)
		require.Equal(t, x, ProxL1(x, 0))
		require.InDeltaSlice(t, x, ProxL2(x, 0), 1e-15)
	}
	assert.Equal(t, []float64{0, 0}, ProxL2([]float64{0, 0}, 0))
}

func TestSparseGroupProxPureLasso(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	groups := [][]int{{0, 1, 2}, {3, 4}, {5, 6, 7, 8, 9}}
	for trial := 0; trial < 100; trial++ {
		x := randomVector(rng, 10)
		alpha := rng.Float64() * 4

		require.InDeltaSlice(t, ProxL1(x, alpha), SparseGroupProx(x, alpha, 1, groups), 1e-12)
	}
}

func TestSparseGroupProxPureGroup(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	groups := [][]int{{0, 1, 2}, {3, 4}, {5, 6, 7, 8, 9}}
	for trial := 0; trial < 100; trial++ {
		x := randomVector(rng, 10)
		alpha := rng.Float64() * 8

		got := SparseGroupProx(x, alpha, 0, groups)
		for _, g := range groups {
			sub := make([]float64, len(g))
			for k, idx := range g {
				sub[k] = x[idx]
			}
			want := ProxL2(sub, alpha)
			for k, idx := range g {
				require.InDelta(t, want[k], got[idx], 1e-12, "group %v", g)
			}
		}
	}
}

func TestSparseGroupProxUngroupedIndices(t *testing.T) {
	x := []float64{5, 0.2, -4}
	got := SparseGroupProx(x, 1, 0.5, [][]int{{0, 1}})
	// index 2 is in no group and only gets the L1 step with 0.5
	assert.Equal(t, -3.5, got[2])
}

func TestValidateGroups(t *testing.T) {
	assert.NoError(t, ValidateGroups([][]int{{0, 1}, {2}}, 3))

	tests := []struct {
		name   string
		groups [][]int
	}{
		{"index past the last feature", [][]int{{0, 3}}},
		{"negative index", [][]int{{-1}}},
		{"no groups", [][]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroups(tt.groups, 3)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestMSEGradient(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := []float64{1, 2}
	got := MSEGradient([]float64{0.5, -0.5}, 0.1, y, X)

	// r = y - b - Xw = [1.4, 2.4], Xᵗr = [8.6, 12.4]
	assert.InDeltaSlice(t, []float64{-8.6, -12.4}, got, 1e-12)
}

func TestMSEGradientMatchesFiniteDifferences(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	n, p := 30, 4
	X := mat.NewDense(n, p, randomVector(rng, n*p))
	y := randomVector(rng, n)
	w := randomVector(rng, p)
	b := 0.7

	grad := MSEGradient(w, b, y, X)

	const h = 1e-6
	for j := 0; j < p; j++ {
		wp := append([]float64(nil), w...)
		wm := append([]float64(nil), w...)
		wp[j] += h
		wm[j] -= h
		numeric := (Objective(wp, b, X, y, 0, 0, nil) - Objective(wm, b, X, y, 0, 0, nil)) / (2 * h)
		assert.InDelta(t, numeric, grad[j], 1e-4*math.Max(1, math.Abs(numeric)), "grad[%d]", j)
	}
}

func TestObjective(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	w := []float64{1, -2}
	y := []float64{1, -2}

	got := Objective(w, 0, X, y, 1, 0.5, [][]int{{0, 1}})
	assert.InDelta(t, 0.5*3+0.5*math.Sqrt(5), got, 1e-12)

	// residual only
	got = Objective(w, 1, X, y, 0, 0.5, [][]int{{0, 1}})
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestLipschitzStep(t *testing.T) {
	X, _ := walshDesign()
	eta, lambdaMax, ok := lipschitzStep(X)
	require.True(t, ok)
	assert.InDelta(t, 2.0, lambdaMax, 1e-12)
	assert.InDelta(t, 0.5, eta, 1e-12)

	eta, _, ok = lipschitzStep(mat.NewDense(5, 3, nil))
	require.True(t, ok)
	assert.Equal(t, 0.5, eta, "zero design falls back to 0.5")
}
