package linear_model

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sglearn/sglearn/pkg/errors"
)

// ProxL1 is the proximal operator of alpha·‖x‖₁, element-wise soft thresholding:
//
//	sign(x_i) · max(0, |x_i| - alpha)
//
// x is not modified. alpha = 0 returns a copy of x.
func ProxL1(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = softThreshold(v, alpha)
	}
	return out
}

func softThreshold(v, alpha float64) float64 {
	if v == 0 {
		return 0
	}
	return math.Copysign(math.Max(0, math.Abs(v)-alpha), v)
}

// ProxL2 is the proximal operator of alpha·‖x‖₂ (the norm, not squared). The whole block
// is either rescaled by 1 - alpha/‖x‖₂ or set to zero when ‖x‖₂ <= alpha.
//
// x is not modified.
func ProxL2(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	norm := floats.Norm(x, 2)
	if norm > alpha {
		floats.ScaleTo(out, 1-alpha/norm, x)
	}
	return out
}

// SparseGroupProx is the proximal operator of the Sparse Group Lasso penalty
//
//	gamma·alpha·‖x‖₁ + (1-gamma)·alpha·Σ_g ‖x_g‖₂
//
// It soft-thresholds every coordinate with gamma·alpha, then block-shrinks each group of the
// result with (1-gamma)·alpha. Groups are applied in order; overlapping groups are not
// supported and give an order-dependent result. Indices not covered by any group only
// receive the L1 step.
func SparseGroupProx(x []float64, alpha, gamma float64, groups [][]int) []float64 {
	out := ProxL1(x, gamma*alpha)

	groupAlpha := (1 - gamma) * alpha
	var block []float64
	for _, group := range groups {
		block = block[:0]
		for _, idx := range group {
			block = append(block, out[idx])
		}
		shrunk := ProxL2(block, groupAlpha)
		for k, idx := range group {
			out[idx] = shrunk[k]
		}
	}
	return out
}

// ValidateGroups checks that every group index is a valid column index for nFeatures
// features. Any failure is marked with errors.ErrInvalidInput.
func ValidateGroups(groups [][]int, nFeatures int) error {
	return validateGroupIndices(groups, nFeatures)
}

// validateGroupIndices checks group indices; an upper bound is only enforced when
// nFeatures >= 0.
func validateGroupIndices(groups [][]int, nFeatures int) error {
	if len(groups) == 0 {
		return errors.NewValidationError("groups", "at least one group is required", groups)
	}
	for g, group := range groups {
		for _, idx := range group {
			if idx < 0 {
				return errors.NewValidationError("groups", "group indices must be non-negative",
					map[string]int{"group": g, "index": idx})
			}
			if nFeatures >= 0 && idx >= nFeatures {
				return errors.NewValidationError("groups",
					"group index out of range for the number of features in X",
					map[string]int{"group": g, "index": idx, "n_features": nFeatures})
			}
		}
	}
	return nil
}
