package linear_model

// CallbackEnv describes the solver state after one FISTA iteration. Coef is a copy and may
// be retained.
type CallbackEnv struct {
	Iteration int
	Coef      []float64
	Intercept float64

	// Objective is the composite objective at (Coef, Intercept).
	Objective float64

	// RelativeChange is ‖w - w_old‖ / max(1e-9, ‖w‖) for this iteration.
	RelativeChange float64
}

// Callback is called after every iteration. A non-nil error aborts Fit and is returned
// from it; the estimator stays unfitted.
type Callback func(env *CallbackEnv) error

// RecordObjective appends the objective of every iteration to history.
func RecordObjective(history *[]float64) Callback {
	return func(env *CallbackEnv) error {
		*history = append(*history, env.Objective)
		return nil
	}
}

// RecordCoef appends a copy of the coefficients of every iteration to history.
func RecordCoef(history *[][]float64) Callback {
	return func(env *CallbackEnv) error {
		*history = append(*history, env.Coef)
		return nil
	}
}
