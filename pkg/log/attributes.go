package log

// Standard attribute keys. Keys are dotted so records can be filtered by category
// (e.g. everything under "data." or "metrics.").

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "SparseGroupLasso".
	ModelNameKey = "model.name"
	// ComponentKey identifies the package performing the operation, e.g. "linear_model".
	ComponentKey = "ml.component"
	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"
	// PhaseKey is one of the Phase* values below.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	GroupsKey   = "data.groups"
)

// Performance and training progress.
const (
	DurationMsKey = "perf.duration_ms"
	LossKey       = "metrics.loss"
	R2ScoreKey    = "metrics.r2_score"
	IterationKey  = "training.iteration"
	ConvergedKey  = "training.converged"
	PredsKey      = "preds.count"
)

// Hyperparameters.
const (
	RegularizationKey = "hyperparams.regularization"
	MixingKey         = "hyperparams.mixing"
	LearningRateKey   = "hyperparams.learning_rate"
	ToleranceKey      = "hyperparams.tol"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	StacktraceKey = "error.stacktrace"
	SuggestionKey = "error.suggestion"
)

// Standard values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted    = "NOT_FITTED"
	ErrorInvalidInput = "INVALID_INPUT"
	ErrorConvergence  = "CONVERGENCE_FAILURE"
)
