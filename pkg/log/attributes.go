// Package log defines standard attribute keys for model fitting and
// diagnostic operations.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so log records can be filtered consistently.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "LogisticFitter".
	ModelNameKey = "model.name"

	// RunIDKey identifies one bootstrap run (a UUID).
	RunIDKey = "run.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "confusion", "bootstrap"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of observations (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of predictor columns, intercept included.
	FeaturesKey = "data.features"

	// FingerprintKey carries the dataset fingerprint (hex).
	FingerprintKey = "data.fingerprint"
)

// Optimisation and Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the number of optimizer iterations.
	IterationKey = "training.iteration"

	// EvaluationsKey records the number of objective evaluations.
	EvaluationsKey = "training.evaluations"

	// LossKey records the negative log-likelihood.
	LossKey = "metrics.loss"

	// StatusKey records the optimizer termination status.
	StatusKey = "training.status"

	// ThresholdKey records the classification cutoff.
	ThresholdKey = "preds.threshold"

	// ReplicationKey records a bootstrap replication index.
	ReplicationKey = "bootstrap.replication"

	// ReplicationsKey records the number of bootstrap replications.
	ReplicationsKey = "bootstrap.replications"

	// AlphaKey records the quantile level of a bootstrap interval.
	AlphaKey = "bootstrap.alpha"

	// WorkersKey records the number of concurrent workers.
	WorkersKey = "infra.workers"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationConfusion = "confusion"
	OperationBootstrap = "bootstrap"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
