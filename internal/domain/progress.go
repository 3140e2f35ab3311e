package domain

// ProgressFunc receives coarse progress updates from a pipeline stage.
// fraction is monotonic within one operation, 0.0 through 1.0; status is a
// short human-readable description of the current stage. Callbacks fire at
// stage boundaries, not per byte.
type ProgressFunc func(fraction float64, status string)

// NopProgress discards progress updates. Pipelines accept it so callers that
// do not observe progress can pass a non-nil callback.
func NopProgress(float64, string) {}
