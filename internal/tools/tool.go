package tools

import "context"

// Result is the externally visible outcome of a tool execution. Tools never
// raise to the agent; failures become {Success: false, Message} results.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxHash  string `json:"tx_hash,omitempty"`
}

// Failure builds a failed result with a human-readable explanation.
func Failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Success builds a successful result.
func SuccessResult(message, txHash string) Result {
	return Result{Success: true, Message: message, TxHash: txHash}
}

// Stage labels a coarse-grained execution milestone.
type Stage string

const (
	StageValidating Stage = "validating"
	StageQuoting    Stage = "quoting"
	StageSubmitting Stage = "submitting"
	StageConfirmed  Stage = "confirmed"
)

// Progress is a coarse-grained execution milestone report.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives progress reports. It is optional; a nil listener
// never changes behavior.
type ProgressFunc func(Progress)

// Report safely invokes a possibly-nil progress listener.
func (f ProgressFunc) Report(stage Stage, message string) {
	if f != nil {
		f(Progress{Stage: stage, Message: message})
	}
}

// Tool is a callable capability exposed to the agent. Execute validates its
// arguments against the declared schema, orchestrates providers and
// normalizes every outcome into a Result.
type Tool interface {
	// Name returns the stable identifier used by the agent's dispatcher.
	Name() string

	// Description returns a capability summary used for routing.
	Description() string

	// Schema declares the tool's parameters and constraints.
	Schema() Schema

	// Execute performs the tool's action. It must not panic and must not
	// return errors to the caller; all failures are carried in the Result.
	Execute(ctx context.Context, args map[string]interface{}, onProgress ProgressFunc) Result
}
