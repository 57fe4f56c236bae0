package harness

// TraceEvent is one recorded call, as read back from the store.
type TraceEvent struct {
	Run      string `json:"run"`
	Function string `json:"function"`
	A        int64  `json:"a"`
	B        int64  `json:"b"`
	Seq      int64  `json:"seq"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Function string `json:"function"`
	Run      string `json:"run,omitempty"`
	Outcome  string `json:"outcome"` // "ok" or an error code
	Value    int64  `json:"result"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	Steps []StepResult `json:"steps"`

	// Trace holds every call of every step in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with nothing recorded.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
