package ir

// Outcome values for a Run.
const (
	OutcomePending = "pending"
	OutcomeOK      = "ok"
)

// Run is one top-level engine invocation of a named function.
type Run struct {
	Token         string   `json:"token"`
	Function      string   `json:"function"`
	Args          IRObject `json:"args"`
	Outcome       string   `json:"outcome"` // "pending", "ok" or an ErrorCode
	Result        int64    `json:"result"`
	Message       string   `json:"message,omitempty"`
	Seq           int64    `json:"seq"`
	EngineVersion string   `json:"engine_version"`
}

// Call is the diagnostic record a leaf or hook emits when it is entered.
type Call struct {
	ID       string `json:"id"` // Content-addressed hash
	RunToken string `json:"run_token"`
	Function string `json:"function"`
	A        int64  `json:"a"`
	B        int64  `json:"b"`
	Seq      int64  `json:"seq"`
}
