package ir

// Version constants stamped on persisted runs.
const (
	// RecordVersion is the schema version of Run and Call records.
	RecordVersion = "1"

	// EngineVersion is the hook engine version.
	EngineVersion = "0.1.0"
)
