package ir

// Version constants for the operation stream and engine.
const (
	// StreamVersion is the schema version of the canonical operation stream.
	StreamVersion = "1"

	// EngineVersion is the cilsym engine version.
	EngineVersion = "0.1.0"
)
