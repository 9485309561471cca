package voiceflow

import (
	"bytes"
	"encoding/json"
)

// InteractRequest is the body of a session-scoped interact call.
type InteractRequest struct {
	Request Action `json:"request"`
}

// Action is a single user action sent to the runtime.
type Action struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// InteractResponse holds the trace list returned by the runtime, still encoded.
type InteractResponse struct {
	Traces json.RawMessage
}

// tracesEnvelope matches runtimes that wrap the trace list in an object.
type tracesEnvelope struct {
	Trace  json.RawMessage `json:"trace"`
	Traces json.RawMessage `json:"traces"`
}

// unwrapTraces accepts either a bare trace array or an object wrapping it under
// "trace" or "traces". Anything else is returned unchanged so the extractor can
// treat it as "no events".
func unwrapTraces(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var env tracesEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	if len(env.Trace) > 0 {
		return env.Trace
	}
	if len(env.Traces) > 0 {
		return env.Traces
	}
	return trimmed
}
