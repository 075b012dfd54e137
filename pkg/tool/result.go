package tool

import (
	"context"
	"encoding/json"

	// Packages
	imagetools "github.com/mutablelogic/go-imagetools"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Result is the uniform response envelope returned by every tool dispatch,
// regardless of transport. Exactly one of Value or Error is populated,
// according to Success.
type Result struct {
	Success bool   `json:"success"`
	Value   any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"error_kind,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewResult wraps a successful tool output in the envelope
func NewResult(value any) *Result {
	return &Result{
		Success: true,
		Value:   value,
	}
}

// NewErrorResult wraps a dispatch or tool error in the envelope
func NewErrorResult(err error) *Result {
	return &Result{
		Success: false,
		Error:   err.Error(),
		Kind:    imagetools.Kind(err),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Dispatch runs a tool and normalizes the outcome into the envelope.
// It never returns an error: validation failures, unknown tools and
// external-service errors all become error envelopes.
func (tk *Toolkit) Dispatch(ctx context.Context, name string, params json.RawMessage) *Result {
	value, err := tk.Run(ctx, name, params)
	if err != nil {
		return NewErrorResult(err)
	}
	return NewResult(value)
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r *Result) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
