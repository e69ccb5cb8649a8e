package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped whenever the envelope shape changes in a way
// clients must detect. Clients refuse payloads with an unknown version.
const envelopeVersion = 1

// Envelope is the uniform wrapper around every API response body.
//
// Success responses carry {v, success, data}. Errors come in two shapes:
// simple errors carry {v, success, error} with a plain string, detailed
// errors carry {v, success, code, message, details}. The shared fixtures
// under testdata/envelope define the contract clients parse against.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error description for simple errors"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered on the huma config so handlers return bare payloads.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	// Already wrapped (e.g. transformer applied twice in tests).
	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" {
			return &Envelope{
				V:     envelopeVersion,
				Error: apiErr.Message,
			}, nil
		}
		return &Envelope{
			V:       envelopeVersion,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
