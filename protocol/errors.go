// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package protocol

import "fmt"

// Error codes carried in error payloads. The negative codes are the
// JSON-RPC 2.0 reserved codes; the small positive codes are the translator's
// historical process exit codes, kept stable for existing clients.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeCompileFailure   = 2
	CodeConstructFailure = 3
)

// ErrorPayload is the transport-neutral error structure: a stable code, a
// human-readable message, and optional structured detail (the info log on
// compile failure).
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ErrorPayload) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// InvalidParams builds an invalid-params error naming the violation.
func InvalidParams(format string, args ...any) *ErrorPayload {
	return &ErrorPayload{Code: CodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}
