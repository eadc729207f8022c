// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package protocol

import (
	"encoding/json"

	"github.com/gogpu/shadertrans/compiler"
)

// Translate runs the full request lifecycle against a compiler: decode and
// validate the params, construct a session, compile, and encode the result.
// The session is released on every path. Validation and construction
// failures short-circuit; compile failures still go through result encoding
// since they produce a structured failure response.
func Translate(c compiler.Compiler, params json.RawMessage) (json.RawMessage, *ErrorPayload) {
	req, errp := DecodeRequest(params)
	if errp != nil {
		return nil, errp
	}

	session, err := compiler.Open(c, req.Stage, req.Spec, req.Output, &req.Resources)
	if err != nil {
		return nil, &ErrorPayload{
			Code:    CodeConstructFailure,
			Message: "Failed to construct compiler: " + err.Error(),
		}
	}
	defer session.Close()

	compiled := session.Compile(req.Source, req.Options)
	result, errp := BuildResult(session, req, compiled)
	if errp != nil {
		return nil, errp
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, &ErrorPayload{Code: CodeInternalError, Message: "Failed to encode result."}
	}
	return raw, nil
}
