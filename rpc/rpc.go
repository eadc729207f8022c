// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rpc implements the streaming transport: a line-delimited JSON-RPC
// 2.0 loop reading one request per line from an input stream and writing
// one response per line to an output stream.
package rpc

import (
	"encoding/json"

	"github.com/gogpu/shadertrans/protocol"
)

// Version is the protocol version tag carried on every message.
const Version = "2.0"

// Method names understood by the dispatcher.
const (
	MethodTranslate = "translate"
	MethodShutdown  = "shutdown"
)

var nullID = json.RawMessage("null")

// Response is one encoded response line. Exactly one of Result and Error is
// set; the dispatcher enforces that an error always removes any staged
// result.
type Response struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      json.RawMessage        `json:"id"`
	Result  json.RawMessage        `json:"result,omitempty"`
	Error   *protocol.ErrorPayload `json:"error,omitempty"`
}

// rawMessage mirrors the request envelope without committing to field
// types, so a malformed method can be diagnosed rather than rejected by the
// JSON decoder.
type rawMessage struct {
	ID     json.RawMessage `json:"id"`
	Method json.RawMessage `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Dispatch handles one request line and returns the response plus whether
// the caller requested shutdown. The identifier is echoed verbatim when
// present and null otherwise, including for unparsable lines.
func (s *Server) Dispatch(line []byte) (Response, bool) {
	resp := Response{JSONRPC: Version, ID: nullID}

	var msg rawMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		resp.Error = &protocol.ErrorPayload{
			Code:    protocol.CodeParseError,
			Message: "Parse error: Invalid JSON format.",
		}
		return finish(resp), false
	}
	if msg.ID != nil {
		resp.ID = msg.ID
	}

	var method string
	if msg.Method == nil || json.Unmarshal(msg.Method, &method) != nil {
		resp.Error = &protocol.ErrorPayload{
			Code:    protocol.CodeInvalidRequest,
			Message: "Invalid Request: 'method' is missing or not a string.",
		}
		return finish(resp), false
	}

	switch method {
	case MethodTranslate:
		if !isObject(msg.Params) {
			resp.Error = protocol.InvalidParams(
				"Invalid Params: 'params' is missing or not an object for 'translate' method.")
			break
		}
		resp.Result, resp.Error = protocol.Translate(s.Compiler, msg.Params)
	case MethodShutdown:
		resp.Result = json.RawMessage(`"Shutdown acknowledged."`)
		return finish(resp), true
	default:
		resp.Error = &protocol.ErrorPayload{
			Code:    protocol.CodeMethodNotFound,
			Message: "Method not found: " + method,
		}
	}
	return finish(resp), false
}

// finish enforces the result/error exclusivity invariant.
func finish(resp Response) Response {
	if resp.Error != nil {
		resp.Result = nil
	}
	return resp
}

func isObject(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c == '{'
		}
	}
	return false
}
