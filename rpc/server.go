// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/shadertrans/compiler"
)

// maxLineBytes bounds one request line. Shader sources arrive base64
// encoded inside the line, so the limit is generous.
const maxLineBytes = 32 << 20

// Server runs the streaming protocol loop. It is single-threaded: each
// request runs to completion before the next line is read, and at most one
// compiler handle is live at a time.
type Server struct {
	// Compiler is the collaborator used for translate requests.
	Compiler compiler.Compiler

	// Log receives per-request diagnostics. Responses go to the output
	// stream only; the logger must never write there. Nil disables logging.
	Log *slog.Logger
}

// Serve reads requests line by line until end of input or a shutdown
// request. A shutdown request is acknowledged before the loop ends and
// yields a nil error, as does plain end of input.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		resp, shutdown := s.Dispatch(scanner.Bytes())
		if s.Log != nil && resp.Error != nil {
			s.Log.Warn("request failed", "code", resp.Error.Code, "message", resp.Error.Message)
		}
		if err := writeResponse(w, resp); err != nil {
			return err
		}
		if shutdown {
			return nil
		}
	}
	return scanner.Err()
}

func writeResponse(w io.Writer, resp Response) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	encoded = append(encoded, '\n')
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
