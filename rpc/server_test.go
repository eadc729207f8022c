// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rpc

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadertrans/compiler"
	"github.com/gogpu/shadertrans/protocol"
)

// fakeCompiler is a canned-response compiler for exercising the protocol
// loop without a real translation engine.
type fakeCompiler struct {
	compileOK bool
	infoLog   string
	code      string
	destructs int
}

type fakeHandle struct{}

func (f *fakeCompiler) Construct(compiler.Stage, compiler.Spec, compiler.Output, *compiler.Resources) (compiler.Handle, error) {
	return fakeHandle{}, nil
}
func (f *fakeCompiler) Compile(compiler.Handle, []string, compiler.CompileOptions) bool {
	return f.compileOK
}
func (f *fakeCompiler) InfoLog(compiler.Handle) string      { return f.infoLog }
func (f *fakeCompiler) ObjectCode(compiler.Handle) string   { return f.code }
func (f *fakeCompiler) ObjectBinary(compiler.Handle) []byte { return nil }
func (f *fakeCompiler) ActiveVariables(compiler.Handle) *compiler.ActiveVariables {
	return nil
}
func (f *fakeCompiler) Destruct(compiler.Handle) { f.destructs++ }

func translateLine(id, source string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(source))
	return `{"jsonrpc":"2.0","id":` + id + `,"method":"translate","params":{"shader_code":"` + encoded + `","shader_type":"fragment"}}`
}

// serve runs the loop over the given input lines and returns one decoded
// response per output line.
func serve(t *testing.T, s *Server, lines ...string) []map[string]any {
	t.Helper()
	var out strings.Builder
	err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out)
	require.NoError(t, err)

	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &resp), "line %q", line)
		responses = append(responses, resp)
	}
	return responses
}

func TestServeTranslateSuccess(t *testing.T) {
	fake := &fakeCompiler{compileOK: true, code: "translated output"}
	s := &Server{Compiler: fake}

	responses := serve(t, s, translateLine("7", "void main() {}"))
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, float64(7), resp["id"])
	assert.NotContains(t, resp, "error")

	result := resp["result"].(map[string]any)
	assert.Equal(t, "translated output", result["object_code"])
	assert.Equal(t, 1, fake.destructs)
}

func TestServeInvalidParams(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{compileOK: true}}

	line := `{"jsonrpc":"2.0","id":"req-1","method":"translate","params":{"shader_code":"","shader_type":"bogus"}}`
	responses := serve(t, s, line)
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.Equal(t, "req-1", resp["id"])
	assert.NotContains(t, resp, "result")

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeInvalidParams), errObj["code"])
	assert.Equal(t, "Unsupported 'shader_type': bogus", errObj["message"])
}

func TestServeCompileFailure(t *testing.T) {
	fake := &fakeCompiler{compileOK: false, infoLog: "ERROR: 0:1: unexpected token"}
	s := &Server{Compiler: fake}

	responses := serve(t, s, translateLine("1", "broken"))
	require.Len(t, responses, 1)

	errObj := responses[0]["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeCompileFailure), errObj["code"])
	data := errObj["data"].(map[string]any)
	assert.Equal(t, "ERROR: 0:1: unexpected token", data["info_log"])
	assert.Equal(t, 1, fake.destructs)
}

func TestServeParseError(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{}}

	responses := serve(t, s, `{not json`)
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.Nil(t, resp["id"], "unparsable lines get a null id")
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeParseError), errObj["code"])
	assert.Equal(t, "Parse error: Invalid JSON format.", errObj["message"])
}

func TestServeMethodNotFound(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{}}

	responses := serve(t, s, `{"jsonrpc":"2.0","id":4,"method":"compile","params":{}}`)
	errObj := responses[0]["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeMethodNotFound), errObj["code"])
	assert.Equal(t, "Method not found: compile", errObj["message"])
}

func TestServeMissingMethod(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{}}

	responses := serve(t, s, `{"jsonrpc":"2.0","id":5,"params":{}}`)
	resp := responses[0]
	assert.Equal(t, float64(5), resp["id"], "id is echoed even for invalid requests")
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeInvalidRequest), errObj["code"])
}

func TestServeParamsNotObject(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{}}

	responses := serve(t, s, `{"jsonrpc":"2.0","id":6,"method":"translate","params":[1]}`)
	errObj := responses[0]["error"].(map[string]any)
	assert.Equal(t, float64(protocol.CodeInvalidParams), errObj["code"])
}

func TestServeShutdownStopsLoop(t *testing.T) {
	fake := &fakeCompiler{compileOK: true, code: "x"}
	s := &Server{Compiler: fake}

	// The line after shutdown must never be processed.
	responses := serve(t, s,
		translateLine("1", "a"),
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		translateLine("3", "never reached"),
	)
	require.Len(t, responses, 2)
	assert.Equal(t, "Shutdown acknowledged.", responses[1]["result"])
	assert.Equal(t, 1, fake.destructs, "only the pre-shutdown request ran")
}

func TestServeSequentialRequests(t *testing.T) {
	fake := &fakeCompiler{compileOK: true, code: "out"}
	s := &Server{Compiler: fake}

	responses := serve(t, s, translateLine("1", "a"), translateLine("2", "b"), translateLine("3", "c"))
	require.Len(t, responses, 3)
	for i, resp := range responses {
		assert.Equal(t, float64(i+1), resp["id"])
		assert.NotContains(t, resp, "error")
	}
	assert.Equal(t, 3, fake.destructs, "one handle per request, all released")
}

func TestServeEndOfInput(t *testing.T) {
	s := &Server{Compiler: &fakeCompiler{}}
	var out strings.Builder
	require.NoError(t, s.Serve(strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}
