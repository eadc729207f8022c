// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package protocol

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadertrans/compiler"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func decode(t *testing.T, params string) (*CompileRequest, *ErrorPayload) {
	t.Helper()
	return DecodeRequest(json.RawMessage(params))
}

func TestDecodeRequestDefaults(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"`+b64("void main() {}")+`","shader_type":"fragment"}`)
	require.Nil(t, errp)

	assert.Equal(t, "void main() {}", req.Source)
	assert.Equal(t, compiler.StageFragment, req.Stage)
	assert.Equal(t, compiler.SpecGLES2, req.Spec)
	assert.Equal(t, compiler.OutputESSL, req.Output)
	assert.Equal(t, compiler.DefaultCompileOptions(), req.Options)
	assert.False(t, req.WantActiveVariables)
	assert.Nil(t, req.Resources.HashFunction)
	assert.Equal(t, 1, req.Resources.MaxDrawBuffers)
}

func TestDecodeRequestMissingShaderCode(t *testing.T) {
	_, errp := decode(t, `{"shader_type":"vertex"}`)
	require.NotNil(t, errp)
	assert.Equal(t, CodeInvalidParams, errp.Code)
	assert.Equal(t, "Missing 'shader_code' parameter.", errp.Message)
}

func TestDecodeRequestShaderCodeNotString(t *testing.T) {
	_, errp := decode(t, `{"shader_code":42,"shader_type":"vertex"}`)
	require.NotNil(t, errp)
	assert.Equal(t, "'shader_code' parameter must be a string.", errp.Message)
}

func TestDecodeRequestBadBase64(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"not base64!!","shader_type":"vertex"}`)
	require.NotNil(t, errp)
	assert.Equal(t, "Failed to decode 'shader_code'.", errp.Message)
}

func TestDecodeRequestEmptyShaderCode(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"vertex"}`)
	require.Nil(t, errp)
	assert.Equal(t, "", req.Source)
}

func TestDecodeRequestMissingShaderType(t *testing.T) {
	_, errp := decode(t, `{"shader_code":""}`)
	require.NotNil(t, errp)
	assert.Equal(t, "Missing 'shader_type' parameter.", errp.Message)
}

func TestDecodeRequestUnknownShaderType(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"bogus"}`)
	require.NotNil(t, errp)
	assert.Equal(t, CodeInvalidParams, errp.Code)
	assert.Equal(t, "Unsupported 'shader_type': bogus", errp.Message)
}

func TestDecodeRequestUnknownSpec(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"vertex","spec":"gles4"}`)
	require.NotNil(t, errp)
	assert.Equal(t, "Unsupported 'spec': gles4", errp.Message)
}

func TestDecodeRequestSpecAndOutput(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"vertex","spec":"webgl2","output":"glsl330"}`)
	require.Nil(t, errp)
	assert.Equal(t, compiler.SpecWebGL2, req.Spec)
	assert.Equal(t, compiler.OutputGLSL330, req.Output)
	assert.Equal(t, 8, req.Resources.MaxDrawBuffers)
}

func TestDecodeRequestBadOutput(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"vertex","output":"foo"}`)
	require.NotNil(t, errp)
	assert.Equal(t, CodeInvalidParams, errp.Code)
	assert.Equal(t, "Unsupported 'output' type: foo", errp.Message)
}

func TestDecodeRequestCompileOptions(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"vertex","compile_options":{"object_code":false,"intermediate_tree":true,"future_flag":"ignored"}}`)
	require.Nil(t, errp)
	assert.False(t, req.Options.ObjectCode)
	assert.True(t, req.Options.IntermediateTree)
	assert.True(t, req.Options.InitializeUninitializedLocals, "untouched options keep defaults")
}

func TestDecodeRequestCompileOptionsMistyped(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"vertex","compile_options":{"object_code":"yes"}}`)
	require.NotNil(t, errp)
	assert.Equal(t, "compile_options.object_code must be a boolean.", errp.Message)
}

func TestDecodeRequestCompileOptionsNotObject(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"vertex","compile_options":7}`)
	require.NotNil(t, errp)
	assert.Equal(t, "'compile_options' must be an object.", errp.Message)
}

func TestDecodeRequestResourceOverrides(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"fragment","spec":"gles3","resources":{"MaxDrawBuffers":2,"NotAField":99}}`)
	require.Nil(t, errp)
	// The explicit override beats the gles3 floor of 8.
	assert.Equal(t, 2, req.Resources.MaxDrawBuffers)
}

func TestDecodeRequestResourceMistyped(t *testing.T) {
	_, errp := decode(t, `{"shader_code":"","shader_type":"fragment","resources":{"MaxDrawBuffers":"many"}}`)
	require.NotNil(t, errp)
	assert.Equal(t, "resources.MaxDrawBuffers must be an integer.", errp.Message)
}

func TestDecodeRequestNameHashing(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"fragment","resources":{"EnableNameHashing":true}}`)
	require.Nil(t, errp)
	require.NotNil(t, req.Resources.HashFunction)
	assert.Equal(t, compiler.FNVHash("abc"), req.Resources.HashFunction("abc"))

	req, errp = decode(t, `{"shader_code":"","shader_type":"fragment","resources":{"EnableNameHashing":false}}`)
	require.Nil(t, errp)
	assert.Nil(t, req.Resources.HashFunction)
}

func TestDecodeRequestPrintActiveVariables(t *testing.T) {
	req, errp := decode(t, `{"shader_code":"","shader_type":"fragment","print_active_variables":true}`)
	require.Nil(t, errp)
	assert.True(t, req.WantActiveVariables)

	_, errp = decode(t, `{"shader_code":"","shader_type":"fragment","print_active_variables":"yes"}`)
	require.NotNil(t, errp)
	assert.Equal(t, "'print_active_variables' must be a boolean.", errp.Message)
}

func TestDecodeRequestNotObject(t *testing.T) {
	_, errp := decode(t, `[1,2,3]`)
	require.NotNil(t, errp)
	assert.Equal(t, CodeInvalidParams, errp.Code)
}
