// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageFromName(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		ok    bool
	}{
		{"vertex", StageVertex, true},
		{"fragment", StageFragment, true},
		{"compute", StageCompute, true},
		{"geometry", StageGeometry, true},
		{"tess_control", StageTessControl, true},
		{"tess_eval", StageTessEval, true},
		{"bogus", StageFragment, false},
		{"", StageFragment, false},
	}
	for _, tt := range tests {
		stage, ok := StageFromName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.stage, stage, tt.name)
	}
}

func TestStageFromFilename(t *testing.T) {
	tests := []struct {
		file  string
		stage Stage
	}{
		{"shader.vert", StageVertex},
		{"shader.vertex", StageVertex},
		{"shader.frag", StageFragment},
		{"shader.fragment", StageFragment},
		{"kernel.comp", StageCompute},
		{"shader.geom", StageGeometry},
		{"patch.tcs", StageTessControl},
		{"patch.tes", StageTessEval},
		// Unrecognized extensions fall back to fragment.
		{"shader.glsl", StageFragment},
		{"noextension", StageFragment},
		{"dir.vert/shader", StageFragment},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.stage, StageFromFilename(tt.file), tt.file)
	}
}

func TestSpecFromName(t *testing.T) {
	for _, name := range []string{"gles2", "gles3", "gles31", "gles32", "webgl", "webgln", "webgl2", "webgl3"} {
		spec, ok := SpecFromName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, spec.String())
	}
	_, ok := SpecFromName("gles4")
	assert.False(t, ok)
}

func TestSpecES2Class(t *testing.T) {
	assert.True(t, SpecGLES2.ES2Class())
	assert.True(t, SpecWebGL.ES2Class())
	assert.True(t, SpecWebGLNoHighp.ES2Class())
	assert.False(t, SpecGLES3.ES2Class())
	assert.False(t, SpecWebGL2.ES2Class())
	assert.False(t, SpecWebGL3.ES2Class())
}

func TestGLSLOutputForVersion(t *testing.T) {
	out, ok := GLSLOutputForVersion("")
	assert.True(t, ok)
	assert.Equal(t, OutputGLSLCompat, out)

	out, ok = GLSLOutputForVersion("330")
	assert.True(t, ok)
	assert.Equal(t, OutputGLSL330, out)

	for _, num := range []string{"130", "140", "150", "400", "410", "420", "430", "440", "450"} {
		_, ok := GLSLOutputForVersion(num)
		assert.True(t, ok, num)
	}

	_, ok = GLSLOutputForVersion("460")
	assert.False(t, ok)
	_, ok = GLSLOutputForVersion("abc")
	assert.False(t, ok)
}

func TestOutputBinary(t *testing.T) {
	assert.True(t, OutputSPIRV.Binary())
	assert.False(t, OutputESSL.Binary())
	assert.False(t, OutputGLSL330.Binary())
	assert.False(t, OutputHLSL11.Binary())
	assert.False(t, OutputMSL.Binary())
}

func TestDefaultCompileOptions(t *testing.T) {
	opts := DefaultCompileOptions()
	assert.True(t, opts.ObjectCode)
	assert.True(t, opts.InitializeUninitializedLocals)
	assert.False(t, opts.IntermediateTree)
	assert.False(t, opts.InitializeBuiltinsForInstancedMultiview)
	assert.False(t, opts.SelectViewInVertexShader)
}
