// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package compiler defines the contract between the translation front end
// and the shader compiler that does the actual work.
//
// The compiler itself is an opaque collaborator: callers construct a handle
// for a (stage, spec, output) tuple plus a set of built-in resources, submit
// source through it, read back the info log, object code and reflection
// data, and destruct the handle when done. Session wraps that lifecycle with
// guaranteed release; see session.go.
package compiler

import (
	"fmt"
	"strings"
)

// Stage identifies the shader pipeline stage being compiled.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
	StageGeometry
	StageTessControl
	StageTessEval
)

// String returns the wire name of the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	case StageGeometry:
		return "geometry"
	case StageTessControl:
		return "tess_control"
	case StageTessEval:
		return "tess_eval"
	}
	return "unknown"
}

// StageFromName maps a wire name to a Stage.
func StageFromName(name string) (Stage, bool) {
	switch name {
	case "vertex":
		return StageVertex, true
	case "fragment":
		return StageFragment, true
	case "compute":
		return StageCompute, true
	case "geometry":
		return StageGeometry, true
	case "tess_control":
		return StageTessControl, true
	case "tess_eval":
		return StageTessEval, true
	}
	return StageFragment, false
}

// StageFromFilename deduces the stage from a source filename.
//
// Files ending in .vert*, .frag*, .comp*, .geom*, .tcs* and .tes* map to
// their respective stages. Anything else is treated as a fragment shader.
func StageFromFilename(name string) Stage {
	ext := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = name[i:]
	}
	switch {
	case strings.HasPrefix(ext, ".vert"):
		return StageVertex
	case strings.HasPrefix(ext, ".frag"):
		return StageFragment
	case strings.HasPrefix(ext, ".comp"):
		return StageCompute
	case strings.HasPrefix(ext, ".geom"):
		return StageGeometry
	case strings.HasPrefix(ext, ".tcs"):
		return StageTessControl
	case strings.HasPrefix(ext, ".tes"):
		return StageTessEval
	}
	return StageFragment
}

// Spec identifies the shading-language specification the source must
// conform to. Selecting a spec raises resource floors; see resources.go.
type Spec uint8

const (
	SpecGLES2 Spec = iota
	SpecGLES3
	SpecGLES31
	SpecGLES32
	SpecWebGL
	SpecWebGLNoHighp // WebGL 1.0 without highp support in fragment shaders
	SpecWebGL2
	SpecWebGL3
)

// String returns the wire name of the spec.
func (s Spec) String() string {
	switch s {
	case SpecGLES2:
		return "gles2"
	case SpecGLES3:
		return "gles3"
	case SpecGLES31:
		return "gles31"
	case SpecGLES32:
		return "gles32"
	case SpecWebGL:
		return "webgl"
	case SpecWebGLNoHighp:
		return "webgln"
	case SpecWebGL2:
		return "webgl2"
	case SpecWebGL3:
		return "webgl3"
	}
	return "unknown"
}

// SpecFromName maps a wire name to a Spec.
func SpecFromName(name string) (Spec, bool) {
	switch name {
	case "gles2":
		return SpecGLES2, true
	case "gles3":
		return SpecGLES3, true
	case "gles31":
		return SpecGLES31, true
	case "gles32":
		return SpecGLES32, true
	case "webgl":
		return SpecWebGL, true
	case "webgln":
		return SpecWebGLNoHighp, true
	case "webgl2":
		return SpecWebGL2, true
	case "webgl3":
		return SpecWebGL3, true
	}
	return SpecGLES2, false
}

// ES2Class reports whether the spec carries only GLES2-class resource
// minimums (GLES2 and the WebGL 1.0 variants).
func (s Spec) ES2Class() bool {
	return s == SpecGLES2 || s == SpecWebGL || s == SpecWebGLNoHighp
}

// Output identifies the dialect or format the compiler must emit.
type Output uint8

const (
	OutputESSL Output = iota
	OutputGLSLCompat
	OutputGLSL130
	OutputGLSL140
	OutputGLSL150
	OutputGLSL330
	OutputGLSL400
	OutputGLSL410
	OutputGLSL420
	OutputGLSL430
	OutputGLSL440
	OutputGLSL450
	OutputSPIRV
	OutputHLSL9
	OutputHLSL11
	OutputMSL
)

// Binary reports whether the output target produces a binary blob instead
// of source text.
func (o Output) Binary() bool { return o == OutputSPIRV }

// String returns the wire name of the output target.
func (o Output) String() string {
	switch o {
	case OutputESSL:
		return "essl"
	case OutputGLSLCompat:
		return "glsl"
	case OutputSPIRV:
		return "spirv"
	case OutputHLSL9:
		return "hlsl9"
	case OutputHLSL11:
		return "hlsl11"
	case OutputMSL:
		return "msl"
	}
	if num, ok := glslVersionNames[o]; ok {
		return "glsl" + num
	}
	return "unknown"
}

var glslVersions = map[string]Output{
	"":    OutputGLSLCompat,
	"130": OutputGLSL130,
	"140": OutputGLSL140,
	"150": OutputGLSL150,
	"330": OutputGLSL330,
	"400": OutputGLSL400,
	"410": OutputGLSL410,
	"420": OutputGLSL420,
	"430": OutputGLSL430,
	"440": OutputGLSL440,
	"450": OutputGLSL450,
}

var glslVersionNames = func() map[Output]string {
	m := make(map[Output]string, len(glslVersions))
	for num, out := range glslVersions {
		if num != "" {
			m[out] = num
		}
	}
	return m
}()

// GLSLOutputForVersion maps a numeric GLSL version suffix to its output
// target. The empty suffix selects the compatibility profile.
func GLSLOutputForVersion(num string) (Output, bool) {
	out, ok := glslVersions[num]
	return out, ok
}

// CompileOptions is the set of switches the compiler accepts per compile
// call.
type CompileOptions struct {
	// IntermediateTree requests a dump of the intermediate representation.
	IntermediateTree bool

	// ObjectCode requests translated object code.
	ObjectCode bool

	// InitializeUninitializedLocals zero-initializes locals that the source
	// leaves uninitialized.
	InitializeUninitializedLocals bool

	// InitializeBuiltinsForInstancedMultiview initializes the multiview
	// built-ins when OVR_multiview is enabled.
	InitializeBuiltinsForInstancedMultiview bool

	// SelectViewInVertexShader emits per-view selection code in vertex
	// shaders when multiview is enabled.
	SelectViewInVertexShader bool
}

// DefaultCompileOptions returns the default compile switches: object code
// on, local zero-initialization on, everything else off.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{
		ObjectCode:                    true,
		InitializeUninitializedLocals: true,
	}
}

// Handle is an opaque reference to one constructed compiler instance.
type Handle any

// Compiler is the external compiler collaborator.
//
// Implementations are not required to be safe for concurrent use; the
// translation front end is strictly one request at a time.
type Compiler interface {
	// Construct creates a compiler instance for the given stage, spec and
	// output target. The resources snapshot is taken at construction time.
	Construct(stage Stage, spec Spec, output Output, resources *Resources) (Handle, error)

	// Compile submits source chunks to the instance. It returns false when
	// compilation fails; diagnostics are available through InfoLog.
	Compile(h Handle, sources []string, opts CompileOptions) bool

	// InfoLog returns the diagnostics of the most recent compile, which may
	// be empty. It is populated on success and failure alike.
	InfoLog(h Handle) string

	// ObjectCode returns the translated source text for text targets.
	ObjectCode(h Handle) string

	// ObjectBinary returns the binary blob for binary targets (SPIR-V).
	ObjectBinary(h Handle) []byte

	// ActiveVariables returns the reflection tree of the most recent
	// successful compile, or nil.
	ActiveVariables(h Handle) *ActiveVariables

	// Destruct releases the instance. The handle must not be used after.
	Destruct(h Handle)
}

// ConstructError wraps a compiler construction failure so callers can
// distinguish it from compile failures, which are ordinary outcomes.
type ConstructError struct {
	Stage  Stage
	Reason error
}

func (e *ConstructError) Error() string {
	return fmt.Sprintf("construct %s compiler: %v", e.Stage, e.Reason)
}

func (e *ConstructError) Unwrap() error { return e.Reason }
