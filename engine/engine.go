// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package engine implements the compiler collaborator on top of the naga
// shader compiler.
//
// Source submitted to the engine is WGSL. Each constructed instance is bound
// to one (stage, spec, output) tuple; compiling runs the naga pipeline
// (parse, lower, validate) and then the backend selected by the output
// target: GLSL/ESSL text, HLSL text, MSL text, or a SPIR-V binary blob.
// Reflection data is derived from the validated IR module.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shadertrans/compiler"
)

// Engine is a compiler.Compiler backed by naga. The zero value is usable;
// Engine itself holds no state, all per-compile state lives in the handles
// it constructs.
type Engine struct{}

// New returns a naga-backed compiler.
func New() *Engine { return &Engine{} }

var (
	errGeometryDisabled = errors.New("geometry shader support not enabled (EXT_geometry_shader)")
	errTessDisabled     = errors.New("tessellation shader support not enabled (EXT_tessellation_shader)")
	errComputeSpec      = errors.New("compute shaders require a GLES 3.1 class spec")
)

// instance is one constructed compiler. It is owned by exactly one session
// and never shared.
type instance struct {
	stage     compiler.Stage
	spec      compiler.Spec
	output    compiler.Output
	resources compiler.Resources

	infoLog  strings.Builder
	code     string
	binary   []byte
	vars     *compiler.ActiveVariables
	compiled bool
}

// Construct validates the requested tuple against the resource flags and
// returns a fresh instance. The resources are copied; later mutation by the
// caller does not affect the instance.
func (e *Engine) Construct(stage compiler.Stage, spec compiler.Spec, output compiler.Output, resources *compiler.Resources) (compiler.Handle, error) {
	switch stage {
	case compiler.StageGeometry:
		if resources.EXTGeometryShader == 0 {
			return nil, errGeometryDisabled
		}
	case compiler.StageTessControl, compiler.StageTessEval:
		if resources.EXTTessellationShader == 0 {
			return nil, errTessDisabled
		}
	case compiler.StageCompute:
		switch spec {
		case compiler.SpecGLES31, compiler.SpecGLES32, compiler.SpecWebGL2, compiler.SpecWebGL3:
		default:
			return nil, errComputeSpec
		}
	}
	return &instance{
		stage:     stage,
		spec:      spec,
		output:    output,
		resources: *resources,
	}, nil
}

// Compile runs the naga pipeline over the concatenated source chunks.
func (e *Engine) Compile(h compiler.Handle, sources []string, opts compiler.CompileOptions) bool {
	inst := h.(*instance)
	inst.reset()
	source := strings.Join(sources, "")

	irStage, ok := nagaStage(inst.stage)
	if !ok {
		inst.errorf("%s shaders are not supported by this engine", inst.stage)
		return false
	}

	ast, err := naga.Parse(source)
	if err != nil {
		inst.errorf("%v", err)
		return false
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		inst.errorf("%v", err)
		return false
	}
	validationErrors, err := naga.Validate(module)
	if err != nil {
		inst.errorf("%v", err)
		return false
	}
	if len(validationErrors) > 0 {
		for _, verr := range validationErrors {
			inst.errorf("%v", verr)
		}
		return false
	}

	entry := entryPointFor(module, irStage)
	if entry == nil {
		inst.errorf("no %s entry point in module", inst.stage)
		return false
	}

	if opts.ObjectCode {
		if !inst.generate(module, entry) {
			return false
		}
	}
	inst.vars = inst.buildActiveVariables(module, entry)
	inst.compiled = true
	return true
}

// InfoLog returns accumulated diagnostics; empty on a clean compile.
func (e *Engine) InfoLog(h compiler.Handle) string {
	return h.(*instance).infoLog.String()
}

// ObjectCode returns the translated text of the last successful compile.
func (e *Engine) ObjectCode(h compiler.Handle) string {
	return h.(*instance).code
}

// ObjectBinary returns the SPIR-V blob of the last successful compile.
func (e *Engine) ObjectBinary(h compiler.Handle) []byte {
	return h.(*instance).binary
}

// ActiveVariables returns the reflection tree, or nil before a successful
// compile.
func (e *Engine) ActiveVariables(h compiler.Handle) *compiler.ActiveVariables {
	inst := h.(*instance)
	if !inst.compiled {
		return nil
	}
	return inst.vars
}

// Destruct drops the instance state. The handle must not be reused.
func (e *Engine) Destruct(h compiler.Handle) {
	inst := h.(*instance)
	inst.reset()
}

func (inst *instance) reset() {
	inst.infoLog.Reset()
	inst.code = ""
	inst.binary = nil
	inst.vars = nil
	inst.compiled = false
}

func (inst *instance) errorf(format string, args ...any) {
	fmt.Fprintf(&inst.infoLog, "ERROR: "+format+"\n", args...)
}

// generate runs the backend for the instance's output target. Backend
// failures are compile failures, reported through the info log.
func (inst *instance) generate(module *ir.Module, entry *ir.EntryPoint) bool {
	switch {
	case inst.output == compiler.OutputSPIRV:
		backend := spirv.NewBackend(spirv.Options{Version: spirv.Version1_3})
		blob, err := backend.Compile(module)
		if err != nil {
			inst.errorf("%v", err)
			return false
		}
		inst.binary = blob

	case inst.output == compiler.OutputHLSL9 || inst.output == compiler.OutputHLSL11:
		model := hlsl.ShaderModel5_0
		if inst.output == compiler.OutputHLSL11 {
			model = hlsl.ShaderModel5_1
		}
		code, _, err := hlsl.Compile(module, &hlsl.Options{
			ShaderModel:         model,
			EntryPoint:          entry.Name,
			FakeMissingBindings: true,
		})
		if err != nil {
			inst.errorf("%v", err)
			return false
		}
		inst.code = code

	case inst.output == compiler.OutputMSL:
		code, _, err := msl.Compile(module, msl.Options{FakeMissingBindings: true})
		if err != nil {
			inst.errorf("%v", err)
			return false
		}
		inst.code = code

	default: // ESSL and the GLSL family
		code, _, err := glsl.Compile(module, glsl.Options{
			LangVersion:        glslVersion(inst.output),
			EntryPoint:         entry.Name,
			ForceHighPrecision: inst.resources.FragmentPrecisionHigh != 0,
		})
		if err != nil {
			inst.errorf("%v", err)
			return false
		}
		inst.code = code
	}
	return true
}

// nagaStage maps front-end stages to IR stages. Geometry and tessellation
// stages have no IR equivalent and fail at compile time, not construction
// time, matching the collaborator contract.
func nagaStage(stage compiler.Stage) (ir.ShaderStage, bool) {
	switch stage {
	case compiler.StageVertex:
		return ir.StageVertex, true
	case compiler.StageFragment:
		return ir.StageFragment, true
	case compiler.StageCompute:
		return ir.StageCompute, true
	}
	return 0, false
}

func entryPointFor(module *ir.Module, stage ir.ShaderStage) *ir.EntryPoint {
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Stage == stage {
			return &module.EntryPoints[i]
		}
	}
	return nil
}

// glslVersion maps output targets to naga GLSL versions. ESSL targets ES
// 3.0; the compatibility profile and any pre-3.3 numeric target fall back
// to the closest version naga can emit.
func glslVersion(output compiler.Output) glsl.Version {
	switch output {
	case compiler.OutputESSL:
		return glsl.VersionES300
	case compiler.OutputGLSLCompat, compiler.OutputGLSL130, compiler.OutputGLSL140,
		compiler.OutputGLSL150, compiler.OutputGLSL330:
		return glsl.Version330
	case compiler.OutputGLSL400:
		return glsl.Version400
	case compiler.OutputGLSL410:
		return glsl.Version410
	case compiler.OutputGLSL420:
		return glsl.Version420
	case compiler.OutputGLSL430:
		return glsl.Version430
	case compiler.OutputGLSL440:
		return glsl.Version{Major: 4, Minor: 40}
	case compiler.OutputGLSL450:
		return glsl.Version450
	}
	return glsl.Version330
}

// mapName derives the aliased name reported in reflection data. With name
// hashing enabled the alias is hash-derived and stable across runs;
// otherwise the default underscore prefix scheme applies.
func (inst *instance) mapName(name string) string {
	if h := inst.resources.HashFunction; h != nil {
		return fmt.Sprintf("webgl_%x", h(name))
	}
	return "_u" + name
}
