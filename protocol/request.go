// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package protocol implements the translation request/response layer:
// decoding and validating untyped requests into typed CompileRequests,
// encoding compiler outputs into transport-neutral results, and the error
// taxonomy shared by every transport.
package protocol

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gogpu/shadertrans/compiler"
)

// CompileRequest is one fully validated translation request. It is
// constructed by DecodeRequest, consumed once, and never mutated.
type CompileRequest struct {
	Source              string
	Stage               compiler.Stage
	Spec                compiler.Spec
	Output              compiler.Output
	Options             compiler.CompileOptions
	Resources           compiler.Resources
	WantActiveVariables bool
}

// rawRequest captures field presence before any typing decisions. Every
// recognized field is validated individually so errors can name the field.
type rawRequest struct {
	ShaderCode           *json.RawMessage `json:"shader_code"`
	ShaderType           *json.RawMessage `json:"shader_type"`
	Spec                 *json.RawMessage `json:"spec"`
	Output               *json.RawMessage `json:"output"`
	CompileOptions       *json.RawMessage `json:"compile_options"`
	Resources            *json.RawMessage `json:"resources"`
	PrintActiveVariables *json.RawMessage `json:"print_active_variables"`
}

// DecodeRequest validates the params object of a translate request and
// produces a typed CompileRequest. The first violation wins: no partially
// constructed request is ever returned alongside an error.
func DecodeRequest(params json.RawMessage) (*CompileRequest, *ErrorPayload) {
	var raw rawRequest
	if err := json.Unmarshal(params, &raw); err != nil {
		return nil, InvalidParams("'params' is not a valid object.")
	}

	req := &CompileRequest{
		Spec:    compiler.SpecGLES2,
		Output:  compiler.OutputESSL,
		Options: compiler.DefaultCompileOptions(),
	}

	// shader_code: required, base64-encoded source text.
	if raw.ShaderCode == nil {
		return nil, InvalidParams("Missing 'shader_code' parameter.")
	}
	var encoded string
	if err := json.Unmarshal(*raw.ShaderCode, &encoded); err != nil {
		return nil, InvalidParams("'shader_code' parameter must be a string.")
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil && encoded != "" {
		return nil, InvalidParams("Failed to decode 'shader_code'.")
	}
	req.Source = string(decoded)

	// shader_type: required stage name.
	if raw.ShaderType == nil {
		return nil, InvalidParams("Missing 'shader_type' parameter.")
	}
	var stageName string
	if err := json.Unmarshal(*raw.ShaderType, &stageName); err != nil {
		return nil, InvalidParams("'shader_type' parameter must be a string.")
	}
	stage, ok := compiler.StageFromName(stageName)
	if !ok {
		return nil, InvalidParams("Unsupported 'shader_type': %s", stageName)
	}
	req.Stage = stage

	// spec: optional, defaults to the least capable variant.
	if raw.Spec != nil {
		var specName string
		if err := json.Unmarshal(*raw.Spec, &specName); err != nil {
			return nil, InvalidParams("'spec' parameter must be a string.")
		}
		spec, ok := compiler.SpecFromName(specName)
		if !ok {
			return nil, InvalidParams("Unsupported 'spec': %s", specName)
		}
		req.Spec = spec
	}

	// output: optional compound target string, defaults to ESSL.
	if raw.Output != nil {
		var outputName string
		if err := json.Unmarshal(*raw.Output, &outputName); err != nil {
			return nil, InvalidParams("'output' parameter must be a string.")
		}
		output, errp := ParseOutput(outputName)
		if errp != nil {
			return nil, errp
		}
		req.Output = output
	}

	// compile_options: optional object of named booleans. Unknown keys are
	// ignored; mistyped known keys are errors.
	if raw.CompileOptions != nil {
		if errp := decodeCompileOptions(*raw.CompileOptions, &req.Options); errp != nil {
			return nil, errp
		}
	}

	// resources: optional override object, applied after spec floors.
	overrides := compiler.Overrides{}
	var hashFunction func(string) uint64
	if raw.Resources != nil {
		var errp *ErrorPayload
		hashFunction, errp = decodeResources(*raw.Resources, overrides)
		if errp != nil {
			return nil, errp
		}
	}
	req.Resources = compiler.BuildResources(req.Spec, overrides)
	req.Resources.HashFunction = hashFunction

	// print_active_variables: optional boolean, defaults to false.
	if raw.PrintActiveVariables != nil {
		if err := json.Unmarshal(*raw.PrintActiveVariables, &req.WantActiveVariables); err != nil {
			return nil, InvalidParams("'print_active_variables' must be a boolean.")
		}
	}
	return req, nil
}

func decodeCompileOptions(data json.RawMessage, opts *compiler.CompileOptions) *ErrorPayload {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return InvalidParams("'compile_options' must be an object.")
	}
	known := map[string]*bool{
		"intermediate_tree":               &opts.IntermediateTree,
		"object_code":                     &opts.ObjectCode,
		"initialize_uninitialized_locals": &opts.InitializeUninitializedLocals,
		"initialize_builtins_for_instanced_multiview": &opts.InitializeBuiltinsForInstancedMultiview,
		"select_view_in_nv_glsl_vertex_shader":        &opts.SelectViewInVertexShader,
	}
	for name, target := range known {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return InvalidParams("compile_options.%s must be a boolean.", name)
		}
	}
	return nil
}

// decodeResources fills the override map from the resources object and
// returns the hash function selected by EnableNameHashing, if any.
func decodeResources(data json.RawMessage, overrides compiler.Overrides) (func(string) uint64, *ErrorPayload) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, InvalidParams("'resources' must be an object.")
	}

	var hashFunction func(string) uint64
	for name, value := range fields {
		if name == "EnableNameHashing" {
			var enable bool
			if err := json.Unmarshal(value, &enable); err != nil {
				return nil, InvalidParams("resources.EnableNameHashing must be a boolean.")
			}
			if enable {
				hashFunction = compiler.FNVHash
			}
			continue
		}
		if !compiler.KnownResourceField(name) {
			continue
		}
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			return nil, InvalidParams("resources.%s must be an integer.", name)
		}
		overrides[name] = n
	}
	return hashFunction, nil
}
