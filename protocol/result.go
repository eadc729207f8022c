// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package protocol

import (
	"encoding/base64"

	"github.com/gogpu/shadertrans/compiler"
)

// CompileResult is the transport-neutral success payload. Exactly one of
// ObjectCode and ObjectCodeBase64 is populated when object code was
// requested, chosen by whether the output target is binary-valued.
type CompileResult struct {
	InfoLog          string          `json:"info_log"`
	ObjectCode       *string         `json:"object_code,omitempty"`
	ObjectCodeBase64 *string         `json:"object_code_base64,omitempty"`
	ActiveVariables  *activeVarsJSON `json:"active_variables,omitempty"`
}

// compileFailureData is the structured detail of a compile-failure error.
type compileFailureData struct {
	InfoLog string `json:"info_log"`
}

// BuildResult converts the session's raw outputs into a CompileResult, or
// into a compile-failure error payload whose detail duplicates the info
// log. A failed compile never carries object code or reflection data.
func BuildResult(s *compiler.Session, req *CompileRequest, compiled bool) (*CompileResult, *ErrorPayload) {
	infoLog := s.InfoLog()
	if !compiled {
		return nil, &ErrorPayload{
			Code:    CodeCompileFailure,
			Message: "Shader compilation failed.",
			Data:    compileFailureData{InfoLog: infoLog},
		}
	}

	result := &CompileResult{InfoLog: infoLog}
	if req.Options.ObjectCode {
		if req.Output.Binary() {
			encoded := base64.StdEncoding.EncodeToString(s.ObjectBinary())
			result.ObjectCodeBase64 = &encoded
		} else {
			code := s.ObjectCode()
			result.ObjectCode = &code
		}
	}
	if req.WantActiveVariables {
		result.ActiveVariables = encodeActiveVariables(s.ActiveVariables())
	}
	return result, nil
}

// Reflection serialization. Location, binding and offset appear only when
// the compiler assigned a value; the unset sentinel is omitted entirely.

type variableJSON struct {
	Name              string         `json:"name"`
	MappedName        string         `json:"mapped_name"`
	TypeEnum          uint32         `json:"type_enum"`
	PrecisionEnum     uint32         `json:"precision_enum"`
	StaticUse         bool           `json:"static_use"`
	Active            bool           `json:"active"`
	Location          *int           `json:"location,omitempty"`
	Binding           *int           `json:"binding,omitempty"`
	Offset            *int           `json:"offset,omitempty"`
	IsRowMajor        bool           `json:"is_row_major"`
	ArraySizes        []uint32       `json:"array_sizes,omitempty"`
	StructOrBlockName string         `json:"struct_or_block_name,omitempty"`
	Fields            []variableJSON `json:"fields,omitempty"`
}

type blockJSON struct {
	Name             string         `json:"name"`
	MappedName       string         `json:"mapped_name"`
	InstanceName     string         `json:"instance_name,omitempty"`
	ArraySize        *uint32        `json:"array_size,omitempty"`
	Layout           string         `json:"layout"`
	Binding          *int           `json:"binding,omitempty"`
	StaticUse        bool           `json:"static_use"`
	Active           bool           `json:"active"`
	IsRowMajorLayout bool           `json:"is_row_major_layout"`
	Fields           []variableJSON `json:"fields"`
}

type activeVarsJSON struct {
	Attributes                []variableJSON `json:"attributes"`
	InputVaryings             []variableJSON `json:"input_varyings"`
	OutputVaryings            []variableJSON `json:"output_varyings"`
	OutputVariables           []variableJSON `json:"output_variables"`
	Uniforms                  []variableJSON `json:"uniforms"`
	UniformBlocks             []blockJSON    `json:"uniform_blocks"`
	ShaderStorageBufferBlocks []blockJSON    `json:"shader_storage_buffer_blocks"`
	GenericInterfaceBlocks    []blockJSON    `json:"generic_interface_blocks"`
}

func encodeActiveVariables(vars *compiler.ActiveVariables) *activeVarsJSON {
	if vars == nil {
		vars = &compiler.ActiveVariables{}
	}
	return &activeVarsJSON{
		Attributes:                encodeVariables(vars.Attributes),
		InputVaryings:             encodeVariables(vars.InputVaryings),
		OutputVaryings:            encodeVariables(vars.OutputVaryings),
		OutputVariables:           encodeVariables(vars.OutputVariables),
		Uniforms:                  encodeVariables(vars.Uniforms),
		UniformBlocks:             encodeBlocks(vars.UniformBlocks),
		ShaderStorageBufferBlocks: encodeBlocks(vars.StorageBlocks),
		GenericInterfaceBlocks:    encodeBlocks(vars.InterfaceBlocks),
	}
}

func encodeVariables(vars []compiler.ShaderVariable) []variableJSON {
	out := make([]variableJSON, 0, len(vars))
	for i := range vars {
		out = append(out, encodeVariable(&vars[i]))
	}
	return out
}

func encodeVariable(v *compiler.ShaderVariable) variableJSON {
	j := variableJSON{
		Name:              v.Name,
		MappedName:        v.MappedName,
		TypeEnum:          v.Type,
		PrecisionEnum:     v.Precision,
		StaticUse:         v.StaticUse,
		Active:            v.Active,
		Location:          setValue(v.Location),
		Binding:           setValue(v.Binding),
		Offset:            setValue(v.Offset),
		IsRowMajor:        v.RowMajor,
		ArraySizes:        v.ArraySizes,
		StructOrBlockName: v.StructOrBlockName,
	}
	if len(v.Fields) > 0 {
		j.Fields = encodeVariables(v.Fields)
	}
	return j
}

func encodeBlocks(blocks []compiler.InterfaceBlock) []blockJSON {
	out := make([]blockJSON, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		j := blockJSON{
			Name:             b.Name,
			MappedName:       b.MappedName,
			InstanceName:     b.InstanceName,
			Layout:           b.Layout.String(),
			Binding:          setValue(b.Binding),
			StaticUse:        b.StaticUse,
			Active:           b.Active,
			IsRowMajorLayout: b.RowMajor,
			Fields:           encodeVariables(b.Fields),
		}
		if b.ArraySize > 0 {
			size := b.ArraySize
			j.ArraySize = &size
		}
		out = append(out, j)
	}
	return out
}

// setValue returns nil for the unset sentinel so the field is omitted.
func setValue(v int) *int {
	if v == compiler.UnsetLocation {
		return nil
	}
	return &v
}
