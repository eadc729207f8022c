// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadertrans/compiler"
)

// buildActiveVariables walks the validated IR module and produces the
// reflection tree for the entry point's stage: stage inputs and outputs
// from the entry function signature, uniforms and blocks from the module
// globals.
func (inst *instance) buildActiveVariables(module *ir.Module, entry *ir.EntryPoint) *compiler.ActiveVariables {
	vars := &compiler.ActiveVariables{
		Attributes:      []compiler.ShaderVariable{},
		InputVaryings:   []compiler.ShaderVariable{},
		OutputVaryings:  []compiler.ShaderVariable{},
		OutputVariables: []compiler.ShaderVariable{},
		Uniforms:        []compiler.ShaderVariable{},
		UniformBlocks:   []compiler.InterfaceBlock{},
		StorageBlocks:   []compiler.InterfaceBlock{},
		InterfaceBlocks: []compiler.InterfaceBlock{},
	}

	fn := &module.Functions[entry.Function]
	inputs := inst.signatureInputs(module, fn)
	outputs := inst.signatureOutputs(module, fn, entry)

	switch entry.Stage {
	case ir.StageVertex:
		vars.Attributes = inputs
		vars.OutputVaryings = outputs
	case ir.StageFragment:
		vars.InputVaryings = inputs
		vars.OutputVariables = outputs
	}

	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		switch gv.Space {
		case ir.SpaceUniform:
			if members, name, ok := structMembers(module, gv.Type); ok {
				vars.UniformBlocks = append(vars.UniformBlocks,
					inst.block(module, gv, name, members, compiler.LayoutStd140))
			} else {
				vars.Uniforms = append(vars.Uniforms, inst.globalVariable(module, gv))
			}
		case ir.SpaceStorage:
			if members, name, ok := structMembers(module, gv.Type); ok {
				vars.StorageBlocks = append(vars.StorageBlocks,
					inst.block(module, gv, name, members, compiler.LayoutStd430))
			}
		case ir.SpaceHandle:
			v, ok := inst.handleUniform(module, gv)
			if ok {
				vars.Uniforms = append(vars.Uniforms, v)
			}
		}
	}
	return vars
}

// signatureInputs flattens the entry function arguments into location-bound
// variables. Struct arguments contribute one variable per bound member;
// builtin-bound values are not user variables and are skipped.
func (inst *instance) signatureInputs(module *ir.Module, fn *ir.Function) []compiler.ShaderVariable {
	out := []compiler.ShaderVariable{}
	for i := range fn.Arguments {
		arg := &fn.Arguments[i]
		if members, _, ok := structMembers(module, arg.Type); ok {
			for j := range members {
				if v, ok := inst.boundVariable(module, members[j].Name, members[j].Type, members[j].Binding); ok {
					out = append(out, v)
				}
			}
			continue
		}
		if arg.Binding == nil {
			continue
		}
		if v, ok := inst.boundVariable(module, arg.Name, arg.Type, arg.Binding); ok {
			out = append(out, v)
		}
	}
	return out
}

// signatureOutputs flattens the entry function result the same way.
// A direct location-bound result has no source name, so it is reported
// under the entry point's name.
func (inst *instance) signatureOutputs(module *ir.Module, fn *ir.Function, entry *ir.EntryPoint) []compiler.ShaderVariable {
	out := []compiler.ShaderVariable{}
	if fn.Result == nil {
		return out
	}
	if members, _, ok := structMembers(module, fn.Result.Type); ok {
		for j := range members {
			if v, ok := inst.boundVariable(module, members[j].Name, members[j].Type, members[j].Binding); ok {
				out = append(out, v)
			}
		}
		return out
	}
	if v, ok := inst.boundVariable(module, entry.Name+"_output", fn.Result.Type, fn.Result.Binding); ok {
		out = append(out, v)
	}
	return out
}

// boundVariable builds a variable for a location-bound signature slot.
func (inst *instance) boundVariable(module *ir.Module, name string, th ir.TypeHandle, binding *ir.Binding) (compiler.ShaderVariable, bool) {
	if binding == nil {
		return compiler.ShaderVariable{}, false
	}
	loc, ok := (*binding).(ir.LocationBinding)
	if !ok {
		return compiler.ShaderVariable{}, false
	}
	v := inst.typedVariable(module, name, th)
	location := int(loc.Location)
	v.Location = location
	return v, true
}

// globalVariable builds a standalone (non-block) uniform variable.
func (inst *instance) globalVariable(module *ir.Module, gv *ir.GlobalVariable) compiler.ShaderVariable {
	v := inst.typedVariable(module, gv.Name, gv.Type)
	if gv.Binding != nil {
		v.Binding = int(gv.Binding.Binding)
	}
	return v
}

// handleUniform maps textures in the handle address space to GL sampler
// uniforms. Standalone sampler objects have no GL reflection analogue.
func (inst *instance) handleUniform(module *ir.Module, gv *ir.GlobalVariable) (compiler.ShaderVariable, bool) {
	if _, ok := module.Types[gv.Type].Inner.(ir.SamplerType); ok {
		return compiler.ShaderVariable{}, false
	}
	return inst.globalVariable(module, gv), true
}

// block builds an interface block record from a struct-typed global.
func (inst *instance) block(module *ir.Module, gv *ir.GlobalVariable, typeName string, members []ir.StructMember, layout compiler.BlockLayout) compiler.InterfaceBlock {
	name := typeName
	if name == "" {
		name = gv.Name
	}
	blk := compiler.InterfaceBlock{
		Name:         name,
		MappedName:   inst.mapName(name),
		InstanceName: gv.Name,
		Layout:       layout,
		Binding:      compiler.UnsetLocation,
		StaticUse:    true,
		Active:       true,
		Fields:       make([]compiler.ShaderVariable, 0, len(members)),
	}
	if gv.Binding != nil {
		blk.Binding = int(gv.Binding.Binding)
	}
	for i := range members {
		f := inst.typedVariable(module, members[i].Name, members[i].Type)
		f.Offset = int(members[i].Offset)
		blk.Fields = append(blk.Fields, f)
	}
	return blk
}

// typedVariable resolves a type handle into a reflection variable,
// recursing into arrays and structs.
func (inst *instance) typedVariable(module *ir.Module, name string, th ir.TypeHandle) compiler.ShaderVariable {
	ty := module.Types[th]
	switch inner := ty.Inner.(type) {
	case ir.ArrayType:
		v := inst.typedVariable(module, name, inner.Base)
		size := uint32(0) // runtime-sized
		if inner.Size.Constant != nil {
			size = *inner.Size.Constant
		}
		v.ArraySizes = append([]uint32{size}, v.ArraySizes...)
		return v
	case ir.StructType:
		v := compiler.NewVariable(name, inst.mapName(name), compiler.GLNone, compiler.GLNone)
		v.StructOrBlockName = ty.Name
		v.Fields = make([]compiler.ShaderVariable, 0, len(inner.Members))
		for i := range inner.Members {
			v.Fields = append(v.Fields, inst.typedVariable(module, inner.Members[i].Name, inner.Members[i].Type))
		}
		return v
	default:
		glType := glTypeFor(ty.Inner)
		return compiler.NewVariable(name, inst.mapName(name), glType, precisionFor(glType))
	}
}

func glTypeFor(inner ir.TypeInner) uint32 {
	switch t := inner.(type) {
	case ir.ScalarType:
		return scalarGL(t.Kind)
	case ir.VectorType:
		return vectorGL(t.Scalar.Kind, t.Size)
	case ir.MatrixType:
		return matrixGL(t.Columns, t.Rows)
	case ir.ImageType:
		return imageGL(t)
	}
	return compiler.GLNone
}

func scalarGL(kind ir.ScalarKind) uint32 {
	switch kind {
	case ir.ScalarFloat:
		return compiler.GLFloat
	case ir.ScalarSint:
		return compiler.GLInt
	case ir.ScalarUint:
		return compiler.GLUnsignedInt
	case ir.ScalarBool:
		return compiler.GLBool
	}
	return compiler.GLNone
}

func vectorGL(kind ir.ScalarKind, size ir.VectorSize) uint32 {
	type key struct {
		kind ir.ScalarKind
		size ir.VectorSize
	}
	table := map[key]uint32{
		{ir.ScalarFloat, ir.Vec2}: compiler.GLFloatVec2,
		{ir.ScalarFloat, ir.Vec3}: compiler.GLFloatVec3,
		{ir.ScalarFloat, ir.Vec4}: compiler.GLFloatVec4,
		{ir.ScalarSint, ir.Vec2}:  compiler.GLIntVec2,
		{ir.ScalarSint, ir.Vec3}:  compiler.GLIntVec3,
		{ir.ScalarSint, ir.Vec4}:  compiler.GLIntVec4,
		{ir.ScalarUint, ir.Vec2}:  compiler.GLUnsignedIntVec2,
		{ir.ScalarUint, ir.Vec3}:  compiler.GLUnsignedIntVec3,
		{ir.ScalarUint, ir.Vec4}:  compiler.GLUnsignedIntVec4,
		{ir.ScalarBool, ir.Vec2}:  compiler.GLBoolVec2,
		{ir.ScalarBool, ir.Vec3}:  compiler.GLBoolVec3,
		{ir.ScalarBool, ir.Vec4}:  compiler.GLBoolVec4,
	}
	return table[key{kind, size}]
}

func matrixGL(cols, rows ir.VectorSize) uint32 {
	type key struct{ c, r ir.VectorSize }
	table := map[key]uint32{
		{ir.Vec2, ir.Vec2}: compiler.GLFloatMat2,
		{ir.Vec3, ir.Vec3}: compiler.GLFloatMat3,
		{ir.Vec4, ir.Vec4}: compiler.GLFloatMat4,
		{ir.Vec2, ir.Vec3}: compiler.GLFloatMat2x3,
		{ir.Vec2, ir.Vec4}: compiler.GLFloatMat2x4,
		{ir.Vec3, ir.Vec2}: compiler.GLFloatMat3x2,
		{ir.Vec3, ir.Vec4}: compiler.GLFloatMat3x4,
		{ir.Vec4, ir.Vec2}: compiler.GLFloatMat4x2,
		{ir.Vec4, ir.Vec3}: compiler.GLFloatMat4x3,
	}
	return table[key{cols, rows}]
}

func imageGL(t ir.ImageType) uint32 {
	if t.Class == ir.ImageClassStorage {
		switch t.Dim {
		case ir.Dim3D:
			return compiler.GLImage3D
		case ir.DimCube:
			return compiler.GLImageCube
		default:
			if t.Arrayed {
				return compiler.GLImage2DArray
			}
			return compiler.GLImage2D
		}
	}
	switch t.Dim {
	case ir.Dim3D:
		return compiler.GLSampler3D
	case ir.DimCube:
		if t.Class == ir.ImageClassDepth {
			return compiler.GLSamplerCubeShadow
		}
		return compiler.GLSamplerCube
	default:
		if t.Arrayed {
			return compiler.GLSampler2DArray
		}
		if t.Class == ir.ImageClassDepth {
			return compiler.GLSampler2DShadow
		}
		return compiler.GLSampler2D
	}
}

// precisionFor picks the reported precision enumerant. naga IR carries no
// precision qualifiers, so numeric types report highp and samplers report
// the GLES default of lowp.
func precisionFor(glType uint32) uint32 {
	switch glType {
	case compiler.GLFloat, compiler.GLFloatVec2, compiler.GLFloatVec3, compiler.GLFloatVec4,
		compiler.GLFloatMat2, compiler.GLFloatMat3, compiler.GLFloatMat4,
		compiler.GLFloatMat2x3, compiler.GLFloatMat2x4, compiler.GLFloatMat3x2,
		compiler.GLFloatMat3x4, compiler.GLFloatMat4x2, compiler.GLFloatMat4x3:
		return compiler.GLHighFloat
	case compiler.GLInt, compiler.GLIntVec2, compiler.GLIntVec3, compiler.GLIntVec4,
		compiler.GLUnsignedInt, compiler.GLUnsignedIntVec2, compiler.GLUnsignedIntVec3,
		compiler.GLUnsignedIntVec4, compiler.GLBool, compiler.GLBoolVec2,
		compiler.GLBoolVec3, compiler.GLBoolVec4:
		return compiler.GLHighInt
	case compiler.GLSampler2D, compiler.GLSampler3D, compiler.GLSamplerCube,
		compiler.GLSampler2DShadow, compiler.GLSampler2DArray, compiler.GLSamplerCubeShadow,
		compiler.GLImage2D, compiler.GLImage3D, compiler.GLImageCube, compiler.GLImage2DArray:
		return compiler.GLLowFloat
	}
	return compiler.GLNone
}

// structMembers unwraps a struct type handle. The bool result is false for
// any non-struct type.
func structMembers(module *ir.Module, th ir.TypeHandle) ([]ir.StructMember, string, bool) {
	ty := module.Types[th]
	if s, ok := ty.Inner.(ir.StructType); ok {
		return s.Members, ty.Name, true
	}
	return nil, "", false
}
