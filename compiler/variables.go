// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

// UnsetLocation is the sentinel for location, binding and offset fields the
// compiler did not assign.
const UnsetLocation = -1

// ShaderVariable describes one active variable reported by the compiler.
// Aggregate types carry their members in Fields, recursively.
type ShaderVariable struct {
	Name       string
	MappedName string

	// Type and Precision are GL enumerants; see gltypes.go.
	Type      uint32
	Precision uint32

	StaticUse bool
	Active    bool

	// Location, Binding and Offset are UnsetLocation when the compiler did
	// not assign a value.
	Location int
	Binding  int
	Offset   int

	RowMajor          bool
	ArraySizes        []uint32
	StructOrBlockName string
	Fields            []ShaderVariable
}

// BlockLayout is the memory layout of an interface block.
type BlockLayout uint8

const (
	LayoutShared BlockLayout = iota
	LayoutPacked
	LayoutStd140
	LayoutStd430
)

// String returns the GLSL layout qualifier name.
func (l BlockLayout) String() string {
	switch l {
	case LayoutShared:
		return "shared"
	case LayoutPacked:
		return "packed"
	case LayoutStd140:
		return "std140"
	case LayoutStd430:
		return "std430"
	}
	return "unknown"
}

// InterfaceBlock describes a uniform, storage or generic interface block.
type InterfaceBlock struct {
	Name         string
	MappedName   string
	InstanceName string

	// ArraySize is 0 for non-arrayed blocks.
	ArraySize uint32

	Layout    BlockLayout
	Binding   int
	StaticUse bool
	Active    bool
	RowMajor  bool
	Fields    []ShaderVariable
}

// ActiveVariables is the reflection tree of one successful compile.
type ActiveVariables struct {
	Attributes      []ShaderVariable
	InputVaryings   []ShaderVariable
	OutputVaryings  []ShaderVariable
	OutputVariables []ShaderVariable
	Uniforms        []ShaderVariable

	UniformBlocks   []InterfaceBlock
	StorageBlocks   []InterfaceBlock
	InterfaceBlocks []InterfaceBlock
}

// NewVariable returns a ShaderVariable with unset location sentinels.
func NewVariable(name, mappedName string, glType, precision uint32) ShaderVariable {
	return ShaderVariable{
		Name:       name,
		MappedName: mappedName,
		Type:       glType,
		Precision:  precision,
		StaticUse:  true,
		Active:     true,
		Location:   UnsetLocation,
		Binding:    UnsetLocation,
		Offset:     UnsetLocation,
	}
}
