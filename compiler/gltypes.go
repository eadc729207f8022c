// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

// GL type enumerants used in reflection data. Values match the OpenGL ES
// registry so consumers can feed them straight into GL tooling.
const (
	GLNone uint32 = 0

	GLFloat     uint32 = 0x1406
	GLFloatVec2 uint32 = 0x8B50
	GLFloatVec3 uint32 = 0x8B51
	GLFloatVec4 uint32 = 0x8B52

	GLInt     uint32 = 0x1404
	GLIntVec2 uint32 = 0x8B53
	GLIntVec3 uint32 = 0x8B54
	GLIntVec4 uint32 = 0x8B55

	GLUnsignedInt     uint32 = 0x1405
	GLUnsignedIntVec2 uint32 = 0x8DC6
	GLUnsignedIntVec3 uint32 = 0x8DC7
	GLUnsignedIntVec4 uint32 = 0x8DC8

	GLBool     uint32 = 0x8B56
	GLBoolVec2 uint32 = 0x8B57
	GLBoolVec3 uint32 = 0x8B58
	GLBoolVec4 uint32 = 0x8B59

	GLFloatMat2 uint32 = 0x8B5A
	GLFloatMat3 uint32 = 0x8B5B
	GLFloatMat4 uint32 = 0x8B5C

	GLFloatMat2x3 uint32 = 0x8B65
	GLFloatMat2x4 uint32 = 0x8B66
	GLFloatMat3x2 uint32 = 0x8B67
	GLFloatMat3x4 uint32 = 0x8B68
	GLFloatMat4x2 uint32 = 0x8B69
	GLFloatMat4x3 uint32 = 0x8B6A

	GLSampler2D        uint32 = 0x8B5E
	GLSampler3D        uint32 = 0x8B5F
	GLSamplerCube      uint32 = 0x8B60
	GLSampler2DShadow  uint32 = 0x8B62
	GLSampler2DArray   uint32 = 0x8DC1
	GLSamplerCubeShadow uint32 = 0x8DC5

	GLImage2D      uint32 = 0x904D
	GLImage3D      uint32 = 0x904E
	GLImageCube    uint32 = 0x9050
	GLImage2DArray uint32 = 0x9053
)

// GL precision enumerants.
const (
	GLLowFloat    uint32 = 0x8DF0
	GLMediumFloat uint32 = 0x8DF1
	GLHighFloat   uint32 = 0x8DF2
	GLLowInt      uint32 = 0x8DF3
	GLMediumInt   uint32 = 0x8DF4
	GLHighInt     uint32 = 0x8DF5
)
