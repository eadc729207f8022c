// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

// Resources is the set of built-in resource limits and extension flags
// presented to the compiler at construction time.
//
// Extension flags follow the GL convention of 0 (disabled) / 1 (enabled)
// so that wire values and limits share one integer representation.
type Resources struct {
	MaxVertexAttribs             int
	MaxVertexUniformVectors      int
	MaxVaryingVectors            int
	MaxVertexTextureImageUnits   int
	MaxCombinedTextureImageUnits int
	MaxTextureImageUnits         int
	MaxFragmentUniformVectors    int
	MaxDrawBuffers               int
	MaxDualSourceDrawBuffers     int

	// FragmentPrecisionHigh advertises highp support in fragment shaders.
	FragmentPrecisionHigh int

	OESStandardDerivatives    int
	OESEGLImageExternal       int
	ARBTextureRectangle       int
	EXTBlendFuncExtended      int
	EXTDrawBuffers            int
	EXTFragDepth              int
	EXTShaderTextureLOD       int
	EXTShaderFramebufferFetch int
	NVShaderFramebufferFetch  int
	ARMShaderFramebufferFetch int
	OVRMultiview              int
	OVRMultiview2             int
	EXTYUVTarget              int
	OESSampleVariables        int
	EXTGeometryShader         int
	EXTTessellationShader     int
	ANGLETextureMultisample   int
	APPLEClipDistance         int

	// HashFunction, when non-nil, derives mapped variable names from a hash
	// of the original name. When nil the compiler applies its default
	// aliasing scheme.
	HashFunction func(name string) uint64
}

// Overrides maps wire-level resource field names to caller-supplied values.
// An override always wins over any spec-derived floor for the same field.
type Overrides map[string]int

// resourceFields maps the recognized wire names to their struct fields.
var resourceFields = map[string]func(*Resources) *int{
	"MaxVertexAttribs":             func(r *Resources) *int { return &r.MaxVertexAttribs },
	"MaxVertexUniformVectors":      func(r *Resources) *int { return &r.MaxVertexUniformVectors },
	"MaxVaryingVectors":            func(r *Resources) *int { return &r.MaxVaryingVectors },
	"MaxVertexTextureImageUnits":   func(r *Resources) *int { return &r.MaxVertexTextureImageUnits },
	"MaxCombinedTextureImageUnits": func(r *Resources) *int { return &r.MaxCombinedTextureImageUnits },
	"MaxTextureImageUnits":         func(r *Resources) *int { return &r.MaxTextureImageUnits },
	"MaxFragmentUniformVectors":    func(r *Resources) *int { return &r.MaxFragmentUniformVectors },
	"MaxDrawBuffers":               func(r *Resources) *int { return &r.MaxDrawBuffers },
	"MaxDualSourceDrawBuffers":     func(r *Resources) *int { return &r.MaxDualSourceDrawBuffers },
	"FragmentPrecisionHigh":        func(r *Resources) *int { return &r.FragmentPrecisionHigh },
	"OES_standard_derivatives":     func(r *Resources) *int { return &r.OESStandardDerivatives },
	"OES_EGL_image_external":       func(r *Resources) *int { return &r.OESEGLImageExternal },
	"ARB_texture_rectangle":        func(r *Resources) *int { return &r.ARBTextureRectangle },
	"EXT_blend_func_extended":      func(r *Resources) *int { return &r.EXTBlendFuncExtended },
	"EXT_draw_buffers":             func(r *Resources) *int { return &r.EXTDrawBuffers },
	"EXT_frag_depth":               func(r *Resources) *int { return &r.EXTFragDepth },
	"EXT_shader_texture_lod":       func(r *Resources) *int { return &r.EXTShaderTextureLOD },
	"EXT_shader_framebuffer_fetch": func(r *Resources) *int { return &r.EXTShaderFramebufferFetch },
	"NV_shader_framebuffer_fetch":  func(r *Resources) *int { return &r.NVShaderFramebufferFetch },
	"ARM_shader_framebuffer_fetch": func(r *Resources) *int { return &r.ARMShaderFramebufferFetch },
	"OVR_multiview":                func(r *Resources) *int { return &r.OVRMultiview },
	"OVR_multiview2":               func(r *Resources) *int { return &r.OVRMultiview2 },
	"EXT_YUV_target":               func(r *Resources) *int { return &r.EXTYUVTarget },
	"OES_sample_variables":         func(r *Resources) *int { return &r.OESSampleVariables },
	"EXT_geometry_shader":          func(r *Resources) *int { return &r.EXTGeometryShader },
	"EXT_tessellation_shader":      func(r *Resources) *int { return &r.EXTTessellationShader },
	"ANGLE_texture_multisample":    func(r *Resources) *int { return &r.ANGLETextureMultisample },
	"APPLE_clip_distance":          func(r *Resources) *int { return &r.APPLEClipDistance },
}

// KnownResourceField reports whether name is a recognized resource override.
func KnownResourceField(name string) bool {
	_, ok := resourceFields[name]
	return ok
}

// DefaultResources returns the engine baseline: conservative GLES2-class
// limits with geometry shader support enabled.
func DefaultResources() Resources {
	return Resources{
		MaxVertexAttribs:             8,
		MaxVertexUniformVectors:      128,
		MaxVaryingVectors:            8,
		MaxVertexTextureImageUnits:   0,
		MaxCombinedTextureImageUnits: 8,
		MaxTextureImageUnits:         8,
		MaxFragmentUniformVectors:    16,
		MaxDrawBuffers:               1,
		MaxDualSourceDrawBuffers:     1,
		EXTGeometryShader:            1,
	}
}

// BuildResources produces the resource set for a spec: baseline limits,
// then spec-mandated floors, then explicit overrides. An override always
// beats a spec floor for the field it names; floors are skipped entirely
// for overridden fields.
func BuildResources(spec Spec, overrides Overrides) Resources {
	r := DefaultResources()

	floor := func(name string, field *int, value int) {
		if _, ok := overrides[name]; !ok {
			*field = value
		}
	}

	if !spec.ES2Class() {
		floor("MaxVertexTextureImageUnits", &r.MaxVertexTextureImageUnits, 16)
		floor("MaxCombinedTextureImageUnits", &r.MaxCombinedTextureImageUnits, 32)
		floor("MaxTextureImageUnits", &r.MaxTextureImageUnits, 16)
		floor("MaxDrawBuffers", &r.MaxDrawBuffers, 4)
	}

	switch spec {
	case SpecGLES3, SpecGLES31, SpecGLES32, SpecWebGL2:
		floor("MaxDrawBuffers", &r.MaxDrawBuffers, 8)
	case SpecWebGL:
		floor("FragmentPrecisionHigh", &r.FragmentPrecisionHigh, 1)
	case SpecWebGLNoHighp:
		floor("FragmentPrecisionHigh", &r.FragmentPrecisionHigh, 0)
	}

	for name, value := range overrides {
		if field, ok := resourceFields[name]; ok {
			*field(&r) = value
		}
	}
	return r
}

// FNV-1a 64-bit parameters, used for name hashing when enabled.
const (
	fnvPrime       uint64 = 1099511628211
	fnvOffsetBasis uint64 = 14695981039346656037
)

// FNVHash is the name hash installed by the EnableNameHashing resource
// switch. It is deterministic across runs so mapped names are stable.
func FNVHash(name string) uint64 {
	hash := fnvOffsetBasis
	for i := 0; i < len(name); i++ {
		hash ^= uint64(name[i])
		hash *= fnvPrime
	}
	return hash
}
