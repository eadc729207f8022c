// Command shtranslate translates shader files from the command line or
// serves the line-delimited JSON-RPC protocol over standard streams.
//
// Usage:
//
//	shtranslate [options] file1 file2 ...
//	shtranslate --json-rpc
//
// In batch mode, options apply to every file that follows them on the
// command line and results are printed to stdout between section markers.
// In JSON-RPC mode, stdin carries one request per line and stdout one
// response per line until end of input or a shutdown request.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/shadertrans"
)

// Process exit codes, stable for scripting.
const (
	exitSuccess = 0
	exitUsage   = 1
	exitCompile = 2
	exitCreate  = 3
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 && args[0] == "--json-rpc" {
		srv := shadertrans.NewServer()
		srv.Log = slog.New(slog.NewTextHandler(os.Stderr, nil))
		if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitCreate)
		}
		return
	}

	os.Exit(runBatch(args, os.Stdout))
}

func usage() {
	// clang-format style of the historical tool, kept verbatim for users.
	fmt.Fprint(os.Stderr,
		"Usage: shtranslate [-i -o -u -s=e2 -b=e -b=g -b=h9 -x=i -x=d] file1 file2 ...\n"+
			"Where: filename : filename ending in .frag*, .vert*, .comp*, .geom*, .tcs* or .tes*\n"+
			"       -i       : print intermediate tree\n"+
			"       -o       : print translated code\n"+
			"       -u       : print active attribs, uniforms, varyings and program outputs\n"+
			"       -s=e2    : use GLES2 spec (this is by default)\n"+
			"       -s=e3    : use GLES3 spec\n"+
			"       -s=e31   : use GLES31 spec\n"+
			"       -s=e32   : use GLES32 spec\n"+
			"       -s=w     : use WebGL 1.0 spec\n"+
			"       -s=wn    : use WebGL 1.0 spec with no highp support in fragment shaders\n"+
			"       -s=w2    : use WebGL 2.0 spec\n"+
			"       -b=e     : output GLSL ES code (this is by default)\n"+
			"       -b=g     : output GLSL code (compatibility profile)\n"+
			"       -b=g[NUM]: output GLSL code (NUM can be 130, 140, 150, 330, 400, 410, 420, 430, 440, 450)\n"+
			"       -b=v     : output Vulkan SPIR-V code\n"+
			"       -b=h9    : output HLSL9 code\n"+
			"       -b=h11   : output HLSL11 code\n"+
			"       -b=m     : output MSL code\n"+
			"       -x=i     : enable GL_OES_EGL_image_external\n"+
			"       -x=d     : enable GL_OES_standard_derivatives\n"+
			"       -x=r     : enable ARB_texture_rectangle\n"+
			"       -x=b[NUM]: enable EXT_blend_func_extended (NUM default 1)\n"+
			"       -x=w[NUM]: enable EXT_draw_buffers (NUM default 1)\n"+
			"       -x=g     : enable EXT_frag_depth\n"+
			"       -x=l     : enable EXT_shader_texture_lod\n"+
			"       -x=f     : enable EXT_shader_framebuffer_fetch\n"+
			"       -x=n     : enable NV_shader_framebuffer_fetch\n"+
			"       -x=a     : enable ARM_shader_framebuffer_fetch\n"+
			"       -x=m     : enable OVR_multiview\n"+
			"       -x=y     : enable EXT_YUV_target\n"+
			"       -x=s     : enable OES_sample_variables\n"+
			"       --json-rpc : run in JSON-RPC mode (must be the first argument)\n")
}
