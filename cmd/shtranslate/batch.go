package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/shadertrans/compiler"
	"github.com/gogpu/shadertrans/engine"
)

// batchRun holds the option state accumulated left to right across the
// argument list and the per-stage session cache. Options apply to every
// file that follows them; sessions are constructed lazily on the first file
// of each stage and reused for the rest of the run.
type batchRun struct {
	eng       *engine.Engine
	out       io.Writer
	spec      compiler.Spec
	output    compiler.Output
	opts      compiler.CompileOptions
	overrides compiler.Overrides
	printVars bool

	sessions    map[compiler.Stage]*compiler.Session
	numCompiles int
}

// runBatch is the batch CLI adapter: parse arguments left to right,
// compiling each filename with the options seen so far. Processing stops at
// the first failure. Every constructed session is closed exactly once.
func runBatch(args []string, out io.Writer) (code int) {
	run := &batchRun{
		eng:       engine.New(),
		out:       out,
		spec:      compiler.SpecGLES2,
		output:    compiler.OutputESSL,
		overrides: compiler.Overrides{},
		sessions:  make(map[compiler.Stage]*compiler.Session),
	}
	defer func() {
		for _, s := range run.sessions {
			s.Close()
		}
	}()

	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			if !run.parseOption(arg) {
				code = exitUsage
				break
			}
			continue
		}
		if code = run.compileFile(arg); code != exitSuccess {
			break
		}
	}

	if run.numCompiles == 0 && code == exitSuccess {
		code = exitUsage
	}
	if code == exitUsage {
		usage()
	}
	return code
}

func (r *batchRun) parseOption(arg string) bool {
	switch {
	case arg == "-i":
		r.opts.IntermediateTree = true
	case arg == "-o":
		r.opts.ObjectCode = true
	case arg == "-u":
		r.printVars = true
	case strings.HasPrefix(arg, "-s="):
		return r.parseSpec(arg[3:])
	case strings.HasPrefix(arg, "-b="):
		r.opts.InitializeUninitializedLocals = true
		return r.parseBackend(arg[3:])
	case strings.HasPrefix(arg, "-x="):
		return r.parseExtension(arg[3:])
	default:
		return false
	}
	return true
}

func (r *batchRun) parseSpec(value string) bool {
	specs := map[string]compiler.Spec{
		"e":   compiler.SpecGLES2,
		"e2":  compiler.SpecGLES2,
		"e3":  compiler.SpecGLES3,
		"e31": compiler.SpecGLES31,
		"e32": compiler.SpecGLES32,
		"w":   compiler.SpecWebGL,
		"wn":  compiler.SpecWebGLNoHighp,
		"w2":  compiler.SpecWebGL2,
		"w3":  compiler.SpecWebGL3,
	}
	spec, ok := specs[value]
	if !ok {
		return false
	}
	r.spec = spec
	return true
}

func (r *batchRun) parseBackend(value string) bool {
	switch {
	case value == "e":
		r.output = compiler.OutputESSL
	case strings.HasPrefix(value, "g"):
		out, ok := compiler.GLSLOutputForVersion(value[1:])
		if !ok {
			return false
		}
		r.output = out
	case value == "v":
		r.output = compiler.OutputSPIRV
	case value == "h11":
		r.output = compiler.OutputHLSL11
	case value == "h" || value == "h9":
		r.output = compiler.OutputHLSL9
	case value == "m":
		r.output = compiler.OutputMSL
	default:
		return false
	}
	return true
}

func (r *batchRun) parseExtension(value string) bool {
	if value == "" {
		return false
	}
	simple := map[byte]string{
		'i': "OES_EGL_image_external",
		'd': "OES_standard_derivatives",
		'r': "ARB_texture_rectangle",
		'g': "EXT_frag_depth",
		'l': "EXT_shader_texture_lod",
		'f': "EXT_shader_framebuffer_fetch",
		'n': "NV_shader_framebuffer_fetch",
		'a': "ARM_shader_framebuffer_fetch",
		'y': "EXT_YUV_target",
		's': "OES_sample_variables",
	}
	switch value[0] {
	case 'b': // EXT_blend_func_extended with optional dual-source buffer count
		n, ok := parseIntValue(value[1:], 1)
		if !ok {
			return false
		}
		r.overrides["EXT_blend_func_extended"] = 1
		r.overrides["MaxDualSourceDrawBuffers"] = n
	case 'w': // EXT_draw_buffers with optional draw buffer count
		n, ok := parseIntValue(value[1:], 1)
		if !ok {
			return false
		}
		r.overrides["EXT_draw_buffers"] = 1
		r.overrides["MaxDrawBuffers"] = n
	case 'm':
		r.overrides["OVR_multiview"] = 1
		r.overrides["OVR_multiview2"] = 1
		r.opts.InitializeBuiltinsForInstancedMultiview = true
		r.opts.SelectViewInVertexShader = true
	default:
		name, ok := simple[value[0]]
		if !ok || len(value) != 1 {
			return false
		}
		r.overrides[name] = 1
	}
	return true
}

// parseIntValue parses an optional numeric flag suffix, returning the
// default for an empty suffix.
func parseIntValue(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (r *batchRun) compileFile(name string) int {
	stage := compiler.StageFromFilename(name)

	session, ok := r.sessions[stage]
	if !ok {
		var err error
		session, err = r.openSession(stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitCreate
		}
		r.sessions[stage] = session
	}

	source, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to read input file: %v\n", err)
		return exitCompile
	}

	opts := r.opts
	if r.output == compiler.OutputHLSL9 || r.output == compiler.OutputHLSL11 {
		opts.SelectViewInVertexShader = false
	}
	compiled := session.Compile(string(source), opts)

	r.section("INFO LOG", func() {
		fmt.Fprintln(r.out, session.InfoLog())
	})
	if compiled && opts.ObjectCode {
		r.section("OBJ CODE", func() {
			if r.output.Binary() {
				fmt.Fprintln(r.out, base64.StdEncoding.EncodeToString(session.ObjectBinary()))
			} else {
				fmt.Fprintln(r.out, session.ObjectCode())
			}
		})
	}
	if compiled && r.printVars {
		r.section("VARIABLES", func() {
			printActiveVariables(r.out, session.ActiveVariables())
		})
	}

	r.numCompiles++
	if !compiled {
		return exitCompile
	}
	return exitSuccess
}

// openSession builds the resource profile for the current options and
// constructs a compiler for the stage. Geometry and tessellation stages
// need their gating extension enabled before construction.
func (r *batchRun) openSession(stage compiler.Stage) (*compiler.Session, error) {
	overrides := compiler.Overrides{}
	for k, v := range r.overrides {
		overrides[k] = v
	}
	switch stage {
	case compiler.StageGeometry:
		overrides["EXT_geometry_shader"] = 1
	case compiler.StageTessControl, compiler.StageTessEval:
		overrides["EXT_tessellation_shader"] = 1
	}
	resources := compiler.BuildResources(r.spec, overrides)
	return compiler.Open(r.eng, stage, r.spec, r.output, &resources)
}

func (r *batchRun) section(label string, body func()) {
	fmt.Fprintf(r.out, "#### BEGIN COMPILER %d %s ####\n", r.numCompiles, label)
	body()
	fmt.Fprintf(r.out, "#### END COMPILER %d %s ####\n\n\n", r.numCompiles, label)
}
