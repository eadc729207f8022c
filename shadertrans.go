// Package shadertrans exposes a shading-language compiler through three
// thin transports: a persistent line-delimited JSON-RPC loop over standard
// streams, a one-shot embedding call for host processes, and a batch
// command-line mode.
//
// The package owns no translation logic. Compilation is delegated to an
// opaque collaborator (see the compiler package); the default collaborator
// is the naga-backed engine, which accepts WGSL source and emits
// ESSL/GLSL/HLSL/MSL text or SPIR-V binaries.
//
// Streaming use:
//
//	srv := shadertrans.NewServer()
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// Embedded use:
//
//	if err := shadertrans.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	defer shadertrans.Finalize()
//	response := shadertrans.Invoke(`{"jsonrpc":"2.0","id":1,"method":"translate","params":{...}}`)
package shadertrans

import (
	"github.com/gogpu/shadertrans/engine"
	"github.com/gogpu/shadertrans/rpc"
)

// NewServer returns a streaming-protocol server backed by the default
// engine. The server is single-threaded; see rpc.Server.
func NewServer() *rpc.Server {
	return &rpc.Server{Compiler: engine.New()}
}
