package shadertrans

import (
	"encoding/json"
	"errors"

	"github.com/gogpu/shadertrans/compiler"
	"github.com/gogpu/shadertrans/engine"
	"github.com/gogpu/shadertrans/rpc"
)

// Embedder is the embedding transport: one request string in, one response
// string out, with the same validation and error taxonomy as the streaming
// loop but no loop.
//
// The response is staged in a single slot owned by the Embedder and remains
// valid until the next Invoke replaces it. Calls must not overlap: only one
// invocation may be outstanding at a time.
type Embedder struct {
	server *rpc.Server
	slot   []byte
}

// NewEmbedder returns an embedding adapter over the given compiler.
func NewEmbedder(c compiler.Compiler) *Embedder {
	return &Embedder{server: &rpc.Server{Compiler: c}}
}

// Invoke handles one encoded request and returns the encoded response. A
// shutdown request is acknowledged like any other; there is no loop to
// terminate.
func (e *Embedder) Invoke(request string) string {
	resp, _ := e.server.Dispatch([]byte(request))
	encoded, err := json.Marshal(resp)
	if err != nil {
		encoded = []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Failed to encode response."}}`)
	}
	e.slot = append(e.slot[:0], encoded...)
	return string(e.slot)
}

// Package-level embedding surface. Initialize and Finalize must each be
// called exactly once around any sequence of Invoke calls.

var defaultEmbedder *Embedder

// ErrAlreadyInitialized is returned by a second Initialize without an
// intervening Finalize.
var ErrAlreadyInitialized = errors.New("shadertrans: already initialized")

// Initialize sets up the default engine-backed embedder.
func Initialize() error {
	if defaultEmbedder != nil {
		return ErrAlreadyInitialized
	}
	defaultEmbedder = NewEmbedder(engine.New())
	return nil
}

// Invoke handles one request through the default embedder. Calling Invoke
// before Initialize (or after Finalize) yields an internal-error response
// rather than a panic.
func Invoke(request string) string {
	if defaultEmbedder == nil {
		return `{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Translator not initialized."}}`
	}
	return defaultEmbedder.Invoke(request)
}

// Finalize releases the default embedder.
func Finalize() {
	defaultEmbedder = nil
}
