// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compiler

// Session owns one constructed compiler handle and guarantees its release.
//
// Every successful Open must be paired with Close on every exit path,
// including after a failed Compile. Close is idempotent so it is safe to
// defer immediately after Open.
type Session struct {
	compiler Compiler
	handle   Handle
	closed   bool
}

// Open constructs a compiler instance for the given tuple. The returned
// session owns the handle exclusively.
func Open(c Compiler, stage Stage, spec Spec, output Output, resources *Resources) (*Session, error) {
	h, err := c.Construct(stage, spec, output, resources)
	if err != nil {
		return nil, &ConstructError{Stage: stage, Reason: err}
	}
	return &Session{compiler: c, handle: h}, nil
}

// Compile submits source as a single chunk. A false return is a normal
// business outcome, not a transport error; diagnostics are in InfoLog.
func (s *Session) Compile(source string, opts CompileOptions) bool {
	return s.compiler.Compile(s.handle, []string{source}, opts)
}

// InfoLog returns the diagnostics of the most recent compile.
func (s *Session) InfoLog() string {
	return s.compiler.InfoLog(s.handle)
}

// ObjectCode returns translated source text for text output targets.
func (s *Session) ObjectCode() string {
	return s.compiler.ObjectCode(s.handle)
}

// ObjectBinary returns the binary blob for binary output targets.
func (s *Session) ObjectBinary() []byte {
	return s.compiler.ObjectBinary(s.handle)
}

// ActiveVariables returns the reflection tree of the most recent successful
// compile, or nil.
func (s *Session) ActiveVariables() *ActiveVariables {
	return s.compiler.ActiveVariables(s.handle)
}

// Close destructs the underlying handle. Calling Close more than once is a
// no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.compiler.Destruct(s.handle)
	s.handle = nil
}
