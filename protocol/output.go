// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package protocol

import (
	"sort"
	"strings"

	"github.com/gogpu/shadertrans/compiler"
)

// outputRule is one entry in the output-target grammar: a type prefix plus
// that prefix's own suffix-parsing rule. A nil suffix rule means the prefix
// takes no suffix.
type outputRule struct {
	suffix func(string) (compiler.Output, bool)
	bare   compiler.Output
}

var outputRules = map[string]outputRule{
	"essl":  {bare: compiler.OutputESSL},
	"spirv": {bare: compiler.OutputSPIRV},
	"msl":   {bare: compiler.OutputMSL},
	"glsl":  {suffix: compiler.GLSLOutputForVersion},
	"hlsl":  {suffix: hlslOutputForVersion},
}

func hlslOutputForVersion(num string) (compiler.Output, bool) {
	switch num {
	case "9":
		return compiler.OutputHLSL9, true
	case "11":
		return compiler.OutputHLSL11, true
	}
	return 0, false
}

// longestPrefixes is the rule table's keys, longest first, so a compound
// string always matches its full type prefix.
var longestPrefixes = func() []string {
	keys := make([]string, 0, len(outputRules))
	for k := range outputRules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}()

// ParseOutput parses a compound output-target string: a type prefix with an
// optional numeric suffix, e.g. "essl", "glsl330", "hlsl11". The error
// identifies whether the prefix or the suffix was at fault.
func ParseOutput(s string) (compiler.Output, *ErrorPayload) {
	for _, prefix := range longestPrefixes {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		rule := outputRules[prefix]
		suffix := s[len(prefix):]
		if rule.suffix == nil {
			if suffix != "" {
				return 0, InvalidParams("Unsupported 'output' type: %s", s)
			}
			return rule.bare, nil
		}
		out, ok := rule.suffix(suffix)
		if !ok {
			return 0, InvalidParams("Unsupported 'output' %s version: %s", strings.ToUpper(prefix), suffix)
		}
		return out, nil
	}
	return 0, InvalidParams("Unsupported 'output' type: %s", s)
}
