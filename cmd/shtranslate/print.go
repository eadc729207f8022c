package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/shadertrans/compiler"
)

// printActiveVariables writes the reflection tree in the historical
// human-readable format, one category at a time.
func printActiveVariables(w io.Writer, vars *compiler.ActiveVariables) {
	if vars == nil {
		return
	}
	categories := []struct {
		prefix string
		list   []compiler.ShaderVariable
	}{
		{"attribute", vars.Attributes},
		{"input varying", vars.InputVaryings},
		{"output varying", vars.OutputVaryings},
		{"output variable", vars.OutputVariables},
		{"uniform", vars.Uniforms},
	}
	for _, cat := range categories {
		for i := range cat.list {
			printVariable(w, cat.prefix, i, &cat.list[i])
		}
	}
	for i := range vars.UniformBlocks {
		printBlock(w, "uniform block", i, &vars.UniformBlocks[i])
	}
	for i := range vars.StorageBlocks {
		printBlock(w, "storage block", i, &vars.StorageBlocks[i])
	}
}

func printVariable(w io.Writer, prefix string, index int, v *compiler.ShaderVariable) {
	fmt.Fprintf(w, "%s %d : name=%s, mappedName=%s, type=0x%04X, arraySizes=", prefix, index, v.Name, v.MappedName, v.Type)
	for _, size := range v.ArraySizes {
		fmt.Fprintf(w, "%d ", size)
	}
	fmt.Fprintln(w)
	if len(v.Fields) > 0 {
		pad := strings.Repeat(" ", len(prefix))
		fmt.Fprintf(w, "%s  struct %s\n", pad, v.StructOrBlockName)
		for i := range v.Fields {
			printVariable(w, pad+"    field", i, &v.Fields[i])
		}
	}
}

func printBlock(w io.Writer, prefix string, index int, b *compiler.InterfaceBlock) {
	fmt.Fprintf(w, "%s %d : name=%s, mappedName=%s, instanceName=%s, layout=%s\n",
		prefix, index, b.Name, b.MappedName, b.InstanceName, b.Layout)
	for i := range b.Fields {
		printVariable(w, "    field", i, &b.Fields[i])
	}
}
